// ABOUTME: Package documentation for the api package
// ABOUTME: Describes the controller call sequence and response envelopes

// Package api implements taskhub's HTTP/JSON surface.
//
// Handlers are thin orchestrators with a fixed call sequence: decode and
// validate the request shape, look up the addressed resource (explicit
// lookup-or-404, never implicit binding), check the ownership guard, invoke
// persistence, serialize. Identity always arrives through the request
// context set by the auth middleware.
//
// Response envelopes:
//
//   - collections: {"data": [...], "meta": {current_page, per_page, total, last_page}}
//   - single resources: {"data": {...}}
//   - validation failures: 422 {"message": ..., "errors": {field: [...]}}
//   - auth failures: 401 {"message": ...}
//   - missing or unowned resources: 404 {"message": "Not found."}
//
// Mutations on resources owned by someone else return 404 rather than 403 so
// the existence of another tenant's resources never leaks.
package api
