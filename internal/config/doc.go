// ABOUTME: Package documentation for the config package
// ABOUTME: Describes YAML loading with environment expansion

// Package config loads taskhub configuration from YAML files.
//
// Configuration files support ${VAR_NAME} environment variable expansion in
// any value, which keeps secrets like database paths out of checked-in files.
// Load validates required fields and returns a descriptive error for the
// first problem found.
package config
