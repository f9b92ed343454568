// ABOUTME: Package documentation for the query package
// ABOUTME: Explains the allow-list pipeline model and its guarantees

// Package query turns declarative list-request parameters (filters, sorts,
// includes, page) into bounded, deterministic SQL fragments.
//
// Each resource collection declares a Definition: the closed set of filter,
// sort, and include tokens it accepts, a default sort, and a fixed page size.
// Parse validates raw URL values against that table and rejects anything
// outside it with a ValidationError rather than silently dropping it.
//
// The pipeline never interpolates caller text into SQL. Tokens resolve to
// column names through the Definition only, and filter values bind as
// placeholder arguments. Ordering is always made deterministic by appending
// the primary key ascending as a final tie-break, so concatenating pages
// yields the same sequence an unpaged query would produce.
package query
