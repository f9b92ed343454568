// ABOUTME: Declarative list-query pipeline with per-resource allow-lists
// ABOUTME: Parses filter/sort/include/page params and builds bounded SQL fragments

package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the fixed number of rows per page when a definition
// doesn't override it.
const DefaultPageSize = 15

// ValidationError reports a query parameter that failed allow-list or shape
// validation. Handlers surface it as a 422 response; unknown tokens are never
// silently ignored since that hides client bugs.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query parameter %s: %s", e.Param, e.Message)
}

// Filter is a single conjunctive equality predicate on an allow-listed field.
// Value is already converted to its SQL representation and is only ever bound
// as a placeholder argument.
type Filter struct {
	Field string
	Value any
}

// Sort is one ordering key. Field is the allow-list token, not a column name.
type Sort struct {
	Field string
	Desc  bool
}

// Params is a parsed, validated query description. It is inert data: every
// field token in it has already passed the definition's allow-list.
type Params struct {
	Filters  []Filter
	Sorts    []Sort
	Includes []string
	Page     int
	PerPage  int
}

// HasInclude reports whether the named relation was requested.
func (p *Params) HasInclude(name string) bool {
	for _, inc := range p.Includes {
		if inc == name {
			return true
		}
	}
	return false
}

// FilterField describes one allow-listed filter token.
type FilterField struct {
	Column  string
	Boolean bool // value must parse as a boolean and binds as 0/1
}

// Definition is the closed allow-list table for one resource collection.
// Tokens map to column names here and nowhere else, so no caller-supplied
// text ever reaches the SQL surface.
type Definition struct {
	Filters     map[string]FilterField
	Sorts       map[string]string // token -> column
	Includes    []string
	DefaultSort Sort // applied when the request names no sort
	PageSize    int
}

func (d *Definition) pageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return DefaultPageSize
}

func (d *Definition) allowsInclude(name string) bool {
	for _, inc := range d.Includes {
		if inc == name {
			return true
		}
	}
	return false
}

// Parse validates URL query values against the definition and returns the
// parsed Params. Any filter/sort/include token outside the allow-list yields
// a *ValidationError.
func (d *Definition) Parse(values url.Values) (*Params, error) {
	params := &Params{Page: 1, PerPage: d.pageSize()}

	for key, raw := range values {
		switch {
		case key == "page":
			page, err := strconv.Atoi(raw[len(raw)-1])
			if err != nil || page < 1 {
				return nil, &ValidationError{Param: "page", Message: "must be a positive integer"}
			}
			params.Page = page

		case key == "sort":
			for _, part := range splitList(raw) {
				token := part
				desc := false
				if strings.HasPrefix(token, "-") {
					token = strings.TrimPrefix(token, "-")
					desc = true
				}
				if _, ok := d.Sorts[token]; !ok {
					return nil, &ValidationError{Param: "sort", Message: fmt.Sprintf("sort %q is not allowed", token)}
				}
				params.Sorts = append(params.Sorts, Sort{Field: token, Desc: desc})
			}

		case key == "include":
			for _, name := range splitList(raw) {
				if !d.allowsInclude(name) {
					return nil, &ValidationError{Param: "include", Message: fmt.Sprintf("include %q is not allowed", name)}
				}
				params.Includes = append(params.Includes, name)
			}

		case strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]"):
			token := key[len("filter[") : len(key)-1]
			field, ok := d.Filters[token]
			if !ok {
				return nil, &ValidationError{Param: key, Message: fmt.Sprintf("filter %q is not allowed", token)}
			}
			value, err := field.convert(raw[len(raw)-1])
			if err != nil {
				return nil, &ValidationError{Param: key, Message: err.Error()}
			}
			params.Filters = append(params.Filters, Filter{Field: token, Value: value})
		}
	}

	return params, nil
}

// convert turns the raw query string value into its SQL bind representation.
func (f FilterField) convert(raw string) (any, error) {
	if !f.Boolean {
		return raw, nil
	}
	switch raw {
	case "true", "1":
		return 1, nil
	case "false", "0":
		return 0, nil
	default:
		return nil, fmt.Errorf("must be a boolean (true/false/1/0)")
	}
}

// Where builds the conjunctive WHERE clause body and its bind arguments.
// Returns an empty string when no filters apply. extra predicates (already
// trusted SQL owned by the store) are ANDed in front of the filter predicates.
func (d *Definition) Where(p *Params, extra string, extraArgs ...any) (string, []any) {
	var predicates []string
	var args []any

	if extra != "" {
		predicates = append(predicates, extra)
		args = append(args, extraArgs...)
	}
	for _, f := range p.Filters {
		predicates = append(predicates, d.Filters[f.Field].Column+" = ?")
		args = append(args, f.Value)
	}

	if len(predicates) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(predicates, " AND "), args
}

// OrderBy builds the ORDER BY clause. Sort keys apply in the order given,
// falling back to the definition's default when none were requested. The
// primary key ascending is always appended as the final tie-break so paging
// is deterministic even when every explicit key ties.
func (d *Definition) OrderBy(p *Params) string {
	sorts := p.Sorts
	if len(sorts) == 0 && d.DefaultSort.Field != "" {
		sorts = []Sort{d.DefaultSort}
	}

	var keys []string
	for _, s := range sorts {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		keys = append(keys, d.Sorts[s.Field]+" "+dir)
	}
	keys = append(keys, "id ASC")

	return "ORDER BY " + strings.Join(keys, ", ")
}

// LimitOffset returns the LIMIT/OFFSET bounds for the requested page.
func (p *Params) LimitOffset() (limit, offset int) {
	return p.PerPage, (p.Page - 1) * p.PerPage
}

// Meta is pagination metadata for a result page. The JSON shape matches the
// envelope the API emits alongside the data slice.
type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// Meta computes pagination metadata from the total row count for the same
// WHERE clause the slice query used.
func (p *Params) Meta(total int) Meta {
	lastPage := (total + p.PerPage - 1) / p.PerPage
	if lastPage < 1 {
		lastPage = 1
	}
	return Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// splitList flattens repeated and comma-separated parameter values into
// individual trimmed tokens.
func splitList(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
