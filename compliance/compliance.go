package compliance

import (
	"context"
	"sort"

	"github.com/wudi/pdfakit/ir/semantic"
)

// Context is an alias for context.Context to allow for future expansion.
type Context = context.Context

// Severity grades a violation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Violation represents a compliance violation.
type Violation struct {
	Code        string
	Description string
	Location    string
	Severity    Severity
}

// Report details compliance status.
type Report struct {
	Compliant  bool
	Standard   string // e.g., "PDF/A-1b", "PDF/X-4"
	Violations []Violation
}

// Add appends v and keeps Compliant in sync.
func (r *Report) Add(v Violation) {
	r.Violations = append(r.Violations, v)
	if v.Severity == SeverityError {
		r.Compliant = false
	}
}

// Has reports whether a violation with the given code was recorded.
func (r *Report) Has(code string) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the distinct violation codes in sorted order.
func (r *Report) Codes() []string {
	seen := make(map[string]bool, len(r.Violations))
	var out []string
	for _, v := range r.Violations {
		if !seen[v.Code] {
			seen[v.Code] = true
			out = append(out, v.Code)
		}
	}
	sort.Strings(out)
	return out
}

// Errors returns the number of error-severity violations.
func (r *Report) Errors() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Err returns the first error-severity violation as a *ConformanceError, or nil.
func (r *Report) Err() error {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return NewConformanceError(v)
		}
	}
	return nil
}

// Validator checks document compliance against a standard.
type Validator interface {
	Validate(ctx Context, doc *semantic.Document) (*Report, error)
}
