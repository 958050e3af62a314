// Package report renders conformance results as plain text, JSON, Markdown
// or HTML.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wudi/pdfakit/compliance"
)

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown, FormatHTML}

// ErrUnknownFormat is returned by Render for an unsupported format.
var ErrUnknownFormat = errors.New("report: unknown format")

// Result is the outcome of checking one file.
type Result struct {
	File     string
	Level    string
	Enforced bool
	Report   *compliance.Report
	Err      error // load or check failure; Report is nil when set
}

// Passed reports whether the file was checked and found compliant.
func (r Result) Passed() bool {
	return r.Err == nil && r.Report != nil && r.Report.Errors() == 0
}

// Render writes results to w in the given format.
func Render(w io.Writer, format string, results []Result) error {
	switch format {
	case FormatText, "":
		return renderText(w, results)
	case FormatJSON:
		return renderJSON(w, results)
	case FormatMarkdown:
		_, err := w.Write(Markdown(results))
		return err
	case FormatHTML:
		return renderHTML(w, results)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func status(r Result) string {
	switch {
	case r.Err != nil:
		return "ERROR"
	case r.Passed():
		return "PASS"
	}
	return "FAIL"
}

func renderText(w io.Writer, results []Result) error {
	var b bytes.Buffer
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %s %s", r.File, status(r), r.Level)
		if r.Enforced {
			b.WriteString(" (after repair)")
		}
		b.WriteByte('\n')
		if r.Err != nil {
			fmt.Fprintf(&b, "  %v\n", r.Err)
			continue
		}
		for _, v := range r.Report.Violations {
			fmt.Fprintf(&b, "  [%s] %s %s", v.Severity, v.Code, v.Description)
			if v.Location != "" {
				fmt.Fprintf(&b, " (%s)", v.Location)
			}
			b.WriteByte('\n')
		}
	}
	_, err := w.Write(b.Bytes())
	return err
}

type jsonViolation struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Severity    string `json:"severity"`
}

type jsonResult struct {
	File       string          `json:"file"`
	Level      string          `json:"level"`
	Status     string          `json:"status"`
	Enforced   bool            `json:"enforced,omitempty"`
	Error      string          `json:"error,omitempty"`
	Violations []jsonViolation `json:"violations"`
}

func renderJSON(w io.Writer, results []Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{File: r.File, Level: r.Level, Status: status(r), Enforced: r.Enforced, Violations: []jsonViolation{}}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			for _, v := range r.Report.Violations {
				jr.Violations = append(jr.Violations, jsonViolation{
					Code:        v.Code,
					Description: v.Description,
					Location:    v.Location,
					Severity:    v.Severity.String(),
				})
			}
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Markdown returns results as a Markdown document with one table per file.
func Markdown(results []Result) []byte {
	var b bytes.Buffer
	b.WriteString("# PDF/A conformance report\n")
	for _, r := range results {
		fmt.Fprintf(&b, "\n## %s\n\n", cell(r.File))
		fmt.Fprintf(&b, "**%s** against %s", status(r), r.Level)
		if r.Enforced {
			b.WriteString(", after repair")
		}
		b.WriteString("\n")
		if r.Err != nil {
			fmt.Fprintf(&b, "\n> %s\n", cell(r.Err.Error()))
			continue
		}
		if len(r.Report.Violations) == 0 {
			continue
		}
		b.WriteString("\n| Code | Severity | Description | Location |\n|---|---|---|---|\n")
		for _, v := range r.Report.Violations {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", v.Code, v.Severity, cell(v.Description), cell(v.Location))
		}
	}
	return b.Bytes()
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`", `<`, "&lt;").Replace(s)
}

func renderHTML(w io.Writer, results []Result) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert(Markdown(results), &body); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>PDF/A conformance report</title></head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	_, err := w.Write(b.Bytes())
	return err
}
