package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/report"
)

func sampleResults() []report.Result {
	failing := &compliance.Report{Standard: "PDF/A-2b"}
	failing.Add(compliance.Violation{Code: "FNT001", Description: "The font F1 is not embedded", Location: "page 1 font F1"})
	failing.Add(compliance.Violation{Code: "MET007", Description: "Title | differs", Severity: compliance.SeverityWarning})
	return []report.Result{
		{File: "a.pdf", Level: "PDF/A-2b", Report: failing},
		{File: "b.pdf", Level: "PDF/A-2b", Report: &compliance.Report{Compliant: true}, Enforced: true},
		{File: "c.pdf", Level: "PDF/A-2b", Err: errors.New("loader: not a PDF file")},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatText, sampleResults()))
	out := buf.String()
	assert.Contains(t, out, "a.pdf: FAIL PDF/A-2b\n")
	assert.Contains(t, out, "  [error] FNT001 The font F1 is not embedded (page 1 font F1)\n")
	assert.Contains(t, out, "  [warning] MET007")
	assert.Contains(t, out, "b.pdf: PASS PDF/A-2b (after repair)\n")
	assert.Contains(t, out, "c.pdf: ERROR PDF/A-2b\n  loader: not a PDF file\n")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatJSON, sampleResults()))

	var got []struct {
		File       string `json:"file"`
		Status     string `json:"status"`
		Error      string `json:"error"`
		Violations []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "FAIL", got[0].Status)
	require.Len(t, got[0].Violations, 2)
	assert.Equal(t, "FNT001", got[0].Violations[0].Code)
	assert.Equal(t, "warning", got[0].Violations[1].Severity)
	assert.Equal(t, "PASS", got[1].Status)
	assert.Empty(t, got[1].Violations)
	assert.Equal(t, "loader: not a PDF file", got[2].Error)
}

func TestMarkdownEscapesCells(t *testing.T) {
	md := string(report.Markdown(sampleResults()))
	assert.Contains(t, md, "| FNT001 | error | The font F1 is not embedded | page 1 font F1 |")
	assert.Contains(t, md, `Title \| differs`)
	assert.Contains(t, md, "**PASS** against PDF/A-2b, after repair")
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.FormatHTML, sampleResults()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>FNT001</td>")
	assert.Contains(t, out, "<h2>a.pdf</h2>")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := report.Render(&bytes.Buffer{}, "yaml", nil)
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestResultPassed(t *testing.T) {
	rs := sampleResults()
	assert.False(t, rs[0].Passed())
	assert.True(t, rs[1].Passed())
	assert.False(t, rs[2].Passed())
}
