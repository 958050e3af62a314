// Command pdfacheck validates PDF files against a PDF/A conformance level.
//
// Exit status is 0 when every file conforms, 1 when a file does not conform
// or could not be read, and 2 on usage errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/compliance/pdfa"
	"github.com/wudi/pdfakit/compliance/pdfua"
	"github.com/wudi/pdfakit/internal/config"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/loader"
	"github.com/wudi/pdfakit/observability"
	"github.com/wudi/pdfakit/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "pdfacheck: %v\n", err)
		return 2
	}
	level, _ := cfg.ParsedLevel()
	log := observability.NewTextLogger(stderr, cfg.LogLevel, cfg.LogJSON)

	opts := []pdfa.Option{pdfa.WithLogger(log)}
	if cfg.Payloads {
		opts = append(opts, pdfa.WithPayloadInspector(loader.ProbePDFA))
	}
	c := checker{
		cfg:   cfg,
		level: level,
		pdfa:  pdfa.NewEnforcer(opts...),
		pdfua: pdfua.NewEnforcer(pdfua.WithLogger(log)),
		log:   log,
	}

	results := make([]report.Result, 0, len(cfg.Files))
	for _, file := range cfg.Files {
		results = append(results, c.checkFile(ctx, file)...)
		if ctx.Err() != nil {
			break
		}
	}

	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			fmt.Fprintf(stderr, "pdfacheck: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := report.Render(out, cfg.Format, results); err != nil {
		fmt.Fprintf(stderr, "pdfacheck: %v\n", err)
		return 1
	}
	for _, r := range results {
		if !r.Passed() {
			return 1
		}
	}
	return 0
}

type checker struct {
	cfg   *config.Config
	level pdfa.Level
	pdfa  pdfa.Enforcer
	pdfua pdfua.Enforcer
	log   observability.Logger
}

// checkFile returns the PDF/A result for file, followed by the PDF/UA
// result when accessibility checks are on.
func (c *checker) checkFile(ctx context.Context, file string) []report.Result {
	res := report.Result{File: file, Level: c.level.String(), Enforced: c.cfg.Enforce}
	log := c.log.With(observability.String("file", file))

	doc, err := loader.LoadFile(ctx, file, loader.Options{Password: c.cfg.Password, Logger: log})
	if err != nil {
		log.Warn("load failed", observability.Error("error", err))
		res.Err = err
		return []report.Result{res}
	}
	if c.cfg.Enforce {
		if err := c.pdfa.Enforce(ctx, doc, c.level); err != nil {
			res.Err = fmt.Errorf("repair: %w", err)
			return []report.Result{res}
		}
	}
	if c.cfg.FailFast {
		res.Report, res.Err = c.firstViolation(ctx, doc)
	} else {
		res.Report, res.Err = c.pdfa.Validate(ctx, doc, c.level)
	}
	out := []report.Result{res}
	if !c.cfg.UA {
		return out
	}

	ua := report.Result{File: file, Level: pdfua.PDFUA1.String(), Enforced: c.cfg.Enforce}
	if c.cfg.Enforce {
		if err := c.pdfua.Enforce(ctx, doc, pdfua.PDFUA1); err != nil {
			ua.Err = fmt.Errorf("repair: %w", err)
			return append(out, ua)
		}
	}
	ua.Report, ua.Err = c.pdfua.Validate(ctx, doc)
	return append(out, ua)
}

// firstViolation runs a fail-fast check and reports the violation it stops at.
func (c *checker) firstViolation(ctx context.Context, doc *semantic.Document) (*compliance.Report, error) {
	rep := &compliance.Report{Compliant: true, Standard: c.level.String()}
	err := c.pdfa.Check(ctx, doc, c.level)
	var ce *compliance.ConformanceError
	switch {
	case errors.As(err, &ce):
		rep.Add(compliance.Violation{Code: ce.Code, Description: ce.Message, Location: ce.Location})
	case err != nil:
		return nil, err
	}
	return rep, nil
}
