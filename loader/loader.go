// Package loader reads PDF files with pdfcpu and builds the semantic model
// the compliance checkers work on.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/observability"
	"github.com/wudi/pdfakit/xmp"
)

// ErrNotPDF is returned for input that does not start with a PDF header.
var ErrNotPDF = errors.New("loader: not a PDF file")

// Error describes a failed load.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("loader: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("loader: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures loading.
type Options struct {
	// Password opens encrypted files. Files encrypted with an empty user
	// password open without one.
	Password string
	Logger   observability.Logger
	Tracer   observability.Tracer
}

func (o Options) tracer() observability.Tracer {
	if o.Tracer == nil {
		return observability.NopTracer()
	}
	return o.Tracer
}

func (o Options) logger() observability.Logger {
	if o.Logger == nil {
		return observability.NopLogger{}
	}
	return o.Logger
}

var disableConfigDir sync.Once

func configuration(password string) *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.UserPW = password
	conf.OwnerPW = password
	return conf
}

// LoadFile reads the PDF at path.
func LoadFile(ctx context.Context, path string, opts Options) (*semantic.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	doc, err := Load(ctx, f, opts)
	var le *Error
	if errors.As(err, &le) && le.Path == "" {
		le.Path = path
	}
	return doc, err
}

// Load reads a PDF from r.
func Load(ctx context.Context, r io.ReadSeeker, opts Options) (*semantic.Document, error) {
	ctx, span := opts.tracer().StartSpan(ctx, observability.SpanLoad)
	defer span.Finish()
	doc, err := load(ctx, r, opts)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag(observability.TagPages, len(doc.Pages))
	return doc, nil
}

func load(ctx context.Context, r io.ReadSeeker, opts Options) (*semantic.Document, error) {
	log := opts.logger()
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &Error{Op: "seek", Err: err}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Op: "seek", Err: err}
	}
	head := make([]byte, 1024)
	n, _ := io.ReadFull(r, head)
	at := bytes.Index(head[:n], []byte("%PDF-"))
	if at < 0 {
		return nil, &Error{Op: "read", Err: ErrNotPDF}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Op: "seek", Err: err}
	}

	pdf, err := api.ReadContext(r, configuration(opts.Password))
	if err != nil {
		return nil, &Error{Op: "read", Err: err}
	}
	if err := pdf.EnsurePageCount(); err != nil {
		return nil, &Error{Op: "page count", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "read", Err: err}
	}

	b := newBuilder(pdf, log)
	doc, err := b.document(ctx)
	if err != nil {
		return nil, &Error{Op: "build", Err: err}
	}
	doc.Trailer.FileSize = size
	doc.Trailer.Version = headerVersion(head[at:n])
	if doc.Encrypted {
		doc.UserPassword = opts.Password
	}
	log.Debug("document loaded",
		observability.Int("pages", len(doc.Pages)),
		observability.String("version", doc.Trailer.Version.String()),
		observability.Bool("encrypted", doc.Encrypted))
	return doc, nil
}

// headerVersion reads the version from a "%PDF-x.y" header line.
func headerVersion(head []byte) raw.Version {
	line := head[len("%PDF-"):]
	if i := bytes.IndexAny(line, "\r\n \t%"); i >= 0 {
		line = line[:i]
	}
	v, err := raw.ParseVersion(string(line))
	if err != nil {
		return raw.Version{}
	}
	return v
}

// ProbePDFA returns the PDF/A part declared in the XMP metadata of a PDF
// held in memory, or 0 when the data is not a PDF/A file. It matches
// pdfa.PayloadInspector.
func ProbePDFA(data []byte) (int, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("%PDF-")) {
		return 0, nil
	}
	pdf, err := api.ReadContext(bytes.NewReader(data), configuration(""))
	if err != nil {
		return 0, &Error{Op: "probe", Err: err}
	}
	b := newBuilder(pdf, observability.NopLogger{})
	cat, err := pdf.Catalog()
	if err != nil {
		return 0, &Error{Op: "probe", Err: err}
	}
	md := b.metadata(cat["Metadata"])
	if md == nil {
		return 0, nil
	}
	m, err := xmp.Parse(md.Raw)
	if err != nil {
		return 0, nil
	}
	return m.Part, nil
}
