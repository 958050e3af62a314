// Command pdficc lists and extracts the ICC profiles of a PDF's output
// intents, or writes the built-in sRGB profile.
//
//	pdficc [-d dir] file.pdf
//	pdficc --srgb out.icc
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/wudi/pdfakit/cmm"
	"github.com/wudi/pdfakit/loader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("pdficc", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.StringP("dir", "d", "", "Write each profile to dir/intent-N.icc")
	srgb := fs.String("srgb", "", "Write the built-in sRGB profile to this file and exit")
	password := fs.String("password", "", "Password for encrypted files")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pdficc [options] file.pdf\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *srgb != "" {
		if err := os.WriteFile(*srgb, cmm.SRGBProfile(), 0o644); err != nil {
			fmt.Fprintf(stderr, "pdficc: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s: %s, %d bytes\n", *srgb, cmm.SRGBDescription(), len(cmm.SRGBProfile()))
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	doc, err := loader.LoadFile(ctx, fs.Arg(0), loader.Options{Password: *password})
	if err != nil {
		fmt.Fprintf(stderr, "pdficc: %v\n", err)
		return 1
	}
	if len(doc.OutputIntents) == 0 {
		fmt.Fprintln(stdout, "no output intents")
		return 0
	}
	for i, oi := range doc.OutputIntents {
		fmt.Fprintf(stdout, "intent %d: %s %q", i, oi.S, oi.OutputConditionIdentifier)
		if len(oi.DestOutputProfile) == 0 {
			fmt.Fprintln(stdout, ", no profile")
			continue
		}
		p, err := cmm.NewICCProfile(oi.DestOutputProfile)
		if err != nil {
			fmt.Fprintf(stdout, ", invalid profile: %v\n", err)
			continue
		}
		major, minor := p.Version()
		fmt.Fprintf(stdout, ", %s %s v%d.%d %q, %d bytes\n", p.Class(), p.ColorSpace(), major, minor, p.Name(), len(p.Data()))
		if *dir == "" {
			continue
		}
		path := filepath.Join(*dir, fmt.Sprintf("intent-%d.icc", i))
		if err := os.WriteFile(path, p.Data(), 0o644); err != nil {
			fmt.Fprintf(stderr, "pdficc: %v\n", err)
			return 1
		}
	}
	return 0
}
