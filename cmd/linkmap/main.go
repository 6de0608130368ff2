// Command linkmap aggregates a connections export by country from the command line
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"linkmap/internal/core/ingest"
	"linkmap/internal/core/render"
	modkit "linkmap/internal/modkit"
	"linkmap/internal/modkit/module"
	"linkmap/internal/platform/config"
	"linkmap/internal/platform/logger"
	"linkmap/internal/services/api/connections/domain"
	connmod "linkmap/internal/services/api/connections/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	in        string
	out       string
	format    string
	delimiter string
	top       int
	known     bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("linkmap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "connections export (csv or xlsx), - reads stdin")
	fs.StringVar(&o.out, "out", "", "output file, stdout when empty")
	fs.StringVar(&o.format, "format", string(render.FormatTable), "table, csv, json, xlsx or png")
	fs.StringVar(&o.delimiter, "delimiter", "auto", "auto, comma, semicolon, tab or pipe")
	fs.IntVar(&o.top, "top", render.DefaultTop, "bars in the png chart")
	fs.BoolVar(&o.known, "known", false, "leave Unknown out of the chart")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" && fs.NArg() > 0 {
		o.in = fs.Arg(0)
	}
	if o.in == "" {
		return o, errors.New("missing -in")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger.Init(logger.Options{Level: "warn", Format: "console", Writer: stderr, Service: "linkmap"})

	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "linkmap:", err)
		return 2
	}
	if err := analyze(ctx, o, stdin, stdout); err != nil {
		fmt.Fprintln(stderr, "linkmap:", err)
		return 1
	}
	return 0
}

func analyze(ctx context.Context, o options, stdin io.Reader, stdout io.Writer) error {
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}
	delim, err := ingest.ParseDelimiter(o.delimiter)
	if err != nil {
		return err
	}

	data, err := readInput(o.in, stdin)
	if err != nil {
		return err
	}

	mod := connmod.New(modkit.Deps{Cfg: config.New()})
	svc := module.MustPortsOf[domain.ServicePort](mod)

	rep, err := svc.Analyze(ctx, domain.Upload{Name: o.in, Data: data, Delimiter: delim})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := svc.Render(&buf, rep, domain.RenderOptions{Format: format, Top: o.top, Known: o.known}); err != nil {
		return err
	}
	if o.out == "" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(o.out, buf.Bytes(), 0o644)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
