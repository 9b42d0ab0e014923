// Package main prints the dashboard summaries for a selection as terminal
// tables or JSON, without starting a server.
//
// Usage:
//
//	report [-platform NAME]... [-type NAME]... [-format table|json] [-- config flags]
//
// Config flags after "--" are the dashboard server's (-data-dir, -genre-map, ...).
// An omitted -platform or -type selects everything; -platform "" selects none.
package main

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/config"
	"github.com/streamdash/streamdash-server/internal/di/providers"
	"github.com/streamdash/streamdash-server/internal/logger"
	"github.com/streamdash/streamdash-server/internal/present"
	"github.com/streamdash/streamdash-server/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var sel catalog.Selection
	fs.Func("platform", "Platform to include (repeatable)", selectionFlag(&sel.Platforms))
	fs.Func("type", "Title type to include (repeatable)", selectionFlag(&sel.Types))
	format := fs.String("format", "table", "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "table" && *format != "json" {
		return fmt.Errorf("unknown format %q", *format)
	}

	cfg, err := config.LoadConfig(fs.Args())
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Writer:      stderr,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	translator, err := providers.LoadTranslator(cfg, log)
	if err != nil {
		return err
	}
	c, err := catalog.Load(ctx, providers.Sources(cfg), translator, log)
	if err != nil {
		return err
	}

	dashboard, err := service.NewDashboardService(c, log.Logger)
	if err != nil {
		return err
	}
	render, err := dashboard.Render(ctx, sel)
	if err != nil {
		return err
	}

	if *format == "json" {
		return json.MarshalWrite(stdout, render, jsontext.WithIndent("  "))
	}
	return present.WriteTables(stdout, render.Summary)
}

// selectionFlag appends each non-empty value. A blank value still marks the
// set as present, which selects nothing.
func selectionFlag(dst *[]string) func(string) error {
	return func(v string) error {
		if *dst == nil {
			*dst = []string{}
		}
		if v != "" {
			*dst = append(*dst, v)
		}
		return nil
	}
}
