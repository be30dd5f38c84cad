package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/secnum/internal/numbering"
	"git.home.luguber.info/inful/secnum/internal/preprocessor"
)

// RunCmd implements the default command: one mdBook preprocessor exchange.
type RunCmd struct {
	MaxDepth        int    `name:"max-depth" help:"Deepest heading level to number (overrides book.toml)"`
	ChapterLabel    string `name:"chapter-label" help:"Label of top-level headings, as in 'Chapter 2: ' (overrides book.toml)"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write run metrics to this file in Prometheus text format"`
}

func (r *RunCmd) Run(g *Global) error {
	cfg, err := g.RequireConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec, flush := metricsSink(firstNonEmpty(r.MetricsTextfile, cfg.Metrics.Textfile), g.Logger)
	defer flush()

	p := preprocessor.New(cfg.NumberingOptions(),
		preprocessor.WithOverride(numbering.Options{MaxDepth: r.MaxDepth, ChapterLabel: r.ChapterLabel}),
		preprocessor.WithRecorder(rec),
		preprocessor.WithLogger(g.Logger))

	_, err = p.Handle(ctx, g.Stdin, g.Stdout)
	return err
}
