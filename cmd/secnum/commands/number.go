package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/secnum/internal/files"
	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/logfields"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

// NumberCmd numbers Markdown files on disk.
type NumberCmd struct {
	Path            string `arg:"" help:"Markdown file or directory"`
	Start           string `help:"Starting section number, e.g. 2.1 (overrides frontmatter)"`
	Out             string `short:"o" help:"Write results here instead of rewriting in place"`
	DryRun          bool   `name:"dry-run" help:"Print the numbers that would be assigned without writing"`
	Watch           bool   `short:"w" help:"Keep running and renumber into --out whenever a file changes"`
	MaxDepth        int    `name:"max-depth" help:"Deepest heading level to number"`
	ChapterLabel    string `name:"chapter-label" help:"Label of top-level headings"`
	Fingerprint     bool   `help:"Refresh content fingerprints of numbered files"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write run metrics to this file in Prometheus text format"`
}

func (n *NumberCmd) Run(g *Global) error {
	cfg, err := g.RequireConfig()
	if err != nil {
		return err
	}

	numOpts := cfg.NumberingOptions()
	if n.MaxDepth != 0 {
		numOpts.MaxDepth = n.MaxDepth
	}
	if n.ChapterLabel != "" {
		numOpts.ChapterLabel = n.ChapterLabel
	}
	if err := numOpts.Validate(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid numbering options").Build()
	}

	start, err := files.ParseStart(n.Start)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid --start").Build()
	}
	if n.Watch && n.DryRun {
		return ferrors.ValidationError("--watch cannot be combined with --dry-run").Build()
	}

	rec, flush := metricsSink(firstNonEmpty(n.MetricsTextfile, cfg.Metrics.Textfile), g.Logger)
	defer flush()

	numberer := files.New(numOpts, files.Options{
		Start:       start,
		StartKey:    cfg.Files.StartKey,
		Fingerprint: n.Fingerprint || cfg.Files.Fingerprint,
		DryRun:      n.DryRun,
	}, files.WithRecorder(rec), files.WithLogger(g.Logger))

	info, err := os.Stat(n.Path)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "path does not exist").
			WithContext("path", n.Path).
			Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if n.Watch {
		if !info.IsDir() {
			return ferrors.ValidationError("--watch requires a directory").WithContext("path", n.Path).Build()
		}
		g.Logger.Info("Watching for changes", logfields.Path(n.Path), "out", n.Out)
		return numberer.Watch(ctx, n.Path, n.Out, func(_ files.TreeReport, err error) {
			if err != nil {
				g.Logger.Error("Renumbering failed", logfields.Error(err))
			}
		})
	}

	if !info.IsDir() {
		res, err := numberer.NumberFile(n.Path, fileDest(n.Path, n.Out))
		if err != nil {
			return err
		}
		if n.DryRun {
			printResults(g.Stdout, []files.Result{res})
		}
		return nil
	}

	report, err := numberer.NumberTree(ctx, n.Path, n.Out)
	if err != nil {
		return err
	}
	if n.DryRun {
		printResults(g.Stdout, report.Results)
	}
	if report.Failed > 0 {
		return ferrors.ProcessingError("some files could not be numbered").
			WithContext("failed", report.Failed).
			Build()
	}
	return nil
}

// fileDest maps a single input file to its output path. An existing
// directory as out receives the file under its own name.
func fileDest(path, out string) string {
	if out == "" {
		return path
	}
	if st, err := os.Stat(out); err == nil && st.IsDir() {
		return filepath.Join(out, filepath.Base(path))
	}
	return out
}

func printResults(w io.Writer, results []files.Result) {
	for _, res := range results {
		if res.Skipped() {
			_, _ = fmt.Fprintf(w, "%s: no starting section number\n", res.Path)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s:\n", res.Path)
		for _, a := range res.Headings {
			_, _ = fmt.Fprintf(w, "  %s %s\n", strings.Repeat("#", a.Level), displayNumber(a))
		}
	}
}

func displayNumber(a numbering.Assignment) string {
	if a.Number == "" {
		return "(unnumbered)"
	}
	return strings.TrimSpace(a.Number)
}
