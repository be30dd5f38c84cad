// Package commands implements the secnum command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/secnum/internal/config"
	"git.home.luguber.info/inful/secnum/internal/metrics"
)

// Global is the state shared by every command.
type Global struct {
	Logger     *slog.Logger
	Config     *config.Config
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer

	// configErr is the error from loading the configuration file, reported
	// by commands that need a configuration.
	configErr error
}

// RequireConfig returns the loaded configuration or the error that
// prevented loading it.
func (g *Global) RequireConfig() (*config.Config, error) {
	if g.configErr != nil {
		return nil, g.configErr
	}
	if g.Config == nil {
		return config.Default(), nil
	}
	return g.Config, nil
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:".secnum.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run      RunCmd      `cmd:"" default:"1" help:"Run as an mdBook preprocessor (book JSON on stdin, numbered book on stdout)"`
	Supports SupportsCmd `cmd:"" help:"Report whether a renderer is supported (called by mdBook)"`
	Number   NumberCmd   `cmd:"" help:"Number the headings of Markdown files on disk"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with every default"`
}

// AfterApply runs after flag parsing; load configuration and set up logging
// once. Logs go to stderr because stdout carries the mdBook protocol.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.Load(c.Config, c.Config == config.DefaultPath)
	if err != nil {
		g.configErr = err
		cfg = config.Default()
	}
	g.Config = cfg
	g.ConfigPath = c.Config
	g.Logger = cfg.Logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	if g.Stdin == nil {
		g.Stdin = os.Stdin
	}
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}
	return nil
}

// metricsSink creates a Prometheus recorder when a textfile path is set and
// returns a flush function that writes it. Without a path it returns the
// no-op recorder.
func metricsSink(path string, logger *slog.Logger) (metrics.Recorder, func()) {
	if path == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(nil)
	return rec, func() {
		if err := rec.WriteTextfile(path); err != nil {
			logger.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
