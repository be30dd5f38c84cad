package files

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/frontmatter"
	"git.home.luguber.info/inful/secnum/internal/logfields"
	"git.home.luguber.info/inful/secnum/internal/markdown"
	"git.home.luguber.info/inful/secnum/internal/metrics"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

// DefaultStartKey is the frontmatter field read when Options.StartKey is empty.
const DefaultStartKey = "section_number"

// Options controls how files are numbered.
type Options struct {
	// Start overrides the starting number of every file.
	Start []uint
	// StartKey is the frontmatter field holding a file's starting number.
	StartKey string
	// Fingerprint refreshes the mdfp content fingerprint of numbered files.
	Fingerprint bool
	// DryRun computes results without writing anything.
	DryRun bool
}

// Result describes one numbered file.
type Result struct {
	Path     string
	Dest     string
	Start    []uint
	Headings []numbering.Assignment
	Changed  bool
}

// Skipped reports whether the file had no starting number.
func (r Result) Skipped() bool {
	return len(r.Start) == 0
}

// Numberer numbers Markdown files.
type Numberer struct {
	engine   *numbering.Engine
	markdown markdown.Options
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
	debounce time.Duration
}

// Option configures a Numberer.
type Option func(*Numberer)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(n *Numberer) {
		if r != nil {
			n.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Numberer) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithDebounce sets how long Watch waits for changes to settle.
func WithDebounce(d time.Duration) Option {
	return func(n *Numberer) {
		if d > 0 {
			n.debounce = d
		}
	}
}

// New returns a Numberer using the given numbering policy.
func New(numOpts numbering.Options, opts Options, options ...Option) *Numberer {
	if opts.StartKey == "" {
		opts.StartKey = DefaultStartKey
	}
	n := &Numberer{
		engine:   numbering.NewEngine(numOpts),
		markdown: markdown.BookOptions(),
		opts:     opts,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		debounce: 300 * time.Millisecond,
	}
	for _, o := range options {
		o(n)
	}
	return n
}

// NumberContent numbers a whole document, frontmatter included, and returns
// the new document bytes.
func (n *Numberer) NumberContent(content []byte) ([]byte, Result, error) {
	var res Result

	block, body, err := frontmatter.Split(content)
	if err != nil {
		return nil, res, ferrors.WrapError(err, ferrors.CategoryValidation, "failed to split frontmatter").Build()
	}

	start := n.opts.Start
	if len(start) == 0 {
		fields, err := block.Fields()
		if err != nil {
			return nil, res, ferrors.WrapError(err, ferrors.CategoryValidation, "failed to parse frontmatter").Build()
		}
		start, err = startFromFields(fields, n.opts.StartKey)
		if err != nil {
			return nil, res, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid starting section number").
				WithContext("field", n.opts.StartKey).
				Build()
		}
	}
	if len(start) == 0 {
		return content, res, nil
	}
	res.Start = start

	edits, assignments, err := markdown.NumberEdits(body, start, n.engine, n.markdown)
	if err != nil {
		return nil, res, err
	}
	res.Headings = assignments

	newBody, err := markdown.ApplyEdits(body, edits)
	if err != nil {
		return nil, res, err
	}
	out := block.Join(newBody)

	if n.opts.Fingerprint {
		fp, err := mdfp.ProcessContent(string(out))
		if err != nil {
			return nil, res, ferrors.WrapError(err, ferrors.CategoryProcessing, "failed to refresh content fingerprint").Build()
		}
		out = []byte(fp)
	}

	res.Changed = !bytes.Equal(out, content)
	return out, res, nil
}

// NumberFile numbers the file at path and writes the result to dest. An
// empty dest, or dest equal to path, rewrites the file in place; in that case
// unchanged files are not touched.
func (n *Numberer) NumberFile(path, dest string) (Result, error) {
	if dest == "" {
		dest = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{Path: path}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat document").
			WithContext("path", path).
			Build()
	}
	// #nosec G304 -- path comes from the CLI or a directory walk.
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}

	out, res, err := n.NumberContent(content)
	res.Path = path
	res.Dest = dest
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return res, classified.WithContext("path", path)
		}
		return res, err
	}

	inPlace := filepath.Clean(dest) == filepath.Clean(path)
	if n.opts.DryRun || (inPlace && !res.Changed) {
		return res, nil
	}
	if err := writeFile(dest, out, info.Mode().Perm()); err != nil {
		return res, err
	}
	return res, nil
}

func writeFile(path string, data []byte, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write document").
			WithContext("path", path).
			Build()
	}
	return nil
}

// TreeReport summarizes a NumberTree run.
type TreeReport struct {
	Numbered int
	Skipped  int
	Failed   int
	Headings int
	Results  []Result
}

// NumberTree numbers every Markdown file under root. With a non-empty out the
// tree is mirrored there, otherwise files are rewritten in place. A file that
// fails is logged and left untouched; the walk continues.
func (n *Numberer) NumberTree(ctx context.Context, root, out string) (TreeReport, error) {
	var report TreeReport
	started := time.Now()
	defer func() { n.recorder.ObserveRunDuration(time.Since(started)) }()

	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		return report, ferrors.NewError(ferrors.CategoryNotFound, "directory not found").
			WithContext("path", root).
			Build()
	}
	absOut := ""
	if out != "" {
		if absOut, err = filepath.Abs(out); err != nil {
			return report, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve output directory").Build()
		}
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && (isHidden(d.Name()) || sameDir(path, absOut)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) || isHidden(d.Name()) {
			return nil
		}

		dest := path
		if out != "" {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			dest = filepath.Join(out, rel)
		}
		n.numberTreeFile(&report, path, dest)
		return nil
	})
	if walkErr != nil {
		return report, ferrors.WrapError(walkErr, ferrors.CategoryFileSystem, "failed to walk directory").
			WithContext("path", root).
			Build()
	}

	n.logger.Info("Numbered Markdown tree",
		logfields.Path(root),
		slog.Int("numbered", report.Numbered),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		logfields.Headings(report.Headings),
		logfields.DurationMS(float64(time.Since(started).Microseconds())/1000))
	return report, nil
}

func (n *Numberer) numberTreeFile(report *TreeReport, path, dest string) {
	started := time.Now()
	res, err := n.NumberFile(path, dest)
	n.recorder.ObserveDocumentDuration(time.Since(started))
	report.Results = append(report.Results, res)

	switch {
	case err != nil:
		report.Failed++
		n.recorder.IncDocumentResult(metrics.ResultFailed)
		n.logger.Error("Failed to number file",
			logfields.Path(path),
			logfields.Category(string(ferrors.GetCategory(err))),
			logfields.Error(err))
	case res.Skipped():
		report.Skipped++
		n.recorder.IncDocumentResult(metrics.ResultSkipped)
		n.logger.Debug("No starting section number", logfields.Path(path))
	default:
		report.Numbered++
		report.Headings += len(res.Headings)
		n.recorder.IncDocumentResult(metrics.ResultNumbered)
		n.recorder.AddHeadingsNumbered(len(res.Headings))
		n.logger.Debug("Numbered file",
			logfields.Path(path),
			logfields.SectionNumber(res.Start),
			logfields.Headings(len(res.Headings)))
	}
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func sameDir(path, abs string) bool {
	if abs == "" {
		return false
	}
	p, err := filepath.Abs(path)
	return err == nil && p == abs
}
