package preprocessor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/secnum/internal/book"
	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/logfields"
	"git.home.luguber.info/inful/secnum/internal/markdown"
	"git.home.luguber.info/inful/secnum/internal/metrics"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

// Preprocessor numbers the headings of every chapter in a book.
type Preprocessor struct {
	base     numbering.Options
	override numbering.Options
	markdown markdown.Options
	recorder metrics.Recorder
	logger   *slog.Logger

	numberBody func(body []byte, start []uint, eng *numbering.Engine, opts markdown.Options) ([]byte, []numbering.Assignment, error)
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Preprocessor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger used for per-chapter diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Preprocessor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOverride sets options that win over the book.toml table. Zero fields
// are ignored.
func WithOverride(o numbering.Options) Option {
	return func(p *Preprocessor) {
		p.override = o
	}
}

// New returns a Preprocessor. base holds the options in effect before the
// book.toml table is applied.
func New(base numbering.Options, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		base:     base,
		markdown: markdown.BookOptions(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),

		numberBody: markdown.NumberBody,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Numbered int
	Failed   int
	Headings int

	// Skipped counts drafts and chapters without a section number.
	Skipped int
}

// Run numbers the headings of every numbered chapter of b in place.
//
// A chapter that cannot be numbered is logged and left unmodified; the run
// carries on with the next chapter. Only invalid options and cancellation of
// ctx fail the run as a whole.
func (p *Preprocessor) Run(ctx context.Context, pctx *Context, b *book.Book) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	logger := p.logger.With(logfields.RunID(report.RunID))
	started := time.Now()
	defer func() { p.recorder.ObserveRunDuration(time.Since(started)) }()

	opts, err := p.options(pctx)
	if err != nil {
		return report, err
	}
	if pctx != nil {
		logger = logger.With(logfields.Renderer(pctx.Renderer))
		if pctx.MdbookVersion != "" && !VersionMatches(pctx.MdbookVersion) {
			logger.Warn("mdBook version differs from the version this preprocessor was built against",
				logfields.MdbookVersion(pctx.MdbookVersion),
				slog.String("supported", MdbookVersion))
		}
	}
	eng := numbering.NewEngine(opts)

	walkErr := b.Walk(func(ch *book.Chapter) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ch.IsDraft() || len(ch.Number) == 0 {
			report.Skipped++
			p.recorder.IncDocumentResult(metrics.ResultSkipped)
			return nil
		}

		chStart := time.Now()
		n, err := p.numberChapter(eng, ch)
		p.recorder.ObserveDocumentDuration(time.Since(chStart))
		if err != nil {
			report.Failed++
			p.recorder.IncDocumentResult(metrics.ResultFailed)
			logger.Error("Failed to process chapter",
				logfields.Chapter(ch.Name),
				logfields.SectionNumber(ch.Number),
				logfields.Category(string(ferrors.GetCategory(err))),
				logfields.Error(err))
			return nil
		}
		report.Numbered++
		report.Headings += n
		p.recorder.IncDocumentResult(metrics.ResultNumbered)
		p.recorder.AddHeadingsNumbered(n)
		logger.Debug("Numbered chapter",
			logfields.Chapter(ch.Name),
			logfields.SectionNumber(ch.Number),
			logfields.Headings(n))
		return nil
	})
	if walkErr != nil {
		return report, ferrors.WrapError(walkErr, ferrors.CategoryRuntime, "preprocessing interrupted").Build()
	}

	logger.Info("Section numbering complete",
		slog.Int("numbered", report.Numbered),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		logfields.Headings(report.Headings),
		logfields.DurationMS(float64(time.Since(started).Microseconds())/1000))
	return report, nil
}

func (p *Preprocessor) options(pctx *Context) (numbering.Options, error) {
	opts, err := OptionsFromContext(pctx, p.base)
	if err != nil {
		return opts, err
	}
	if p.override.MaxDepth != 0 {
		opts.MaxDepth = p.override.MaxDepth
	}
	if p.override.ChapterLabel != "" {
		opts.ChapterLabel = p.override.ChapterLabel
	}
	if err := opts.Validate(); err != nil {
		return opts, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid numbering options").Build()
	}
	return opts, nil
}

// numberChapter rewrites ch.Content. On error the content is untouched.
func (p *Preprocessor) numberChapter(eng *numbering.Engine, ch *book.Chapter) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ferrors.NewError(ferrors.CategoryInternal, "panic while numbering chapter").
				WithContext("panic", fmt.Sprint(r)).
				Build()
		}
	}()

	out, assignments, err := p.numberBody([]byte(ch.Content), ch.Number, eng, p.markdown)
	if err != nil {
		return 0, err
	}
	ch.Content = string(out)
	return len(assignments), nil
}

// Handle runs one complete protocol exchange: it reads [context, book] from
// r, numbers the book and writes it to w.
func (p *Preprocessor) Handle(ctx context.Context, r io.Reader, w io.Writer) (Report, error) {
	pctx, b, err := ParseInput(r)
	if err != nil {
		return Report{}, err
	}
	report, err := p.Run(ctx, pctx, b)
	if err != nil {
		return report, err
	}
	return report, WriteOutput(w, b)
}
