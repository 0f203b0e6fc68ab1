package export

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// File is an exported document ready for download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Page        PageSize
}

// Pipeline runs capture then encode, bounded by an in-progress guard.
type Pipeline struct {
	capturer Capturer
	encoder  Encoder
	guard    *semaphore.Weighted
	logger   *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxConcurrent sets how many exports may run at once. Values below one
// mean one.
func WithMaxConcurrent(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.guard = semaphore.NewWeighted(int64(n))
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// NewPipeline creates a pipeline. By default one export runs at a time.
func NewPipeline(c Capturer, e Encoder, opts ...Option) *Pipeline {
	p := &Pipeline{
		capturer: c,
		encoder:  e,
		guard:    semaphore.NewWeighted(1),
		logger:   slog.Default(),
		metrics:  metrics.Noop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExportDocument renders doc with its selected template and exports it. The
// document passed in is the point-in-time snapshot that gets exported; edits
// made while the export runs do not affect it.
func (p *Pipeline) ExportDocument(ctx context.Context, doc types.ResumeDocument, opts ...rendering.Option) (*File, error) {
	return p.Export(ctx, rendering.RenderCurrent(doc, opts...), doc.Personal)
}

// Export captures tree and encodes it as a one-page file named after personal.
// It returns ErrExportInProgress without waiting when the limit is reached.
func (p *Pipeline) Export(ctx context.Context, tree *rendering.VisualTree, personal types.PersonalInfo) (*File, error) {
	if !p.guard.TryAcquire(1) {
		p.metrics.RecordExport(metrics.ExportBusy, 0)
		return nil, ErrExportInProgress
	}
	defer p.guard.Release(1)

	start := p.now()
	file, err := p.run(ctx, tree, personal)
	elapsed := p.now().Sub(start)

	switch {
	case err == nil:
		p.metrics.RecordExport(metrics.ExportOK, elapsed)
		p.logger.Info("export complete", "file", file.Name, "bytes", len(file.Data),
			"width", file.Page.Width, "height", file.Page.Height, "duration", elapsed)
	case IsCapture(err):
		p.metrics.RecordExport(metrics.ExportCaptureError, elapsed)
		p.logger.Error("export capture failed", "error", err)
	default:
		p.metrics.RecordExport(metrics.ExportEncodeError, elapsed)
		p.logger.Error("export encoding failed", "error", err)
	}
	return file, err
}

func (p *Pipeline) run(ctx context.Context, tree *rendering.VisualTree, personal types.PersonalInfo) (*File, error) {
	if tree == nil {
		return nil, &ExportError{Kind: KindCapture, Cause: errors.New("no visual tree")}
	}

	raster, err := p.capturer.Capture(ctx, tree, CaptureScale)
	if err != nil {
		return nil, &ExportError{Kind: KindCapture, Cause: err}
	}
	if raster == nil || raster.Image == nil || raster.Image.Bounds().Empty() || raster.Width <= 0 || raster.Height <= 0 {
		return nil, &ExportError{Kind: KindCapture, Cause: errors.New("capture produced no image")}
	}

	size := PageSize{Width: raster.Width, Height: raster.Height}
	data, err := p.encoder.Encode(raster.Image, size)
	if err != nil {
		return nil, &ExportError{Kind: KindEncode, Cause: err}
	}

	return &File{
		Name:        FileName(personal),
		ContentType: "application/pdf",
		Data:        data,
		Page:        size,
	}, nil
}
