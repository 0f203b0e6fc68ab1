package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/persistence"
)

// openStore connects to the configured backend and loads the draft. The
// returned function closes the backend.
func openStore(ctx context.Context, rec metrics.Recorder) (*document.Store, func(), error) {
	kv, err := persistence.Open(ctx, appConfig.Backend())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", appConfig.Store, err)
	}

	adapter := persistence.NewAdapter(kv,
		persistence.WithKey(appConfig.DraftKey),
		persistence.WithLogger(logger),
		persistence.WithMetrics(rec),
	)
	store := document.New(ctx, adapter,
		document.WithLogger(logger),
		document.WithMetrics(rec),
	)

	closeFn := func() {
		if err := kv.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}
	return store, closeFn, nil
}

// newCapturer builds the rasterizer for exports. Tests replace it.
var newCapturer = func() export.Capturer {
	return export.NewChromeCapturer(export.ChromeConfig{
		ExecPath: appConfig.ChromePath,
		Timeout:  appConfig.CaptureTimeoutDuration(),
	})
}

// newPipeline builds the export pipeline from the loaded configuration.
func newPipeline(rec metrics.Recorder) *export.Pipeline {
	return export.NewPipeline(newCapturer(), export.PDFEncoder{},
		export.WithMaxConcurrent(appConfig.MaxConcurrentExports),
		export.WithLogger(logger),
		export.WithMetrics(rec),
	)
}
