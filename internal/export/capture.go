package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// CaptureScale is the raster upscaling factor.
const CaptureScale = 2

// RasterImage is a captured résumé. Width and Height are the unscaled
// bounding box in CSS pixels; Image holds Width*scale by Height*scale pixels.
type RasterImage struct {
	Image  image.Image
	Width  float64
	Height float64
}

// Capturer rasterizes a visual tree.
type Capturer interface {
	Capture(ctx context.Context, tree *rendering.VisualTree, scale float64) (*RasterImage, error)
}

// ChromeConfig configures the headless browser.
type ChromeConfig struct {
	// ExecPath overrides the browser binary. Empty uses chromedp's lookup.
	ExecPath string
	// Timeout bounds one capture including browser start-up.
	Timeout time.Duration
}

// DefaultCaptureTimeout applies when ChromeConfig.Timeout is zero.
const DefaultCaptureTimeout = 60 * time.Second

// ChromeCapturer renders the visual tree's HTML in headless Chrome and
// screenshots the résumé root.
type ChromeCapturer struct {
	cfg ChromeConfig
}

// NewChromeCapturer creates a capturer. A browser is started per capture.
func NewChromeCapturer(cfg ChromeConfig) *ChromeCapturer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCaptureTimeout
	}
	return &ChromeCapturer{cfg: cfg}
}

type boundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const measureScript = `(() => {
	const r = document.getElementById(%q).getBoundingClientRect();
	return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
})()`

// Capture implements Capturer.
func (c *ChromeCapturer) Capture(ctx context.Context, tree *rendering.VisualTree, scale float64) (*RasterImage, error) {
	doc, err := rendering.HTML(tree)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.cfg.Timeout)
	defer cancel()

	var box boundingBox
	var fontsReady bool
	var shot []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(tree.Width), 1123),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frames, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frames.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("#"+rendering.RootID, chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Evaluate(fmt.Sprintf(measureScript, rendering.RootID), &box),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if box.Width <= 0 || box.Height <= 0 {
				return fmt.Errorf("empty bounding box %.0fx%.0f", box.Width, box.Height)
			}
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{
					X:      box.X,
					Y:      box.Y,
					Width:  box.Width,
					Height: box.Height,
					Scale:  scale,
				}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser capture failed: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return &RasterImage{Image: img, Width: box.Width, Height: box.Height}, nil
}
