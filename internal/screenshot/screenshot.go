package screenshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inlyne/inlyne-server/internal/storage"
)

const (
	viewportWidth  = 1920
	viewportHeight = 1080
	captureTimeout = 60 * time.Second
)

// Capturer renders a page in headless Chrome and stores the screenshot as
// the site's cover image.
type Capturer struct {
	store  storage.Store
	logger *zap.Logger
}

func NewCapturer(store storage.Store, logger *zap.Logger) *Capturer {
	return &Capturer{store: store, logger: logger}
}

// Capture navigates to url, screenshots the viewport, and uploads the image
// under a siteID-prefixed key. It returns the public URL of the stored image.
func (c *Capturer) Capture(ctx context.Context, url, siteID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate(url),
		// Give late-loading pages a moment to settle before the shot.
		chromedp.Sleep(2*time.Second),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return "", fmt.Errorf("capture %s: %w", url, err)
	}

	// Covers are served with a year-long cache; a fresh key per capture keeps
	// recaptures from being masked by stale CDN entries.
	key := fmt.Sprintf("covers/%s-%s.png", siteID, uuid.NewString())
	coverURL, err := c.store.Put(ctx, key, "image/png", buf)
	if err != nil {
		return "", fmt.Errorf("store cover %s: %w", key, err)
	}

	c.logger.Info("captured site cover",
		zap.String("siteId", siteID),
		zap.String("url", url),
		zap.Duration("took", time.Since(start)))
	return coverURL, nil
}
