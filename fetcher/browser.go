package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Browser fetches pages through a headless Chrome instance so that
// JavaScript-rendered directory listings still yield anchors. Best effort
// only; sites that work over plain HTTP should use Client instead.
type Browser struct {
	userAgent string
	timeout   time.Duration
	log       *zap.SugaredLogger
}

func NewBrowser(userAgent string, timeoutSeconds int, log *zap.SugaredLogger) *Browser {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Browser{
		userAgent: userAgent,
		timeout:   time.Duration(timeoutSeconds) * time.Second,
		log:       log,
	}
}

// Fetch renders url in headless Chrome and returns the post-render DOM.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.userAgent),
		chromedp.Flag("headless", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		b.log.Warnw("browser fetch failed", "url", url, "error", err)
		return "", err
	}

	return html, nil
}
