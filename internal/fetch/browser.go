// Package fetch provides the page-fetch capability the source adapters
// consume: a headless-browser fetcher for DOM-rendered pages, a plain HTTP
// fetcher for text feeds, and a file cache with a freshness TTL that the
// retrying loader falls back to.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// UserAgent presented by both fetchers.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"

	// MinRequestInterval throttles browser navigations to avoid rate
	// limiting by the scraped sites.
	MinRequestInterval = 2 * time.Second

	pageLoadTimeout = 30 * time.Second
)

// Fetcher retrieves the raw payload behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Browser fetches fully rendered pages through a shared headless Chrome
// allocator. Safe for use from one goroutine per call site; navigations are
// serialized by the rate limiter.
type Browser struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	log      *zap.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewBrowser starts the headless Chrome allocator.
func NewBrowser(log *zap.Logger) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Browser{
		allocCtx: allocCtx,
		cancel:   cancel,
		log:      log,
	}
}

// Close releases the browser allocator.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Fetch navigates to the URL and returns the rendered document HTML.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	b.throttle()

	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, pageLoadTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second), // let client-side rendering settle
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser fetch %s: %w", url, err)
	}
	if html == "" {
		return "", fmt.Errorf("browser fetch %s: empty document", url)
	}
	return html, nil
}

func (b *Browser) throttle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lastRequest.IsZero() {
		if elapsed := time.Since(b.lastRequest); elapsed < MinRequestInterval {
			wait := MinRequestInterval - elapsed
			b.log.Debug("rate limiting browser fetch", zap.Duration("wait", wait))
			time.Sleep(wait)
		}
	}
	b.lastRequest = time.Now()
}
