package renderer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/goclone/internal/logger"
)

// Network-idle detection parameters. Navigation is considered settled once
// no more than networkIdleMaxInflight requests stay in flight for a full
// networkIdleWindow, or networkIdleBudget elapses.
const (
	networkIdleMaxInflight = 2
	networkIdleWindow      = 500 * time.Millisecond
	networkIdlePoll        = 100 * time.Millisecond
	networkIdleBudget      = 10 * time.Second
)

// BrowserCapturer captures a page's DOM with a headless Chrome instance.
// Every capture runs in an isolated browser context that is torn down before
// the call returns, whatever the navigation outcome.
type BrowserCapturer struct {
	timeout   time.Duration
	userAgent string
	log       logger.Interface
}

// NewBrowserCapturer creates a headless DOM capturer. timeout is the hard
// bound on a single capture, navigation included.
func NewBrowserCapturer(timeout time.Duration, userAgent string, log logger.Interface) *BrowserCapturer {
	return &BrowserCapturer{
		timeout:   timeout,
		userAgent: userAgent,
		log:       log,
	}
}

// CaptureDOM navigates to url, waits for network activity to settle, and
// returns the serialized DOM.
func (b *BrowserCapturer) CaptureDOM(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(b.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, b.timeout)
	defer cancelTimeout()

	var inflight atomic.Int64
	chromedp.ListenTarget(taskCtx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			inflight.Add(1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			inflight.Add(-1)
		}
	})

	var html string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			b.waitForNetworkIdle(ctx, &inflight)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("headless render of %s failed: %w", url, err)
	}

	b.log.Debug("headless render complete", "url", url, "bytes", len(html))

	return html, nil
}

// waitForNetworkIdle blocks until in-flight requests stay at or below the
// idle threshold for a full idle window, the idle budget runs out, or ctx is
// done. Timing out here is not an error: whatever the DOM holds at that
// point is the snapshot.
func (b *BrowserCapturer) waitForNetworkIdle(ctx context.Context, inflight *atomic.Int64) {
	budget := time.NewTimer(networkIdleBudget)
	defer budget.Stop()

	ticker := time.NewTicker(networkIdlePoll)
	defer ticker.Stop()

	var quietFor time.Duration
	for {
		select {
		case <-ctx.Done():
			return
		case <-budget.C:
			b.log.Debug("network idle budget exhausted", "inflight", inflight.Load())
			return
		case <-ticker.C:
			if inflight.Load() <= networkIdleMaxInflight {
				quietFor += networkIdlePoll
				if quietFor >= networkIdleWindow {
					return
				}
			} else {
				quietFor = 0
			}
		}
	}
}
