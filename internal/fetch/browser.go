package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	NavTimeout = 30 * time.Second
	GraceDelay = 2 * time.Second
	// Quality 100 captures PNG; anything lower captures JPEG.
	Quality = 100
)

// BrowserOptions configures headless rendering.
type BrowserOptions struct {
	UserAgent  string
	NavTimeout time.Duration
	// GraceDelay is waited after the document is ready, to let client-side
	// rendering settle.
	GraceDelay time.Duration
	// Quality is the screenshot quality, 1-100.
	Quality  int
	Headless bool
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
}

// Browser renders pages in headless Chrome.
type Browser struct {
	opts BrowserOptions
}

// NewBrowser creates a Browser. Zero durations, an out of range quality
// and an empty user agent fall back to the package defaults.
func NewBrowser(opts BrowserOptions) *Browser {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = NavTimeout
	}
	if opts.GraceDelay <= 0 {
		opts.GraceDelay = GraceDelay
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		opts.Quality = Quality
	}
	return &Browser{opts: opts}
}

// Options returns the effective options.
func (b *Browser) Options() BrowserOptions {
	return b.opts
}

// FetchRendered returns the rendered document's outer HTML.
func (b *Browser) FetchRendered(ctx context.Context, url string) (string, error) {
	var html string
	if err := b.run(ctx, url, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyBody
	}
	return html, nil
}

// Screenshot captures the full page, as PNG at quality 100 and JPEG below.
func (b *Browser) Screenshot(ctx context.Context, url string) ([]byte, error) {
	var buf []byte
	if err := b.run(ctx, url, chromedp.FullScreenshot(&buf, b.opts.Quality)); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("capturing screenshot: %w", ErrEmptyBody)
	}
	return buf, nil
}

// RenderPDF prints the page to PDF with backgrounds.
func (b *Browser) RenderPDF(ctx context.Context, url string) ([]byte, error) {
	var buf []byte
	printPDF := chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
		if err != nil {
			return fmt.Errorf("printing to PDF: %w", err)
		}
		buf = data
		return nil
	})
	if err := b.run(ctx, url, printPDF); err != nil {
		return nil, err
	}
	return buf, nil
}

// Evaluate runs script in the rendered page and decodes its result into out.
func (b *Browser) Evaluate(ctx context.Context, url, script string, out any) error {
	return b.run(ctx, url, chromedp.Evaluate(script, out))
}

// run starts a browser, loads url and performs actions. The browser
// process and tab are released on every return path.
func (b *Browser) run(ctx context.Context, url string, actions ...chromedp.Action) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	steps := append([]chromedp.Action{b.load(url)}, actions...)
	if err := chromedp.Run(tabCtx, steps...); err != nil {
		return fmt.Errorf("rendering %s: %w", url, err)
	}
	return nil
}

// load navigates within NavTimeout, waits for the body and then sleeps
// GraceDelay.
func (b *Browser) load(url string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		navCtx, cancel := context.WithTimeout(ctx, b.opts.NavTimeout)
		defer cancel()

		if err := chromedp.Navigate(url).Do(navCtx); err != nil {
			return fmt.Errorf("navigating: %w", err)
		}
		if err := chromedp.WaitReady("body", chromedp.ByQuery).Do(navCtx); err != nil {
			return fmt.Errorf("waiting for body: %w", err)
		}
		if b.opts.GraceDelay > 0 {
			return chromedp.Sleep(b.opts.GraceDelay).Do(ctx)
		}
		return nil
	})
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.UserAgent(b.opts.UserAgent),
		chromedp.DisableGPU,
		chromedp.Flag("headless", b.opts.Headless),
	)
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}
	return opts
}
