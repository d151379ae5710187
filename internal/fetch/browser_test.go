package fetch

import (
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

func TestNewBrowser_Defaults(t *testing.T) {
	b := NewBrowser(BrowserOptions{Headless: true})
	opts := b.Options()

	if opts.UserAgent != UserAgent {
		t.Errorf("UserAgent = %q, want default", opts.UserAgent)
	}
	if opts.NavTimeout != NavTimeout {
		t.Errorf("NavTimeout = %v, want %v", opts.NavTimeout, NavTimeout)
	}
	if opts.GraceDelay != GraceDelay {
		t.Errorf("GraceDelay = %v, want %v", opts.GraceDelay, GraceDelay)
	}
	if opts.Quality != Quality {
		t.Errorf("Quality = %d, want %d", opts.Quality, Quality)
	}
}

func TestNewBrowser_Quality(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{80, 80},
		{1, 1},
		{0, Quality},
		{101, Quality},
		{-5, Quality},
	}

	for _, tt := range tests {
		if got := NewBrowser(BrowserOptions{Quality: tt.in}).Options().Quality; got != tt.want {
			t.Errorf("Quality(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewBrowser_Overrides(t *testing.T) {
	b := NewBrowser(BrowserOptions{
		UserAgent:  "ua",
		NavTimeout: 5 * time.Second,
		GraceDelay: 500 * time.Millisecond,
		ExecPath:   "/usr/bin/chromium",
	})
	opts := b.Options()

	if opts.UserAgent != "ua" || opts.NavTimeout != 5*time.Second || opts.GraceDelay != 500*time.Millisecond {
		t.Errorf("options not kept: %+v", opts)
	}
	// Default options plus user agent, GPU, headless and exec path.
	if got, want := len(b.allocatorOptions()), len(chromedp.DefaultExecAllocatorOptions)+4; got != want {
		t.Errorf("allocator options = %d, want %d", got, want)
	}
}
