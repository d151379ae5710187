package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/pfrederiksen/event-scraper/internal/extract"
	"github.com/pfrederiksen/event-scraper/internal/logger"
)

var errNotFound = errors.New("unexpected status code: 404")

type fakeStatic struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
	panic bool
}

func (f *fakeStatic) FetchStatic(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.panic {
		panic("static fetcher exploded")
	}
	html, ok := f.pages[url]
	if !ok {
		return "", errNotFound
	}
	return html, nil
}

type fakeBrowser struct {
	mu          sync.Mutex
	pages       map[string]string
	signals     *extract.TicketSignals
	evalErr     error
	png         []byte
	shotErr     error
	pdf         []byte
	renderCalls []string
	evalCalls   int
	shotCalls   int
}

func (f *fakeBrowser) FetchRendered(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.renderCalls = append(f.renderCalls, url)
	f.mu.Unlock()
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("navigation timeout")
	}
	return html, nil
}

func (f *fakeBrowser) Screenshot(context.Context, string) ([]byte, error) {
	f.shotCalls++
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return f.png, nil
}

func (f *fakeBrowser) RenderPDF(context.Context, string) ([]byte, error) {
	if f.pdf == nil {
		return nil, errors.New("printing to PDF: failed")
	}
	return f.pdf, nil
}

// Evaluate round-trips the configured signals through JSON, as a browser
// result would be decoded.
func (f *fakeBrowser) Evaluate(_ context.Context, _, _ string, out any) error {
	f.evalCalls++
	if f.evalErr != nil {
		return f.evalErr
	}
	if f.signals == nil {
		return errors.New("script failed")
	}
	data, err := json.Marshal(f.signals)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func quietLogger() *logger.Logger {
	return logger.New(logger.LevelError, io.Discard)
}
