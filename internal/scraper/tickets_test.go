package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/pfrederiksen/event-scraper/internal/extract"
)

func TestCheckTicketAvailability(t *testing.T) {
	url := "https://example.com/e/1"
	staticPage := `<html><body><button>Register</button><p>From €15</p></body></html>`

	tests := []struct {
		name       string
		static     *fakeStatic
		browser    *fakeBrowser
		wantStatus string
		wantSource string
		wantErr    bool
	}{
		{
			name:       "browser script",
			static:     &fakeStatic{},
			browser:    &fakeBrowser{signals: &extract.TicketSignals{Buttons: []string{"Sold out"}}},
			wantStatus: extract.TicketSoldOut,
			wantSource: "browser",
		},
		{
			name:       "static fallback when script fails",
			static:     &fakeStatic{pages: map[string]string{url: staticPage}},
			browser:    &fakeBrowser{evalErr: errors.New("navigation timeout")},
			wantStatus: extract.TicketAvailable,
			wantSource: "static",
		},
		{
			name:       "static without browser",
			static:     &fakeStatic{pages: map[string]string{url: staticPage}},
			wantStatus: extract.TicketAvailable,
			wantSource: "static",
		},
		{
			name:       "nothing reachable",
			static:     &fakeStatic{},
			wantStatus: extract.TicketUnknown,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestScraper(tt.static, tt.browser).CheckTicketAvailability(context.Background(), url)

			if res.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", res.Status, tt.wantStatus)
			}
			if res.TicketInfo.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", res.TicketInfo.Source, tt.wantSource)
			}
			if (res.Error != "") != tt.wantErr {
				t.Errorf("error = %q, wantErr %v", res.Error, tt.wantErr)
			}
		})
	}
}

func TestCapturePDF(t *testing.T) {
	url := "https://example.com/e/1"

	res := newTestScraper(&fakeStatic{}, &fakeBrowser{pdf: []byte("%PDF-1.4")}).CapturePDF(context.Background(), url)
	if string(res.PDF) != "%PDF-1.4" || res.Error != "" {
		t.Errorf("unexpected result %+v", res)
	}

	res = newTestScraper(&fakeStatic{}, nil).CapturePDF(context.Background(), url)
	if res.Error != ErrNoBrowser.Error() {
		t.Errorf("error = %q, want %q", res.Error, ErrNoBrowser.Error())
	}
}
