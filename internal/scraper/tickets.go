package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/event-scraper/internal/extract"
)

// TicketResult is returned by CheckTicketAvailability.
type TicketResult struct {
	Status     string             `json:"status"`
	TicketInfo extract.TicketInfo `json:"ticket_info"`
	Error      string             `json:"error,omitempty"`
}

// PDFResult is returned by CapturePDF.
type PDFResult struct {
	PDF   []byte `json:"pdf,omitempty"`
	Error string `json:"error,omitempty"`
}

// CheckTicketAvailability reports whether tickets are on sale, sold out
// or unknown, along with any prices shown on the page.
func (s *Scraper) CheckTicketAvailability(ctx context.Context, url string) (res TicketResult) {
	defer func() {
		if r := recover(); r != nil {
			res = unknownTickets(recoverError("CheckTicketAvailability", r))
		}
	}()

	info, err := s.probeTickets(ctx, url, func(ctx context.Context) (string, error) {
		return s.fetchStatic(ctx, url)
	})
	if err != nil {
		return unknownTickets(err.Error())
	}
	return TicketResult{Status: info.Status, TicketInfo: info}
}

// CapturePDF renders the page to PDF.
func (s *Scraper) CapturePDF(ctx context.Context, url string) (res PDFResult) {
	defer func() {
		if r := recover(); r != nil {
			res = PDFResult{Error: recoverError("CapturePDF", r)}
		}
	}()

	if s.browser == nil {
		return PDFResult{Error: ErrNoBrowser.Error()}
	}
	pdf, err := s.browser.RenderPDF(ctx, url)
	if err != nil {
		return PDFResult{Error: err.Error()}
	}
	return PDFResult{PDF: pdf}
}

// probeTickets runs the ticket script in the browser. When the script
// cannot run, the signals are read from the page markup returned by
// markup instead.
func (s *Scraper) probeTickets(ctx context.Context, url string, markup func(context.Context) (string, error)) (extract.TicketInfo, error) {
	var errs []error

	if s.browser != nil {
		var sig extract.TicketSignals
		err := s.browser.Evaluate(ctx, url, extract.TicketProbeScript, &sig)
		if err == nil {
			return extract.ClassifyTickets(sig, "browser"), nil
		}
		errs = append(errs, fmt.Errorf("browser: %w", err))
	} else {
		errs = append(errs, fmt.Errorf("browser: %w", ErrNoBrowser))
	}

	html, err := markup(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("static: %w", err))
		return extract.TicketInfo{}, errors.Join(errs...)
	}
	sig := extract.StaticTicketSignals(extract.Parse(html))
	return extract.ClassifyTickets(sig, "static"), nil
}

func unknownTickets(msg string) TicketResult {
	return TicketResult{
		Status: extract.TicketUnknown,
		TicketInfo: extract.TicketInfo{
			Status:         extract.TicketUnknown,
			MatchedButtons: []string{},
			Prices:         []string{},
		},
		Error: msg,
	}
}
