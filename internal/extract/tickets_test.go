package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyTickets(t *testing.T) {
	tests := []struct {
		name       string
		signals    TicketSignals
		wantStatus string
		wantPrices int
	}{
		{
			name:       "buy button with prices",
			signals:    TicketSignals{Buttons: []string{"Menu", "Get Tickets"}, Text: "General admission $25.00, VIP $80"},
			wantStatus: TicketAvailable,
			wantPrices: 2,
		},
		{
			name:       "sold out in text beats buy button",
			signals:    TicketSignals{Buttons: []string{"Buy Now"}, Text: "This event is SOLD OUT"},
			wantStatus: TicketSoldOut,
		},
		{
			name:       "sold out button",
			signals:    TicketSignals{Buttons: []string{"Sold Out"}},
			wantStatus: TicketSoldOut,
		},
		{
			name:       "no signals",
			signals:    TicketSignals{Buttons: []string{"Home", "About"}, Text: "Welcome"},
			wantStatus: TicketUnknown,
		},
		{
			name:       "prices capped",
			signals:    TicketSignals{Text: "$1 $2 $3 $4 $5 $6 $7"},
			wantStatus: TicketUnknown,
			wantPrices: MaxPrices,
		},
		{
			name:       "currency code suffix",
			signals:    TicketSignals{Text: "Tickets from 15 EUR"},
			wantStatus: TicketUnknown,
			wantPrices: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyTickets(tt.signals, "browser")
			if info.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", info.Status, tt.wantStatus)
			}
			if len(info.Prices) != tt.wantPrices {
				t.Errorf("prices = %v, want %d entries", info.Prices, tt.wantPrices)
			}
			if info.Source != "browser" {
				t.Errorf("source = %q, want browser", info.Source)
			}
		})
	}
}

func TestStaticTicketSignals(t *testing.T) {
	doc := Parse(`<html><body>
<a href="/buy">Buy Tickets</a>
<input type="submit" value="Register">
<script>var price = "$999";</script>
<p>Entry $12.50</p>
</body></html>`)

	sig := StaticTicketSignals(doc)
	info := ClassifyTickets(sig, "static")

	if info.Status != TicketAvailable {
		t.Errorf("status = %q, want available", info.Status)
	}
	if len(info.Prices) != 1 || info.Prices[0] != "$12.50" {
		t.Errorf("prices = %v, want [$12.50]", info.Prices)
	}
	if len(info.MatchedButtons) != 2 {
		t.Errorf("matched buttons = %v, want 2", info.MatchedButtons)
	}
	if doc.Find("script").Length() != 1 {
		t.Error("StaticTicketSignals should not modify the document")
	}
}

func TestSplitPrice(t *testing.T) {
	tests := []struct {
		in, amount, currency string
	}{
		{"$25.00", "25.00", "USD"},
		{"£1,200", "1200", "GBP"},
		{"15 EUR", "15", "EUR"},
		{"42", "42", ""},
		{"free", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			amount, currency := SplitPrice(tt.in)
			if amount != tt.amount || currency != tt.currency {
				t.Errorf("SplitPrice(%q) = (%q, %q), want (%q, %q)", tt.in, amount, currency, tt.amount, tt.currency)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"ascii", "abcdef", 3, "abc"},
		{"inside rune", "ab€cd", 3, "ab"},
		{"after rune", "ab€cd", 5, "ab€"},
		{"zero", "€", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateText(%q, %d) returned invalid UTF-8", tt.in, tt.n)
			}
		})
	}
}

func TestClassifyTickets_LongTextKeepsValidPrices(t *testing.T) {
	// A euro sign straddling the scan limit must not leave a broken rune.
	text := strings.Repeat("x", maxSignalText-1) + "€5 more"
	info := ClassifyTickets(TicketSignals{Text: text}, "static")

	for _, p := range info.Prices {
		if !utf8.ValidString(p) {
			t.Errorf("price %q is not valid UTF-8", p)
		}
	}
	if len(info.Prices) != 0 {
		t.Errorf("prices = %v, want none past the scan limit", info.Prices)
	}
}
