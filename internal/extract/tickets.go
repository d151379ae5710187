package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Ticket availability statuses.
const (
	TicketSoldOut   = "sold_out"
	TicketAvailable = "available"
	TicketUnknown   = "unknown"
)

// MaxPrices caps the price strings kept from one page.
const MaxPrices = 5

// maxSignalText bounds how much page text the classifier scans.
const maxSignalText = 20000

// TicketProbeScript runs in the rendered page and returns its clickable
// labels plus visible body text, shaped as TicketSignals.
const TicketProbeScript = `(() => {
  const labels = Array.from(document.querySelectorAll('button, a, input[type="submit"], [role="button"]'))
    .map(el => (el.innerText || el.value || '').trim())
    .filter(t => t.length > 0 && t.length < 120);
  const text = document.body ? document.body.innerText : '';
  return {buttons: labels, text: text.slice(0, 20000)};
})()`

var (
	soldOutKeywords = []string{
		"sold out", "soldout", "no tickets available", "tickets unavailable",
		"sales ended", "sales have ended", "event has ended", "registration closed",
	}
	buyKeywords = []string{
		"buy tickets", "get tickets", "buy now", "book now", "register",
		"reserve", "add to cart", "checkout", "purchase", "find tickets",
	}

	pricePattern  = regexp.MustCompile(`(?:[$€£¥]\s?\d[\d,]*(?:\.\d{1,2})?|\d[\d,]*(?:\.\d{1,2})?\s?(?:USD|EUR|GBP|CAD|AUD|JPY)\b)`)
	amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d{1,2})?`)

	symbolCurrency = map[string]string{"$": "USD", "€": "EUR", "£": "GBP", "¥": "JPY"}
)

// TicketSignals is the raw page snapshot the classifier reads.
type TicketSignals struct {
	Buttons []string `json:"buttons"`
	Text    string   `json:"text"`
}

// TicketInfo describes what the classifier found on a page.
type TicketInfo struct {
	Status         string   `json:"status"`
	SoldOut        bool     `json:"sold_out"`
	BuyAvailable   bool     `json:"buy_available"`
	MatchedButtons []string `json:"matched_buttons"`
	Prices         []string `json:"prices"`
	Source         string   `json:"source"`
}

// HasSignal reports whether any availability or pricing signal was found.
func (t TicketInfo) HasSignal() bool {
	return t.SoldOut || t.BuyAvailable || len(t.Prices) > 0
}

// StaticTicketSignals builds a snapshot from parsed markup, for when no
// browser is available to run TicketProbeScript.
func StaticTicketSignals(doc *goquery.Document) TicketSignals {
	var sig TicketSignals
	doc.Find(`button, a, input[type="submit"], [role="button"]`).Each(func(_ int, s *goquery.Selection) {
		label := strippedText(s)
		if label == "" {
			label = attr(s, "value")
		}
		if label != "" && len(label) < 120 {
			sig.Buttons = append(sig.Buttons, label)
		}
	})
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	sig.Text = strippedText(body)
	return sig
}

// ClassifyTickets turns a page snapshot into a TicketInfo. Sold-out
// signals take precedence over buy signals.
func ClassifyTickets(sig TicketSignals, source string) TicketInfo {
	info := TicketInfo{
		Status:         TicketUnknown,
		MatchedButtons: []string{},
		Prices:         []string{},
		Source:         source,
	}

	text := truncateText(sig.Text, maxSignalText)
	lowerText := strings.ToLower(text)

	for _, b := range sig.Buttons {
		lb := strings.ToLower(b)
		switch {
		case containsAny(lb, soldOutKeywords):
			info.SoldOut = true
			info.MatchedButtons = append(info.MatchedButtons, b)
		case containsAny(lb, buyKeywords):
			info.BuyAvailable = true
			info.MatchedButtons = append(info.MatchedButtons, b)
		}
	}
	if containsAny(lowerText, soldOutKeywords) {
		info.SoldOut = true
	}

	for _, p := range pricePattern.FindAllString(text, -1) {
		if len(info.Prices) == MaxPrices {
			break
		}
		info.Prices = appendUnique(info.Prices, strings.TrimSpace(p))
	}

	switch {
	case info.SoldOut:
		info.Status = TicketSoldOut
	case info.BuyAvailable:
		info.Status = TicketAvailable
	}
	return info
}

// SplitPrice separates a price string such as "$25.00" or "25 EUR" into
// its amount and ISO currency code. Either part may be empty.
func SplitPrice(price string) (amount, currency string) {
	amount = strings.ReplaceAll(amountPattern.FindString(price), ",", "")
	for sym, code := range symbolCurrency {
		if strings.Contains(price, sym) {
			return amount, code
		}
	}
	for _, code := range []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY"} {
		if strings.Contains(price, code) {
			return amount, code
		}
	}
	return amount, ""
}

// truncateText cuts s to at most n bytes without splitting a rune.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
