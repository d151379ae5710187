package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/event-scraper/internal/event"
)

// Listing scrape methods.
const (
	MethodListingJSONLD = "listing_jsonld"
	MethodListingCard   = "listing_card"
)

// CardSelectors are tried in order; the first one matching at least one
// element decides the set of event cards.
var CardSelectors = []string{
	`[data-testid*="event-card"]`,
	`[class*="event-card"]`,
	`[class*="eventCard"]`,
	`article[class*="event"]`,
	`li[class*="event"]`,
	`div[class*="event-item"]`,
	`[itemtype*="schema.org/Event"]`,
	`article`,
}

// Listing extracts every event on a listing page. JSON-LD events win when
// present; otherwise event cards are read from the page structure. Each
// event keeps pageURL as source_url and carries its own link as the
// "event_url" extra key when one is known.
func Listing(doc *goquery.Document, pageURL string) []*event.Event {
	if events := listingJSONLD(doc, pageURL); len(events) > 0 {
		return events
	}
	return listingCards(doc, pageURL)
}

// ListingFromHTML parses rawHTML and runs Listing.
func ListingFromHTML(rawHTML, pageURL string) []*event.Event {
	return Listing(Parse(rawHTML), pageURL)
}

func listingJSONLD(doc *goquery.Document, pageURL string) []*event.Event {
	var events []*event.Event
	add := func(obj map[string]any) {
		evt := normalizeJSONLD(obj, pageURL)
		evt.ScrapeMethod = event.String(MethodListingJSONLD)
		if link := resolve(pageURL, scalar(obj["url"])); link != "" {
			evt.SetExtra("event_url", link)
		}
		events = append(events, evt)
	}

	for _, obj := range jsonLDObjects(doc) {
		switch {
		case isEventType(obj["@type"]):
			add(obj)
		case scalar(obj["@type"]) == "ItemList":
			items, _ := obj["itemListElement"].([]any)
			for _, it := range items {
				entry, ok := it.(map[string]any)
				if !ok {
					continue
				}
				if inner, ok := entry["item"].(map[string]any); ok {
					entry = inner
				}
				if isEventType(entry["@type"]) {
					add(entry)
				}
			}
		}
	}
	return events
}

func listingCards(doc *goquery.Document, pageURL string) []*event.Event {
	var cards *goquery.Selection
	for _, sel := range CardSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			cards = found
			break
		}
	}
	if cards == nil {
		return nil
	}

	var events []*event.Event
	cards.Each(func(_ int, card *goquery.Selection) {
		if evt := parseCard(card, pageURL); evt != nil {
			events = append(events, evt)
		}
	})
	return events
}

// parseCard returns nil for cards without a recognisable title.
func parseCard(card *goquery.Selection, pageURL string) *event.Event {
	title := cardTitle(card)
	if title == "" {
		return nil
	}

	evt := event.New(pageURL)
	evt.Title = event.String(title)
	evt.ScrapeMethod = event.String(MethodListingCard)

	if t := card.Find("time").First(); t.Length() > 0 {
		if dt := attr(t, "datetime"); dt != "" {
			evt.Start = event.String(dt)
		} else {
			evt.Start = event.String(strings.TrimSpace(t.Text()))
		}
	}

	loc := card.Find(`[class*="location"], [class*="venue"], [class*="Location"], [class*="Venue"]`).First()
	if loc.Length() > 0 {
		evt.Location = event.String(strippedText(loc))
	}

	if d := card.Find(`[class*="description"], [class*="summary"], p`).First(); d.Length() > 0 {
		evt.Description = event.String(strippedText(d))
	}

	if src := attr(card.Find("img[src]"), "src"); src != "" {
		evt.Images = []string{resolve(pageURL, src)}
	}

	href := attr(card.Find("a[href]"), "href")
	if href == "" && goquery.NodeName(card) == "a" {
		href = attr(card, "href")
	}
	if link := resolve(pageURL, href); link != "" {
		evt.SetExtra("event_url", link)
	}
	return evt
}

func cardTitle(card *goquery.Selection) string {
	for _, sel := range []string{"h1, h2, h3, h4", `[class*="title"], [class*="Title"]`, "a[href]"} {
		if t := strippedText(card.Find(sel).First()); t != "" {
			return t
		}
	}
	return ""
}

// resolve makes ref absolute against base. Unparseable references are
// returned as they are.
func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
