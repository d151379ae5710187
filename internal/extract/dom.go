package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/event-scraper/internal/event"
)

// DOM extracts a best-effort event from page markup alone. It never
// returns nil; fields the page does not expose stay nil. Price, currency,
// organizer, status and attendance mode are left unset.
func DOM(doc *goquery.Document, url string) *event.Event {
	evt := event.New(url)
	evt.Title = event.String(domTitle(doc))
	evt.Description = event.String(domDescription(doc))

	start, end := domTimes(doc)
	evt.Start = event.String(start)
	evt.End = event.String(end)

	evt.Location = event.String(domLocation(doc))
	evt.Images = domImages(doc)
	return evt
}

// DOMFromHTML parses rawHTML and runs DOM.
func DOMFromHTML(rawHTML, url string) *event.Event {
	return DOM(Parse(rawHTML), url)
}

func domTitle(doc *goquery.Document) string {
	if t := metaContent(doc, `meta[property="og:title"]`); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func domDescription(doc *goquery.Document) string {
	if d := metaContent(doc, `meta[name="description"]`); d != "" {
		return d
	}
	return metaContent(doc, `meta[property="og:description"]`)
}

// domTimes returns the first two time[datetime] values in document order.
func domTimes(doc *goquery.Document) (start, end string) {
	var values []string
	doc.Find("time[datetime]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v := attr(s, "datetime"); v != "" {
			values = append(values, v)
		}
		return len(values) < 2
	})
	switch len(values) {
	case 0:
		return "", ""
	case 1:
		return values[0], ""
	}
	return values[0], values[1]
}

func domLocation(doc *goquery.Document) string {
	var location string
	doc.Find("[class], [id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isLocationNode(s) {
			return true
		}
		text := strippedText(s)
		if utf8.RuneCountInString(text) > 3 {
			location = text
			return false
		}
		return true
	})
	return location
}

func isLocationNode(s *goquery.Selection) bool {
	if class, ok := s.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			if hasLocationHint(c) {
				return true
			}
		}
	}
	if id, ok := s.Attr("id"); ok && hasLocationHint(id) {
		return true
	}
	return false
}

func hasLocationHint(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "location") || strings.Contains(s, "venue")
}

func domImages(doc *goquery.Document) []string {
	images := make([]string, 0, MaxImages)
	doc.Find(`meta[property="og:image"]`).Each(func(_ int, s *goquery.Selection) {
		if c, ok := s.Attr("content"); ok && c != "" {
			images = append(images, c)
		}
	})
	if len(images) == 0 {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok && src != "" {
				images = append(images, src)
			}
		})
	}
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}
	return images
}
