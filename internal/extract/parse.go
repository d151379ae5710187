package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/event-scraper/internal/event"
	"golang.org/x/net/html"
)

// MaxImages caps the images kept by generic extraction.
const MaxImages = 5

// Parse builds a queryable document from raw HTML. Parsing never fails
// from the caller's point of view: unusable input yields an empty document.
func Parse(rawHTML string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// Event runs the combined parser: a JSON-LD Event when one exists,
// backfilled field by field from DOM heuristics, else DOM heuristics alone.
func Event(doc *goquery.Document, url string) *event.Event {
	dom := DOM(doc, url)
	structured := StructuredData(doc, url)
	if structured == nil {
		return dom
	}
	return event.MergeFields(structured, dom)
}

// EventFromHTML parses rawHTML and runs the combined parser.
func EventFromHTML(rawHTML, url string) *event.Event {
	return Event(Parse(rawHTML), url)
}

// attr returns the trimmed value of name on the first node of sel.
func attr(sel *goquery.Selection, name string) string {
	v, ok := sel.First().Attr(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// metaContent returns the content of the first meta tag matching selector
// that has a non-blank content attribute.
func metaContent(doc *goquery.Document, selector string) string {
	var content string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content = attr(s, "content")
		return content == ""
	})
	return content
}

// strippedText joins every non-blank text node under sel with single spaces.
func strippedText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
