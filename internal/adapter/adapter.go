package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/extract"
)

// Adapter is a platform-specific extractor.
type Adapter interface {
	// Name identifies the adapter; it prefixes the scrape method stamp.
	Name() string
	// Matches reports whether the adapter handles url.
	Matches(url string) bool
	// Extract returns the adapter's record and whether it is rich enough
	// to use on its own. A non-nil record with ok == false is a partial
	// the caller may merge with the generic result.
	Extract(doc *goquery.Document, url string) (evt *event.Event, ok bool)
}

// Method returns the scrape method stamped by adapters named name.
func Method(name string) string {
	return name + "_adapter"
}

// pipelineAdapter runs the combined parser and overrides the title with
// the platform's own markup when present.
type pipelineAdapter struct {
	name    string
	matches func(lowerURL string) bool
	title   func(doc *goquery.Document) string
}

func (a *pipelineAdapter) Name() string { return a.name }

func (a *pipelineAdapter) Matches(url string) bool {
	return a.matches(strings.ToLower(url))
}

func (a *pipelineAdapter) Extract(doc *goquery.Document, url string) (*event.Event, bool) {
	evt := extract.Event(doc, url)
	if a.title != nil {
		if t := a.title(doc); t != "" {
			evt.Title = event.String(t)
		}
	}
	evt.ScrapeMethod = event.String(Method(a.name))
	return evt, event.IsRich(evt)
}

// facebookAdapter builds its record from Open Graph metadata alone.
type facebookAdapter struct{}

func (facebookAdapter) Name() string { return "facebook" }

func (facebookAdapter) Matches(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "facebook.com") && strings.Contains(lower, "events")
}

func (a facebookAdapter) Extract(doc *goquery.Document, url string) (*event.Event, bool) {
	evt := event.New(url)
	evt.Title = event.String(ogContent(doc, "og:title"))
	evt.Description = event.String(ogContent(doc, "og:description"))
	if img := ogContent(doc, "og:image"); img != "" {
		evt.Images = []string{img}
	}
	evt.ScrapeMethod = event.String(Method(a.Name()))
	return evt, event.IsRich(evt)
}

// Ticketmaster returns the Ticketmaster adapter.
func Ticketmaster() Adapter {
	return &pipelineAdapter{
		name:    "ticketmaster",
		matches: contains("ticketmaster"),
		title:   headingByClass(regexp.MustCompile(`(?i)event.*title`)),
	}
}

// Eventbrite returns the Eventbrite adapter.
func Eventbrite() Adapter {
	return &pipelineAdapter{
		name:    "eventbrite",
		matches: contains("eventbrite"),
		title:   headingByClass(regexp.MustCompile(`(?i)eventTitle`)),
	}
}

// Facebook returns the Facebook Events adapter.
func Facebook() Adapter {
	return facebookAdapter{}
}

// Meetup returns the Meetup adapter. Only event pages match; group and
// profile pages fall through to the generic path.
func Meetup() Adapter {
	return &pipelineAdapter{
		name:    "meetup",
		matches: contains("meetup.com", "/events/"),
		title:   headingByClass(regexp.MustCompile(`(?i)eventTitle`)),
	}
}

// Eventful returns the Eventful adapter.
func Eventful() Adapter {
	return &pipelineAdapter{
		name:    "eventful",
		matches: contains("eventful.com"),
		title: func(doc *goquery.Document) string {
			return ogContent(doc, "og:title")
		},
	}
}

// contains builds a predicate requiring every fragment in the lowered URL.
func contains(fragments ...string) func(string) bool {
	return func(lowerURL string) bool {
		for _, f := range fragments {
			if !strings.Contains(lowerURL, f) {
				return false
			}
		}
		return true
	}
}

// headingByClass finds the first h1 with a class token matching re.
func headingByClass(re *regexp.Regexp) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		h1 := doc.Find("h1").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			for _, c := range strings.Fields(class) {
				if re.MatchString(c) {
					return true
				}
			}
			return false
		}).First()
		return strings.TrimSpace(h1.Text())
	}
}

func ogContent(doc *goquery.Document, property string) string {
	v, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(v)
}
