package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Media holds the image and video URLs found on a page.
type Media struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

var videoHosts = []string{"youtube.com", "youtube-nocookie.com", "youtu.be", "vimeo.com"}

// HarvestMedia collects image and video URLs from doc, resolved against
// pageURL and de-duplicated in first-seen order.
func HarvestMedia(doc *goquery.Document, pageURL string) Media {
	images := newOrderedSet()
	videos := newOrderedSet()

	doc.Find(`meta[property="og:image"], meta[property="og:image:url"]`).Each(func(_ int, s *goquery.Selection) {
		images.add(resolve(pageURL, attr(s, "content")))
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		images.add(resolve(pageURL, attr(s, "src")))
		images.add(resolve(pageURL, attr(s, "data-src")))
	})
	doc.Find("source[srcset]").Each(func(_ int, s *goquery.Selection) {
		if s.ParentFiltered("video").Length() > 0 {
			return
		}
		images.add(resolve(pageURL, firstSrcsetCandidate(attr(s, "srcset"))))
	})

	doc.Find(`meta[property="og:video"], meta[property="og:video:url"], meta[property="og:video:secure_url"]`).Each(func(_ int, s *goquery.Selection) {
		videos.add(resolve(pageURL, attr(s, "content")))
	})
	doc.Find("video").Each(func(_ int, s *goquery.Selection) {
		videos.add(resolve(pageURL, attr(s, "src")))
		s.Find("source[src]").Each(func(_ int, src *goquery.Selection) {
			videos.add(resolve(pageURL, attr(src, "src")))
		})
	})
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src := attr(s, "src")
		if isVideoEmbed(src) {
			videos.add(resolve(pageURL, src))
		}
	})

	return Media{Images: images.items, Videos: videos.items}
}

// HarvestMediaFromHTML parses rawHTML and runs HarvestMedia.
func HarvestMediaFromHTML(rawHTML, pageURL string) Media {
	return HarvestMedia(Parse(rawHTML), pageURL)
}

func firstSrcsetCandidate(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isVideoEmbed(src string) bool {
	lower := strings.ToLower(src)
	for _, host := range videoHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (o *orderedSet) add(s string) {
	if s == "" || strings.HasPrefix(s, "data:") {
		return
	}
	if _, ok := o.seen[s]; ok {
		return
	}
	o.seen[s] = struct{}{}
	o.items = append(o.items, s)
}
