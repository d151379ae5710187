package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/event-scraper/internal/extract"
)

// MediaResult is returned by ExtractMedia.
type MediaResult struct {
	Images      []string `json:"images"`
	Videos      []string `json:"videos"`
	TotalImages int      `json:"total_images"`
	TotalVideos int      `json:"total_videos"`
	Error       string   `json:"error,omitempty"`
}

// ExtractMedia collects image and video URLs from a page, rendering it in
// the browser when the static page shows none.
func (s *Scraper) ExtractMedia(ctx context.Context, url string) (res MediaResult) {
	defer func() {
		if r := recover(); r != nil {
			res = newMediaResult(extract.Media{})
			res.Error = recoverError("ExtractMedia", r)
		}
	}()

	var errs []error
	html, err := s.fetchStatic(ctx, url)
	if err == nil {
		media := extract.HarvestMediaFromHTML(html, url)
		if len(media.Images)+len(media.Videos) > 0 {
			return newMediaResult(media)
		}
	} else {
		errs = append(errs, fmt.Errorf("static: %w", err))
	}

	html, err = s.fetchRendered(ctx, url)
	if err != nil {
		errs = append(errs, fmt.Errorf("dynamic: %w", err))
		res = newMediaResult(extract.Media{})
		res.Error = errors.Join(errs...).Error()
		return res
	}
	return newMediaResult(extract.HarvestMediaFromHTML(html, url))
}

func newMediaResult(m extract.Media) MediaResult {
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.Videos == nil {
		m.Videos = []string{}
	}
	return MediaResult{
		Images:      m.Images,
		Videos:      m.Videos,
		TotalImages: len(m.Images),
		TotalVideos: len(m.Videos),
	}
}
