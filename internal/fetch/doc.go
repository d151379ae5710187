// Package fetch retrieves page HTML for the scraper.
//
// HTTPFetcher performs a single plain GET with a fixed user agent and
// timeout. Browser drives headless Chrome through chromedp to render a
// page, capture screenshots and PDFs, or evaluate a script. Each Browser
// call starts its own browser process and tab and releases both before
// returning.
package fetch
