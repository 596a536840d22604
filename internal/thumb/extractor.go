// Package thumb finds a representative thumbnail URL in a video share page.
//
// Candidates are harvested from meta tags, video posters, inline JSON and
// state scripts, raw cover fragments, and a loose URL sweep. They are then
// filtered to platform-hosted images and ranked by a fixed priority cascade.
package thumb

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Fetcher retrieves a page body. fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Extractor turns a share page URL into a thumbnail URL.
type Extractor struct {
	Fetcher  Fetcher
	Platform Platform

	scan *scanner
}

// NewExtractor returns an Extractor for the given platform table.
func NewExtractor(f Fetcher, p Platform) *Extractor {
	return &Extractor{Fetcher: f, Platform: p, scan: newScanner(p)}
}

// Extract fetches pageURL and returns the best thumbnail URL, or "" when none
// was found. Errors never escape: they are logged and reported as "".
func (e *Extractor) Extract(ctx context.Context, pageURL string) (thumbnail string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("url", pageURL).Interface("panic", r).Msg("extraction aborted")
			thumbnail = ""
		}
	}()
	body, _, err := e.Fetcher.Get(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("fetch failed")
		return ""
	}
	return e.FromHTML(body)
}

// FromHTML runs the harvest, filter, and rank phases over a page body.
func (e *Extractor) FromHTML(body []byte) string {
	r := e.Inspect(body)
	log.Debug().
		Int("candidates", len(r.Candidates)).
		Int("filtered", len(r.Filtered)).
		Str("best", r.Best).
		Msg("thumbnail ranked")
	return r.Best
}

// Report exposes every phase of one extraction.
type Report struct {
	Candidates []string
	Filtered   []string
	Best       string
}

// Inspect is FromHTML with the intermediate candidate lists kept.
func (e *Extractor) Inspect(body []byte) Report {
	if e.scan == nil {
		e.scan = newScanner(e.Platform)
	}
	c := e.scan.harvest(body)
	urls := c.Filter(e.Platform)
	return Report{Candidates: c.Values(), Filtered: urls, Best: Rank(urls, e.Platform)}
}
