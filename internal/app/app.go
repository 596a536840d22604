package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/thumbgallery/internal/fetch"
	"github.com/hyperifyio/thumbgallery/internal/gallery"
	"github.com/hyperifyio/thumbgallery/internal/lines"
	"github.com/hyperifyio/thumbgallery/internal/thumb"
)

// ErrInputNotFound is returned when the request list does not exist. It is
// the only condition that aborts an extraction run.
var ErrInputNotFound = errors.New("input file not found")

// ErrResultsNotFound is returned by RunGallery when the extractor output is missing.
var ErrResultsNotFound = errors.New("results file not found")

// thumbnailer is the extractor seam; *thumb.Extractor satisfies it.
type thumbnailer interface {
	Extract(ctx context.Context, pageURL string) string
}

type App struct {
	cfg       Config
	platform  thumb.Platform
	extractor thumbnailer
	pacer     *pacer
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	client := &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.Workers),
		UserAgent:         cfg.UserAgent,
		Header:            fetch.BrowserHeader(),
		PerRequestTimeout: cfg.Timeout,
	}
	a := &App{
		cfg:       cfg,
		platform:  thumb.Douyin,
		extractor: thumb.NewExtractor(client, thumb.Douyin),
		pacer:     newPacer(cfg.Delay),
	}
	return a, nil
}

// pacer keeps a quiet gap of delay between the end of one page fetch and the
// start of the next. Nothing waits before the first fetch or after the last.
type pacer struct {
	delay time.Duration

	mu      sync.Mutex
	limiter *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay}
}

// wait blocks until delay has passed since the last finished fetch.
func (p *pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	lim := p.limiter
	p.mu.Unlock()
	if lim == nil {
		return nil
	}
	return lim.Wait(ctx)
}

// done marks a fetch as finished; the next wait starts counting from now.
func (p *pacer) done() {
	if p.delay <= 0 {
		return
	}
	lim := rate.NewLimiter(rate.Every(p.delay), 1)
	lim.Allow()
	p.mu.Lock()
	p.limiter = lim
	p.mu.Unlock()
}

func (a *App) Close() {
	// nothing yet
}

// Run reads the request list, extracts one result per request and writes the
// results, one per line, in request order.
func (a *App) Run(ctx context.Context) error {
	log.Info().Str("in", a.cfg.InputPath).Msg("reading URLs")
	requests, err := lines.ReadFile(a.cfg.InputPath, lines.Requests)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error().Str("in", a.cfg.InputPath).Msg("input file not found; create it with one share URL per line")
			return fmt.Errorf("%w: %s", ErrInputNotFound, a.cfg.InputPath)
		}
		return fmt.Errorf("read input: %w", err)
	}
	if len(requests) == 0 {
		log.Warn().Str("in", a.cfg.InputPath).Msg("no URLs found")
		return nil
	}
	log.Info().Int("count", len(requests)).Msg("URLs to process")

	results := a.extractAll(ctx, requests)

	if err := lines.WriteFile(a.cfg.OutputPath, results); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	found := 0
	for _, r := range results {
		if r != a.cfg.Placeholder {
			found++
		}
	}
	log.Info().
		Str("out", a.cfg.OutputPath).
		Int("results", len(results)).
		Int("requests", len(requests)).
		Int("thumbnails", found).
		Msg("wrote output")
	return nil
}

// extractAll returns exactly one result per request, in request order.
func (a *App) extractAll(ctx context.Context, requests []string) []string {
	results := make([]string, len(requests))
	workers := a.cfg.Workers
	if workers <= 1 {
		for i, u := range requests {
			results[i] = a.extractOne(ctx, i, len(requests), u)
		}
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.extractOne(ctx, i, len(requests), requests[i])
			}
		}()
	}
	for i := range requests {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (a *App) extractOne(ctx context.Context, i, total int, pageURL string) string {
	logger := log.With().Int("index", i+1).Int("total", total).Str("url", pageURL).Logger()
	logger.Info().Msg("processing")

	if !a.platform.InScope(pageURL) {
		logger.Info().Msg("skipping; not a share URL for this platform")
		return a.cfg.Placeholder
	}
	if err := a.pacer.wait(ctx); err != nil {
		logger.Warn().Err(err).Msg("pacing interrupted")
		return a.cfg.Placeholder
	}
	thumbnail := a.extractor.Extract(ctx, pageURL)
	a.pacer.done()
	if thumbnail == "" {
		logger.Info().Msg("no thumbnail found")
		return a.cfg.Placeholder
	}
	logger.Info().Str("thumbnail", truncate(thumbnail, 60)).Msg("found thumbnail")
	return thumbnail
}

// RunGallery pairs the request list with the extractor output and writes the
// HTML gallery, plus the PDF index when configured.
func (a *App) RunGallery(_ context.Context) error {
	videos, err := lines.ReadFile(a.cfg.InputPath, lines.Requests)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, a.cfg.InputPath)
		}
		return fmt.Errorf("read input: %w", err)
	}
	thumbnails, err := lines.ReadFile(a.cfg.OutputPath, lines.NonBlank)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error().Str("results", a.cfg.OutputPath).Msg("results file not found; run the extractor first")
			return fmt.Errorf("%w: %s", ErrResultsNotFound, a.cfg.OutputPath)
		}
		return fmt.Errorf("read results: %w", err)
	}

	page := gallery.Build(videos, thumbnails)
	if err := writeGallery(a.cfg.GalleryPath, page); err != nil {
		return err
	}
	log.Info().Str("out", a.cfg.GalleryPath).Int("videos", len(page.Pairs)).Msg("gallery created")

	if a.cfg.GalleryPDFPath != "" {
		if err := gallery.WritePDF(page, a.cfg.GalleryPDFPath); err != nil {
			return fmt.Errorf("write gallery pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.GalleryPDFPath).Msg("gallery index created")
	}
	if page.Mismatch() {
		log.Warn().
			Int("videos", page.Videos).
			Int("thumbnails", page.Thumbs).
			Msg("video and thumbnail counts differ; gallery shows only paired entries")
	}
	return nil
}

func writeGallery(path string, page gallery.Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gallery: %w", err)
	}
	if err := gallery.Render(f, page); err != nil {
		f.Close()
		return fmt.Errorf("render gallery: %w", err)
	}
	return f.Close()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
