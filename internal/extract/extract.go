package extract

import (
	"go.uber.org/zap"

	"github.com/vtrofin/jobsift/internal/schema"
)

// Page is a fetched career page handed to the extraction strategies.
type Page struct {
	URL string
	// HTML is the raw document. Empty when the fetch failed.
	HTML string
	// Text is the main content with markup and noise stripped.
	Text string
	// Markdown is the main content rendered for the generative prompt.
	Markdown string
}

// Strategy attempts to recover job posting fields from a page. A nil result
// means the strategy found nothing usable; that is a normal outcome, not a
// failure, so strategies do not return errors.
type Strategy interface {
	Name() string
	Extract(page *Page) *schema.Record
}

// Run tries the strategies in priority order and returns the first non-empty
// partial record, or nil when every strategy missed.
func Run(page *Page, strategies []Strategy, logger *zap.Logger) *schema.Record {
	for _, s := range strategies {
		rec := s.Extract(page)
		if rec == nil || rec.IsEmpty() {
			logger.Debug("strategy miss",
				zap.String("strategy", s.Name()),
				zap.String("url", page.URL),
			)
			continue
		}

		logger.Debug("strategy hit",
			zap.String("strategy", s.Name()),
			zap.String("url", page.URL),
		)
		return rec
	}

	return nil
}
