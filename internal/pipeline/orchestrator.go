// Package pipeline drives the extraction run: it fans URLs out to a worker
// pool, tries the cheap strategies first and batches the leftovers through
// the generative parser, then routes every record through normalization into
// the configured sinks. Every input URL yields exactly one output record.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vtrofin/jobsift/internal/extract"
	"github.com/vtrofin/jobsift/internal/schema"
	"github.com/vtrofin/jobsift/internal/sink"
)

const (
	defaultBatchSize = 10
	defaultWorkers   = 10
)

// PageFetcher retrieves a URL and prepares its content views.
type PageFetcher interface {
	Page(ctx context.Context, url string) (*extract.Page, error)
}

// BatchParser turns a batch of page texts into records. It may return fewer
// records than inputs; the orchestrator fills the gaps.
type BatchParser interface {
	ParseBatch(ctx context.Context, texts, urls []string, ordinals []int) ([]schema.Record, error)
}

// Config tunes the run. Zero values fall back to the defaults.
type Config struct {
	BatchSize int
	Workers   int
}

// Summary counts where each record came from. Direct + Generative + Defaulted
// always equals Total.
type Summary struct {
	Total       int
	Direct      int
	Generative  int
	Defaulted   int
	FetchErrors int
	SinkErrors  int
}

type pendingItem struct {
	ordinal int
	url     string
	text    string
}

type recordOrigin int

const (
	originDirect recordOrigin = iota
	originGenerative
	originDefaulted
)

// Orchestrator runs the pipeline over a URL list.
type Orchestrator struct {
	fetcher    PageFetcher
	strategies []extract.Strategy
	parser     BatchParser
	sinks      []sink.Sink
	cfg        Config
	logger     *zap.Logger

	mu      sync.Mutex
	pending []pendingItem
	summary Summary
}

func New(fetcher PageFetcher, strategies []extract.Strategy, parser BatchParser,
	sinks []sink.Sink, cfg Config, logger *zap.Logger) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	return &Orchestrator{
		fetcher:    fetcher,
		strategies: strategies,
		parser:     parser,
		sinks:      sinks,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run processes every URL and returns the run summary. Individual page
// failures degrade to default records; only context cancellation aborts the
// run.
func (o *Orchestrator) Run(ctx context.Context, urls []string) (Summary, error) {
	o.mu.Lock()
	o.pending = nil
	o.summary = Summary{Total: len(urls)}
	o.mu.Unlock()

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(o.cfg.Workers)

	for i, url := range urls {
		ordinal, url := i+1, url
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o.processURL(gctx, ordinal, url)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return o.snapshot(), err
	}

	o.flushPending(ctx)
	return o.snapshot(), ctx.Err()
}

func (o *Orchestrator) processURL(ctx context.Context, ordinal int, url string) {
	page, err := o.fetcher.Page(ctx, url)
	if err != nil {
		o.logger.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		o.mu.Lock()
		o.summary.FetchErrors++
		o.mu.Unlock()
		o.emit(schema.Record{URL: url}, originDefaulted)
		return
	}

	if rec := extract.Run(page, o.strategies, o.logger); rec != nil {
		rec.URL = url
		o.emit(*rec, originDirect)
		return
	}

	o.enqueue(ctx, pendingItem{ordinal: ordinal, url: url, text: page.Markdown})
}

// enqueue collects a strategy miss for the generative stage and dispatches a
// batch as soon as one fills. Dispatch happens on the calling worker, so a
// slow model call occupies one pool slot instead of blocking everyone.
func (o *Orchestrator) enqueue(ctx context.Context, item pendingItem) {
	o.mu.Lock()
	o.pending = append(o.pending, item)
	var batch []pendingItem
	if len(o.pending) >= o.cfg.BatchSize {
		batch = o.pending
		o.pending = nil
	}
	o.mu.Unlock()

	if batch != nil {
		o.dispatchBatch(ctx, batch)
	}
}

func (o *Orchestrator) flushPending(ctx context.Context) {
	o.mu.Lock()
	batch := o.pending
	o.pending = nil
	o.mu.Unlock()

	if len(batch) > 0 {
		o.dispatchBatch(ctx, batch)
	}
}

// dispatchBatch runs one generative call and reconciles its output against
// the batch: every item the model answered becomes a generative record, every
// item it dropped becomes a default record.
func (o *Orchestrator) dispatchBatch(ctx context.Context, batch []pendingItem) {
	sort.Slice(batch, func(i, j int) bool { return batch[i].ordinal < batch[j].ordinal })

	texts := make([]string, len(batch))
	urls := make([]string, len(batch))
	ordinals := make([]int, len(batch))
	for i, item := range batch {
		texts[i] = item.text
		urls[i] = item.url
		ordinals[i] = item.ordinal
	}

	records, err := o.parser.ParseBatch(ctx, texts, urls, ordinals)
	if err != nil {
		o.logger.Warn("generative batch failed", zap.Int("size", len(batch)), zap.Error(err))
		records = nil
	}

	answered := make(map[string]int, len(records))
	for _, rec := range records {
		answered[rec.URL]++
		o.emit(rec, originGenerative)
	}

	for _, item := range batch {
		if answered[item.url] > 0 {
			answered[item.url]--
			continue
		}
		o.logger.Debug("no generative answer, defaulting", zap.String("url", item.url))
		o.emit(schema.Record{URL: item.url}, originDefaulted)
	}
}

// emit normalizes a record and writes it to every sink.
func (o *Orchestrator) emit(rec schema.Record, origin recordOrigin) {
	rec = schema.Normalize(rec)

	o.mu.Lock()
	defer o.mu.Unlock()

	switch origin {
	case originDirect:
		o.summary.Direct++
	case originGenerative:
		o.summary.Generative++
	case originDefaulted:
		o.summary.Defaulted++
	}

	for _, s := range o.sinks {
		if err := s.Write(rec); err != nil {
			o.summary.SinkErrors++
			o.logger.Warn("sink write failed", zap.String("url", rec.URL), zap.Error(err))
		}
	}
}

func (o *Orchestrator) snapshot() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summary
}
