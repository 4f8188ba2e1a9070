package gemini

import (
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	_ "embed"

	"go.uber.org/zap"

	"github.com/vtrofin/jobsift/internal/schema"
	"github.com/vtrofin/jobsift/internal/throttle"
	"github.com/vtrofin/jobsift/internal/util"
)

//go:embed prompt.md
var promptTemplate string

// ErrLengthMismatch reports a caller bug: the batch sequences disagree on the
// number of items.
var ErrLengthMismatch = errors.New("texts, urls and ordinals must have the same length")

const (
	promptSeparator = "\n---\n"

	// one ordinal anchor + the schema fields + the j/i marker
	expectedColumns = 16

	defaultMaxRetries     = 1
	defaultRetryDelay     = 2 * time.Second
	defaultRequestTimeout = 60 * time.Second
	defaultMaxLogLength   = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ParserConfig tunes retry and timeout behavior of the batch parser.
type ParserConfig struct {
	// MaxRetries is the number of attempts past the first one.
	MaxRetries     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	MaxLogLength   int
}

// Parser turns batches of raw posting text into partial records through the
// generative service. One combined request is issued per batch; the response
// is expected to hold one ordinal-anchored CSV line per item.
type Parser struct {
	generator      contentGenerator
	limiter        *throttle.Limiter
	maxRetries     int
	retryDelay     time.Duration
	requestTimeout time.Duration
	maxLogLen      int
	logger         *zap.Logger
}

// NewParser creates a Parser. Zero config values fall back to defaults; the
// limiter is shared with every other parser worker in the process.
func NewParser(generator contentGenerator, limiter *throttle.Limiter, cfg ParserConfig, logger *zap.Logger) *Parser {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Parser{
		generator:      generator,
		limiter:        limiter,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
		requestTimeout: cfg.RequestTimeout,
		maxLogLen:      cfg.MaxLogLength,
		logger:         logger,
	}
}

// DefaultParserConfig returns the stock retry/timeout settings.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MaxRetries:     defaultMaxRetries,
		RetryDelay:     defaultRetryDelay,
		RequestTimeout: defaultRequestTimeout,
		MaxLogLength:   defaultMaxLogLength,
	}
}

// ParseBatch sends one combined request for the batch and parses the response
// into partial records. Rows the service mangled are dropped individually;
// a batch with zero usable rows is retried and, once retries are exhausted,
// degrades to an empty result rather than an error. Only a length mismatch
// between the input sequences is an error.
func (p *Parser) ParseBatch(ctx context.Context, texts, urls []string, ordinals []int) ([]schema.Record, error) {
	if len(texts) != len(urls) || len(urls) != len(ordinals) {
		return nil, ErrLengthMismatch
	}
	if len(texts) == 0 {
		return nil, nil
	}

	prompt := buildPrompt(texts, ordinals)

	attempts := p.maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := p.limiter.Acquire(ctx); err != nil {
			return nil, err
		}

		p.logger.Debug("sending batch to gemini",
			zap.Int("attempt", attempt),
			zap.Int("batch_size", len(texts)),
			zap.Int("prompt_length", len(prompt)),
		)

		callCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
		raw, err := p.generator.GenerateContent(callCtx, prompt)
		cancel()

		if err != nil {
			p.logger.Warn("gemini request failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else {
			p.logger.Debug("gemini response",
				zap.Int("attempt", attempt),
				zap.String("response_preview", util.TruncateForLog(raw, p.maxLogLen)),
			)

			records := p.parseResponse(raw, urls, ordinals)
			if len(records) > 0 {
				return records, nil
			}

			p.logger.Warn("no parsable rows in gemini response", zap.Int("attempt", attempt))
		}

		if attempt < attempts {
			if err := util.WaitFor(ctx, p.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	p.logger.Warn("batch degraded to empty result",
		zap.Int("batch_size", len(texts)),
		zap.Int("attempts", attempts),
	)
	return nil, nil
}

// buildPrompt fills the extraction instruction for every item and joins the
// blocks with a separator, so the whole batch costs a single request.
func buildPrompt(texts []string, ordinals []int) string {
	blocks := make([]string, 0, len(texts))
	for i, text := range texts {
		block := strings.ReplaceAll(promptTemplate, "{{ORDINAL}}", strconv.Itoa(ordinals[i]))
		block = strings.ReplaceAll(block, "{{DESCRIPTION}}", text)
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, promptSeparator)
}

// parseResponse maps response lines back to batch items by their ordinal
// anchor. A malformed line only loses its own record; it cannot shift
// attribution for the rest of the batch.
func (p *Parser) parseResponse(raw string, urls []string, ordinals []int) []schema.Record {
	index := make(map[int]int, len(ordinals))
	for i, ord := range ordinals {
		index[ord] = i
	}

	claimed := make(map[int]bool, len(ordinals))
	var records []schema.Record
	for n, line := range strings.Split(stripFences(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields, err := readCSVLine(line)
		if err != nil {
			p.logger.Warn("dropping unparsable line",
				zap.Int("line", n+1),
				zap.String("line_preview", util.TruncateForLog(line, p.maxLogLen)),
				zap.Error(err),
			)
			continue
		}

		if len(fields) < expectedColumns {
			p.logger.Warn("dropping line with too few columns",
				zap.Int("line", n+1),
				zap.Int("columns", len(fields)),
				zap.Int("expected", expectedColumns),
			)
			continue
		}

		ord, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			p.logger.Warn("dropping line without ordinal anchor",
				zap.Int("line", n+1),
				zap.String("anchor", fields[0]),
			)
			continue
		}

		i, ok := index[ord]
		if !ok || claimed[ord] {
			p.logger.Warn("dropping line with unknown or duplicate ordinal",
				zap.Int("line", n+1),
				zap.Int("ordinal", ord),
			)
			continue
		}
		claimed[ord] = true

		records = append(records, lineToRecord(fields, urls[i]))
	}

	return records
}

func lineToRecord(fields []string, url string) schema.Record {
	return schema.Record{
		Title:           fields[1],
		Company:         fields[2],
		City:            fields[3],
		Country:         fields[4],
		OfficeType:      fields[5],
		ExperienceLevel: fields[6],
		EmploymentType:  fields[7],
		Industries:      fields[8],
		Visa:            fields[9],
		Benefits:        fields[10],
		Skills:          fields[11],
		Currency:        fields[12],
		SalaryLow:       fields[13],
		SalaryHigh:      fields[14],
		JI:              strings.TrimSpace(fields[15]),
		URL:             url,
	}
}

// readCSVLine parses one line of delimited text respecting quoting rules.
// Extra columns beyond the expected count are tolerated and ignored.
func readCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}

// stripFences removes a Markdown code fence the model sometimes wraps the
// CSV block in.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```csv")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
