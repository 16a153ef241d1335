// Package service runs the ranking pipeline and serves its latest result to
// the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/vbrank/internal/adapters/output"
	"github.com/okian/vbrank/internal/adapters/source"
	"github.com/okian/vbrank/internal/domain/aggregate"
	"github.com/okian/vbrank/internal/domain/extract"
	"github.com/okian/vbrank/internal/domain/model"
	"github.com/okian/vbrank/internal/domain/region"
	"github.com/okian/vbrank/internal/domain/sample"
	"github.com/okian/vbrank/pkg/logger"
	"github.com/okian/vbrank/pkg/metrics"
)

// Fetcher loads source bytes and discovers sources on an index page.
type Fetcher interface {
	Fetch(ctx context.Context, s source.Source) ([]byte, error)
	Discover(ctx context.Context, indexURL string) ([]source.Source, error)
}

// Service runs the pipeline and keeps the latest document.
type Service struct {
	mu    sync.RWMutex
	runMu sync.Mutex

	// Components
	fetcher   Fetcher
	extractor *extract.Extractor

	// Configuration
	sources        []source.Source
	indexURL       string
	outputPath     string
	concurrency    int
	fallbackSample bool
	now            func() time.Time

	// State
	latest *output.Document
	runs   int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the source fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithExtractor sets the row extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithSources sets the explicit sources, processed in the given order.
func WithSources(sources ...source.Source) Option {
	return func(s *Service) {
		s.sources = append([]source.Source(nil), sources...)
	}
}

// WithIndexURL sets a page whose CSV links are appended to the sources.
func WithIndexURL(u string) Option {
	return func(s *Service) {
		s.indexURL = u
	}
}

// WithOutputPath sets where each run's document is written. Empty disables writing.
func WithOutputPath(p string) Option {
	return func(s *Service) {
		s.outputPath = p
	}
}

// WithConcurrency caps parallel fetches.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFallbackSample ranks the built-in sample when a run yields no records.
func WithFallbackSample(enabled bool) Option {
	return func(s *Service) {
		s.fallbackSample = enabled
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		concurrency: 4,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.fetcher == nil {
		s.fetcher = source.NewFetcher(source.WithLogger(s.logger.Named("source")))
	}
	if s.extractor == nil {
		s.extractor = extract.New()
	}
	return s
}

type fetched struct {
	body []byte
	err  error
}

// Run executes one full pipeline pass: resolve sources, fetch them
// concurrently, extract records in source order, aggregate, then write and
// publish the document. A document is published only once written. A failing source is reported in the document and
// does not fail the run. Concurrent calls are serialized.
func (s *Service) Run(ctx context.Context) (*output.Document, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run", runID))
	log.Info(ctx, "pipeline run started")

	doc, err := s.run(ctx, runID, log)
	metrics.RecordRunDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordRun("error")
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		return nil, err
	}
	metrics.RecordRun("ok")
	metrics.UpdateLastRun(doc.Metadata.GeneratedAt.Unix())
	log.Info(ctx, "pipeline run finished",
		logger.Int("teams", doc.Summary.TotalTeams),
		logger.Int("sources", len(doc.Metadata.Sources)),
		logger.Bool("fallbackSample", doc.Metadata.FallbackSample),
		logger.Duration("took", time.Since(start)),
	)
	return doc, nil
}

func (s *Service) run(ctx context.Context, runID string, log logger.Logger) (*output.Document, error) {
	sources, err := s.resolveSources(ctx, log)
	if err != nil {
		return nil, err
	}

	results := s.fetchAll(ctx, sources, log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records []model.TeamRecord
		totals  extract.Tally
		reports = make([]output.SourceReport, 0, len(sources))
	)
	for i, src := range sources {
		report := output.SourceReport{Label: src.Label, Location: src.Location()}
		recs, tally, err := s.process(src, results[i])
		if err != nil {
			report.Error = err.Error()
			log.Warn(ctx, "source skipped",
				logger.String("source", src.Label),
				logger.Error(err),
			)
		}
		report.Records = len(recs)
		report.Tally = tally
		totals.Merge(tally)
		records = append(records, recs...)
		reports = append(reports, report)
	}

	fallback := false
	if len(records) == 0 && s.fallbackSample {
		log.Warn(ctx, "no records extracted, ranking the built-in sample")
		records = sample.Records()
		fallback = true
		metrics.RecordFallbackSample()
	}

	doc := &output.Document{
		Metadata: output.Metadata{
			RunID:              runID,
			GeneratedAt:        s.now().UTC(),
			RegionTableVersion: region.TableVersion,
			ScoringFormula:     output.ScoringFormula,
			FallbackSample:     fallback,
			Sources:            reports,
			Totals:             totals,
		},
		Rankings: aggregate.Aggregate(records),
	}
	metrics.UpdateRankedTeams(doc.Summary.TotalTeams)

	if s.outputPath != "" {
		if err := output.WriteJSON(ctx, s.outputPath, doc); err != nil {
			return nil, err
		}
		log.Info(ctx, "ranking written", logger.String("path", s.outputPath))
	}

	s.mu.Lock()
	s.latest = doc
	s.runs++
	s.mu.Unlock()
	return doc, nil
}

// resolveSources returns the configured sources followed by the ones found
// on the index page. Discovery failure is fatal only when nothing else is
// configured.
func (s *Service) resolveSources(ctx context.Context, log logger.Logger) ([]source.Source, error) {
	sources := append([]source.Source(nil), s.sources...)
	if s.indexURL == "" {
		return sources, nil
	}

	found, err := s.fetcher.Discover(ctx, s.indexURL)
	if err != nil {
		if len(sources) == 0 {
			return nil, fmt.Errorf("%w: discover %s: %w", ErrNoSources, s.indexURL, err)
		}
		log.Warn(ctx, "source discovery failed",
			logger.String("index", s.indexURL),
			logger.Error(err),
		)
		return sources, nil
	}

	known := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		known[src.Location()] = struct{}{}
	}
	for _, src := range found {
		if _, dup := known[src.Location()]; dup {
			continue
		}
		known[src.Location()] = struct{}{}
		sources = append(sources, src)
	}
	return sources, nil
}

// fetchAll downloads every source with bounded parallelism. Results are
// indexed like sources; one failure does not cancel the others.
func (s *Service) fetchAll(ctx context.Context, sources []source.Source, log logger.Logger) []fetched {
	results := make([]fetched, len(sources))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			body, err := s.fetcher.Fetch(ctx, src)
			metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
			if err != nil {
				metrics.RecordSourceFetched("error")
			} else {
				metrics.RecordSourceFetched("ok")
				log.Debug(ctx, "source fetched",
					logger.String("source", src.Label),
					logger.Int("bytes", len(body)),
				)
			}
			results[i] = fetched{body: body, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) process(src source.Source, res fetched) ([]model.TeamRecord, extract.Tally, error) {
	if res.err != nil {
		return nil, extract.Tally{}, res.err
	}
	rows, err := source.ParseCSV(source.Decode(res.body))
	if err != nil {
		return nil, extract.Tally{}, err
	}

	recs, tally := s.extractor.ExtractAll(rows, src.Label)
	metrics.RecordRowsProcessed(src.Label, tally.Rows)
	metrics.RecordRowsRejected(extract.ReasonMissingName.String(), tally.RejectedNoName)
	metrics.RecordRowsRejected(extract.ReasonMissingDivision.String(), tally.RejectedNoDivision)
	metrics.RecordMalformedNumeric(tally.MalformedNumeric)
	metrics.RecordRecordsExtracted(len(recs))
	return recs, tally, nil
}
