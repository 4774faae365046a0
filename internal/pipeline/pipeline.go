// Package pipeline orchestrates one batch run: parse input lines into
// sources, reconcile each source against the photometric catalogs, and
// write the accepted measurements out.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/astrofuse/sedfuse/internal/domain"
	"github.com/astrofuse/sedfuse/internal/observability"
)

// ObjectCatalog looks up objects by name in the primary catalog.
type ObjectCatalog interface {
	Position(ctx context.Context, name string) (*domain.Table, error)
	Photometry(ctx context.Context, name string) (*domain.Table, error)
}

// SurveyCatalog runs cone searches against the survey catalogs.
type SurveyCatalog interface {
	WISE(ctx context.Context, lat, lon float64) (*domain.Table, error)
	TwoMASS(ctx context.Context, lat, lon float64) (*domain.Table, error)
	GALEX(ctx context.Context, lat, lon float64) (*domain.Table, error)
}

// ReddeningResolver resolves E(B−V) at a position from the extinction map.
type ReddeningResolver interface {
	Reddening(ctx context.Context, lat, lon float64) (float64, error)
}

// ResultWriter persists a fully processed source.
type ResultWriter interface {
	WriteSource(src *domain.Source) error
}

// RecordPublisher sends a reconciled record to the sink topic.
type RecordPublisher interface {
	Publish(ctx context.Context, record domain.Record) error
}

// Status is a progress snapshot of the current run, served over HTTP.
type Status struct {
	Running          bool   `json:"running"`
	SourcesProcessed int    `json:"sources_processed"`
	SourcesFailed    int    `json:"sources_failed"`
	CurrentSource    string `json:"current_source,omitempty"`
}

// Pipeline drives the per-line reconciliation flow.
type Pipeline struct {
	parser    *domain.LineParser
	ned       ObjectCatalog
	surveys   SurveyCatalog
	reddening ReddeningResolver
	writer    ResultWriter
	publisher RecordPublisher // nil when the sink is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics

	sed        domain.Normalizer
	wise       domain.Normalizer
	twoInline  domain.Normalizer
	twoMASS    domain.Normalizer
	galex      domain.Normalizer

	ready     atomic.Bool
	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64

	mu      sync.Mutex
	current string
}

// New creates a Pipeline with the given collaborators. publisher may be nil
// to disable the sink.
func New(parser *domain.LineParser, ned ObjectCatalog, surveys SurveyCatalog, reddening ReddeningResolver,
	writer ResultWriter, publisher RecordPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		parser:    parser,
		ned:       ned,
		surveys:   surveys,
		reddening: reddening,
		writer:    writer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		sed:       domain.NewSEDNormalizer(),
		wise:      domain.NewWISENormalizer(),
		twoInline: domain.NewTwoMASSNormalizer(true),
		twoMASS:   domain.NewTwoMASSNormalizer(false),
		galex:     domain.NewGALEXNormalizer(),
	}
}

// CheckReadiness returns nil once at least one source has been fully
// processed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no sources processed yet")
	}
	return nil
}

// Status reports run progress.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	return Status{
		Running:          p.running.Load(),
		SourcesProcessed: int(p.processed.Load()),
		SourcesFailed:    int(p.failed.Load()),
		CurrentSource:    current,
	}
}

// Run processes every line of input. Lines that fail to parse are counted
// and skipped; every parsed source is written, even when no catalog
// contributed measurements. The run only stops on context cancellation or
// an output write failure.
func (p *Pipeline) Run(ctx context.Context, input io.Reader) error {
	p.logger.Info("batch run started")
	p.metrics.BatchRunning.Set(1)
	p.running.Store(true)
	defer func() {
		p.metrics.BatchRunning.Set(0)
		p.running.Store(false)
		p.setCurrent("")
	}()

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	index := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			p.logger.Info("batch run stopping", "reason", ctx.Err())
			return nil
		}

		line := scanner.Text()
		fields, err := p.parser.Parse(line)
		if err != nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "#") {
				p.metrics.LinesSkipped.Inc()
				p.logger.Warn("input line did not match grammar", "line", line)
			}
			continue
		}

		index++
		src := domain.NewSource(index, fields)
		p.setCurrent(src.CompactName())

		p.processSource(ctx, src)
		if ctx.Err() != nil {
			p.logger.Info("batch run stopping", "reason", ctx.Err())
			return nil
		}

		if err := p.writer.WriteSource(src); err != nil {
			return err
		}
		p.publish(ctx, src)

		p.metrics.SourcesProcessed.Inc()
		p.processed.Add(1)
		p.ready.Store(true)
		p.logger.Info("source processed",
			"index", src.Index,
			"name", src.Name,
			"measurements", len(src.Measurements),
		)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	p.logger.Info("batch run finished",
		"processed", p.processed.Load(),
		"failed", p.failed.Load(),
	)
	return nil
}

// publish sends the reconciled record to the sink when one is configured.
// Publish failures are soft: the measurements are already on disk.
func (p *Pipeline) publish(ctx context.Context, src *domain.Source) {
	if p.publisher == nil {
		return
	}
	record := domain.NewRecord(src)
	if err := p.publisher.Publish(ctx, record); err != nil {
		p.logger.Warn("publish record failed", "name", record.Name, "error", err)
		return
	}
	p.metrics.RecordsPublished.Inc()
}

func (p *Pipeline) setCurrent(name string) {
	p.mu.Lock()
	p.current = name
	p.mu.Unlock()
}
