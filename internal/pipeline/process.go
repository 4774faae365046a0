package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/astrofuse/sedfuse/internal/domain"
)

// processSource reconciles one source against every catalog. Nothing here
// drops the source: an unresolvable identity or primary-catalog position
// skips only the queries that depend on it, and the source is still written
// with whatever measurements were obtained.
func (p *Pipeline) processSource(ctx context.Context, src *domain.Source) {
	name, err := p.resolvePosition(ctx, src)
	if err != nil {
		p.metrics.SourcesFailed.Inc()
		p.failed.Add(1)
		p.logger.Warn("primary position unresolved",
			"index", src.Index, "name", src.Name, "error", err)
	} else {
		// Primary catalog photometry, queried by the identifier that
		// resolved the position.
		if table, err := p.fetch(ctx, domain.CatalogNED, func(ctx context.Context) (*domain.Table, error) {
			return p.ned.Photometry(ctx, name)
		}); err == nil {
			p.runNormalizer(src, p.sed, table)
		}
	}

	// Position-keyed lookups fall back to the input position when the
	// primary catalog did not resolve one.
	if lat, lon := src.SearchPosition(); math.IsNaN(lat) || math.IsNaN(lon) {
		return
	}

	p.resolveReddening(ctx, src)
	p.processSurveys(ctx, src)
}

// resolvePosition queries the primary catalog for the source position,
// falling back to the alternate id when the name finds nothing. Returns
// the identifier that resolved.
func (p *Pipeline) resolvePosition(ctx context.Context, src *domain.Source) (string, error) {
	if src.Name == "" {
		return "", errors.New("no identity to query by")
	}

	names := []string{src.Name}
	if src.AltID != "" && src.AltID != src.Name {
		names = append(names, src.AltID)
	}

	var lastErr error
	for _, name := range names {
		table, err := p.fetch(ctx, domain.CatalogNED, func(ctx context.Context) (*domain.Table, error) {
			return p.ned.Position(ctx, name)
		})
		if err != nil {
			lastErr = err
			continue
		}
		if err := domain.ResolveNEDPosition(src, table); err != nil {
			lastErr = err
			continue
		}
		p.logger.Debug("position resolved",
			"name", name,
			"lat", src.NEDLat,
			"lon", src.NEDLon,
			"offset_arcsec", src.NEDOffset,
		)
		return name, nil
	}
	return "", fmt.Errorf("resolve position: %w", lastErr)
}

// resolveReddening fills Source.Reddening from the extinction map. Failure
// is soft: the source keeps its NaN sentinel and UV extinction falls back
// to the survey's own per-detection values.
func (p *Pipeline) resolveReddening(ctx context.Context, src *domain.Source) {
	lat, lon := src.SearchPosition()
	value, err := p.reddening.Reddening(ctx, lat, lon)
	if err != nil {
		p.logger.Debug("reddening unresolved", "name", src.Name, "error", err)
		return
	}
	src.Reddening = value
}

// processSurveys runs the WISE, 2MASS, and GALEX lookups. When the WISE
// response carries inline 2MASS columns the separate 2MASS query is
// skipped and those columns are normalized instead.
func (p *Pipeline) processSurveys(ctx context.Context, src *domain.Source) {
	lat, lon := src.SearchPosition()

	wiseTable, err := p.fetch(ctx, domain.CatalogWISE, func(ctx context.Context) (*domain.Table, error) {
		return p.surveys.WISE(ctx, lat, lon)
	})
	inline := false
	if err == nil {
		p.runNormalizer(src, p.wise, wiseTable)
		if domain.HasInlineTwoMASS(wiseTable) {
			inline = true
			p.runNormalizer(src, p.twoInline, wiseTable)
		}
	}

	if !inline {
		if table, err := p.fetch(ctx, domain.CatalogTwoMASS, func(ctx context.Context) (*domain.Table, error) {
			return p.surveys.TwoMASS(ctx, lat, lon)
		}); err == nil {
			p.runNormalizer(src, p.twoMASS, table)
		}
	}

	if table, err := p.fetch(ctx, domain.CatalogGALEX, func(ctx context.Context) (*domain.Table, error) {
		return p.surveys.GALEX(ctx, lat, lon)
	}); err == nil {
		p.runNormalizer(src, p.galex, table)
	}
}

// fetch runs one catalog query with duration and error accounting. A
// domain.ErrNoData result is counted separately from transport failures.
func (p *Pipeline) fetch(ctx context.Context, catalog domain.Catalog, query func(context.Context) (*domain.Table, error)) (*domain.Table, error) {
	start := time.Now()
	table, err := query(ctx)
	p.metrics.CatalogQueryDuration.WithLabelValues(string(catalog)).Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "query"
		if errors.Is(err, domain.ErrNoData) {
			reason = "no_data"
		}
		p.metrics.CatalogErrors.WithLabelValues(string(catalog), reason).Inc()
		p.logger.Debug("catalog query failed", "catalog", catalog, "error", err)
		return nil, err
	}
	return table, nil
}

// runNormalizer applies one catalog normalizer and accounts for the result.
func (p *Pipeline) runNormalizer(src *domain.Source, n domain.Normalizer, table *domain.Table) {
	catalog := string(n.CatalogName())
	added, err := n.Normalize(src, table)
	if err != nil {
		reason := "normalize"
		if errors.Is(err, domain.ErrNoData) {
			reason = "no_data"
		}
		p.metrics.CatalogErrors.WithLabelValues(catalog, reason).Inc()
		p.logger.Debug("catalog contributed no measurements",
			"catalog", catalog, "name", src.Name, "error", err)
		return
	}
	p.metrics.MeasurementsAccepted.WithLabelValues(catalog).Add(float64(len(added)))
}
