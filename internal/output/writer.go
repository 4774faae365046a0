// Package output persists reconciled measurements: one shared .dat file of
// rendered lines appended across the whole run, and optionally one plot
// table per source for downstream plotting tools.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrofuse/sedfuse/internal/domain"
)

// Writer appends rendered measurement lines to the run's data file and
// writes per-source plot tables. It implements pipeline.ResultWriter.
type Writer struct {
	dat      *os.File
	template *domain.Template
	plotDir  string
	logger   *slog.Logger
}

// NewWriter opens (or creates) the data file for appending. plotDir may be
// empty to disable plot tables.
func NewWriter(datPath string, template *domain.Template, plotDir string, logger *slog.Logger) (*Writer, error) {
	dat, err := os.OpenFile(datPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}

	if plotDir != "" {
		if err := os.MkdirAll(plotDir, 0o755); err != nil {
			dat.Close()
			return nil, fmt.Errorf("create plot directory: %w", err)
		}
	}

	return &Writer{
		dat:      dat,
		template: template,
		plotDir:  plotDir,
		logger:   logger,
	}, nil
}

// WriteSource appends one rendered line per accepted measurement and, when
// plot output is enabled, writes the source's plot table.
func (w *Writer) WriteSource(src *domain.Source) error {
	var b strings.Builder
	for _, m := range src.Measurements {
		b.WriteString(w.template.Render(m))
		b.WriteByte('\n')
	}
	if _, err := w.dat.WriteString(b.String()); err != nil {
		return fmt.Errorf("append measurements: %w", err)
	}

	if w.plotDir == "" {
		return nil
	}
	return w.writePlot(src)
}

// writePlot writes the per-source luminosity table, overwriting any table
// from a previous run.
func (w *Writer) writePlot(src *domain.Source) error {
	rows := domain.PlotRows(src)
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("# " + strings.Join(domain.PlotColumns, " ") + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%e %e %e %e %e\n", row.Freq, row.NED, row.WISE, row.TwoMASS, row.GALEX)
	}

	path := filepath.Join(w.plotDir, src.CompactName()+".plot")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write plot table: %w", err)
	}
	w.logger.Debug("wrote plot table", "path", path, "rows", len(rows))
	return nil
}

// Sync flushes the data file to disk.
func (w *Writer) Sync() error {
	return w.dat.Sync()
}

func (w *Writer) Close() error {
	return w.dat.Close()
}
