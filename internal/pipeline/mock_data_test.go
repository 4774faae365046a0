package pipeline_test

import (
	"context"
	"fmt"
	"math"

	"github.com/astrofuse/sedfuse/internal/domain"
)

// Test doubles for the pipeline's collaborator interfaces.

type fakeObjectCatalog struct {
	positions  map[string]*domain.Table
	photometry map[string]*domain.Table
	posErr     error
	posCalls   []string
}

func (f *fakeObjectCatalog) Position(_ context.Context, name string) (*domain.Table, error) {
	f.posCalls = append(f.posCalls, name)
	if f.posErr != nil {
		return nil, f.posErr
	}
	if t, ok := f.positions[name]; ok {
		return t, nil
	}
	return nil, domain.ErrNoData
}

func (f *fakeObjectCatalog) Photometry(_ context.Context, name string) (*domain.Table, error) {
	if t, ok := f.photometry[name]; ok {
		return t, nil
	}
	return nil, domain.ErrNoData
}

type fakeSurveys struct {
	wise         *domain.Table
	twoMASS      *domain.Table
	galex        *domain.Table
	twoMASSCalls int
}

func (f *fakeSurveys) WISE(_ context.Context, _, _ float64) (*domain.Table, error) {
	if f.wise == nil {
		return nil, domain.ErrNoData
	}
	return f.wise, nil
}

func (f *fakeSurveys) TwoMASS(_ context.Context, _, _ float64) (*domain.Table, error) {
	f.twoMASSCalls++
	if f.twoMASS == nil {
		return nil, domain.ErrNoData
	}
	return f.twoMASS, nil
}

func (f *fakeSurveys) GALEX(_ context.Context, _, _ float64) (*domain.Table, error) {
	if f.galex == nil {
		return nil, domain.ErrNoData
	}
	return f.galex, nil
}

type fakeReddening struct {
	value float64
	err   error
	calls int
}

func (f *fakeReddening) Reddening(_ context.Context, _, _ float64) (float64, error) {
	f.calls++
	if f.err != nil {
		return math.NaN(), f.err
	}
	return f.value, nil
}

type memWriter struct {
	sources []*domain.Source
	err     error
}

func (w *memWriter) WriteSource(src *domain.Source) error {
	if w.err != nil {
		return w.err
	}
	w.sources = append(w.sources, src)
	return nil
}

type memPublisher struct {
	records []domain.Record
	err     error
}

func (p *memPublisher) Publish(_ context.Context, record domain.Record) error {
	if p.err != nil {
		return p.err
	}
	p.records = append(p.records, record)
	return nil
}

// Catalog response fixtures around the test source PKS 1306-09.

const (
	testRA  = 197.16345
	testDec = -9.84206
)

func positionTable(lat, lon float64) *domain.Table {
	return domain.NewTable(map[string][]string{
		"pos_ra_equ_J2000_d":  {fmt.Sprintf("%.6f", lat)},
		"pos_dec_equ_J2000_d": {fmt.Sprintf("%.6f", lon)},
	})
}

func sedTable() *domain.Table {
	return domain.NewTable(map[string][]string{
		"Frequency":                  {"1.4e9", "4.85e9"},
		"NED Photometry Measurement": {"2.3", "1.8"},
		"Refcode":                    {"2010ApJS..189....1A", "1998AJ....115.1693C"},
		"Qualifiers":                 {"", ""},
		"Observed Passband":          {"1.4 GHz (NVSS)", "4.85 GHz (PMN)"},
	})
}

func wiseTable(inline bool) *domain.Table {
	cols := map[string][]string{
		"ra":     {fmt.Sprintf("%.6f", testRA)},
		"dec":    {fmt.Sprintf("%.6f", testDec)},
		"w1mpro": {"12.0"},
		"w2mpro": {"11.5"},
		"w3mpro": {""},
		"w4mpro": {"99.0"},
	}
	if inline {
		cols["j_m_2mass"] = []string{"14.0"}
		cols["h_m_2mass"] = []string{""}
		cols["k_m_2mass"] = []string{""}
	}
	return domain.NewTable(cols)
}

func twoMASSTable() *domain.Table {
	return domain.NewTable(map[string][]string{
		"ra":  {fmt.Sprintf("%.6f", testRA)},
		"dec": {fmt.Sprintf("%.6f", testDec)},
		"j_m": {"14.2"},
		"h_m": {"13.6"},
		"k_m": {""},
	})
}

func galexTable() *domain.Table {
	return domain.NewTable(map[string][]string{
		"ra":       {fmt.Sprintf("%.6f", testRA), fmt.Sprintf("%.6f", testRA+1e-5)},
		"dec":      {fmt.Sprintf("%.6f", testDec), fmt.Sprintf("%.6f", testDec)},
		"fuv_flux": {"2.0", "4.0"},
		"nuv_flux": {"6.0", "10.0"},
		"e_bv":     {"0.1", "0.3"},
	})
}

func catalogsOf(src *domain.Source) []string {
	out := make([]string, len(src.Measurements))
	for i, m := range src.Measurements {
		out[i] = string(m.Catalog)
	}
	return out
}
