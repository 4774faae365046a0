package domain

// Normalizer converts one catalog's raw response table into measurements
// appended to the source. All catalog normalizers satisfy it, so the
// pipeline can treat them uniformly.
type Normalizer interface {
	// CatalogName identifies the catalog the normalizer handles.
	CatalogName() Catalog
	// Normalize filters and converts the table's rows, appends the
	// accepted measurements to src, and returns them. ErrNoData when
	// nothing survived filtering; never panics on missing columns or
	// empty tables.
	Normalize(src *Source, table *Table) ([]Measurement, error)
}
