// Package votable decodes VOTable 1.x XML responses, the interchange
// format served by the NED and IRSA query endpoints, into the read-only
// tables the normalizers consume.
package votable

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/astrofuse/sedfuse/internal/domain"
)

// ErrNoTable reports a response that parsed as XML but carried no TABLE
// element with data; the services answer this way for unknown objects.
var ErrNoTable = errors.New("votable: response contains no table")

type voTable struct {
	XMLName   xml.Name     `xml:"VOTABLE"`
	Resources []voResource `xml:"RESOURCE"`
}

type voResource struct {
	Tables    []voTableElement `xml:"TABLE"`
	Resources []voResource     `xml:"RESOURCE"`
}

type voTableElement struct {
	Fields []voField `xml:"FIELD"`
	Rows   []voRow   `xml:"DATA>TABLEDATA>TR"`
}

type voField struct {
	Name string `xml:"name,attr"`
	ID   string `xml:"ID,attr"`
}

type voRow struct {
	Cells []string `xml:"TD"`
}

// Parse decodes the first populated TABLE of a VOTable document, matching
// the single-table convention of the catalog services. Cells beyond the
// declared FIELD list are dropped; rows shorter than it leave empty cells,
// which the table layer decodes as nulls.
func Parse(r io.Reader) (*domain.Table, error) {
	var doc voTable
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("votable: decode: %w", err)
	}

	table := firstTable(doc.Resources)
	if table == nil || len(table.Fields) == 0 {
		return nil, ErrNoTable
	}

	columns := make(map[string][]string, len(table.Fields))
	names := make([]string, len(table.Fields))
	for i, f := range table.Fields {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		names[i] = name
		columns[name] = make([]string, 0, len(table.Rows))
	}

	for _, row := range table.Rows {
		for i, name := range names {
			cell := ""
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			columns[name] = append(columns[name], cell)
		}
	}

	return domain.NewTable(columns), nil
}

// firstTable walks nested RESOURCE elements depth-first and returns the
// first TABLE that declares fields, preferring one with rows.
func firstTable(resources []voResource) *voTableElement {
	var fallback *voTableElement
	for i := range resources {
		for j := range resources[i].Tables {
			t := &resources[i].Tables[j]
			if len(t.Fields) == 0 {
				continue
			}
			if len(t.Rows) > 0 {
				return t
			}
			if fallback == nil {
				fallback = t
			}
		}
		if t := firstTable(resources[i].Resources); t != nil {
			if len(t.Rows) > 0 {
				return t
			}
			if fallback == nil {
				fallback = t
			}
		}
	}
	return fallback
}
