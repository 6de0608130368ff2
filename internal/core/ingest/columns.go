package ingest

import (
	"strings"

	"linkmap/internal/core/resolver"
	perr "linkmap/internal/platform/errors"
)

// Mode tells whether rows carry an explicit location or need inference
type Mode string

const (
	// ModeDirect reads a geographic column
	ModeDirect Mode = "direct"
	// ModeInferred derives the location from company, position and email
	ModeInferred Mode = "inferred"
)

// Column names as they appear in exports
const (
	ColLocation = "Location"
	ColCountry  = "Country"
	ColCity     = "City"
	ColRegion   = "Region"
	ColCompany  = "Company"
	ColPosition = "Position"
	ColEmail    = "Email Address"
)

// DirectColumns in priority order
var DirectColumns = []string{ColLocation, ColCountry, ColCity, ColRegion}

// InferenceColumns feed the inference rules
var InferenceColumns = []string{ColCompany, ColPosition, ColEmail}

// Columns are resolved header positions, -1 when a column is absent
type Columns struct {
	Mode      Mode
	Direct    string // header cell used for direct values
	DirectIdx int
	Company   int
	Position  int
	Email     int
}

// ResolveColumns picks the direct column when one exists, otherwise requires
// at least one inference column. Inference columns are recorded in both modes
// so rows with a blank direct value can still be inferred
func ResolveColumns(header []string) (Columns, error) {
	c := Columns{
		DirectIdx: -1,
		Company:   indexOf(header, ColCompany),
		Position:  indexOf(header, ColPosition),
		Email:     indexOf(header, ColEmail),
	}
	for _, name := range DirectColumns {
		if i := indexOf(header, name); i >= 0 {
			c.Mode, c.Direct, c.DirectIdx = ModeDirect, header[i], i
			return c, nil
		}
	}
	if c.Company < 0 && c.Position < 0 && c.Email < 0 {
		return c, perr.WithField(perr.Validationf(
			"missing required columns: need one of %s, or one of %s",
			strings.Join(DirectColumns, ", "), strings.Join(InferenceColumns, ", "),
		), "header")
	}
	c.Mode = ModeInferred
	return c, nil
}

// Record extracts the resolver input from a row
func (c Columns) Record(row []string) resolver.Record {
	return resolver.Record{
		Location: cell(row, c.DirectIdx),
		Company:  cell(row, c.Company),
		Position: cell(row, c.Position),
		Email:    cell(row, c.Email),
	}
}

// Used lists the header cells the resolver reads
func (c Columns) Used(header []string) []string {
	var out []string
	for _, i := range []int{c.DirectIdx, c.Company, c.Position, c.Email} {
		if i >= 0 && i < len(header) {
			out = append(out, header[i])
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
