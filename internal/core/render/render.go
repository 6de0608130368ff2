// Package render encodes aggregate counts for download or display
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"linkmap/internal/core/aggregate"
	"linkmap/internal/core/gazetteer"
	perr "linkmap/internal/platform/errors"
)

// Format is an output encoding
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatPNG   Format = "png"
	FormatTable Format = "table" // aligned text, CLI only
)

// Formats lists every accepted format
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX, FormatPNG, FormatTable}

// ParseFormat accepts a format name, empty gives json
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	for _, k := range Formats {
		if f == k {
			return f, nil
		}
	}
	return "", perr.WithField(perr.Validationf("unknown format %q", s), "format")
}

// ContentType is the media type for HTTP responses
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPNG:
		return "image/png"
	case FormatTable:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Ext is the file extension without the dot
func (f Format) Ext() string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}

// MapPoint is an aggregate row with ISO codes for choropleth locations, codes are empty for unknown labels
type MapPoint struct {
	Country     string `json:"country"`
	ISO2        string `json:"iso2,omitempty"`
	ISO3        string `json:"iso3,omitempty"`
	Connections int    `json:"connections"`
}

// MapPoints attaches ISO codes from the country table
func MapPoints(counts []aggregate.Count, t *gazetteer.Tables) []MapPoint {
	out := make([]MapPoint, 0, len(counts))
	for _, c := range counts {
		p := MapPoint{Country: c.Country, Connections: c.Connections}
		if cc, ok := t.Country(c.Country); ok {
			p.ISO2, p.ISO3 = cc.ISO2, cc.ISO3
		}
		out = append(out, p)
	}
	return out
}

// JSON writes v indented
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CSV writes Country,Connections rows
func CSV(w io.Writer, counts []aggregate.Count) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(aggregate.Columns); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Country, strconv.Itoa(c.Connections)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Table writes an aligned two column table with a total line
func Table(w io.Writer, counts []aggregate.Count) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t\n", aggregate.ColCountry, aggregate.ColConnections)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\t\n", c.Country, c.Connections)
	}
	fmt.Fprintf(tw, "%s\t%d\t\n", "Total", aggregate.Sum(counts))
	return tw.Flush()
}
