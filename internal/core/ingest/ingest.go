// Package ingest turns an uploaded connections export into a header and data rows.
// Exports carry free text notes above the real header, those lines are dropped
// before the delimited body is parsed. XLSX workbooks are read from their first sheet
package ingest

import (
	"bytes"
	"io"
	"strings"

	perr "linkmap/internal/platform/errors"
)

// Source names the container format a table was read from
type Source string

const (
	// SourceCSV is delimited text
	SourceCSV Source = "csv"
	// SourceXLSX is an Office Open XML workbook
	SourceXLSX Source = "xlsx"
)

// DefaultMarkers are header cells that identify the header row of an export
var DefaultMarkers = []string{"First Name", "Last Name", "Email Address", "Company", "Position", "Location", "Country"}

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
	// OLE2 compound file, the pre 2007 .xls workbook
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Options controls parsing
type Options struct {
	// Delimiter is the field separator, 0 detects it from the header line
	Delimiter rune
	// MaxRows caps data rows (0 = no cap)
	MaxRows int
	// Markers overrides DefaultMarkers
	Markers []string
}

func (o Options) markers() []string {
	if len(o.Markers) > 0 {
		return o.Markers
	}
	return DefaultMarkers
}

// Table is a parsed export. Rows are padded to the header width
type Table struct {
	Source     Source
	Header     []string
	Rows       [][]string
	Delimiter  rune // zero for workbooks
	HeaderLine int  // 1 based line (or sheet row) of the header
	Skipped    int  // metadata lines dropped above the header
}

// Index returns the position of a header cell, case insensitive, or -1
func (t *Table) Index(name string) int {
	return indexOf(t.Header, name)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// IsXLSX reports whether data looks like a zip container
func IsXLSX(data []byte) bool { return bytes.HasPrefix(data, zipMagic) }

// Read sniffs the container and parses data as CSV or XLSX
func Read(r io.Reader, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "read upload")
	}
	return ReadBytes(data, opts)
}

// ReadBytes is Read over an in memory upload
func ReadBytes(data []byte, opts Options) (*Table, error) {
	if bytes.HasPrefix(data, oleMagic) {
		return nil, perr.Unsupportedf("legacy .xls workbooks are not supported, save as .xlsx or .csv")
	}
	if IsXLSX(data) {
		return ParseXLSX(bytes.NewReader(data), opts)
	}
	return ParseBytes(data, opts)
}

// finish trims the header, pads and filters rows and applies row limits
func finish(t *Table, rows [][]string, opts Options) (*Table, error) {
	for i := range t.Header {
		t.Header[i] = strings.TrimSpace(t.Header[i])
	}
	width := len(t.Header)

	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		if opts.MaxRows > 0 && len(t.Rows) >= opts.MaxRows {
			return nil, perr.TooLargef("upload has more than %d data rows", opts.MaxRows)
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, perr.Validationf("header found at line %d but no data rows follow", t.HeaderLine)
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
