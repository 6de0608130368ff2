package ingest

import (
	"io"

	"github.com/xuri/excelize/v2"

	perr "linkmap/internal/platform/errors"
)

// ParseXLSX reads the first sheet of a workbook. The header is the first row
// holding a marker cell, rows above it count as metadata
func ParseXLSX(r io.Reader, opts Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "open workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, perr.Validationf("workbook has no worksheet")
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeParse, "read worksheet %q", sheet)
	}

	markers := opts.markers()
	for i, row := range all {
		if !hasMarker(row, markers) {
			continue
		}
		t := &Table{
			Source:     SourceXLSX,
			Header:     append([]string(nil), row...),
			HeaderLine: i + 1,
			Skipped:    i,
		}
		return finish(t, all[i+1:], opts)
	}
	return nil, perr.Validationf("no header row found in worksheet %q: expected a column named one of %s", sheet, joinMarkers(markers))
}
