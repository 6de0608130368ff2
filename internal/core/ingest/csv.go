package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	perr "linkmap/internal/platform/errors"
)

// Parse reads delimited text, see ParseBytes
func Parse(r io.Reader, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "read upload")
	}
	return ParseBytes(data, opts)
}

// ParseBytes skips metadata, then parses the header and data rows with encoding/csv.
// Quoted fields may span lines. Field counts may vary, short rows are padded
func ParseBytes(data []byte, opts Options) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	pos, err := SkipMetadata(data, opts.markers(), opts.Delimiter)
	if err != nil {
		return nil, err
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(pos.Text)
	}

	cr := csv.NewReader(bytes.NewReader(data[pos.Offset:]))
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, parseErr(err, pos.Line)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseErr(err, pos.Line)
		}
		rows = append(rows, rec)
	}

	t := &Table{
		Source:     SourceCSV,
		Header:     header,
		Delimiter:  delim,
		HeaderLine: pos.Line,
		Skipped:    pos.Line - 1,
	}
	return finish(t, rows, opts)
}

// parseErr rebases csv line numbers onto the whole upload
func parseErr(err error, headerLine int) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		line := headerLine + pe.Line - 1
		return perr.Wrapf(err, perr.ErrorCodeParse, "malformed delimited content at line %d", line)
	}
	return perr.Wrap(err, perr.ErrorCodeParse, "malformed delimited content")
}
