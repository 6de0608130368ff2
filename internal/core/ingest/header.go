package ingest

import (
	"bytes"
	"encoding/csv"
	"strings"

	perr "linkmap/internal/platform/errors"
)

// HeaderPos is where SkipMetadata found the header
type HeaderPos struct {
	Offset int    // byte offset of the header line
	Line   int    // 1 based line number
	Text   string // the header line without its line break
}

// SkipMetadata scans lines until one has a cell equal (case insensitive) to a marker.
// delim 0 detects the separator per line. Lines before the header are discarded
func SkipMetadata(data []byte, markers []string, delim rune) (HeaderPos, error) {
	off := 0
	for line := 1; off < len(data); line++ {
		end := bytes.IndexByte(data[off:], '\n')
		next := len(data)
		if end >= 0 {
			next = off + end + 1
		} else {
			end = len(data) - off
		}
		text := strings.TrimRight(string(data[off:off+end]), "\r")
		if isHeader(text, markers, delim) {
			return HeaderPos{Offset: off, Line: line, Text: text}, nil
		}
		off = next
	}
	return HeaderPos{}, perr.Validationf("no header row found: expected a column named one of %s", joinMarkers(markers))
}

func isHeader(line string, markers []string, delim rune) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if delim == 0 {
		delim = DetectDelimiter(line)
	}
	return hasMarker(splitLine(line, delim), markers)
}

func hasMarker(cells, markers []string) bool {
	for _, c := range cells {
		c = strings.TrimSpace(c)
		for _, m := range markers {
			if strings.EqualFold(c, m) {
				return true
			}
		}
	}
	return false
}

// splitLine splits one line honoring quotes, metadata lines with broken quoting fall back to a plain split
func splitLine(line string, delim rune) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rec, err := cr.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return rec
}

func joinMarkers(m []string) string { return strings.Join(m, ", ") }
