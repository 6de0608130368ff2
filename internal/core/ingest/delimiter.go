package ingest

import (
	"strings"

	perr "linkmap/internal/platform/errors"
)

// Candidates in tie break order
var delimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter picks the candidate occurring most often outside double quotes.
// Ties go to the earlier candidate so a line without any separator reads as comma
func DetectDelimiter(line string) rune {
	counts := make(map[rune]int, len(delimiters))
	inQuote := false
	for _, r := range line {
		if r == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote {
			counts[r]++
		}
	}
	best, bestN := ',', 0
	for _, d := range delimiters {
		if counts[d] > bestN {
			best, bestN = d, counts[d]
		}
	}
	return best
}

// ParseDelimiter maps a user supplied name or literal to a separator, auto (or empty) gives 0
func ParseDelimiter(s string) (rune, error) {
	if s == "\t" {
		return '\t', nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return 0, nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "tab", `\t`:
		return '\t', nil
	case "pipe", "|":
		return '|', nil
	}
	return 0, perr.WithField(perr.Validationf("unknown delimiter %q: want auto, comma, semicolon, tab or pipe", s), "delimiter")
}

// DelimiterName is the inverse of ParseDelimiter for reports
func DelimiterName(d rune) string {
	switch d {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	case 0:
		return "none"
	}
	return string(d)
}
