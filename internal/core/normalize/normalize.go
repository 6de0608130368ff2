// Package normalize folds free text into the form keyword tables are matched against
// Pipeline order
// 1 Sanitize control characters and repair UTF-8
// 2 Unicode NFKD decomposition
// 3 Case folding
// 4 Remove combining marks and format characters (accents, zero-widths)
// 5 Width fold fullwidth to ASCII
// 6 Recompose with NFC
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains, transformers carry state and must not be shared
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)), // accents after decomposition
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			width.Fold,
			norm.NFC,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the folded form of s, "São Paulo" and "SAO  PAULO" both become "sao paulo"
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = stripControls(strings.ToValidUTF8(s, ""))

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// fall back to a plain lower so matching still works on odd input
		ns = strings.ToLower(s)
	}

	return collapseSpaces(ns)
}

// stripControls drops C0 and C1 control characters and DEL, tabs and line breaks survive as whitespace
func stripControls(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f):
			return -1
		}
		return r
	}, s)
}

// collapseSpaces converts any whitespace run, line breaks included, into a single ASCII space
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
