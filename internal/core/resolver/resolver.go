// Package resolver infers a country label for one connection record
package resolver

import (
	"strings"

	"linkmap/internal/core/gazetteer"
	"linkmap/internal/core/normalize"
)

// Unknown is the label used when no rule matches
const Unknown = "Unknown"

// Rule names the step of the decision chain that produced a label
type Rule string

const (
	// RuleDirect uses the value of a geographic column as is
	RuleDirect Rule = "direct"
	// RuleEmail maps the two letter email domain suffix
	RuleEmail Rule = "email"
	// RulePosition scans the position text for keywords
	RulePosition Rule = "position"
	// RuleCompanyHQ scans the company text for known headquarters
	RuleCompanyHQ Rule = "company_hq"
	// RuleCompanyKeyword scans the company text for keywords
	RuleCompanyKeyword Rule = "company_keyword"
	// RuleUnknown is the fallback
	RuleUnknown Rule = "unknown"
)

// Rules lists every rule in decision order
var Rules = []Rule{RuleDirect, RuleEmail, RulePosition, RuleCompanyHQ, RuleCompanyKeyword, RuleUnknown}

// Record holds the text attributes of a row the chain looks at. Location is
// the direct geographic value when the table has such a column
type Record struct {
	Location string `json:"location,omitempty"`
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Resolution is the outcome for one record, Match is the table key or suffix that fired
type Resolution struct {
	Label string `json:"label"`
	Rule  Rule   `json:"rule"`
	Match string `json:"match,omitempty"`
}

// matcher finds the earliest table entry contained in a normalized text
type matcher struct {
	ac      *acAutomaton
	entries []gazetteer.Entry
}

func newMatcher(entries []gazetteer.Entry) *matcher {
	ac := newAutomaton()
	for i, e := range entries {
		ac.AddPattern([]byte(e.Key), i)
	}
	ac.Build()
	return &matcher{ac: ac, entries: entries}
}

func (m *matcher) first(text string) (gazetteer.Entry, bool) {
	if text == "" || len(m.entries) == 0 {
		return gazetteer.Entry{}, false
	}
	id, ok := m.ac.Lowest([]byte(text))
	if !ok {
		return gazetteer.Entry{}, false
	}
	return m.entries[id], true
}

// Resolver applies the decision chain against compiled tables.
// It holds no mutable state and is safe for concurrent use
type Resolver struct {
	tables   *gazetteer.Tables
	norm     *normalize.Normalizer
	keywords *matcher
	hq       *matcher
}

// New compiles matchers for the keyword and headquarters tables
func New(t *gazetteer.Tables) *Resolver {
	return &Resolver{
		tables:   t,
		norm:     normalize.New(),
		keywords: newMatcher(t.Keywords),
		hq:       newMatcher(t.Headquarters),
	}
}

// Tables returns the tables the resolver was built from
func (r *Resolver) Tables() *gazetteer.Tables { return r.tables }

// Resolve runs the chain, first match wins
//  1. non blank direct value, verbatim
//  2. email domain suffix
//  3. keyword in position
//  4. headquarters then keyword in company
//  5. Unknown
func (r *Resolver) Resolve(rec Record) Resolution {
	if strings.TrimSpace(rec.Location) != "" {
		return Resolution{Label: rec.Location, Rule: RuleDirect}
	}

	if sfx, ok := EmailSuffix(rec.Email); ok {
		if c, ok := r.tables.Domain(sfx); ok {
			return Resolution{Label: c, Rule: RuleEmail, Match: sfx}
		}
	}

	if pos := r.norm.Normalize(rec.Position); pos != "" {
		if e, ok := r.keywords.first(pos); ok {
			return Resolution{Label: e.Country, Rule: RulePosition, Match: e.Key}
		}
	}

	if co := r.norm.Normalize(rec.Company); co != "" {
		if e, ok := r.hq.first(co); ok {
			return Resolution{Label: e.Country, Rule: RuleCompanyHQ, Match: e.Key}
		}
		if e, ok := r.keywords.first(co); ok {
			return Resolution{Label: e.Country, Rule: RuleCompanyKeyword, Match: e.Key}
		}
	}

	return Resolution{Label: Unknown, Rule: RuleUnknown}
}

// EmailSuffix returns the lowercased trailing domain label of an address when it is
// exactly two ASCII letters, "jane@uni.edu.au" gives "au"
func EmailSuffix(email string) (string, bool) {
	s := strings.TrimSpace(email)
	if at := strings.LastIndexByte(s, '@'); at >= 0 {
		s = s[at+1:]
	}
	s = strings.TrimRight(s, ". >")
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return "", false
	}
	label := strings.ToLower(s[dot+1:])
	if len(label) != 2 || !isASCIILetter(label[0]) || !isASCIILetter(label[1]) {
		return "", false
	}
	return label, true
}

func isASCIILetter(b byte) bool { return b >= 'a' && b <= 'z' }
