// Package gazetteer loads the static location tables from the embedded v1 tables.json.
// It prepares the keyword, headquarters and email domain tables for the resolver
package gazetteer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"linkmap/internal/core/normalize"
)

//go:embed tables.json
var embedded []byte

type rawCountry struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

type rawKeyword struct {
	Keyword string `json:"keyword"`
	Country string `json:"country"`
}

type rawCompany struct {
	Company string `json:"company"`
	Country string `json:"country"`
}

type rawTablesV1 struct {
	Version       int               `json:"version"`
	Meta          map[string]any    `json:"meta"`
	HeaderMarkers []string          `json:"header_markers"`
	Countries     []rawCountry      `json:"countries"`
	Domains       map[string]string `json:"domains"`
	Keywords      []rawKeyword      `json:"keywords"`
	Headquarters  []rawCompany      `json:"headquarters"`
}

// Country is a canonical country name with its ISO 3166 codes
type Country struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

// Entry maps a normalized key (keyword or company fragment) to a canonical country name
type Entry struct {
	Key     string
	Country string
}

// Tables is the compiled gazetteer. Keywords and Headquarters keep file order,
// which is the order the resolver uses to pick the first match
type Tables struct {
	Version       int
	Meta          map[string]any
	HeaderMarkers []string

	Countries    []Country
	Keywords     []Entry
	Headquarters []Entry
	Domains      map[string]string // two letter suffix -> country

	byName map[string]Country // normalized country name -> country
}

// Stats summarizes table sizes
type Stats struct {
	Version      int `json:"version"`
	Countries    int `json:"countries"`
	Keywords     int `json:"keywords"`
	Headquarters int `json:"headquarters"`
	Domains      int `json:"domains"`
}

var defaultTables = sync.OnceValues(Load)

// Default returns the process wide tables, loaded once from the embedded file
func Default() (*Tables, error) { return defaultTables() }

// MustDefault is Default for bootstrap code, it panics when the embedded file is broken
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load compiles the embedded tables.json
func Load() (*Tables, error) { return Parse(embedded) }

// Parse compiles tables from raw v1 json
func Parse(b []byte) (*Tables, error) {
	var rt rawTablesV1
	if err := json.Unmarshal(b, &rt); err != nil {
		return nil, fmt.Errorf("gazetteer: parse tables.json: %w", err)
	}
	if rt.Version != 1 {
		return nil, fmt.Errorf("gazetteer: unsupported tables.json version %d (want 1)", rt.Version)
	}

	n := normalize.New()
	t := &Tables{
		Version:       rt.Version,
		Meta:          rt.Meta,
		HeaderMarkers: make([]string, 0, len(rt.HeaderMarkers)),
		Countries:     make([]Country, 0, len(rt.Countries)),
		Keywords:      make([]Entry, 0, len(rt.Keywords)),
		Headquarters:  make([]Entry, 0, len(rt.Headquarters)),
		Domains:       make(map[string]string, len(rt.Domains)),
		byName:        make(map[string]Country, len(rt.Countries)),
	}

	for _, m := range rt.HeaderMarkers {
		if m = strings.TrimSpace(m); m != "" {
			t.HeaderMarkers = append(t.HeaderMarkers, m)
		}
	}

	for _, c := range rt.Countries {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if len(c.ISO2) != 2 || len(c.ISO3) != 3 {
			return nil, fmt.Errorf("gazetteer: country %q has malformed iso codes %q/%q", name, c.ISO2, c.ISO3)
		}
		key := n.Normalize(name)
		if _, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("gazetteer: duplicate country %q", name)
		}
		cc := Country{Name: name, ISO2: strings.ToUpper(c.ISO2), ISO3: strings.ToUpper(c.ISO3)}
		t.byName[key] = cc
		t.Countries = append(t.Countries, cc)
	}

	canonical := func(where, country string) (string, error) {
		c, ok := t.Country(country)
		if !ok {
			return "", fmt.Errorf("gazetteer: %s refers to unknown country %q", where, country)
		}
		return c.Name, nil
	}

	for suffix, country := range rt.Domains {
		s := strings.ToLower(strings.TrimSpace(suffix))
		if !isTwoLetters(s) {
			return nil, fmt.Errorf("gazetteer: domain suffix %q is not two letters", suffix)
		}
		name, err := canonical("domain "+s, country)
		if err != nil {
			return nil, err
		}
		t.Domains[s] = name
	}

	var err error
	if t.Keywords, err = compileEntries(n, "keyword", rt.keywordPairs(), canonical); err != nil {
		return nil, err
	}
	if t.Headquarters, err = compileEntries(n, "headquarters", rt.companyPairs(), canonical); err != nil {
		return nil, err
	}
	return t, nil
}

// Country looks up a canonical country by name, case and accent insensitive
func (t *Tables) Country(name string) (Country, bool) {
	if t == nil {
		return Country{}, false
	}
	c, ok := t.byName[normalize.New().Normalize(name)]
	return c, ok
}

// Domain maps a two letter email suffix to its country
func (t *Tables) Domain(suffix string) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.Domains[strings.ToLower(suffix)]
	return c, ok
}

// Stats returns table sizes for meta endpoints and logs
func (t *Tables) Stats() Stats {
	return Stats{
		Version:      t.Version,
		Countries:    len(t.Countries),
		Keywords:     len(t.Keywords),
		Headquarters: len(t.Headquarters),
		Domains:      len(t.Domains),
	}
}

func (rt rawTablesV1) keywordPairs() [][2]string {
	out := make([][2]string, 0, len(rt.Keywords))
	for _, k := range rt.Keywords {
		out = append(out, [2]string{k.Keyword, k.Country})
	}
	return out
}

func (rt rawTablesV1) companyPairs() [][2]string {
	out := make([][2]string, 0, len(rt.Headquarters))
	for _, c := range rt.Headquarters {
		out = append(out, [2]string{c.Company, c.Country})
	}
	return out
}

// compileEntries normalizes keys in file order, the first occurrence of a key wins
func compileEntries(n *normalize.Normalizer, kind string, pairs [][2]string, canonical func(string, string) (string, error)) ([]Entry, error) {
	out := make([]Entry, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		key := n.Normalize(p[0])
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		name, err := canonical(kind+" "+key, p[1])
		if err != nil {
			return nil, err
		}
		seen[key] = struct{}{}
		out = append(out, Entry{Key: key, Country: name})
	}
	return out, nil
}

func isTwoLetters(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z'
}
