package gazetteer

import (
	"strings"
	"testing"
)

func TestLoad_Embedded(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if g.Version != 1 {
		t.Fatalf("version = %d, want 1", g.Version)
	}
	st := g.Stats()
	if st.Countries == 0 || st.Keywords == 0 || st.Headquarters == 0 || st.Domains == 0 {
		t.Fatalf("expected every table populated, got %+v", st)
	}
	if len(g.HeaderMarkers) == 0 {
		t.Fatalf("expected header markers")
	}

	if c, ok := g.Domain("AU"); !ok || c != "Australia" {
		t.Fatalf("Domain(AU) = %q,%v", c, ok)
	}
	if c, ok := g.Domain("uk"); !ok || c != "United Kingdom" {
		t.Fatalf("Domain(uk) = %q,%v", c, ok)
	}
	if _, ok := g.Domain("zz"); ok {
		t.Fatalf("unexpected domain zz")
	}

	c, ok := g.Country("united states")
	if !ok || c.ISO3 != "USA" || c.ISO2 != "US" || c.Name != "United States" {
		t.Fatalf("Country(united states) = %+v,%v", c, ok)
	}
}

func TestLoad_EveryReferenceResolves(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	check := func(kind, key, country string) {
		if _, ok := g.Country(country); !ok {
			t.Errorf("%s %q refers to %q which is not a known country", kind, key, country)
		}
	}
	for _, e := range g.Keywords {
		check("keyword", e.Key, e.Country)
	}
	for _, e := range g.Headquarters {
		check("headquarters", e.Key, e.Country)
	}
	for s, c := range g.Domains {
		check("domain", s, c)
	}
}

func TestLoad_KeysAreNormalized(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	for _, e := range g.Keywords {
		if e.Key != strings.ToLower(e.Key) || e.Key != strings.TrimSpace(e.Key) {
			t.Fatalf("keyword not normalized: %q", e.Key)
		}
	}
}

func TestLoad_DisambiguatingKeywordsComeFirst(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	idx := map[string]int{}
	for i, e := range g.Keywords {
		idx[e.Key] = i
	}
	pairs := [][2]string{
		{"indiana", "india"},
		{"new mexico", "mexico"},
		{"new south wales", "wales"},
		{"northern ireland", "ireland"},
	}
	for _, p := range pairs {
		a, okA := idx[p[0]]
		b, okB := idx[p[1]]
		if !okA || !okB {
			t.Fatalf("missing keyword pair %v", p)
		}
		if a > b {
			t.Fatalf("%q (%d) must precede %q (%d)", p[0], a, p[1], b)
		}
	}
}

func TestDefault_Shared(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	b := MustDefault()
	if a != b {
		t.Fatalf("Default should return the same tables on every call")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bad json", `{`, "parse tables.json"},
		{"version", `{"version":2}`, "unsupported"},
		{"iso", `{"version":1,"countries":[{"name":"X","iso2":"X","iso3":"XXX"}]}`, "malformed iso"},
		{"dup country", `{"version":1,"countries":[{"name":"A","iso2":"AA","iso3":"AAA"},{"name":"a","iso2":"AB","iso3":"ABB"}]}`, "duplicate country"},
		{"domain suffix", `{"version":1,"countries":[{"name":"A","iso2":"AA","iso3":"AAA"}],"domains":{"abc":"A"}}`, "not two letters"},
		{"unknown keyword country", `{"version":1,"countries":[{"name":"A","iso2":"AA","iso3":"AAA"}],"keywords":[{"keyword":"x","country":"B"}]}`, "unknown country"},
		{"unknown hq country", `{"version":1,"countries":[{"name":"A","iso2":"AA","iso3":"AAA"}],"headquarters":[{"company":"x","country":"B"}]}`, "unknown country"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParse_FirstKeywordWins(t *testing.T) {
	in := `{"version":1,
		"countries":[{"name":"Alpha","iso2":"AA","iso3":"AAA"},{"name":"Beta","iso2":"BB","iso3":"BBB"}],
		"keywords":[{"keyword":"Town","country":"Alpha"},{"keyword":"  town ","country":"Beta"},{"keyword":"","country":"Beta"},{"keyword":"City","country":"beta"}]}`
	g, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(g.Keywords) != 2 {
		t.Fatalf("keywords = %+v", g.Keywords)
	}
	if g.Keywords[0] != (Entry{Key: "town", Country: "Alpha"}) {
		t.Fatalf("first entry = %+v", g.Keywords[0])
	}
	// country names are canonicalized to the countries table spelling
	if g.Keywords[1] != (Entry{Key: "city", Country: "Beta"}) {
		t.Fatalf("second entry = %+v", g.Keywords[1])
	}
}

func TestNilTables(t *testing.T) {
	var g *Tables
	if _, ok := g.Country("x"); ok {
		t.Fatalf("nil tables should not resolve")
	}
	if _, ok := g.Domain("au"); ok {
		t.Fatalf("nil tables should not resolve")
	}
}
