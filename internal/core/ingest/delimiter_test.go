package ingest

import (
	"testing"

	perr "linkmap/internal/platform/errors"
)

func TestDetectDelimiter(t *testing.T) {
	cases := []struct {
		in   string
		want rune
	}{
		{"First Name,Last Name,Company", ','},
		{"First Name;Last Name;Company", ';'},
		{"First Name\tLast Name\tCompany", '\t'},
		{"First Name|Last Name|Company", '|'},
		{`"Doe, Jane";Company;Location`, ';'},
		{"Location", ','},
		{"a,b;c", ','},
		{"", ','},
	}
	for _, tc := range cases {
		if got := DetectDelimiter(tc.in); got != tc.want {
			t.Fatalf("DetectDelimiter(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDelimiter(t *testing.T) {
	cases := []struct {
		in   string
		want rune
	}{
		{"", 0}, {"auto", 0}, {" AUTO ", 0},
		{"comma", ','}, {",", ','},
		{"semicolon", ';'}, {";", ';'},
		{"tab", '\t'}, {"\t", '\t'}, {`\t`, '\t'},
		{"pipe", '|'}, {"|", '|'},
	}
	for _, tc := range cases {
		got, err := ParseDelimiter(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseDelimiter(%q) = %q,%v want %q", tc.in, got, err, tc.want)
		}
	}

	_, err := ParseDelimiter("colon")
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if e, _ := perr.As(err); e.Field() != "delimiter" {
		t.Fatalf("field = %q", e.Field())
	}
}

func TestDelimiterName(t *testing.T) {
	for _, d := range []rune{',', ';', '\t', '|'} {
		got, err := ParseDelimiter(DelimiterName(d))
		if err != nil || got != d {
			t.Fatalf("round trip %q -> %q -> %q (%v)", d, DelimiterName(d), got, err)
		}
	}
	if DelimiterName(0) != "none" {
		t.Fatalf("zero delimiter name = %q", DelimiterName(0))
	}
}
