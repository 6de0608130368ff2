// Package domain holds DTOs for the connections http and service contracts
package domain

import (
	"linkmap/internal/core/aggregate"
	"linkmap/internal/core/gazetteer"
	"linkmap/internal/core/render"
	"linkmap/internal/core/resolver"
)

// AnalyzeForm is the non file part of an analyze upload, with configured defaults
// filled in for absent fields
type AnalyzeForm struct {
	Delimiter string `form:"delimiter" validate:"omitempty,oneof=auto comma semicolon tab pipe" example:"auto"`
	Format    string `form:"format" validate:"omitempty,oneof=json csv xlsx png" example:"json"`
	Top       int    `form:"top" validate:"min=1,max=200" example:"20"`
	Preview   int    `form:"preview" validate:"min=0,max=20" example:"5"`
	Known     bool   `form:"known" example:"false"`
}

// Upload is one file handed to the service
type Upload struct {
	Name      string
	Data      []byte
	Delimiter rune // 0 detects
	Preview   int  // rows echoed back in the report, <0 uses the configured default
}

// PreviewRow is a raw data row echoed back with its resolution. Row is 1 based
// and counts data rows only
type PreviewRow struct {
	Row   int           `json:"row" example:"1"`
	Raw   string        `json:"raw" example:"Jane,Doe,,Atlassian,Engineer"`
	Label string        `json:"label" example:"Australia"`
	Rule  resolver.Rule `json:"rule" example:"company_hq"`
	Match string        `json:"match,omitempty" example:"atlassian"`
}

// Report is the result of one analysis run
type Report struct {
	RunID      string                `json:"run_id" example:"0b7e6c1e-3f0c-4a63-9a57-0b2f5f5f1b2e"`
	File       string                `json:"file,omitempty" example:"Connections.csv"`
	Source     string                `json:"source" example:"csv"`
	Delimiter  string                `json:"delimiter" example:"comma"`
	Mode       string                `json:"mode" example:"inferred"`
	HeaderLine int                   `json:"header_line" example:"4"`
	Skipped    int                   `json:"skipped_lines" example:"3"`
	Columns    []string              `json:"columns"`
	Rows       int                   `json:"rows" example:"812"`
	Countries  []render.MapPoint     `json:"countries"`
	ByRule     []aggregate.RuleCount `json:"by_rule"`
	Preview    []PreviewRow          `json:"preview,omitempty"`
	ElapsedMS  int64                 `json:"elapsed_ms" example:"14"`
}

// Counts returns the aggregate as (Country, Connections) pairs in report order
func (r Report) Counts() []aggregate.Count {
	out := make([]aggregate.Count, 0, len(r.Countries))
	for _, c := range r.Countries {
		out = append(out, aggregate.Count{Country: c.Country, Connections: c.Connections})
	}
	return out
}

// ResolveInput is a single record posted for debugging the tables
type ResolveInput struct {
	Location string `json:"location" validate:"max=512" example:""`
	Company  string `json:"company" validate:"max=512" example:"Atlassian"`
	Position string `json:"position" validate:"max=512" example:"Engineer"`
	Email    string `json:"email" validate:"max=320" example:"jane@uni.edu.au"`
}

// Record converts the input for the resolver
func (in ResolveInput) Record() resolver.Record {
	return resolver.Record{Location: in.Location, Company: in.Company, Position: in.Position, Email: in.Email}
}

// TablesInfo describes the loaded location tables
type TablesInfo struct {
	gazetteer.Stats
	HeaderMarkers []string        `json:"header_markers"`
	Rules         []resolver.Rule `json:"rules"`
}

// RenderOptions selects the output encoding of a report
type RenderOptions struct {
	Format render.Format
	Top    int  // chart bars, 0 uses the configured default
	Known  bool // chart leaves out Unknown
}
