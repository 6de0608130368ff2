// Package service contains the connections analysis workflow
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkmap/internal/core/aggregate"
	"linkmap/internal/core/gazetteer"
	"linkmap/internal/core/ingest"
	"linkmap/internal/core/render"
	"linkmap/internal/core/resolver"
	perr "linkmap/internal/platform/errors"
	"linkmap/internal/platform/logger"
	"linkmap/internal/platform/metrics"
	"linkmap/internal/services/api/connections/domain"
)

// Service defines the connections service contract
type Service interface {
	domain.ServicePort
}

// rows between context checks
const checkEvery = 512

// Svc implements the connections service
type Svc struct {
	tables   *gazetteer.Tables
	resolver *resolver.Resolver
	metrics  *metrics.Metrics
	cfg      Config
}

// New constructs a connections service over the loaded tables. m may be nil
func New(t *gazetteer.Tables, m *metrics.Metrics, cfg Config) *Svc {
	if t == nil {
		panic("connections.Service requires non nil tables")
	}
	return &Svc{tables: t, resolver: resolver.New(t), metrics: m, cfg: cfg.withDefaults()}
}

// Config returns the effective limits
func (s *Svc) Config() Config { return s.cfg }

// Analyze parses one export and aggregates the resolved locations
func (s *Svc) Analyze(ctx context.Context, up domain.Upload) (rep domain.Report, err error) {
	start := time.Now()
	rep.RunID = uuid.NewString()
	ctx = logger.WithRun(ctx, rep.RunID)
	log := logger.C(ctx)

	defer func() {
		s.metrics.Analysed(err, rep.Source, rep.Rows, time.Since(start))
		if err != nil {
			log.Warn().Err(err).Str("file", up.Name).Bool("retryable", perr.Retryable(err)).Msg("analysis failed")
		}
	}()

	if len(bytes.TrimSpace(up.Data)) == 0 {
		return rep, perr.WithField(perr.Validationf("uploaded file is empty"), "file")
	}
	if int64(len(up.Data)) > s.cfg.MaxUploadBytes {
		return rep, perr.WithField(perr.TooLargef("upload is %d bytes, limit is %d", len(up.Data), s.cfg.MaxUploadBytes), "file")
	}

	tbl, err := ingest.ReadBytes(up.Data, ingest.Options{
		Delimiter: up.Delimiter,
		MaxRows:   s.cfg.MaxRows,
		Markers:   s.tables.HeaderMarkers,
	})
	if err != nil {
		return rep, err
	}
	cols, err := ingest.ResolveColumns(tbl.Header)
	if err != nil {
		return rep, err
	}

	preview := up.Preview
	if preview < 0 {
		preview = s.cfg.PreviewRows
	}

	counter := aggregate.NewCounter()
	for i, row := range tbl.Rows {
		if i%checkEvery == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return rep, perr.Wrapf(cerr, perr.ErrorCodeTimeout, "analysis stopped after %d rows", i)
			}
		}
		res := s.resolver.Resolve(cols.Record(row))
		counter.Add(res)
		if i < preview {
			rep.Preview = append(rep.Preview, domain.PreviewRow{
				Row:   i + 1,
				Raw:   rawLine(row, tbl.Delimiter),
				Label: res.Label,
				Rule:  res.Rule,
				Match: res.Match,
			})
		}
	}

	rep.File = up.Name
	rep.Source = string(tbl.Source)
	rep.Delimiter = ingest.DelimiterName(tbl.Delimiter)
	rep.Mode = string(cols.Mode)
	rep.HeaderLine = tbl.HeaderLine
	rep.Skipped = tbl.Skipped
	rep.Columns = cols.Used(tbl.Header)
	rep.Rows = counter.Total()
	rep.Countries = render.MapPoints(counter.Counts(), s.tables)
	rep.ByRule = counter.ByRule()
	for _, rc := range rep.ByRule {
		s.metrics.Resolved(string(rc.Rule), rc.Rows)
	}
	rep.ElapsedMS = time.Since(start).Milliseconds()

	log.Info().
		Str("file", up.Name).
		Str("source", rep.Source).
		Str("mode", rep.Mode).
		Int("skipped", rep.Skipped).
		Int("rows", rep.Rows).
		Int("countries", len(rep.Countries)).
		Int64("elapsed_ms", rep.ElapsedMS).
		Msg("analysis done")
	return rep, nil
}

// Render writes the report in the requested format
func (s *Svc) Render(w io.Writer, rep domain.Report, opts domain.RenderOptions) error {
	counts := rep.Counts()
	switch opts.Format {
	case render.FormatJSON, "":
		return render.JSON(w, rep)
	case render.FormatCSV:
		return render.CSV(w, counts)
	case render.FormatTable:
		return render.Table(w, counts)
	case render.FormatXLSX:
		return render.XLSX(w, counts)
	case render.FormatPNG:
		top := opts.Top
		if top <= 0 {
			top = s.cfg.ChartTop
		}
		return render.PNG(w, counts, render.ChartOptions{
			Title: chartTitle(rep),
			Top:   top,
			Known: opts.Known,
		})
	default:
		return perr.WithField(perr.Validationf("unknown format %q", opts.Format), "format")
	}
}

// ResolveOne runs the location chain over a single record
func (s *Svc) ResolveOne(ctx context.Context, in domain.ResolveInput) (resolver.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return resolver.Resolution{}, perr.Wrap(err, perr.ErrorCodeTimeout, "resolve cancelled")
	}
	return s.resolver.Resolve(in.Record()), nil
}

// Tables describes the loaded tables
func (s *Svc) Tables() domain.TablesInfo {
	markers := s.tables.HeaderMarkers
	if len(markers) == 0 {
		markers = ingest.DefaultMarkers
	}
	return domain.TablesInfo{
		Stats:         s.tables.Stats(),
		HeaderMarkers: append([]string(nil), markers...),
		Rules:         append([]resolver.Rule(nil), resolver.Rules...),
	}
}

func chartTitle(rep domain.Report) string {
	if rep.File == "" {
		return "Connections by country"
	}
	return "Connections by country: " + rep.File
}

// rawLine re-encodes a row so quoted cells read back the same way
func rawLine(row []string, delim rune) string {
	if delim == 0 {
		delim = ','
	}
	var b strings.Builder
	cw := csv.NewWriter(&b)
	cw.Comma = delim
	if err := cw.Write(row); err != nil {
		return strings.Join(row, string(delim))
	}
	cw.Flush()
	return strings.TrimRight(b.String(), "\r\n")
}
