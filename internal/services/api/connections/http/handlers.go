// Package http provides http transport for connections analysis
package http

import (
	"bytes"
	"errors"
	"io"
	"mime"
	stdhttp "net/http"
	"net/url"
	"strconv"

	"linkmap/internal/core/ingest"
	"linkmap/internal/core/render"
	"linkmap/internal/modkit/httpkit"
	perr "linkmap/internal/platform/errors"
	"linkmap/internal/platform/logger"
	"linkmap/internal/platform/net/http/bind"
	str "linkmap/internal/platform/strings"
	"linkmap/internal/services/api/connections/domain"
	svc "linkmap/internal/services/api/connections/service"
)

// form field carrying the export
const fileField = "file"

// Register mounts connections endpoints on the given router
func Register(r httpkit.Router, s svc.Service, cfg svc.Config) {
	h := &handlers{svc: s, cfg: cfg}

	// upload an export, get the country aggregate back
	httpkit.Post(r, "/analyze", h.analyze)

	// resolve one record against the tables
	httpkit.PostJSON[domain.ResolveInput](r, "/resolve", h.resolve)

	// loaded table sizes
	httpkit.Get(r, "/tables", h.tables)
}

type handlers struct {
	svc svc.Service
	cfg svc.Config
}

// swagger:route POST /connections/analyze Connections connectionsAnalyze
// @Summary Analyze a connections export
// @Description Multipart upload with a csv or xlsx file. A non multipart body is read as the file itself
// @Tags Connections
// @Accept multipart/form-data
// @Produce json,text/csv,image/png
// @Param file formData file true "connections export"
// @Param delimiter formData string false "auto, comma, semicolon, tab or pipe"
// @Param format formData string false "json, csv, xlsx or png"
// @Param top formData int false "bars in the png chart" minimum(1) maximum(200)
// @Param preview formData int false "rows echoed back" minimum(0) maximum(20)
// @Param known formData bool false "leave Unknown out of the chart"
// @Success 200 {object} domain.Report "ok"
// @Failure 400 {object} httpkit.Envelope "bad upload"
// @Failure 413 {object} httpkit.Envelope "too large"
// @Failure 415 {object} httpkit.Envelope "legacy xls workbook"
// @Failure 422 {object} httpkit.Envelope "malformed content"
// @Router /connections/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request) (any, error) {
	name, data, err := h.readUpload(r)
	if err != nil {
		return nil, err
	}
	form, err := h.readForm(r)
	if err != nil {
		return nil, err
	}
	delim, err := ingest.ParseDelimiter(form.Delimiter)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(form.Format)
	if err != nil {
		return nil, err
	}

	rep, err := h.svc.Analyze(r.Context(), domain.Upload{
		Name:      name,
		Data:      data,
		Delimiter: delim,
		Preview:   form.Preview,
	})
	if err != nil {
		return nil, err
	}
	if format == render.FormatJSON {
		return rep, nil
	}

	var buf bytes.Buffer
	if err := h.svc.Render(&buf, rep, domain.RenderOptions{Format: format, Top: form.Top, Known: form.Known}); err != nil {
		return nil, err
	}
	logger.C(r.Context()).Debug().Str("run_id", rep.RunID).Str("format", string(format)).Int("bytes", buf.Len()).Msg("rendered")

	resp := httpkit.Download(format.ContentType(), str.FileStem(name, "connections")+"."+format.Ext(), buf.Bytes())
	resp.Header = stdhttp.Header{"X-Run-Id": {rep.RunID}}
	return resp, nil
}

// swagger:route POST /connections/resolve Connections connectionsResolve
// @Summary Resolve one record
// @Tags Connections
// @Accept json
// @Produce json
// @Param payload body domain.ResolveInput true "Record"
// @Success 200 {object} resolver.Resolution "ok"
// @Failure 400 {object} httpkit.Envelope "bad record"
// @Router /connections/resolve [post]
func (h *handlers) resolve(r *stdhttp.Request, in domain.ResolveInput) (any, error) {
	return h.svc.ResolveOne(r.Context(), in)
}

// swagger:route GET /connections/tables Connections connectionsTables
// @Summary Loaded location tables
// @Tags Connections
// @Produce json
// @Success 200 {object} domain.TablesInfo "ok"
// @Router /connections/tables [get]
func (h *handlers) tables(*stdhttp.Request) (any, error) {
	return h.svc.Tables(), nil
}

// readUpload returns the file part of a multipart form, or the whole body
// for any other content type. Options of a raw body come from the query
func (h *handlers) readUpload(r *stdhttp.Request) (string, []byte, error) {
	limit := h.cfg.MaxUploadBytes
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt != "multipart/form-data" {
		data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		if err != nil {
			return "", nil, bodyErr(err)
		}
		// the body is the export, never form fields
		r.Form, r.PostForm = r.URL.Query(), url.Values{}
		return r.URL.Query().Get("name"), data, nil
	}
	if err := r.ParseMultipartForm(limit); err != nil {
		return "", nil, bodyErr(err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile(fileField)
	if errors.Is(err, stdhttp.ErrMissingFile) {
		return "", nil, perr.WithField(perr.Validationf("missing %s part", fileField), fileField)
	}
	if err != nil {
		return "", nil, bodyErr(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, bodyErr(err)
	}
	return hdr.Filename, data, nil
}

func (h *handlers) readForm(r *stdhttp.Request) (domain.AnalyzeForm, error) {
	var err error
	f := domain.AnalyzeForm{
		Delimiter: bind.FormString(r, "delimiter", "auto"),
		Format:    bind.FormString(r, "format", string(render.FormatJSON)),
	}
	if f.Top, err = bind.FormInt(r, "top", h.cfg.ChartTop); err != nil {
		return f, err
	}
	if f.Preview, err = bind.FormInt(r, "preview", h.cfg.PreviewRows); err != nil {
		return f, err
	}
	if s := bind.FormString(r, "known", ""); s != "" {
		if f.Known, err = strconv.ParseBool(s); err != nil {
			return f, perr.WithField(perr.Validationf("known must be true or false"), "known")
		}
	}
	return f, bind.Validate(f)
}

func bodyErr(err error) error {
	var mbe *stdhttp.MaxBytesError
	if errors.As(err, &mbe) {
		return perr.WithField(perr.TooLargef("request body over %d bytes", mbe.Limit), fileField)
	}
	return perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), fileField)
}
