package server

import (
	"bytes"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/bootorder/pkg/buildinfo"
	"github.com/matzehuels/bootorder/pkg/errors"
	bio "github.com/matzehuels/bootorder/pkg/io"
	"github.com/matzehuels/bootorder/pkg/pipeline"
	"github.com/matzehuels/bootorder/pkg/store"
)

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// createSchedule handles POST /v1/schedules.
func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Store.Save(r.Context(), res); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store plan"))
		return
	}
	w.Header().Set("Location", "/v1/schedules/"+res.ID.String())
	writeJSON(w, http.StatusCreated, res)
}

// listSchedules handles GET /v1/schedules.
func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list plans"))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// getSchedule handles GET /v1/schedules/{id}.
func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	res, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// renderSchedule handles GET /v1/schedules/{id}/render.
func (s *Server) renderSchedule(w http.ResponseWriter, r *http.Request) {
	res, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDiagram(w, r, res)
}

// render handles POST /v1/render.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeDiagram(w, r, res)
}

func (s *Server) lookup(r *http.Request) (*pipeline.Result, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid plan id %q", raw)
	}
	res, err := s.Store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "plan %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get plan %s", id)
	}
	return res, nil
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) (*pipeline.Result, error) {
	format, err := bodyFormat(r)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return nil, errors.Wrap(errors.ErrCodeTooLarge, err, "manifest exceeds %d bytes", tooLarge.Limit)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	m, err := bio.Read(bytes.NewReader(body), format)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{Strict: s.Strict}
	q := r.URL.Query()
	if v := q.Get("strict"); v != "" {
		if opts.Strict, err = strconv.ParseBool(v); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid strict %q", v)
		}
	}
	if v := q.Get("refresh"); v != "" {
		if opts.Refresh, err = strconv.ParseBool(v); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid refresh %q", v)
		}
	}
	return s.Runner.Execute(r.Context(), m, opts)
}

func (s *Server) writeDiagram(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	q := r.URL.Query()
	opts := pipeline.RenderOptions{
		Format:   q.Get("format"),
		Unit:     q.Get("unit"),
		Detailed: q.Get("detailed") == "true",
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatSVG
	}
	data, err := s.Runner.Render(r.Context(), res, opts)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInternal, err, "render")
		}
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

// bodyFormat maps the request Content-Type to a manifest format.
func bodyFormat(r *http.Request) (bio.Format, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return bio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid content type %q", ct)
	}
	switch mt {
	case "application/json", "text/json":
		return bio.FormatJSON, nil
	case "application/toml", "text/toml":
		return bio.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return bio.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}
