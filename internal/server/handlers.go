package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/knaptrace/knaptrace/pkg/buildinfo"
	apperrors "github.com/knaptrace/knaptrace/pkg/errors"
	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/pipeline"
	"github.com/knaptrace/knaptrace/pkg/report"
	"github.com/knaptrace/knaptrace/pkg/store"
)

// SolveRequest is the POST /api/v1/solve body.
type SolveRequest struct {
	// Problem is the raw problem description, same shape as a JSON
	// problem file.
	Problem knapsack.Input `json:"problem"`

	// Title overrides the problem title.
	Title string `json:"title,omitempty"`

	// MaxNodes and MaxDepth cap the search. Zero means unlimited.
	MaxNodes int `json:"max_nodes,omitempty"`
	MaxDepth int `json:"max_depth,omitempty"`
}

// SolveResponse is the POST /api/v1/solve reply.
type SolveResponse struct {
	Report   *report.Report `json:"report"`
	CacheHit bool           `json:"cache_hit"`
	Stored   bool           `json:"stored"`
}

// listResponse is the GET /api/v1/reports reply.
type listResponse struct {
	Reports []store.Summary `json:"reports"`
	Count   int             `json:"count"`
}

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	if req.MaxNodes < 0 || req.MaxDepth < 0 {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "caps must be >= 0"))
		return
	}
	if err := apperrors.ValidateTitle(req.Title); err != nil {
		s.writeError(w, err)
		return
	}
	if err := apperrors.ValidateTitle(req.Problem.Title); err != nil {
		s.writeError(w, err)
		return
	}
	if err := apperrors.ValidateItemNames(req.Problem.Names); err != nil {
		s.writeError(w, err)
		return
	}
	if err := apperrors.ValidateProblemSize(len(req.Problem.Profits), s.maxItems); err != nil {
		s.writeError(w, err)
		return
	}

	p, err := knapsack.NewProblem(req.Problem)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidProblem, err, "invalid problem"))
		return
	}
	if req.Title != "" {
		p.Title = req.Title
	}

	rep, cacheHit, err := s.runner.SolveWithCacheInfo(r.Context(), p, pipeline.Options{
		MaxNodes: req.MaxNodes,
		MaxDepth: req.MaxDepth,
		Logger:   s.logger,
	})
	if err != nil {
		if errors.Is(err, knapsack.ErrNodeLimit) || errors.Is(err, knapsack.ErrDepthLimit) {
			s.writeError(w, apperrors.Wrap(apperrors.ErrCodeLimitExceeded, err, "search capped before completion"))
			return
		}
		s.writeError(w, err)
		return
	}

	stored := false
	if err := s.store.Put(r.Context(), rep); err != nil {
		s.logger.Warn("store report", "id", rep.ID, "err", err)
	} else {
		stored = true
	}

	s.writeJSON(w, http.StatusOK, SolveResponse{
		Report:   rep,
		CacheHit: cacheHit,
		Stored:   stored,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "list reports"))
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse{
		Reports: summaries,
		Count:   len(summaries),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.fetchReport(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateReportID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "delete report %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.fetchReport(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatText
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "unsupported render format"))
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	artifacts, err := s.runner.Render(r.Context(), rep, pipeline.Options{
		Formats:  []string{format},
		Detailed: detailed,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render %s", format))
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifacts[format]); err != nil {
		s.logger.Error("write artifact", "format", format, "err", err)
	}
}

// fetchReport resolves the {id} route parameter to a stored report,
// writing the error response itself when the ID is invalid, the store
// fails, or the report does not exist.
func (s *Server) fetchReport(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateReportID(id); err != nil {
		s.writeError(w, err)
		return nil, false
	}

	rep, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "load report %s", id))
		return nil, false
	}
	if rep == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeReportNotFound, "report %s not found", id))
		return nil, false
	}
	return rep, true
}
