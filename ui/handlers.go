package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sheetlens/app"
	"sheetlens/domain/core"
	"sheetlens/domain/dashboard"
	"sheetlens/domain/dataset"
	"sheetlens/internal/analysis"
	"sheetlens/internal/errors"
	"sheetlens/internal/testkit"
)

// handleAnalyzeUpload accepts a multipart spreadsheet/CSV upload and
// returns the full analysis result.
func (a *App) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	ds, err := a.readUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.analysis.Analyze(r.Context(), ds)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleAggregateUpload accepts an upload plus group_by/value/op query
// parameters and returns the chart-ready series.
func (a *App) handleAggregateUpload(w http.ResponseWriter, r *http.Request) {
	ds, err := a.readUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	groupBy := r.URL.Query().Get("group_by")
	valueColumn := r.URL.Query().Get("value")
	op := analysis.AggregateOp(r.URL.Query().Get("op"))
	if op == "" {
		op = analysis.OpSum
	}

	buckets, err := a.analysis.Aggregate(ds, groupBy, valueColumn, op)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"group_by": groupBy,
		"value":    valueColumn,
		"op":       op,
		"series":   buckets,
	})
}

// handleDemoAnalysis analyzes the built-in deterministic demo dataset
func (a *App) handleDemoAnalysis(w http.ResponseWriter, r *http.Request) {
	ds := testkit.NewSalesDataGenerator(testkit.DefaultSalesConfig()).Generate()
	result, err := a.analysis.Analyze(r.Context(), ds)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleInsights takes an analysis result and returns insight text as both
// markdown and rendered HTML, flagging whether the remote generator or the
// local fallback produced it.
func (a *App) handleInsights(w http.ResponseWriter, r *http.Request) {
	var result app.AnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		respondError(w, http.StatusBadRequest, errors.InvalidInput("invalid analysis payload"))
		return
	}

	text, remote := a.insights.Summarize(r.Context(), &result)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"markdown": text,
		"html":     renderMarkdown(text),
		"remote":   remote,
	})
}

func (a *App) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	dashboards, err := a.store.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboards)
}

func (a *App) handleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		respondError(w, http.StatusBadRequest, errors.InvalidInput("name is required"))
		return
	}

	d := dashboard.New(body.Name, body.Description)
	if err := a.store.Save(r.Context(), d); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (a *App) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.store.Get(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (a *App) handleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Delete(r.Context(), core.ID(chi.URLParam(r, "id"))); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleAddVersion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Note     string          `json:"note"`
		Snapshot json.RawMessage `json:"snapshot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Snapshot) == 0 {
		respondError(w, http.StatusBadRequest, errors.InvalidInput("snapshot is required"))
		return
	}

	d, err := a.store.Get(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	v := d.AddVersion(body.Note, body.Snapshot)
	if err := a.store.Save(r.Context(), d); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload spools the multipart "file" part to a temp file so the reader
// can dispatch on its extension, then parses it into a Dataset.
func (a *App) readUpload(r *http.Request) (*dataset.Dataset, error) {
	if err := r.ParseMultipartForm(a.maxUploadBytes); err != nil {
		return nil, errors.InvalidInput("invalid multipart upload")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.InvalidInput("missing file field")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return nil, errors.InternalError("failed to spool upload")
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, io.LimitReader(file, a.maxUploadBytes)); err != nil {
		tmp.Close()
		return nil, errors.InternalError("failed to spool upload")
	}
	tmp.Close()

	return a.reader.Read(tmp.Name())
}

func renderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(text), p, renderer))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// respondStoreError maps store errors to HTTP statuses
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.GetCode(err) == errors.CodeNotFound {
		respondError(w, http.StatusNotFound, err)
		return
	}
	respondError(w, http.StatusInternalServerError, err)
}
