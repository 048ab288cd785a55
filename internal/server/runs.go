package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/repositories"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/charmbracelet/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"duration": func(r *models.Run) string { return shared.FormatDuration(int(r.Duration().Milliseconds())) },
}).ParseFS(templateFS, "templates/*.html"))

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

var _ Handler = (*RunsHandler)(nil)

// RunStore is the read side of persisted scrape runs.
//
// [repositories.RunStoreAdapter] satisfies it.
type RunStore interface {
	ListRuns(limit int) ([]*models.Run, error)
	LoadRun(id string) (*repositories.RunDetail, error)
}

// RunsHandler serves stored runs as JSON under /api and as HTML pages.
type RunsHandler struct {
	store  RunStore
	logger *log.Logger
	mux    *http.ServeMux
}

// NewRunsHandler creates a read-only handler over store.
func NewRunsHandler(store RunStore, logger *log.Logger) *RunsHandler {
	if logger == nil {
		logger = log.Default()
	}
	h := &RunsHandler{store: store, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /healthz", h.health)
	h.mux.HandleFunc("GET /api/runs", h.listJSON)
	h.mux.HandleFunc("GET /api/runs/{id}", h.showJSON)
	h.mux.HandleFunc("GET /{$}", h.listHTML)
	h.mux.HandleFunc("GET /runs/{id}", h.showHTML)
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *RunsHandler) Routes() []string {
	return []string{"GET /healthz", "GET /api/runs", "GET /api/runs/{id}", "GET /{$}", "GET /runs/{id}"}
}

// ServeHTTP dispatches to the run endpoints.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *RunsHandler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RunsHandler) listJSON(w http.ResponseWriter, r *http.Request) {
	runs, status, err := h.list(r)
	if err != nil {
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *RunsHandler) showJSON(w http.ResponseWriter, r *http.Request) {
	detail, status, err := h.load(r)
	if err != nil {
		h.writeError(w, status, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *RunsHandler) listHTML(w http.ResponseWriter, r *http.Request) {
	runs, status, err := h.list(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	h.render(w, "runs.html", runs)
}

func (h *RunsHandler) showHTML(w http.ResponseWriter, r *http.Request) {
	detail, status, err := h.load(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	h.render(w, "run.html", detail)
}

func (h *RunsHandler) list(r *http.Request) ([]*models.Run, int, error) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, http.StatusBadRequest, shared.ErrInvalidArgument
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		return nil, http.StatusInternalServerError, errors.New("failed to list runs")
	}
	if runs == nil {
		runs = []*models.Run{}
	}
	return runs, http.StatusOK, nil
}

func (h *RunsHandler) load(r *http.Request) (*repositories.RunDetail, int, error) {
	detail, err := h.store.LoadRun(r.PathValue("id"))
	switch {
	case errors.Is(err, shared.ErrRunNotFound):
		return nil, http.StatusNotFound, shared.ErrRunNotFound
	case err != nil:
		h.logger.Error("failed to load run", "id", r.PathValue("id"), "error", err)
		return nil, http.StatusInternalServerError, errors.New("failed to load run")
	}
	return detail, http.StatusOK, nil
}

func (h *RunsHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render page", "template", name, "error", err)
	}
}

func (h *RunsHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := shared.MarshalJSON(data, true)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func (h *RunsHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
