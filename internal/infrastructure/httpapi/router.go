package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"webtools/internal/application/port/output"
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const maxArgsSize = 1 << 20

// Dispatcher is the part of service.Dispatcher the API needs.
type Dispatcher interface {
	Catalog() *service.Catalog
	Invoke(ctx context.Context, entryID string, tool entity.ToolName, args json.RawMessage) (entity.Result, error)
	Applicable(ctx context.Context) ([]service.Match, entity.PageLocation, error)
}

type Handler struct {
	dispatcher Dispatcher
	logger     output.LoggerPort
}

type Options struct {
	// AccessLog enables httplog request logging.
	AccessLog bool
}

// NewRouter serves the binding directory and an invoke endpoint:
//
//	GET  /healthz
//	GET  /entries
//	GET  /entries/{id}
//	GET  /applicable?url=...
//	GET  /page/tools
//	POST /entries/{id}/tools/{name}/invoke
func NewRouter(d Dispatcher, logger output.LoggerPort, opts Options) http.Handler {
	h := &Handler{dispatcher: d, logger: logger.Named("http")}

	r := chi.NewRouter()
	if opts.AccessLog {
		accessLog := httplog.NewLogger("webtools", httplog.Options{
			JSON:    true,
			Concise: true,
		})
		r.Use(httplog.RequestLogger(accessLog))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.health)
	r.Get("/entries", h.listEntries)
	r.Get("/entries/{id}", h.getEntry)
	r.Get("/applicable", h.applicable)
	r.Get("/page/tools", h.pageTools)
	r.Post("/entries/{id}/tools/{name}/invoke", h.invoke)

	return r
}

type errorBody struct {
	Error string `json:"error"`
}

// ToolView is a binding offered on a page.
type ToolView struct {
	Entry         string          `json:"entry"`
	QualifiedName string          `json:"qualifiedName"`
	Tool          entity.ToolInfo `json:"tool"`
}

type applicableBody struct {
	URL   string     `json:"url"`
	Tools []ToolView `json:"tools"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dispatcher.Catalog().Infos())
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := h.dispatcher.Catalog().Entry(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown entry " + id})
		return
	}
	writeJSON(w, http.StatusOK, e.Info())
}

func (h *Handler) applicable(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "url query parameter is required"})
		return
	}
	loc, err := entity.ParseLocation(raw)
	if err != nil || loc.Host == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid url " + raw})
		return
	}
	matches := h.dispatcher.Catalog().Applicable(loc)
	writeJSON(w, http.StatusOK, applicableBody{URL: loc.URL, Tools: views(matches)})
}

func (h *Handler) pageTools(w http.ResponseWriter, r *http.Request) {
	matches, loc, err := h.dispatcher.Applicable(r.Context())
	if err != nil {
		h.logger.Error("Could not read page location", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, applicableBody{URL: loc.URL, Tools: views(matches)})
}

// invoke always answers a binding result with 200, error results included;
// non-2xx codes are reserved for protocol failures.
func (h *Handler) invoke(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	name := entity.ToolName(chi.URLParam(r, "name"))

	args, err := io.ReadAll(io.LimitReader(r.Body, maxArgsSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "read body: " + err.Error()})
		return
	}

	result, err := h.dispatcher.Invoke(r.Context(), entryID, name, json.RawMessage(args))
	if err != nil {
		writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArguments):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotApplicable):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func views(matches []service.Match) []ToolView {
	result := make([]ToolView, 0, len(matches))
	for _, m := range matches {
		result = append(result, ToolView{
			Entry:         m.Entry.ID(),
			QualifiedName: m.QualifiedName(),
			Tool:          service.ToolInfo(m.Tool),
		})
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
