package handle

import (
	"embed"
	"net/http"
	"runtime"
	"strconv"

	"deepfake-detector/api/internal/store"
)

//go:embed static
var staticFS embed.FS

func genaiState(available bool) string {
	if available {
		return "available"
	}
	return "unavailable"
}

// Home serves the single-page upload form on "/". Anything else under "/" is a 404.
func (h *Handle) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	serveStatic(w, "static/index.html", "text/html; charset=utf-8")
}

func (h *Handle) APIInfo(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":            APIName,
		"version":         Version,
		"status":          "online",
		"genai_available": h.svc.Available(),
		"go_version":      runtime.Version(),
		"endpoints": map[string]string{
			"/":                        "Web interface",
			"/analyze":                 "POST - Analyze media for deepfakes",
			"/analyze-with-key-header": "POST - Analyze media, API key in Authorization: Bearer header",
			"/health":                  "GET - Health check",
			"/history":                 "GET - Recent analyses (when the analysis log is enabled)",
			"/docs":                    "GET - API documentation",
			"/openapi.json":            "GET - OpenAPI document",
		},
	})
}

func (h *Handle) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"genai":   genaiState(h.svc.Available()),
	})
}

func (h *Handle) Docs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	serveStatic(w, "static/docs.html", "text/html; charset=utf-8")
}

func (h *Handle) OpenAPI(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	serveStatic(w, "static/openapi.json", "application/json")
}

// History lists the newest analysis log entries (?limit=N, 1..100).
func (h *Handle) History(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if h.history == nil {
		writeDetail(w, http.StatusNotFound, "History is not enabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.history.Recent(r.Context(), store.ClampLimit(limit))
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "History unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": recs, "count": len(recs)})
}

func (h *Handle) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not Found")
}

func serveStatic(w http.ResponseWriter, name, contentType string) {
	b, err := staticFS.ReadFile(name)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "static asset missing: "+name)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
