package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"deepfake-detector/api/internal/analysis"
)

const (
	ServiceName = "deepfake-detector"
	APIName     = "Deepfake Detection API"
	Version     = "2.0.0"
)

// HistoryLister is the read side of the analysis log.
type HistoryLister interface {
	Recent(ctx context.Context, limit int) ([]analysis.Record, error)
}

type Handle struct {
	svc     *analysis.Service
	history HistoryLister
	timeout time.Duration
}

// New builds the HTTP handlers. history may be nil when the analysis log is disabled.
func New(svc *analysis.Service, history HistoryLister, timeout time.Duration) *Handle {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Handle{
		svc:     svc,
		history: history,
		timeout: timeout,
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorBody{Detail: detail})
}

func writeError(w http.ResponseWriter, err error) {
	ae := analysis.AsError(err)
	writeDetail(w, ae.StatusCode(), ae.Detail)
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	return false
}
