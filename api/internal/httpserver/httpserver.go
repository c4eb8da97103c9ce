package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"deepfake-detector/api/internal/handle"
)

// Routes mounts the service once at the root and once under prefix (e.g. "/api").
// GET prefix itself answers with the metadata document; GET / serves the web form.
func Routes(h *handle.Handle, prefix string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Home)
	mount(mux, "", h)
	if prefix != "" {
		mux.HandleFunc(prefix, h.APIInfo)
		mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == prefix+"/" {
				h.APIInfo(w, r)
				return
			}
			h.NotFound(w, r)
		})
		mount(mux, prefix, h)
	}
	return mux
}

func mount(mux *http.ServeMux, prefix string, h *handle.Handle) {
	mux.HandleFunc(prefix+"/health", h.Health)
	mux.HandleFunc(prefix+"/analyze", h.Analyze)
	mux.HandleFunc(prefix+"/analyze-with-key-header", h.AnalyzeWithKeyHeader)
	mux.HandleFunc(prefix+"/history", h.History)
	mux.HandleFunc(prefix+"/docs", h.Docs)
	mux.HandleFunc(prefix+"/openapi.json", h.OpenAPI)
}

// Wrap applies recovery, CORS and request logging, outermost first.
func Wrap(next http.Handler, origins []string) http.Handler {
	return withRecover(withLogging(withCORS(next, origins)))
}

func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}

// withCORS allows the configured origins; an empty list or "*" allows any origin.
func withCORS(next http.Handler, origins []string) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, strings.TrimRight(o, "/"))
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Timeout", requestIDHeader},
		MaxAge:         600,
	}).Handler(next)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

const requestIDHeader = "X-Request-ID"

// requestID keeps a sane caller-supplied id, otherwise mints one.
func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(requestIDHeader)); id != "" && len(id) <= 64 {
		return id
	}
	return uuid.NewString()
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestID(r)
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"detail":"Analysis failed: internal error"}` + "\n"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
