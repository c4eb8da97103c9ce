package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"deepfake-detector/api/internal/analysis"
	"deepfake-detector/api/internal/analysis/gemini"
	"deepfake-detector/api/internal/config"
	"deepfake-detector/api/internal/handle"
	"deepfake-detector/api/internal/httpserver"
	"deepfake-detector/api/internal/store"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var provider analysis.Provider
	if cfg.GenAIEnabled {
		provider = gemini.New()
	} else {
		log.Printf("genai disabled: /analyze will answer 503")
	}

	opt := analysis.Options{
		Model:          cfg.GeminiModel,
		FallbackModel:  cfg.GeminiFallbackModel,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	var history handle.HistoryLister
	if cfg.StoreEnabled {
		db, repo := openStore(ctx, cfg.DatabaseURL)
		defer db.Close()
		opt.Recorder = repo
		history = repo
	}

	svc := analysis.NewService(provider, opt)
	h := handle.New(svc, history, cfg.ProviderTimeout)

	mux := httpserver.Routes(h, cfg.APIPrefix)
	srv := httpserver.New(":"+cfg.Port, httpserver.Wrap(mux, cfg.CORSOrigins))

	log.Printf("deepfake-detector: models=%v prefix=%q max_upload=%s",
		svc.Models(), cfg.APIPrefix, analysis.HumanSize(svc.MaxUploadBytes()))
	if err := httpserver.Run(ctx, srv, 15*time.Second); err != nil {
		log.Fatal(err)
	}
}

func openStore(ctx context.Context, databaseURL string) (*sql.DB, *store.AnalysisRepo) {
	dsn := store.ResolveDSN(databaseURL)
	if dsn == "" {
		log.Fatal("database DSN is empty: set DATABASE_URL or POSTGRES_* env vars")
	}
	db, err := store.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	repo := store.NewAnalysisRepo(db)

	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(sctx); err != nil {
		log.Fatalf("store: schema: %v", err)
	}
	return db, repo
}
