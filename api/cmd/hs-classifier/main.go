package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"hs-classifier/api/internal/config"
	"hs-classifier/api/internal/handle"
	"hs-classifier/api/internal/store"
	"hs-classifier/api/internal/vision"
	"hs-classifier/api/internal/vision/gemini"
	"hs-classifier/api/internal/vision/openai"
	"hs-classifier/api/internal/vision/watsonx"
	"hs-classifier/api/internal/web"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	}

	engines := &vision.Engines{
		Watsonx: watsonx.New(cfg.WatsonxAPIKey, cfg.WatsonxProjectID, cfg.WatsonxURL, cfg.WatsonxModel),
		Default: cfg.DefaultEngine,
	}
	if cfg.OpenAIAPIKey != "" {
		engines.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	h := handle.New(engines)
	h.UploadDir = cfg.UploadDir

	// The result cache is optional for the HTTP service; without a DSN every
	// request goes straight to the model.
	var db *sql.DB
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		var err error
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("sql.Open: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db.Ping: %v", err)
		}
		repo := store.NewClassificationRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("db schema: %v", err)
		}
		h.Repo = repo
		log.Printf("classification cache enabled")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", web.Index)
	mux.HandleFunc("/api/classify-hs-code", h.Classify)

	addr := ":" + cfg.Port
	log.Printf("hs-classifier listening on %s (default engine: %s)", addr, cfg.DefaultEngine)
	log.Fatal(http.ListenAndServe(addr, mux))
}
