package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"condmon-cloud/internal/audit"
	"condmon-cloud/internal/auth"
	dashhttp "condmon-cloud/internal/dashboard/interfaces/http"
	"condmon-cloud/internal/observability/metrics"
	readingsapp "condmon-cloud/internal/readings/application"
	readingspg "condmon-cloud/internal/readings/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	readingsCfg, err := readingsapp.LoadConfig()
	if err != nil {
		logger.Fatalf("readings config error: %v", err)
	}
	loader := readingspg.NewLoader(db,
		readingspg.WithReadingsTable(readingsCfg.ReadingsTable),
		readingspg.WithBandsTable(readingsCfg.BandsTable),
	)
	provider, err := readingsapp.NewSnapshotProvider(loader, readingsCfg)
	if err != nil {
		logger.Fatalf("snapshot provider error: %v", err)
	}

	dashboardHandler, err := dashhttp.NewHandler(provider)
	if err != nil {
		logger.Fatalf("dashboard handler error: %v", err)
	}
	exportHandler, err := dashhttp.NewExportHandler(provider, auditRepo)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}
	refreshHandler, err := dashhttp.NewRefreshHandler(provider, auditRepo)
	if err != nil {
		logger.Fatalf("refresh handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/dashboard", dashboardHandler)
	mux.Handle("/api/v1/dashboard/options", dashboardHandler)
	mux.Handle("/api/v1/exports/", exportHandler)
	mux.Handle("/api/v1/snapshot/refresh", refreshHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
