package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/suzukikyou/obfuscator/internal/config"
	"github.com/suzukikyou/obfuscator/internal/metrics"
	"github.com/suzukikyou/obfuscator/internal/obfuscate"
	"github.com/suzukikyou/obfuscator/internal/records"
)

type App struct {
	Codec          *obfuscate.Codec
	Records        *records.Service
	BaseURL        string
	DefaultVariant obfuscate.Variant
}

type EncodeRequest struct {
	Text    string `json:"text"`
	Variant string `json:"variant,omitempty"`
}

type EncodeResponse struct {
	Token   string `json:"token"`
	Variant string `json:"variant"`
}

type DecodeRequest struct {
	Token   string `json:"token"`
	Variant string `json:"variant,omitempty"`
}

type DecodeResponse struct {
	Text string `json:"text"`
}

type StoreRequest struct {
	Value string `json:"value"`
}

type StoreResponse struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

type ResolveResponse struct {
	Value string `json:"value"`
}

// maxBodyBytes caps request bodies. Decode time grows with token length.
const maxBodyBytes = 64 << 10

// readJSON decodes a size-limited request body into v and writes the error
// response itself when it fails.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (a *App) variant(name string) (obfuscate.Variant, error) {
	if name == "" {
		return a.DefaultVariant, nil
	}
	return obfuscate.ParseVariant(name)
}

func (a *App) EncodeHandler(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if !readJSON(w, r, &req) {
		return
	}

	variant, err := a.variant(req.Variant)
	if err != nil {
		http.Error(w, "Invalid variant. Must be 36 or 100", http.StatusBadRequest)
		return
	}

	token, err := a.Codec.Encode(req.Text, variant)
	metrics.ObserveCodec("encode", variant.String(), err)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		slog.ErrorContext(r.Context(), "encode failed", "error", err)
		return
	}

	writeJSON(w, EncodeResponse{Token: token, Variant: variant.String()})
}

func (a *App) DecodeHandler(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}

	variant, err := a.variant(req.Variant)
	if err != nil {
		http.Error(w, "Invalid variant. Must be 36 or 100", http.StatusBadRequest)
		return
	}

	text, err := a.Codec.Decode(req.Token, variant)
	metrics.ObserveCodec("decode", variant.String(), err)
	if err != nil {
		// tampered or foreign tokens are expected input, not server faults
		slog.DebugContext(r.Context(), "token rejected", "variant", variant.String(), "error", err)
		http.Error(w, "Token could not be decoded", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, DecodeResponse{Text: text})
}

func (a *App) StoreHandler(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if !readJSON(w, r, &req) {
		return
	}

	code, err := a.Records.Store(r.Context(), req.Value)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			http.Error(w, "Request timeout", http.StatusRequestTimeout)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		slog.ErrorContext(r.Context(), "store failed", "error", err)
		return
	}

	writeJSON(w, StoreResponse{
		Code: code,
		URL:  fmt.Sprintf("%s/api/records/%s", a.BaseURL, code),
	})
}

func (a *App) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	value, err := a.Records.Resolve(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, records.ErrInvalidCode):
			http.Error(w, "Invalid record code", http.StatusBadRequest)
		case errors.Is(err, records.ErrNotFound):
			http.Error(w, "Record not found", http.StatusNotFound)
		case errors.Is(err, context.DeadlineExceeded):
			http.Error(w, "Request timeout", http.StatusRequestTimeout)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			slog.ErrorContext(r.Context(), "resolve failed", "code", code, "error", err)
		}
		return
	}

	writeJSON(w, ResolveResponse{Value: value})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// NewRouter wires the API routes. /metrics is left out so tests can build
// a router without touching the default prometheus registry.
func NewRouter(app *App) *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.HandleFunc("/health", HealthHandler).Methods("GET")
	r.HandleFunc("/api/encode", app.EncodeHandler).Methods("POST")
	r.HandleFunc("/api/decode", app.DecodeHandler).Methods("POST")
	r.HandleFunc("/api/records", app.StoreHandler).Methods("POST")
	r.HandleFunc("/api/records/{code}", app.ResolveHandler).Methods("GET")
	return r
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	metrics.Init()

	defaultVariant, err := obfuscate.ParseVariant(cfg.DefaultVariant)
	if err != nil {
		return fmt.Errorf("invalid DEFAULT_VARIANT: %w", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// reads still work from postgres alone
		logger.Warn("redis unavailable at startup", "addr", cfg.RedisAddr, "error", err)
	}

	repo := records.NewPostgresRedisRepository(db, redisClient)
	defer repo.Close()

	localCache, err := records.NewLocalCache(cfg.LocalCacheItems, cfg.LocalCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to create local cache: %w", err)
	}
	defer localCache.Close()

	codec := obfuscate.New()
	app := &App{
		Codec:          codec,
		Records:        records.NewService(repo, codec, records.WithLocalCache(localCache)),
		BaseURL:        cfg.BaseURL,
		DefaultVariant: defaultVariant,
	}

	router := NewRouter(app)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      otelhttp.NewHandler(router, cfg.ServiceName),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "default_variant", defaultVariant.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stopCtx.Done():
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return nil
}
