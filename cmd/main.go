// jobmate-ranking-service
//
// Scores job postings against each campaign's weighted preference set and
// upserts one ranking row per (jsearch_job_id, campaign_id) pair.
// The Gateway reads rank_score / rank_explain straight from PostgreSQL;
// this service exposes only health, metrics and a manual rerank trigger.
//
// On cycle completion: publishes EVENT_RANK_CYCLE to Redis for Gateway SSE.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobmate/ranking-service/internal/batch"
	"jobmate/ranking-service/internal/config"
	"jobmate/ranking-service/internal/db"
	"jobmate/ranking-service/internal/ranking"
	"jobmate/ranking-service/internal/scheduler"
	"jobmate/ranking-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ranking-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[ranking-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[ranking-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[ranking-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[ranking-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[ranking-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[ranking-service] Redis connected ✓")

	// ── Weights ──────────────────────────────────────────────────────────────
	weights, err := ranking.LoadWeights(cfg.WeightsFile)
	if err != nil {
		log.Printf("[ranking-service] Weight calibration: %v — using defaults", err)
	}

	// ── Batch runner + metrics ───────────────────────────────────────────────
	runner := batch.NewRunner(store.New(pool), rdb, weights, cfg.RankWorkers)

	metrics := batch.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		log.Fatalf("[ranking-service] Metrics registration: %v", err)
	}
	runner.SetMetrics(metrics)

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(runner, cfg.RankIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[ranking-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/rerank", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sched.Trigger(ctx)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "rerank triggered"})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[ranking-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ranking-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[ranking-service] Shutting down…")
	cancel() // stop in-flight rank cycles between pairs

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ranking-service] Shutdown error: %v", err)
	}
	log.Println("[ranking-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "ranking-service",
		"version": version,
	})
}
