package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/cardiocheck/pkg/common/config"
	"github.com/synaptica-ai/cardiocheck/pkg/common/database"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
	"github.com/synaptica-ai/cardiocheck/pkg/content"
	"github.com/synaptica-ai/cardiocheck/pkg/events"
	"github.com/synaptica-ai/cardiocheck/pkg/observability/metrics"
	"github.com/synaptica-ai/cardiocheck/pkg/prediction"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
	"github.com/synaptica-ai/cardiocheck/pkg/web"
	"github.com/synaptica-ai/cardiocheck/pkg/web/middleware"
)

func main() {
	logger.Init()
	cfg := config.Load()

	catalog, err := content.LoadCatalog(cfg.ContentPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load content catalog")
	}

	// Outcome events are optional
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Log.WithField("topic", cfg.KafkaTopic).Info("Publishing assessment events to Kafka")
	}
	defer publisher.Close()

	predictor := prediction.NewClient(cfg.PredictionURL, cfg.PredictionTimeout)
	sessions := session.NewManager(predictor, cfg.SessionTTL,
		session.WithTimeout(cfg.PredictionTimeout),
		session.WithListener(web.OutcomeRecorder(publisher)),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.Run(ctx, time.Minute)

	// Shared limiter when Redis is available, per-process otherwise
	var limiter middleware.Limiter = middleware.NewTokenBucket(cfg.RateLimitRPS, cfg.RateLimitBurst)
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, using in-process rate limiter")
	} else if redisClient != nil {
		defer redisClient.Close()
		limiter = middleware.NewRedisWindow(redisClient, cfg.RateLimitRPS)
	}

	handler, err := web.NewHandler(sessions, catalog, cfg.CookieSecure)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load templates")
	}

	// Setup router
	router := mux.NewRouter()

	// Middleware
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.RateLimit(limiter))

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.SetActiveSessions(sessions.Len())
		metrics.WritePrometheus(w)
	}).Methods("GET")

	handler.Register(router)

	// Server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":       cfg.ServerHost,
			"port":       cfg.ServerPort,
			"prediction": cfg.PredictionURL,
		}).Info("CardioCheck web started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down CardioCheck web...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("CardioCheck web stopped")
}
