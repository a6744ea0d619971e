package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hukukai-backend/config"
	"hukukai-backend/handlers"
	"hukukai-backend/keywords"
	"hukukai-backend/logging"
	"hukukai-backend/metrics"
	"hukukai-backend/repository"
	"hukukai-backend/service"
	"hukukai-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize reference store
	store, err := repository.NewReferenceStore(ctx, cfg.StoreConfig())
	if err != nil {
		logger.Fatal("Failed to initialize reference store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()
	logger.Info("Reference store initialized", zap.String("driver", cfg.StoreDriver))

	// Initialize report storage
	backend, err := storage.NewStorage(ctx, cfg.StorageConfig())
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.String("type", cfg.StorageType), zap.Error(err))
	}
	logger.Info("Storage initialized", zap.String("type", cfg.StorageType))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := []service.ReferenceServiceOption{
		service.WithReferenceStore(store),
		service.WithKeywordExtractor(keywords.NewExtractor(keywords.WithMaxTerms(cfg.KeywordLimit))),
		service.WithReportStore(storage.NewReportStore(backend)),
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithLookupTimeout(cfg.LookupTimeout),
		service.WithResultLimit(cfg.ResultLimit),
	}

	// Initialize Gemini client
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			logger.Fatal("Failed to initialize Gemini", zap.Error(err))
		}
		defer client.Close()

		opts = append(opts, service.WithAnalyzer(service.NewGeminiAnalyzer(client, cfg.GeminiModel,
			service.GeminiWithRateLimit(cfg.AIRatePerMinute),
			service.GeminiWithMaxAttempts(cfg.AIMaxAttempts),
			service.GeminiWithTimeout(cfg.AIRequestTimeout),
			service.GeminiWithLogger(logger),
		)))
		logger.Info("Gemini analyzer initialized", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set, analyses use keyword search and caller-supplied text only")
	}

	referenceService := service.NewReferenceService(opts...)

	if cfg.AdminKeyHash == "" {
		logger.Warn("ADMIN_KEY_HASH not set, admin endpoints are disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	handlers.RegisterRoutes(r, handlers.RouterConfig{
		ReferenceService: referenceService,
		Reference:        handlers.NewReferenceHandler(referenceService, logger),
		Admin:            handlers.NewAdminHandler(referenceService, cfg.AdminKeyHash, logger),
		Gatherer:         reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
