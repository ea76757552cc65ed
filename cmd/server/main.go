package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/config"
	"github.com/kisansathi/assistant/internal/handlers"
	"github.com/kisansathi/assistant/internal/logger"
	"github.com/kisansathi/assistant/internal/middleware"
	"github.com/kisansathi/assistant/internal/services/ai"
	"github.com/kisansathi/assistant/internal/services/history"
	"github.com/kisansathi/assistant/internal/services/onboarding"
	"github.com/kisansathi/assistant/internal/services/tasks"
	"github.com/kisansathi/assistant/internal/services/voice"
	"github.com/kisansathi/assistant/internal/services/weather"
	"github.com/kisansathi/assistant/internal/store"
	"github.com/kisansathi/assistant/internal/telemetry"
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for AI API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "kisan-sathi-assistant", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Open the local store
	kv, err := store.OpenSQLite(cfg.DataDir)
	if err != nil {
		zapLogger.Fatal("failed_to_open_store", zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			zapLogger.Warn("failed_to_close_store", zap.Error(err))
		}
	}()
	zapLogger.Info("store_opened", zap.String("data_dir", cfg.DataDir))

	state := store.NewStateStore(kv, zapLogger)

	// Initialize AI provider
	assistant, err := createAssistant(cfg, zapLogger, debugMode)
	if err != nil {
		zapLogger.Warn("ai_provider_not_configured", zap.Error(err))
		assistant = nil
	}

	// Initialize weather client
	var weatherClient *weather.Client
	if cfg.WeatherKey != "" {
		weatherClient, err = weather.NewClient(cfg.WeatherKey, cfg.WeatherBaseURL, zapLogger)
		if err != nil {
			zapLogger.Warn("failed_to_create_weather_client_weather_disabled", zap.Error(err))
		}
	} else {
		zapLogger.Warn("weather_api_key_not_configured_weather_disabled")
	}

	// Initialize services
	flow := onboarding.NewFlow(state, nil, zapLogger)
	scheduler := tasks.NewScheduler(state, zapLogger)
	historyLog := history.NewLog(state, zapLogger)

	// Initialize handlers
	healthChecker := handlers.NewHealthChecker(kv)
	onboardingHandler := handlers.NewOnboardingHandler(flow, state)
	taskHandler := handlers.NewTaskHandler(scheduler, state)
	historyHandler := handlers.NewHistoryHandler(historyLog, zapLogger)
	weatherHandler := handlers.NewWeatherHandler(weatherClient, state, cfg.DefaultLocation, zapLogger)

	// A nil assistant keeps the routes registered; requests get a 503
	// configuration error instead of a 404.
	askHandler := handlers.NewAskHandler(assistant, historyLog, state, cfg.DefaultLocation, zapLogger)
	// The capture primitives come from the client platform; the server
	// itself has none, so voice endpoints report not supported.
	var responder voice.Responder
	if assistant != nil {
		responder = assistant
	}
	voiceHandler := handlers.NewVoiceHandler(handlers.VoicePlatform{}, responder, historyLog, state, cfg.DefaultLocation, zapLogger)

	// Setup router
	r := mux.NewRouter()

	zapLogger.Info("setting_up_middleware")

	// 0. OpenTelemetry tracing (if enabled)
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("kisan-sathi-assistant"))
		zapLogger.Info("otel_middleware_enabled")
	}
	// 1. Security headers (should be set on all responses)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	// 2. CORS
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	// Rate limit middleware (applied to the API subrouter, not globally)
	rateLimitMW, err := middleware.RateLimit(cfg.RateLimitRPM)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}
	// 3. Request size limits (protects against DoS)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	// 4. Content-Type validation for POST/PATCH/PUT requests
	r.Use(middleware.ContentType)
	// 5. Request timeout
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	// 6. Error handler (catches panics)
	r.Use(middleware.ErrorHandler(zapLogger))
	// 7. Logging (innermost, executes last before handler)
	r.Use(middleware.Logging(zapLogger))

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	onboardingRouter := apiRouter.PathPrefix("/onboarding").Subrouter()
	onboardingHandler.RegisterRoutes(onboardingRouter)
	apiRouter.HandleFunc("/home", onboardingHandler.Home).Methods("GET")

	tasksRouter := apiRouter.PathPrefix("/tasks").Subrouter()
	taskHandler.RegisterRoutes(tasksRouter)

	apiRouter.HandleFunc("/history", historyHandler.ListHistory).Methods("GET")
	apiRouter.HandleFunc("/history", historyHandler.ClearHistory).Methods("DELETE")
	apiRouter.HandleFunc("/history/export", historyHandler.ExportHistory).Methods("GET")

	apiRouter.HandleFunc("/weather", weatherHandler.GetWeather).Methods("GET")

	apiRouter.HandleFunc("/ask/text", askHandler.AskText).Methods("POST")
	apiRouter.HandleFunc("/ask/image", askHandler.AskImage).Methods("POST")

	voiceRouter := apiRouter.PathPrefix("/voice").Subrouter()
	voiceHandler.RegisterRoutes(voiceRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   75 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// createAssistant creates the AI assistant from the configured provider
func createAssistant(cfg *config.Config, logger *zap.Logger, debugMode bool) (*ai.Assistant, error) {
	registry := ai.NewProviderRegistry()
	ai.RegisterGemini(registry, logger, debugMode)
	ai.RegisterOpenAI(registry, logger, debugMode)

	providerType := cfg.AIProvider
	if providerType == "" {
		providerType = "gemini"
	}

	apiKey := cfg.GeminiKey
	if providerType == "openai" {
		apiKey = cfg.OpenAIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key not configured", providerType)
	}

	provider, err := registry.GetProvider(providerType, map[string]string{
		"api_key":  apiKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	})
	if err != nil {
		return nil, err
	}
	return ai.NewAssistant(provider), nil
}
