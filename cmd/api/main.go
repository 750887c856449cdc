package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/maaltijdbox/admin-api/internal/auth"
	"github.com/maaltijdbox/admin-api/internal/catalog"
	"github.com/maaltijdbox/admin-api/internal/common"
	"github.com/maaltijdbox/admin-api/internal/config"
	"github.com/maaltijdbox/admin-api/internal/coupon"
	"github.com/maaltijdbox/admin-api/internal/health"
	"github.com/maaltijdbox/admin-api/internal/meal"
	"github.com/maaltijdbox/admin-api/internal/obs"
	"github.com/maaltijdbox/admin-api/internal/order"
	"github.com/maaltijdbox/admin-api/internal/ratelimit"
	"github.com/maaltijdbox/admin-api/internal/security"
	"github.com/maaltijdbox/admin-api/internal/user"
	"github.com/maaltijdbox/admin-api/internal/zipcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "maaltijdbox")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "maaltijdbox-admin-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "maaltijdbox-admin-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	validate := validator.New()

	catalogStore := &catalog.Store{Pool: pool}
	catalogSvc := &catalog.Service{
		Store: catalogStore,
		Cache: catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
	}
	catalogHandler := &catalog.Handler{
		Service:  catalogSvc,
		Validate: validate,
		PageSize: cfg.DefaultPageSize,
		MaxPage:  cfg.MaxPageSize,
	}

	couponStore := &coupon.Store{Pool: pool}
	couponHandler := &coupon.Handler{
		Service:  &coupon.Service{Store: couponStore},
		Validate: validate,
		PageSize: cfg.DefaultPageSize,
		MaxPage:  cfg.MaxPageSize,
	}

	mealStore := &meal.Store{Pool: pool}
	mealHandler := &meal.Handler{
		Store:    mealStore,
		Validate: validate,
		PageSize: cfg.DefaultPageSize,
		MaxPage:  cfg.MaxPageSize,
	}

	orderSvc := &order.Service{
		Store:    &order.Store{Pool: pool},
		Catalog:  catalogStore,
		Coupons:  couponStore,
		Shipping: cfg.Shipping,
		Currency: cfg.CurrencySymbol,
	}
	orderHandler := &order.Handler{
		Svc:      orderSvc,
		Validate: validate,
		PageSize: cfg.DefaultPageSize,
		MaxPage:  cfg.MaxPageSize,
	}

	userHandler := &user.Handler{
		Svc: &user.Service{
			Store:           &user.Store{Pool: pool},
			PricePerCalorie: cfg.PricePerCalorie,
			ShippingCharge:  cfg.Shipping.ShippingCharge,
			DefaultPlanDays: 5,
		},
		Validate: validate,
		PageSize: cfg.DefaultPageSize,
		MaxPage:  cfg.MaxPageSize,
	}

	zipHandler := &zipcode.Handler{
		Store:    &zipcode.Store{Pool: pool},
		Validate: validate,
		PageSize: cfg.DefaultPageSize,
		MaxPage:  cfg.MaxPageSize,
	}

	authService, err := auth.NewService(auth.Config{
		Store:           &auth.Store{Pool: pool},
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		Issuer:          cfg.JWTIssuer,
		Audience:        cfg.JWTAudience,
		// Reset links surface via the response meta outside production until a
		// mail provider is wired in.
		Mailer:           common.NopEmailSender{},
		ResetBaseURL:     resetBaseURL(cfg),
		ExposeResetToken: cfg.AppEnv != "production",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{
		Service:           authService,
		RefreshCookieName: "maaltijdbox_refresh",
		CookieSecure:      cfg.AppEnv == "production",
	}
	authMiddleware := auth.Middleware{Service: authService}

	loginLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{
			Client: redisClient,
			Prefix: "ratelimit:",
			Window: cfg.LoginRateWindow,
			Max:    cfg.LoginRateMax,
		},
		Key: ratelimit.LoginKey,
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter unavailable")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.BodyLimit{Max: 1 << 20}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      health.Probes{Pool: pool, Redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/auth", func(a chi.Router) {
			a.With(loginLimiter.Middleware).Post("/login", authHandler.Login)
			a.Post("/refresh", authHandler.Refresh)
			a.Post("/logout", authHandler.Logout)
			a.Group(func(protected chi.Router) {
				protected.Use(authMiddleware.RequireAuth)
				protected.Get("/me", authHandler.Me)
			})
		})

		v.Group(func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth)
			catalogHandler.Routes(admin)
			couponHandler.Routes(admin)
			mealHandler.Routes(admin)
			orderHandler.Routes(admin)
			userHandler.Routes(admin)
			zipHandler.Routes(admin)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		health.SetReady(false)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

// resetBaseURL picks the admin UI origin that password reset links point at.
// Falls back to the first explicit CORS origin.
func resetBaseURL(cfg *config.Config) string {
	for _, origin := range cfg.CORSAllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" && trimmed != "*" {
			return trimmed
		}
	}
	return ""
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
