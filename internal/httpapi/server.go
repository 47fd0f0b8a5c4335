// Package httpapi exposes an Engine over HTTP: health, route queries, and
// congestion updates behind an httprouter + alice middleware chain.
package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/georoute/georoute/internal/engine"
)

// Config holds the HTTP server's listen address and timeouts, sourced from
// viper defaults the way pkg/http/server.go seeds API_PORT/API_TIMEOUT.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig seeds viper defaults and reads them back, so a caller can
// override any of HTTP_PORT / HTTP_READ_TIMEOUT / HTTP_WRITE_TIMEOUT /
// HTTP_IDLE_TIMEOUT via env, flag, or config file before calling this.
func DefaultConfig() Config {
	viper.SetDefault("HTTP_PORT", 8080)
	viper.SetDefault("HTTP_READ_TIMEOUT", 5*time.Second)
	viper.SetDefault("HTTP_WRITE_TIMEOUT", 5*time.Second)
	viper.SetDefault("HTTP_IDLE_TIMEOUT", 60*time.Second)

	return Config{
		Port:         viper.GetInt("HTTP_PORT"),
		ReadTimeout:  viper.GetDuration("HTTP_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("HTTP_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("HTTP_IDLE_TIMEOUT"),
	}
}

// API wires an Engine to the georoute HTTP surface.
type API struct {
	engine         *engine.Engine
	log            *zap.Logger
	validate       *validator.Validate
	rateLimitRPS   float64
	rateLimitBurst int
}

// New constructs an API over eng, logging through log. Defaults to a
// generous rate limit (HTTP_RATE_LIMIT_RPS / HTTP_RATE_LIMIT_BURST via
// viper) suitable for an internal collaborator, not a public edge.
func New(eng *engine.Engine, log *zap.Logger) *API {
	viper.SetDefault("HTTP_RATE_LIMIT_RPS", 500)
	viper.SetDefault("HTTP_RATE_LIMIT_BURST", 1000)

	return &API{
		engine:         eng,
		log:            log,
		validate:       validator.New(),
		rateLimitRPS:   viper.GetFloat64("HTTP_RATE_LIMIT_RPS"),
		rateLimitBurst: viper.GetInt("HTTP_RATE_LIMIT_BURST"),
	}
}

// Handler builds the full httprouter + alice middleware chain: CORS,
// panic recovery, then request logging, wrapping every route below.
func (a *API) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/health", a.health)
	router.GET("/api/v1/health", a.health)
	router.GET("/api/v1/route", a.routeFromQuery)
	router.POST("/api/v1/route", a.routeFromBody)
	router.POST("/api/v1/congestion/update", a.updateCongestion)
	router.GET("/metrics", a.metrics)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	chain := alice.New(corsHandler.Handler, a.recoverPanic, a.requestLogger, a.rateLimit)
	return chain.Then(router)
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (a *API) ListenAndServe(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      a.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.log.Info("context canceled, shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
