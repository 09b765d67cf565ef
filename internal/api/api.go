// Package api serves the retention views over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/logger"
)

// Upload bodies above this size are rejected before parsing.
const maxUploadBytes = 10 << 20

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with every route registered.
// The context bounds background work such as the rate limiter sweep.
// A zero rate limit leaves uploads unlimited.
func NewRouter(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	h := &handler{cfg: cfg, mgr: mgr}
	uploadChain := []gin.HandlerFunc{h.uploadEmployees}
	if cfg.RateLimit > 0 {
		uploadChain = append([]gin.HandlerFunc{NewRateLimiter(ctx, cfg.RateLimit, cfg.RateBurst).Middleware()}, uploadChain...)
	}

	r.GET("/health", h.health)

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.dashboard)
		api.GET("/employees", h.listEmployees)
		api.GET("/employees/:id", h.getEmployee)
		api.POST("/employees/:id/predict", h.predictEmployee)
		api.GET("/analytics/trends", h.trends)
		api.GET("/interventions", h.listInterventions)
		api.PATCH("/interventions/:employee_id/:seq", h.updateInterventionStatus)

		upload := api.Group("/upload")
		{
			upload.POST("/employees", uploadChain...)
			upload.GET("/template", h.template)
		}
	}
	return r
}

// Serve runs the API on cfg.Addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(ctx, cfg, mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info().Str("addr", cfg.Addr).Str("backend", string(cfg.StoreBackend)).Msg("api listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("api shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
