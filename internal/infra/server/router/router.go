// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/integration/entrypoint/controller"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/middleware"
	"github.com/condo-portal/ledger/internal/integration/metrics"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	ledgerController      *controller.LedgerController
	delinquencyController *controller.DelinquencyController
	chargeController      *controller.ChargeController
	paymentController     *controller.PaymentController
	configController      *controller.ConfigController
	notifyRateLimiter     *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
	metricsRecorder       *metrics.Recorder
	metricsHandler        http.Handler
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	ledgerController *controller.LedgerController,
	delinquencyController *controller.DelinquencyController,
	chargeController *controller.ChargeController,
	paymentController *controller.PaymentController,
	configController *controller.ConfigController,
	notifyRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	metricsRecorder *metrics.Recorder,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		healthController:      healthController,
		ledgerController:      ledgerController,
		delinquencyController: delinquencyController,
		chargeController:      chargeController,
		paymentController:     paymentController,
		configController:      configController,
		notifyRateLimiter:     notifyRateLimiter,
		authMiddleware:        authMiddleware,
		metricsRecorder:       metricsRecorder,
		metricsHandler:        metricsHandler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()
	if r.metricsRecorder != nil {
		r.engine.Use(r.metricsRecorder.Middleware())
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes. Every route requires a portal token.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		residents := v1.Group("/residents/:id")
		{
			residents.GET("/ledger", r.ledgerController.Get)
			residents.GET("/ledger/export", r.ledgerController.Export)
			residents.POST("/charges", r.chargeController.Create)
			residents.POST("/payments", r.paymentController.Create)
		}

		v1.POST("/payments/:id/status", r.paymentController.ChangeStatus)

		communities := v1.Group("/communities/:id")
		{
			communities.GET("/delinquents", r.delinquencyController.List)
			communities.GET("/delinquents/export", r.delinquencyController.Export)

			notify := []gin.HandlerFunc{r.delinquencyController.Notify}
			if r.notifyRateLimiter != nil {
				notify = append([]gin.HandlerFunc{r.notifyRateLimiter.Middleware()}, notify...)
			}
			communities.POST("/delinquents/notify", notify...)

			communities.POST("/maintenance-charges", r.chargeController.GenerateMaintenance)
			communities.GET("/config", r.configController.List)
			communities.PUT("/config/:key", r.configController.Set)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
