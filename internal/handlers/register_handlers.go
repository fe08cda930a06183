package handlers

import (
	"log"

	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
	"github.com/fleetstack/rental_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	handlerChain := []gin.HandlerFunc{middleware.ActorRef()}
	if cfg.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
		if err != nil {
			log.Printf("Warning: invalid RATE_LIMIT %q, rate limiting disabled: %v\n", cfg.RateLimit, err)
		} else {
			handlerChain = append(handlerChain, middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
		}
	}

	v1 := r.Group("/api/v1", handlerChain...)

	registerAccountRoutes(v1, services.Account)
	registerAssetRoutes(v1, services.Asset)
	registerReservationRoutes(v1, services.Booking)
	registerLedgerRoutes(v1, services.Ledger)
	registerReconciliationRoutes(v1, services.Reconciliation)
}
