package handlers

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/openbooks/ledger_core_app/internal/core/ports/services"
	"github.com/openbooks/ledger_core_app/internal/middleware"
	"github.com/openbooks/ledger_core_app/pkg/config"
)

// entityCodePattern constrains codes for currencies, domains and
// sub-journals: uppercase, starts with a letter, up to 16 characters.
var entityCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,15}$`)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

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
	v1 := r.Group("/api/v1", actingUserMiddleware())

	if rl := rateLimiter(cfg.RateLimit); rl != nil {
		v1.Use(middleware.RateLimit(rl))
	}

	registerLedgerRoutes(v1, services.Ledger)
	registerAccountRoutes(v1, services.Account)
}

// actingUserMiddleware propagates the caller-declared user identifier into
// the request context for audit attribution.
func actingUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-Acting-User"); userID != "" {
			ctx := middleware.WithUserID(c.Request.Context(), userID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// rateLimiter builds an in-memory IP rate limiter from a formatted rate like
// "100-M". An unparsable rate disables limiting.
func rateLimiter(formatted string) *limiter.Limiter {
	if formatted == "" {
		return nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT value, rate limiting disabled", slog.String("rate", formatted))
		return nil
	}
	return limiter.New(memory.NewStore(), rate)
}

func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("entitycode", func(fl validator.FieldLevel) bool {
			return entityCodePattern.MatchString(fl.Field().String())
		})
	}
}
