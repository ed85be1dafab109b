package middleware

import (
	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/avjabalpur/cian-erp-sub002/pkg/response"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter throttles per client IP. A disabled config yields a pass-through.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if !cfg.Enabled || cfg.RequestsPerSec <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RequestsPerSec),
			Burst:     cfg.Burst,
			ExpiresIn: cfg.ExpiresIn,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.WriteErrorResponse(c, errs.ErrClient, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return response.WriteErrorResponse(c, errs.ErrTooManyRequests, nil)
		},
	})
}
