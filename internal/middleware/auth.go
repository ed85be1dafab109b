package middleware

import (
	"strings"

	"github.com/avjabalpur/cian-erp-sub002/internal/service"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/avjabalpur/cian-erp-sub002/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const principalKey = "principal"

type TokenAuthorizer interface {
	Authorize(token string) (*service.Principal, error)
}

// RequireAuth rejects requests without a valid, unexpired bearer token.
func RequireAuth(authorizer TokenAuthorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			principal, err := authorizer.Authorize(token)
			if err != nil {
				log.Ctx(c.Request().Context()).Info().Err(err).Str("component", "RequireAuth").Msg("")
				return response.WriteErrorResponse(c, err, nil)
			}

			c.Set(principalKey, principal)

			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth. With no roles it lets every
// authenticated caller through.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			if len(roles) == 0 {
				return next(c)
			}

			for _, role := range roles {
				if principal.HasRole(role) {
					return next(c)
				}
			}

			return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
		}
	}
}

func GetPrincipal(c echo.Context) (*service.Principal, bool) {
	principal, ok := c.Get(principalKey).(*service.Principal)
	return principal, ok && principal != nil
}

func ExtractBearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
