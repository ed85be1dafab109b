package controller

import (
	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
	"github.com/avjabalpur/cian-erp-sub002/internal/middleware"
	"github.com/avjabalpur/cian-erp-sub002/internal/service"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/avjabalpur/cian-erp-sub002/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	service service.AuthService
}

func CreateAuthController(g *echo.Group, service service.AuthService, isLoggedIn echo.MiddlewareFunc, rateLimit echo.MiddlewareFunc) {
	ac := AuthController{
		service: service,
	}
	g.POST("/auth/login", ac.Login, rateLimit)
	g.POST("/auth/register", ac.Register, rateLimit)
	g.POST("/auth/refresh-token", ac.RefreshToken, rateLimit)
	g.POST("/auth/validate-token", ac.ValidateToken)
	g.GET("/auth/me", ac.Me, isLoggedIn)
	g.POST("/auth/logout", ac.Logout, isLoggedIn)
}

func (c *AuthController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Login").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *AuthController) Register(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Register").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	registered, err := c.service.Register(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", dto.RegisterResponse{Registered: registered})
}

func (c *AuthController) RefreshToken(e echo.Context) error {
	payload := dto.RefreshTokenRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "RefreshToken").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.Refresh(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

// ValidateToken reads the token from the body and falls back to the
// Authorization header.
func (c *AuthController) ValidateToken(e echo.Context) error {
	payload := dto.ValidateTokenRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "ValidateToken").Msg("")
	}

	token := payload.Token
	if token == "" {
		token, _ = middleware.ExtractBearerToken(e.Request().Header.Get(echo.HeaderAuthorization))
	}

	return response.WriteSuccessResponse(e, "", dto.ValidateTokenResponse{Valid: c.service.Validate(token)})
}

func (c *AuthController) Me(e echo.Context) error {
	principal, ok := middleware.GetPrincipal(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	resp, err := c.service.Me(e.Request().Context(), principal.UserID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *AuthController) Logout(e echo.Context) error {
	principal, ok := middleware.GetPrincipal(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	err := c.service.Logout(e.Request().Context(), principal.UserID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}
