package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/service"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	h := &AuthHandler{auth: auth}
	g := e.Group("/api/v1/auth")
	g.POST("/login", h.login)
	g.POST("/google", h.loginWithGoogle)
	g.GET("/session", h.session, RequireAuth(auth))
	g.POST("/logout", h.logout, RequireAuth(auth))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email and password are required"))
	}
	session, err := h.auth.LoginWithEmail(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, buildSessionResponse(session, true))
}

func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		return c.JSON(http.StatusBadRequest, util.Error("id_token is required"))
	}
	session, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, buildSessionResponse(session, true))
}

// session confirms the bearer token. The token itself is not echoed back.
func (h *AuthHandler) session(c echo.Context) error {
	session, err := h.auth.Session(c.Request().Context(), currentToken(c))
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, buildSessionResponse(session, false))
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), currentToken(c)); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}

func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidGoogleToken),
		errors.Is(err, service.ErrInvalidSession):
		return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
	case errors.Is(err, service.ErrGoogleLoginDisabled):
		return c.JSON(http.StatusNotImplemented, util.Error(err.Error()))
	default:
		c.Logger().Errorf("auth: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}
