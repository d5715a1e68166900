package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/middleware"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/pkg/cookies"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setSessionCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(cookies.Create(cookies.AccessTokenName, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(cookies.Create(cookies.RefreshTokenName, pair.RefreshToken, "/", pair.RefreshExp))
}

func clearSessionCookies(c echo.Context) {
	c.SetCookie(cookies.Delete(cookies.AccessTokenName, "/"))
	c.SetCookie(cookies.Delete(cookies.RefreshTokenName, "/"))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return httpError(err, "registration failed")
	}

	setSessionCookies(c, pair)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err, "login failed")
	}

	setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	refreshCookie, err := c.Cookie(cookies.RefreshTokenName)
	if err != nil || refreshCookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	_, accessToken, accessExp, err := h.Svc.RenewAccess(ctx, refreshCookie.Value)
	if err != nil {
		l.Warn("refresh_failed", "error", err)
		clearSessionCookies(c)
		return httpError(err, "token refresh failed")
	}

	c.SetCookie(cookies.Create(cookies.AccessTokenName, accessToken, "/", accessExp))
	return c.JSON(http.StatusOK, echo.Map{"message": "Token refreshed"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.Svc.Logout(ctx, userID); err != nil {
		clearSessionCookies(c)
		l.Error("logout_failed", "status", 500, "error", err)
		return httpError(err, "logout failed")
	}

	clearSessionCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		return httpError(err, "user not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
