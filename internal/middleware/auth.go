package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/pkg/cookies"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
	"github.com/Skotchmaster/blog_platform/pkg/tokens"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type SessionMiddleware struct {
	JWTSecret []byte
	Auth      *service.AuthService
}

func NewSession(secret []byte, auth *service.AuthService) *SessionMiddleware {
	return &SessionMiddleware{JWTSecret: secret, Auth: auth}
}

// RequireSession establishes the request identity. A valid access cookie is
// the fast path; an expired, invalid or absent one falls through to the
// refresh credential, which on success re-mints the access cookie without
// rotating the refresh credential. Every failure collapses into a single 401
// with the cookies cleared.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "session")

		if accessCookie, err := c.Cookie(cookies.AccessTokenName); err == nil && accessCookie.Value != "" {
			claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
			if err == nil {
				if id, role, ok := identityFromClaims(claims); ok {
					setIdentity(c, id, role)
					return next(c)
				}
				l.Warn("access_claims_malformed", "subject", claims.Subject)
			} else {
				// Cause stays in the logs only; the client sees no
				// distinction between expiry and tampering.
				l.Debug("access_token_rejected", "error", err)
			}
		}

		refreshCookie, err := c.Cookie(cookies.RefreshTokenName)
		if err != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		user, accessToken, accessExp, err := m.Auth.RenewAccess(ctx, refreshCookie.Value)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				clearAuthCookies(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			l.Error("session_renewal_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "authentication error")
		}

		c.SetCookie(cookies.Create(cookies.AccessTokenName, accessToken, "/", accessExp))
		setIdentity(c, user.ID, user.Role)
		return next(c)
	}
}

// Authorize gates an established identity by role. It must run after
// RequireSession; an unestablished identity is a 401, a disallowed role a
// distinct 403.
func Authorize(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, r := range allowed {
				if r == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "not authorized to access this resource")
		}
	}
}

func identityFromClaims(claims *tokens.AccessClaims) (uuid.UUID, models.Role, bool) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", false
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, role, true
}

func setIdentity(c echo.Context, id uuid.UUID, role models.Role) {
	c.Set(ctxUserID, id)
	c.Set(ctxRole, role)
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ctxUserID).(uuid.UUID)
	return id, ok
}

func RoleFromContext(c echo.Context) (models.Role, bool) {
	role, ok := c.Get(ctxRole).(models.Role)
	return role, ok
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(cookies.Delete(cookies.AccessTokenName, "/"))
	c.SetCookie(cookies.Delete(cookies.RefreshTokenName, "/"))
}
