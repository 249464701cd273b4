package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PablitoBueno/agroManager/internal/auth"
)

const (
	ContextEmail  = "email"
	ContextUserID = "userID"
)

// RequireLogin resolves the bearer token into an identity before the
// handler runs. Any verification failure short-circuits with 401; the
// handler never executes on an unverified request.
func RequireLogin(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := BearerToken(c)
			if err != nil {
				return err
			}

			ident, err := tokens.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			setUserContext(c, ident)
			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
	}
	return parts[1], nil
}

func setUserContext(c echo.Context, ident auth.Identity) {
	c.Set(ContextEmail, ident.Email)
	c.Set(ContextUserID, ident.UserID)
}

// CurrentUser reads the identity the middleware stored on the context.
func CurrentUser(c echo.Context) auth.Identity {
	ident := auth.Identity{}
	if v, ok := c.Get(ContextEmail).(string); ok {
		ident.Email = v
	}
	if v, ok := c.Get(ContextUserID).(uint); ok {
		ident.UserID = v
	}
	return ident
}
