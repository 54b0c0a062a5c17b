package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sohhamm/personal-finance-app/internal/api/metrics"
	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
	"github.com/sohhamm/personal-finance-app/internal/pkg/token"
)

// UserIDKey is the echo.Context key holding the authenticated user id.
const UserIDKey = "user_id"

// Gate turns an Authorization header into a caller identity.
type Gate struct {
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewGate(tokens ports.TokenService, log zerolog.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// Authenticate returns the user id carried by a "Bearer <token>" header
// value. Every failure is domain.ErrUnauthenticated; the specific cause is
// logged and counted only.
func (g *Gate) Authenticate(header string) (string, error) {
	if header == "" {
		return "", g.reject("missing_header", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", g.reject("bad_scheme", nil)
	}

	userID, err := g.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", g.reject(reason(err), err)
	}
	return userID, nil
}

// Auth rejects requests without a valid bearer token and stores the caller's
// user id under UserIDKey.
func (g *Gate) Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := g.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

func (g *Gate) reject(why string, err error) error {
	metrics.AuthFailuresTotal.WithLabelValues(why).Inc()
	g.log.Debug().Err(err).Str("reason", why).Msg("request unauthenticated")
	return domain.ErrUnauthenticated
}

func reason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
