package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sohhamm/personal-finance-app/internal/api/middleware"
	"github.com/sohhamm/personal-finance-app/internal/core/domain"
)

// ctxOwner returns the user id stored by the auth gate. An empty value means
// the route was mounted without the gate; fail closed.
func ctxOwner(c echo.Context) (string, error) {
	ownerID, _ := c.Get(middleware.UserIDKey).(string)
	if ownerID == "" {
		return "", domain.ErrUnauthenticated
	}
	return ownerID, nil
}
