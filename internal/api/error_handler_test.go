package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", domain.NewValidationError("amount", "is required"), http.StatusBadRequest, "amount is required"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"transaction not found", fmt.Errorf("find: %w", domain.ErrTransactionNotFound), http.StatusNotFound, "transaction not found"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"idempotency key in use", domain.ErrRequestInProgress, http.StatusConflict, "a request with this idempotency key is in progress"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed"},
		{"storage", fmt.Errorf("%w: dial tcp 10.0.0.5:5432: connection refused", domain.ErrStorageUnavailable), http.StatusInternalServerError, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakStoreErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New(`pq: relation "transactions" does not exist`), c)

	if strings.Contains(rec.Body.String(), "relation") {
		t.Fatalf("store error leaked to client: %s", rec.Body.String())
	}
}
