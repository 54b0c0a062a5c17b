package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const (
	headerIdempotencyKey   = "Idempotency-Key"
	headerIdempotentReplay = "Idempotent-Replayed"
)

// TransactionHandler handles HTTP requests for transaction operations. The
// owner is always the authenticated caller.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List handles GET /transactions.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        page_size   query     int     false  "Page size (default 10, max 100)"
// @Param        sort        query     string  false  "latest, oldest, highest, lowest, a-z, z-a"
// @Param        category    query     string  false  "Exact category"
// @Param        search      query     string  false  "Counterparty substring or exact amount"
// @Param        start_date  query     string  false  "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Inclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success      200         {object}  listTransactionsResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var (
		in                 ports.ListTransactionsInput
		startDate, endDate string
	)
	err = echo.QueryParamsBinder(c).
		Int("page", &in.Page).
		Int("page_size", &in.PageSize).
		String("sort", &in.Sort).
		String("category", &in.Category).
		String("search", &in.Search).
		String("start_date", &startDate).
		String("end_date", &endDate).
		BindError()
	if err != nil {
		return bindingError(err)
	}
	if startDate != "" {
		if in.From, err = parseDate("start_date", startDate, false); err != nil {
			return err
		}
	}
	if endDate != "" {
		if in.To, err = parseDate("end_date", endDate, true); err != nil {
			return err
		}
	}

	page, err := h.service.List(c.Request().Context(), ownerID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(page))
}

// Get handles GET /transactions/:id.
//
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  transactionResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	t, err := h.service.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

// Create handles POST /transactions.
//
// @Summary      Create a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                    false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTransactionRequest  true   "Transaction details"
// @Success      200              {object}  transactionResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in, err := toCreateInput(req, c.Request().Header.Get(headerIdempotencyKey))
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ownerID, in)
	if err != nil {
		return err
	}

	if result.Replayed {
		c.Response().Header().Set(headerIdempotentReplay, "true")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(result.Transaction))
}

// Update handles PUT /transactions/:id. Only the fields present in the body change.
//
// @Summary      Update a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Transaction id"
// @Param        body  body      updateTransactionRequest  true  "Fields to change"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch, err := toPatch(req)
	if err != nil {
		return err
	}

	t, err := h.service.Update(c.Request().Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

// Delete handles DELETE /transactions/:id.
//
// @Summary      Delete a transaction
// @Tags         transactions
// @Security     BearerAuth
// @Param        id   path  string  true  "Transaction id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Categories handles GET /transactions/categories.
//
// @Summary      List transaction categories
// @Tags         transactions
// @Produce      json
// @Success      200  {array}  string
// @Router       /transactions/categories [get]
func (h *TransactionHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories)
}

// bindingError turns an echo query binding failure into a validation error.
func bindingError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) && len(be.Field) > 0 {
		return domain.NewValidationError(be.Field, "must be a number")
	}
	return domain.NewValidationError("", "invalid query parameters")
}
