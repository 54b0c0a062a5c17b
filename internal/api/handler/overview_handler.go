package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const monthLayout = "2006-01"

type OverviewHandler struct {
	service ports.OverviewService
}

func NewOverviewHandler(service ports.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

type categorySpendingResponse struct {
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
}

type overviewResponse struct {
	Month              string                     `json:"month"`
	CurrentBalance     float64                    `json:"current_balance"`
	Income             float64                    `json:"income"`
	Expenses           float64                    `json:"expenses"`
	Spending           []categorySpendingResponse `json:"spending"`
	RecentTransactions []transactionResponse      `json:"recent_transactions"`
}

type monthlyTrendResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type trendsResponse struct {
	Data []monthlyTrendResponse `json:"data"`
}

// Overview handles GET /overview.
//
// @Summary      Current month overview
// @Tags         overview
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  overviewResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /overview [get]
func (h *OverviewHandler) Overview(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	o, err := h.service.Overview(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	resp := overviewResponse{
		Month:              o.Month.Format(monthLayout),
		CurrentBalance:     o.Totals.Balance,
		Income:             o.Totals.Income,
		Expenses:           o.Totals.Expenses,
		Spending:           make([]categorySpendingResponse, len(o.Spending)),
		RecentTransactions: make([]transactionResponse, len(o.Recent)),
	}
	for i, s := range o.Spending {
		resp.Spending[i] = categorySpendingResponse{Category: s.Category, Spent: s.Spent}
	}
	for i := range o.Recent {
		resp.RecentTransactions[i] = toTransactionResponse(&o.Recent[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// Trends handles GET /overview/trends.
//
// @Summary      Monthly income and expenses
// @Tags         overview
// @Produce      json
// @Security     BearerAuth
// @Param        months  query     int  false  "Number of months, newest first (default 6, max 24)"
// @Success      200     {object}  trendsResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /overview/trends [get]
func (h *OverviewHandler) Trends(c echo.Context) error {
	ownerID, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var months int
	if err := echo.QueryParamsBinder(c).Int("months", &months).BindError(); err != nil {
		return bindingError(err)
	}

	trends, err := h.service.Trends(c.Request().Context(), ownerID, months)
	if err != nil {
		return err
	}

	resp := trendsResponse{Data: make([]monthlyTrendResponse, len(trends))}
	for i, t := range trends {
		resp.Data[i] = monthlyTrendResponse{Month: t.Month.Format(monthLayout), Income: t.Income, Expenses: t.Expenses}
	}
	return c.JSON(http.StatusOK, resp)
}
