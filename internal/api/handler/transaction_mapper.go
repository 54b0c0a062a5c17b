package handler

import (
	"time"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates (UTC). With
// endOfDay set, a bare date covers the whole day.
func parseDate(field, raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return t, nil
}

// --- Request → Service input ---

func toCreateInput(req createTransactionRequest, idempotencyKey string) (ports.CreateTransactionInput, error) {
	date, err := parseDate("transaction_date", req.TransactionDate, false)
	if err != nil {
		return ports.CreateTransactionInput{}, err
	}
	return ports.CreateTransactionInput{
		Counterparty:   req.RecipientSender,
		Category:       req.Category,
		Date:           date,
		Amount:         req.Amount,
		Kind:           req.TransactionType,
		IdempotencyKey: idempotencyKey,
	}, nil
}

func toPatch(req updateTransactionRequest) (domain.TransactionPatch, error) {
	patch := domain.TransactionPatch{
		Counterparty: req.RecipientSender,
		Category:     req.Category,
		Amount:       req.Amount,
	}
	if req.TransactionDate != nil {
		date, err := parseDate("transaction_date", *req.TransactionDate, false)
		if err != nil {
			return domain.TransactionPatch{}, err
		}
		patch.Date = &date
	}
	if req.TransactionType != nil {
		kind := domain.TransactionKind(*req.TransactionType)
		patch.Kind = &kind
	}
	return patch, nil
}

// --- Domain → Response ---

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		UserID:          t.OwnerID,
		RecipientSender: t.Counterparty,
		Category:        t.Category,
		TransactionDate: t.Date.UTC().Format(timeLayout),
		Amount:          t.Amount,
		TransactionType: string(t.Kind),
		CreatedAt:       t.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:       t.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toListResponse(page *ports.TransactionPage) listTransactionsResponse {
	data := make([]transactionResponse, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, toTransactionResponse(&page.Items[i]))
	}
	return listTransactionsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}
