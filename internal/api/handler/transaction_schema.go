package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// timeLayout is used for every timestamp rendered by the API.
const timeLayout = time.RFC3339Nano

// --- Request / Response types ---

type createTransactionRequest struct {
	RecipientSender string   `json:"recipient_sender" validate:"required,max=255"`
	Category        string   `json:"category"         validate:"required,max=100"`
	TransactionDate string   `json:"transaction_date" validate:"required"`
	Amount          *float64 `json:"amount"           validate:"required"`
	TransactionType string   `json:"transaction_type" validate:"required"`
}

// updateTransactionRequest holds a partial update. Absent fields stay unchanged.
type updateTransactionRequest struct {
	RecipientSender *string  `json:"recipient_sender" validate:"omitnil,max=255"`
	Category        *string  `json:"category"         validate:"omitnil,max=100"`
	TransactionDate *string  `json:"transaction_date"`
	Amount          *float64 `json:"amount"`
	TransactionType *string  `json:"transaction_type"`
}

type transactionResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	RecipientSender string  `json:"recipient_sender"`
	Category        string  `json:"category"`
	TransactionDate string  `json:"transaction_date"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type listTransactionsResponse struct {
	Data       []transactionResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}
