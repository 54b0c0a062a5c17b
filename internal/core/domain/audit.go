package domain

import "time"

// AuditAction names the mutation an AuditEvent records.
type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

// AuditEvent is an append-only record of a transaction mutation.
type AuditEvent struct {
	TransactionID string
	OwnerID       string
	Action        AuditAction
	Amount        float64
	OccurredAt    time.Time
}
