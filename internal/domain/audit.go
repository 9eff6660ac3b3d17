package domain

import "time"

// AuditEntry records who changed what. Entries are append-only and written
// in the same transaction as the mutation they describe when one exists.
type AuditEntry struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Audit actions written by the services.
const (
	AuditCreated  = "created"
	AuditUpdated  = "updated"
	AuditDeleted  = "deleted"
	AuditRecorded = "recorded"
)
