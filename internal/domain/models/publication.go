package model

import "time"

type PublicationOperation string

const (
	PublicationOperationCreate PublicationOperation = "create"
	PublicationOperationUpdate PublicationOperation = "update"
)

type PublicationStatus string

const (
	PublicationStatusUploaded  PublicationStatus = "uploaded"
	PublicationStatusSubmitted PublicationStatus = "submitted"
	PublicationStatusConfirmed PublicationStatus = "confirmed"
	PublicationStatusRejected  PublicationStatus = "rejected"
	PublicationStatusReverted  PublicationStatus = "reverted"
	PublicationStatusFailed    PublicationStatus = "failed"
)

// Orphaned reports whether the upload behind a publication in this status is
// not referenced by a confirmed ledger record.
func (s PublicationStatus) Orphaned() bool {
	return s != PublicationStatusConfirmed && s != PublicationStatusSubmitted
}

func (s PublicationStatus) IsValid() bool {
	switch s {
	case PublicationStatusUploaded, PublicationStatusSubmitted, PublicationStatusConfirmed,
		PublicationStatusRejected, PublicationStatusReverted, PublicationStatusFailed:
		return true
	}
	return false
}

// Publication journals one publish or edit attempt.
type Publication struct {
	ID         int64                `json:"id"`
	PostID     string               `json:"post_id,omitempty"`
	Title      string               `json:"title"`
	ContentRef string               `json:"content"`
	TxHash     string               `json:"tx_hash,omitempty"`
	Operation  PublicationOperation `json:"operation"`
	Status     PublicationStatus    `json:"status"`
	Error      string               `json:"error,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

type PublicationStatusUpdate struct {
	Status PublicationStatus
	TxHash *string
	Error  *string
}

type PublicationFilters struct {
	Status       *PublicationStatus
	OrphanedOnly bool
	Limit        *int
	Offset       *int
}
