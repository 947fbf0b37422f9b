package domain

import "time"

// MedicalRecord represents a single patient record owned by a user.
// It is intentionally storage-agnostic and used across repository and HTTP layers.
//
// OwnerID is the identity provider's subject claim of whoever created the
// record. It is never caller-supplied; the service overwrites it on every
// write. The audit columns (CreatedBy, LastModifiedBy and the timestamps)
// are stamped by the repository.
type MedicalRecord struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Notes          string    `json:"notes"`
	OwnerID        string    `json:"owner_id"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedBy string    `json:"last_modified_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
