package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/medicalregister/go-backend/internal/records/domain"
)

// recordColumns is the SELECT list shared by every query returning a full row.
const recordColumns = `id, name, age, notes, owner_id, created_by, last_modified_by, created_at, updated_at`

// RecordRepository provides persistence operations for medical records.
// Every query carries the soft-delete predicate `deleted = FALSE` in SQL;
// deleted rows are never filtered out in Go.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new medical record repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// ListByOwner returns all non-deleted records owned by the given subject, in id order.
func (r *RecordRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.MedicalRecord, error) {
	const q = `
SELECT ` + recordColumns + `
FROM medical_records
WHERE owner_id = $1 AND deleted = FALSE
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.MedicalRecord, 0, 16)
	for rows.Next() {
		var rec domain.MedicalRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByIDAndOwner returns the record matching both id and owner.
// Returns domain.ErrNotFound when no such row exists, whether the record is
// absent, soft-deleted, or owned by someone else.
func (r *RecordRepository) FindByIDAndOwner(ctx context.Context, id int64, ownerID string) (*domain.MedicalRecord, error) {
	const q = `
SELECT ` + recordColumns + `
FROM medical_records
WHERE id = $1 AND owner_id = $2 AND deleted = FALSE;
`
	var rec domain.MedicalRecord
	err := scanRecord(r.db.QueryRowContext(ctx, q, id, ownerID), &rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ExistsByID reports whether a non-deleted record with the given id exists,
// regardless of owner.
func (r *RecordRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM medical_records WHERE id = $1 AND deleted = FALSE);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsByIDAndOwner reports whether a non-deleted record with the given id
// is owned by the given subject.
func (r *RecordRepository) ExistsByIDAndOwner(ctx context.Context, id int64, ownerID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM medical_records WHERE id = $1 AND owner_id = $2 AND deleted = FALSE);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert persists a new record. The audit columns are stamped here: both
// created_by and last_modified_by are set to the record's owner.
func (r *RecordRepository) Insert(ctx context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	const q = `
INSERT INTO medical_records (name, age, notes, owner_id, created_by, last_modified_by)
VALUES ($1, $2, $3, $4, $4, $4)
RETURNING ` + recordColumns + `;
`
	var saved domain.MedicalRecord
	err := scanRecord(r.db.QueryRowContext(ctx, q, rec.Name, rec.Age, rec.Notes, rec.OwnerID), &saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update rewrites the user-supplied fields of an existing owned record and
// re-stamps last_modified_by and updated_at. Returns domain.ErrNotFound when
// no row matches id and owner.
func (r *RecordRepository) Update(ctx context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	const q = `
UPDATE medical_records
SET name = $3, age = $4, notes = $5, last_modified_by = $2, updated_at = now()
WHERE id = $1 AND owner_id = $2 AND deleted = FALSE
RETURNING ` + recordColumns + `;
`
	var saved domain.MedicalRecord
	err := scanRecord(r.db.QueryRowContext(ctx, q, rec.ID, rec.OwnerID, rec.Name, rec.Age, rec.Notes), &saved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}

// SoftDelete marks the owned record as deleted. Returns false when no row matched.
func (r *RecordRepository) SoftDelete(ctx context.Context, id int64, ownerID string) (bool, error) {
	const q = `
UPDATE medical_records
SET deleted = TRUE, last_modified_by = $2, updated_at = now()
WHERE id = $1 AND owner_id = $2 AND deleted = FALSE;
`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner, rec *domain.MedicalRecord) error {
	return s.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Age,
		&rec.Notes,
		&rec.OwnerID,
		&rec.CreatedBy,
		&rec.LastModifiedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
}
