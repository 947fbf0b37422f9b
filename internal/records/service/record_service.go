package service

import (
	"context"
	"log/slog"

	"github.com/medicalregister/go-backend/internal/auth"
	"github.com/medicalregister/go-backend/internal/records/domain"
)

// RecordStore is the persistence contract the service depends on.
// *repository.RecordRepository satisfies it; tests use an in-memory fake.
type RecordStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.MedicalRecord, error)
	FindByIDAndOwner(ctx context.Context, id int64, ownerID string) (*domain.MedicalRecord, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByIDAndOwner(ctx context.Context, id int64, ownerID string) (bool, error)
	Insert(ctx context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error)
	Update(ctx context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error)
	SoftDelete(ctx context.Context, id int64, ownerID string) (bool, error)
}

// RecordService is the sole authority deciding whether a caller may read,
// create, update, or delete a record. Controllers never perform their own
// ownership checks. The caller's identity arrives as an explicit argument;
// the service reads no ambient request state.
type RecordService struct {
	store  RecordStore
	logger *slog.Logger
}

// NewRecordService creates a new record service.
func NewRecordService(store RecordStore, logger *slog.Logger) *RecordService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordService{store: store, logger: logger}
}

// List returns all non-deleted records owned by the caller.
func (s *RecordService) List(ctx context.Context, ident auth.Identity) ([]domain.MedicalRecord, error) {
	if ident.IsZero() {
		s.logger.Warn("list records without resolvable identity")
		return nil, domain.ErrUnauthorized
	}
	records, err := s.store.ListByOwner(ctx, ident.Subject)
	if err != nil {
		return nil, err
	}
	s.logger.Info("records listed", "owner", ident.Subject, "count", len(records))
	return records, nil
}

// Get returns the caller's record with the given id. A record that exists but
// belongs to someone else is reported as ErrNotFound, indistinguishable from
// true absence, so reads never leak existence.
func (s *RecordService) Get(ctx context.Context, ident auth.Identity, id int64) (*domain.MedicalRecord, error) {
	if ident.IsZero() {
		s.logger.Warn("get record without resolvable identity", "id", id)
		return nil, domain.ErrUnauthorized
	}
	rec, err := s.store.FindByIDAndOwner(ctx, id, ident.Subject)
	if err != nil {
		return nil, err
	}
	s.logger.Info("record retrieved", "owner", ident.Subject, "id", id)
	return rec, nil
}

// Save creates or updates a record. A zero id means create. On the update
// path ownership is checked first and a record owned by someone else fails
// with ErrAccessDenied before any write happens. Either way the stored
// owner is forced to the caller's subject, overwriting whatever the caller
// supplied.
func (s *RecordService) Save(ctx context.Context, ident auth.Identity, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	if ident.IsZero() {
		s.logger.Warn("save record without resolvable identity")
		return nil, domain.ErrUnauthorized
	}

	rec.OwnerID = ident.Subject

	if rec.ID == 0 {
		saved, err := s.store.Insert(ctx, rec)
		if err != nil {
			return nil, err
		}
		s.logger.Info("record created", "owner", ident.Subject, "id", saved.ID)
		return saved, nil
	}

	owned, err := s.store.ExistsByIDAndOwner(ctx, rec.ID, ident.Subject)
	if err != nil {
		return nil, err
	}
	if !owned {
		s.logger.Warn("update refused, record not owned", "owner", ident.Subject, "id", rec.ID)
		return nil, domain.ErrAccessDenied
	}

	saved, err := s.store.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.logger.Info("record updated", "owner", ident.Subject, "id", saved.ID)
	return saved, nil
}

// Delete soft-deletes the caller's record. Unlike Get it distinguishes the
// two failure modes: a record that does not exist at all fails ErrNotFound,
// one that exists under another owner fails ErrAccessDenied. Both failure
// paths leave the store unchanged.
func (s *RecordService) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	if ident.IsZero() {
		s.logger.Warn("delete record without resolvable identity", "id", id)
		return domain.ErrUnauthorized
	}

	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		s.logger.Warn("delete refused, record does not exist", "owner", ident.Subject, "id", id)
		return domain.ErrNotFound
	}

	owned, err := s.store.ExistsByIDAndOwner(ctx, id, ident.Subject)
	if err != nil {
		return err
	}
	if !owned {
		s.logger.Warn("delete refused, record not owned", "owner", ident.Subject, "id", id)
		return domain.ErrAccessDenied
	}

	if _, err := s.store.SoftDelete(ctx, id, ident.Subject); err != nil {
		return err
	}
	s.logger.Info("record deleted", "owner", ident.Subject, "id", id)
	return nil
}
