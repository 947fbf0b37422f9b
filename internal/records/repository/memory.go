package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/medicalregister/go-backend/internal/records/domain"
)

// MemoryStore is an in-memory RecordStore used by tests. It mirrors the
// postgres repository's observable behavior, including soft delete and audit
// stamping, without needing a database.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.MedicalRecord
	deleted map[int64]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		rows:    make(map[int64]domain.MedicalRecord),
		deleted: make(map[int64]bool),
	}
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]domain.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.MedicalRecord, 0, len(m.rows))
	for id, rec := range m.rows {
		if !m.deleted[id] && rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) FindByIDAndOwner(_ context.Context, id int64, ownerID string) (*domain.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.rows[id]
	if !ok || m.deleted[id] || rec.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.rows[id]
	return ok && !m.deleted[id], nil
}

func (m *MemoryStore) ExistsByIDAndOwner(_ context.Context, id int64, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.rows[id]
	return ok && !m.deleted[id] && rec.OwnerID == ownerID, nil
}

func (m *MemoryStore) Insert(_ context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	rec.ID = m.nextID
	m.nextID++
	rec.CreatedBy = rec.OwnerID
	rec.LastModifiedBy = rec.OwnerID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.rows[rec.ID] = rec
	return &rec, nil
}

func (m *MemoryStore) Update(_ context.Context, rec domain.MedicalRecord) (*domain.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.rows[rec.ID]
	if !ok || m.deleted[rec.ID] || existing.OwnerID != rec.OwnerID {
		return nil, domain.ErrNotFound
	}
	existing.Name = rec.Name
	existing.Age = rec.Age
	existing.Notes = rec.Notes
	existing.LastModifiedBy = rec.OwnerID
	existing.UpdatedAt = time.Now().UTC()
	m.rows[rec.ID] = existing
	return &existing, nil
}

func (m *MemoryStore) SoftDelete(_ context.Context, id int64, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.rows[id]
	if !ok || m.deleted[id] || rec.OwnerID != ownerID {
		return false, nil
	}
	m.deleted[id] = true
	return true, nil
}

// Len reports the number of live (non-deleted) rows, for test assertions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id := range m.rows {
		if !m.deleted[id] {
			n++
		}
	}
	return n
}
