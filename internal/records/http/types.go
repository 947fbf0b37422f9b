package http

import (
	"log/slog"

	"github.com/medicalregister/go-backend/internal/records/domain"
	"github.com/medicalregister/go-backend/internal/records/service"
)

// Handler bundles the dependencies for the records API endpoints.
type Handler struct {
	svc    *service.RecordService
	logger *slog.Logger
}

func New(svc *service.RecordService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// recordRequest is the create/update payload. Age is a pointer so a genuine
// zero binds and a missing field is still caught by required.
type recordRequest struct {
	Name  string `json:"name" binding:"required"`
	Age   *int   `json:"age" binding:"required,gte=0"`
	Notes string `json:"notes" binding:"required"`
}

func (r recordRequest) toDomain(id int64) domain.MedicalRecord {
	return domain.MedicalRecord{
		ID:    id,
		Name:  r.Name,
		Age:   *r.Age,
		Notes: r.Notes,
	}
}
