package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apihttp "github.com/medicalregister/go-backend/internal/api/http"
	"github.com/medicalregister/go-backend/internal/records/domain"
)

// writeServiceError maps a service error onto the API error envelope.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		apihttp.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		apihttp.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAccessDenied):
		apihttp.Error(c, http.StatusForbidden, err.Error())
	default:
		apihttp.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}

// writeBindingError turns a binding failure into a 400 whose message joins
// every field violation.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apihttp.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+": "+fieldMessage(fe))
	}
	apihttp.Error(c, http.StatusBadRequest, "Validation failed: "+strings.Join(parts, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "Name is mandatory"
	case "Age":
		if fe.Tag() == "gte" {
			return "Age must be positive"
		}
		return "Age is mandatory"
	case "Notes":
		return "Medical history is mandatory"
	}
	return "invalid value"
}
