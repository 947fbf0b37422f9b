package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/medicalregister/go-backend/internal/auth"
	"github.com/medicalregister/go-backend/internal/records/domain"
	"github.com/medicalregister/go-backend/internal/records/service"
)

var validate = validator.New()

// Handler renders the server-side record views. It performs no ownership
// checks of its own; that authority belongs to the record service.
type Handler struct {
	svc    *service.RecordService
	logger *slog.Logger
}

func NewHandler(svc *service.RecordService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRecords attaches the record views to the session-guarded group.
func (h *Handler) RegisterRecords(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/new", h.NewForm)
	rg.POST("/save", h.Save)
	rg.GET("/edit/:id", h.EditForm)
	rg.GET("/delete/:id", h.Delete)
}

// Home renders the public landing page with a greeting when logged in.
func (h *Handler) Home(c *gin.Context) {
	ident := auth.CurrentIdentity(c)
	success, errMsg := popFlashes(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":           "Home",
		"IsAuthenticated": !ident.IsZero(),
		"UserName":        auth.CurrentDisplayName(c),
		"SuccessMessage":  success,
		"ErrorMessage":    errMsg,
	})
}

// List shows the caller's records.
func (h *Handler) List(c *gin.Context) {
	ident := auth.CurrentIdentity(c)

	records, err := h.svc.List(c.Request.Context(), ident)
	if err != nil {
		h.logger.Warn("listing records failed", "user", ident.Subject, "error", err)
		flashError(c, err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	success, errMsg := popFlashes(c)
	c.HTML(http.StatusOK, "list-records.html", gin.H{
		"Title":           "My Records",
		"IsAuthenticated": true,
		"UserName":        auth.CurrentDisplayName(c),
		"Records":         records,
		"SuccessMessage":  success,
		"ErrorMessage":    errMsg,
	})
}

// NewForm shows an empty record form.
func (h *Handler) NewForm(c *gin.Context) {
	h.renderForm(c, domain.MedicalRecord{}, "", nil)
}

// recordForm carries the posted form fields. Age is a pointer so zero binds
// while a blank field still fails required.
type recordForm struct {
	ID    int64  `form:"id"`
	Name  string `form:"name" validate:"required"`
	Age   *int   `form:"age" validate:"required,gte=0"`
	Notes string `form:"notes" validate:"required"`
}

// Save handles form submission for both create and update. Validation
// violations re-render the form; service denials flash and redirect, the same
// message the API would return.
func (h *Handler) Save(c *gin.Context) {
	var form recordForm
	bindErr := c.ShouldBind(&form)

	fieldErrors := map[string]string{}
	if bindErr != nil {
		// A non-numeric age is the only field that can fail binding itself.
		fieldErrors["age"] = "Age must be a number"
	} else if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Name":
					fieldErrors["name"] = "Name is mandatory"
				case "Age":
					if fe.Tag() == "gte" {
						fieldErrors["age"] = "Age must be positive"
					} else {
						fieldErrors["age"] = "Age is mandatory"
					}
				case "Notes":
					fieldErrors["notes"] = "Medical history is mandatory"
				}
			}
		}
	}

	if len(fieldErrors) > 0 {
		rec := domain.MedicalRecord{ID: form.ID, Name: form.Name, Notes: form.Notes}
		h.renderForm(c, rec, c.PostForm("age"), fieldErrors)
		return
	}

	ident := auth.CurrentIdentity(c)
	isNew := form.ID == 0

	_, err := h.svc.Save(c.Request.Context(), ident, domain.MedicalRecord{
		ID:    form.ID,
		Name:  form.Name,
		Age:   *form.Age,
		Notes: form.Notes,
	})
	if err != nil {
		h.logger.Warn("saving record failed", "user", ident.Subject, "id", form.ID, "error", err)
		flashError(c, err.Error())
		c.Redirect(http.StatusSeeOther, "/records")
		return
	}

	if isNew {
		flashSuccess(c, "Record successfully created.")
	} else {
		flashSuccess(c, "Record successfully updated.")
	}
	c.Redirect(http.StatusSeeOther, "/records")
}

// EditForm shows the form bound to one of the caller's records.
func (h *Handler) EditForm(c *gin.Context) {
	ident := auth.CurrentIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flashError(c, domain.ErrNotFound.Error())
		c.Redirect(http.StatusSeeOther, "/records")
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), ident, id)
	if err != nil {
		h.logger.Warn("loading record for edit failed", "user", ident.Subject, "id", id, "error", err)
		flashError(c, err.Error())
		c.Redirect(http.StatusSeeOther, "/records")
		return
	}

	h.renderForm(c, *rec, strconv.Itoa(rec.Age), nil)
}

// Delete removes one of the caller's records and returns to the list.
func (h *Handler) Delete(c *gin.Context) {
	ident := auth.CurrentIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flashError(c, domain.ErrNotFound.Error())
		c.Redirect(http.StatusSeeOther, "/records")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), ident, id); err != nil {
		h.logger.Warn("deleting record failed", "user", ident.Subject, "id", id, "error", err)
		flashError(c, err.Error())
	} else {
		flashSuccess(c, "Record successfully deleted.")
	}
	c.Redirect(http.StatusSeeOther, "/records")
}

func (h *Handler) renderForm(c *gin.Context, rec domain.MedicalRecord, ageValue string, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	c.HTML(http.StatusOK, "record-form.html", gin.H{
		"Title":           "Record",
		"IsAuthenticated": true,
		"UserName":        auth.CurrentDisplayName(c),
		"Record":          rec,
		"AgeValue":        ageValue,
		"FieldErrors":     fieldErrors,
		"SuccessMessage":  "",
		"ErrorMessage":    "",
	})
}
