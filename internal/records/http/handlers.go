package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apihttp "github.com/medicalregister/go-backend/internal/api/http"
	"github.com/medicalregister/go-backend/internal/auth"
)

func (h *Handler) list(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context(), auth.CurrentIdentity(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) create(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	saved, err := h.svc.Save(c.Request.Context(), auth.CurrentIdentity(c), req.toDomain(0))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+strconv.FormatInt(saved.ID, 10))
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), auth.CurrentIdentity(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	// The path id is authoritative; any id in the body is ignored.
	saved, err := h.svc.Save(c.Request.Context(), auth.CurrentIdentity(c), req.toDomain(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.CurrentIdentity(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apihttp.Error(c, http.StatusBadRequest, "invalid record id")
		return 0, false
	}
	return id, true
}
