package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/N1njakeks/echomind/internal/echomind/biz"
	"github.com/N1njakeks/echomind/internal/echomind/metrics"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/internal/pkg/httputils"
	"github.com/N1njakeks/echomind/pkg/utils/errors"
)

// NoteHandler handles the note management endpoints.
type NoteHandler struct {
	service *biz.NoteService
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(service *biz.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Save handles POST /v1/notes.
func (h *NoteHandler) Save(c *gin.Context) {
	var req biz.SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteError(c, errors.ErrNoteTextRequired.WithCause(err))
		return
	}

	note, err := h.service.Save(c.Request.Context(), &req)
	if err != nil {
		httputils.WriteError(c, err)
		return
	}

	httputils.WriteOK(c, note)
}

// List handles GET /v1/notes.
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.service.List(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		httputils.WriteError(c, err)
		return
	}

	httputils.WriteOK(c, gin.H{"items": notes})
}

// Delete handles DELETE /v1/notes/:id.
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("user_id"), c.Param("id")); err != nil {
		httputils.WriteError(c, err)
		return
	}

	httputils.WriteOK(c, gin.H{"deleted": c.Param("id")})
}

type setReadRequest struct {
	UserID string `json:"user_id"`
	IsRead bool   `json:"is_read"`
}

// SetRead handles PATCH /v1/notes/:id/read.
func (h *NoteHandler) SetRead(c *gin.Context) {
	var req setReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteError(c, errors.ErrTenantRequired.WithCause(err))
		return
	}

	if err := h.service.SetRead(c.Request.Context(), req.UserID, c.Param("id"), req.IsRead); err != nil {
		httputils.WriteError(c, err)
		return
	}

	httputils.WriteOK(c, gin.H{"id": c.Param("id"), "is_read": req.IsRead})
}

// Stats handles GET /v1/stats.
func (h *NoteHandler) Stats(c *gin.Context) {
	var notes *model.ChatStats
	if tenantID := c.Query("user_id"); tenantID != "" {
		var err error
		notes, err = h.service.Stats(c.Request.Context(), tenantID)
		if err != nil {
			httputils.WriteError(c, err)
			return
		}
	}

	httputils.WriteOK(c, gin.H{
		"notes":   notes,
		"service": metrics.Get().Snapshot(),
	})
}
