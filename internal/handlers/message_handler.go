package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type MessageHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMessageHandler(db *gorm.DB, audit *audit.Dispatcher) *MessageHandler {
	return &MessageHandler{db: db, audit: audit}
}

type SubmitMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// POST /api/public/messages
func (h *MessageHandler) Submit(c *gin.Context) {
	var req SubmitMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	if fields := blankFields(map[string]string{"name": req.Name, "message": req.Message}); len(fields) > 0 {
		httperr.Validation(c, httperr.ValidationError{Fields: fields})
		return
	}

	msg := models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: req.Message,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
		httperr.Internal(c, "message_create_failed", "Could not send your message.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "message_received",
		Entity:   "contact_message",
		EntityID: audit.Ptr(msg.ID),
	})

	c.JSON(http.StatusCreated, msg)
}

// GET /api/admin/messages
func (h *MessageHandler) List(c *gin.Context) {
	var msgs []models.ContactMessage
	if err := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Find(&msgs).Error; err != nil {
		httperr.Internal(c, "messages_list_failed", "Could not load messages.")
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// DELETE /api/admin/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		Delete(&models.ContactMessage{})
	if res.Error != nil {
		httperr.Internal(c, "message_delete_failed", "Could not delete message.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "message_not_found", "Message not found.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(middleware.UserID(c)),
		Action:   "message_deleted",
		Entity:   "contact_message",
		EntityID: audit.Ptr(c.Param("id")),
	})

	c.Status(http.StatusNoContent)
}
