package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		httperr.Unauthorized(c, "user_not_in_context", "Not signed in.")
		return
	}

	var user models.AdminUser
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		httperr.Unauthorized(c, "user_not_found", "Account no longer exists.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
