package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/infra/storage"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type ServiceHandler struct {
	db     *gorm.DB
	images *storage.Images
	audit  *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, images *storage.Images, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, images: images, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Image       string `json:"image"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" && category != "all" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.MedicalService
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "services_list_failed", "Could not load services.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s := models.MedicalService{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Image:       req.Image,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&s).Error; err != nil {
		httperr.Internal(c, "service_create_failed", "Could not create service.")
		return
	}

	h.changed(c, "service_created", s.ID)
	c.JSON(http.StatusCreated, s)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, ok := h.load(c)
	if !ok {
		return
	}

	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Category != nil {
		s.Category = strings.TrimSpace(*req.Category)
	}
	if req.Image != nil {
		s.Image = *req.Image
	}

	if fields := blankFields(map[string]string{"name": s.Name, "description": s.Description, "category": s.Category}); len(fields) > 0 {
		httperr.Validation(c, httperr.ValidationError{Fields: fields})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(s).Error; err != nil {
		httperr.Internal(c, "service_update_failed", "Could not update service.")
		return
	}

	h.changed(c, "service_updated", s.ID)
	c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		Delete(&models.MedicalService{})
	if res.Error != nil {
		httperr.Internal(c, "service_delete_failed", "Could not delete service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	h.changed(c, "service_deleted", c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) UploadImage(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}

	url, ok := receiveImage(c, h.images, "services", s.ID)
	if !ok {
		return
	}

	s.Image = url
	if err := h.db.WithContext(c.Request.Context()).
		Model(s).
		Update("image", url).Error; err != nil {
		httperr.Internal(c, "service_update_failed", "Could not save the image.")
		return
	}

	h.changed(c, "service_image_uploaded", s.ID)
	c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.MedicalService, bool) {
	var s models.MedicalService
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		First(&s).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return nil, false
		}
		httperr.Internal(c, "service_get_failed", "Could not load service.")
		return nil, false
	}
	return &s, true
}

func (h *ServiceHandler) changed(c *gin.Context, action, id string) {
	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(middleware.UserID(c)),
		Action:   action,
		Entity:   "medical_service",
		EntityID: audit.Ptr(id),
	})
}
