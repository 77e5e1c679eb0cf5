package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/models"
)

// ======================================================
// DEFAULT COPY
// ======================================================

func defaultContent(key string) (any, bool) {
	switch key {
	case models.ContentHome:
		return models.HomeContent{
			Title:       "Excellence in Healthcare",
			Subtitle:    "Welcome to CareLink Health",
			Description: "Your trusted partner in comprehensive healthcare solutions",
			Features: []models.Feature{
				{Icon: "shield", Title: "Trusted Care", Description: "Board-certified physicians and state-of-the-art facilities"},
				{Icon: "clock", Title: "24/7 Support", Description: "Round-the-clock emergency services and patient support"},
				{Icon: "users", Title: "Expert Team", Description: "Multidisciplinary team of healthcare professionals"},
				{Icon: "award", Title: "Quality Assured", Description: "Accredited facility with highest quality standards"},
			},
		}, true
	case models.ContentContact:
		return models.ContactContent{
			Phone:   "+1 (555) 123-4567",
			Email:   "info@carelink.health",
			Address: "123 Healthcare Avenue, Medical City, MC 12345",
			Hours:   "Monday - Friday: 8:00 AM - 6:00 PM\nSaturday: 9:00 AM - 4:00 PM\nSunday: Emergency Only",
		}, true
	case models.ContentHealthRecords:
		return models.HealthRecordsContent{
			UploadInstructions: "To access your health records, please contact our medical records department or visit our facility with proper identification.",
			PolicyContent:      "We maintain strict privacy and security standards for all health records in compliance with HIPAA regulations.",
		}, true
	}
	return nil, false
}

// decodeContent parses body into the typed document for key.
func decodeContent(key string, body []byte) (any, error) {
	switch key {
	case models.ContentHome:
		var v models.HomeContent
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, err
		}
		if v.Features == nil {
			v.Features = []models.Feature{}
		}
		return v, nil
	case models.ContentContact:
		var v models.ContactContent
		err := json.Unmarshal(body, &v)
		return v, err
	case models.ContentHealthRecords:
		var v models.HealthRecordsContent
		err := json.Unmarshal(body, &v)
		return v, err
	}
	return nil, errors.New("unknown content key")
}

// ======================================================
// HANDLER
// ======================================================

type ContentHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewContentHandler(db *gorm.DB, audit *audit.Dispatcher) *ContentHandler {
	return &ContentHandler{db: db, audit: audit}
}

// GET /api/public/content/:key
func (h *ContentHandler) Get(c *gin.Context) {
	key := c.Param("key")

	def, known := defaultContent(key)
	if !known {
		httperr.NotFound(c, "content_not_found", "Unknown content key.")
		return
	}

	var doc models.ContentDocument
	err := h.db.WithContext(c.Request.Context()).
		Where("key = ?", key).
		First(&doc).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusOK, def)
		return
	case err != nil:
		httperr.Internal(c, "content_get_failed", "Could not load content.")
		return
	}

	v, err := decodeContent(key, []byte(doc.Body))
	if err != nil {
		// stored copy is unreadable; serve defaults
		c.JSON(http.StatusOK, def)
		return
	}

	c.JSON(http.StatusOK, v)
}

// PUT /api/admin/content/:key
func (h *ContentHandler) Put(c *gin.Context) {
	key := c.Param("key")

	if _, known := defaultContent(key); !known {
		httperr.NotFound(c, "content_not_found", "Unknown content key.")
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read request body.")
		return
	}

	v, err := decodeContent(key, raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Request body is not valid JSON.")
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		httperr.Internal(c, "content_save_failed", "Could not save content.")
		return
	}

	doc := models.ContentDocument{Key: key, Body: string(body)}
	if err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&doc).Error; err != nil {
		httperr.Internal(c, "content_save_failed", "Could not save content.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(middleware.UserID(c)),
		Action:   "content_updated",
		Entity:   "content",
		EntityID: audit.Ptr(key),
	})

	c.JSON(http.StatusOK, v)
}
