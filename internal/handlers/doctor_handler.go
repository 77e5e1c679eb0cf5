package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/infra/storage"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type DoctorHandler struct {
	db     *gorm.DB
	dir    directory.Directory
	images *storage.Images
	audit  *audit.Dispatcher
	log    zerolog.Logger
}

func NewDoctorHandler(
	db *gorm.DB,
	dir directory.Directory,
	images *storage.Images,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *DoctorHandler {
	return &DoctorHandler{
		db:     db,
		dir:    dir,
		images: images,
		audit:  audit,
		log:    log,
	}
}

// --------- Requests ---------

type CreateDoctorRequest struct {
	Name            string   `json:"name" binding:"required"`
	Specialty       string   `json:"specialty" binding:"required"`
	Bio             string   `json:"bio" binding:"required"`
	Image           string   `json:"image"`
	Availability    []string `json:"availability"`
	Rating          float64  `json:"rating" binding:"gte=0,lte=5"`
	Location        string   `json:"location"`
	ConsultationFee float64  `json:"consultation_fee" binding:"gte=0"`
}

type UpdateDoctorRequest struct {
	Name            *string   `json:"name,omitempty"`
	Specialty       *string   `json:"specialty,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Image           *string   `json:"image,omitempty"`
	Availability    *[]string `json:"availability,omitempty"`
	Rating          *float64  `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
	Location        *string   `json:"location,omitempty"`
	ConsultationFee *float64  `json:"consultation_fee,omitempty" binding:"omitempty,gte=0"`
}

// --------- Public ---------

// List never fails the page: a store error yields an empty list.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.dir.ListDoctors(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list doctors failed, serving empty list")
		doctors = []models.Doctor{}
	}

	c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	d, err := h.dir.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "doctor_get_failed")
		return
	}

	c.JSON(http.StatusOK, d)
}

// --------- Admin ---------

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	availability := req.Availability
	if availability == nil {
		availability = []string{}
	}

	d := models.Doctor{
		Name:            strings.TrimSpace(req.Name),
		Specialty:       strings.TrimSpace(req.Specialty),
		Bio:             req.Bio,
		Image:           req.Image,
		Availability:    availability,
		Rating:          req.Rating,
		Location:        req.Location,
		ConsultationFee: req.ConsultationFee,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&d).Error; err != nil {
		httperr.Internal(c, "doctor_create_failed", "Could not create doctor.")
		return
	}

	h.changed(c, "doctor_created", d.ID)
	c.JSON(http.StatusCreated, d)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	var req UpdateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, ok := h.load(c)
	if !ok {
		return
	}

	if req.Name != nil {
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.Specialty != nil {
		d.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Bio != nil {
		d.Bio = *req.Bio
	}
	if req.Image != nil {
		d.Image = *req.Image
	}
	if req.Availability != nil {
		d.Availability = *req.Availability
	}
	if req.Rating != nil {
		d.Rating = *req.Rating
	}
	if req.Location != nil {
		d.Location = *req.Location
	}
	if req.ConsultationFee != nil {
		d.ConsultationFee = *req.ConsultationFee
	}

	if fields := blankFields(map[string]string{"name": d.Name, "specialty": d.Specialty, "bio": d.Bio}); len(fields) > 0 {
		httperr.Validation(c, httperr.ValidationError{Fields: fields})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(d).Error; err != nil {
		httperr.Internal(c, "doctor_update_failed", "Could not update doctor.")
		return
	}

	h.changed(c, "doctor_updated", d.ID)
	c.JSON(http.StatusOK, d)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		Delete(&models.Doctor{})
	if res.Error != nil {
		httperr.Internal(c, "doctor_delete_failed", "Could not delete doctor.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	h.changed(c, "doctor_deleted", c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *DoctorHandler) UploadImage(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}

	url, ok := receiveImage(c, h.images, "doctors", d.ID)
	if !ok {
		return
	}

	d.Image = url
	if err := h.db.WithContext(c.Request.Context()).
		Model(d).
		Update("image", url).Error; err != nil {
		httperr.Internal(c, "doctor_update_failed", "Could not save the image.")
		return
	}

	h.changed(c, "doctor_image_uploaded", d.ID)
	c.JSON(http.StatusOK, d)
}

// --------- Helpers ---------

func (h *DoctorHandler) load(c *gin.Context) (*models.Doctor, bool) {
	var d models.Doctor
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		First(&d).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
			return nil, false
		}
		httperr.Internal(c, "doctor_get_failed", "Could not load doctor.")
		return nil, false
	}
	return &d, true
}

// changed invalidates cached listings and audits the write.
func (h *DoctorHandler) changed(c *gin.Context, action, id string) {
	if inv, ok := h.dir.(directory.Invalidator); ok {
		if err := inv.Invalidate(c.Request.Context()); err != nil {
			h.log.Warn().Err(err).Msg("directory cache invalidation failed")
		}
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(middleware.UserID(c)),
		Action:   action,
		Entity:   "doctor",
		EntityID: audit.Ptr(id),
	})
}
