package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type auditLogFilter struct {
	Action string `form:"action"`
	Entity string `form:"entity"`
	From   string `form:"from"`
	To     string `form:"to"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (f *auditLogFilter) normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxAuditPageSize {
		f.Limit = defaultAuditPageSize
	}
}

// scope applies the filters; an unparsable date names its field in the error.
func (f auditLogFilter) scope(q *gorm.DB) (*gorm.DB, error) {
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}

	var bad []string
	if f.From != "" {
		if from, err := time.Parse("2006-01-02", f.From); err == nil {
			q = q.Where("created_at >= ?", from)
		} else {
			bad = append(bad, "from")
		}
	}
	if f.To != "" {
		// inclusive of the whole "to" day
		if to, err := time.Parse("2006-01-02", f.To); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		} else {
			bad = append(bad, "to")
		}
	}
	if len(bad) > 0 {
		return nil, httperr.ErrValidation(bad...)
	}
	return q, nil
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	var f auditLogFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		httperr.Validation(c, httperr.ValidationError{Fields: []string{"page", "limit"}})
		return
	}
	f.normalize()

	q, err := f.scope(h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{}))
	if err != nil {
		respondError(c, err, "audit_list_failed")
		return
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Could not count audit logs.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}
