package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/usecase/billing"
)

type BillingHandler struct {
	billing *billing.Service
}

func NewBillingHandler(svc *billing.Service) *BillingHandler {
	return &BillingHandler{billing: svc}
}

// GET /api/admin/billing
func (h *BillingHandler) List(c *gin.Context) {
	report, err := h.billing.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "billing_list_failed")
		return
	}

	c.JSON(http.StatusOK, report)
}

// POST /api/admin/billing/:id/refund
func (h *BillingHandler) Refund(c *gin.Context) {
	rec, err := h.billing.Refund(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err, "refund_failed")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GET /api/admin/billing/:id/invoice
func (h *BillingHandler) Invoice(c *gin.Context) {
	pdf, err := h.billing.Invoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "invoice_failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
