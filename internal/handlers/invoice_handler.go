package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/audit"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/httpresp"
	"github.com/pawpoint/vetclinic/internal/middleware"
	"github.com/pawpoint/vetclinic/internal/models"
)

type InvoiceHandler struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewInvoiceHandler(db *gorm.DB, recorder *audit.Recorder) *InvoiceHandler {
	return &InvoiceHandler{db: db, recorder: recorder}
}

type InvoiceRequest struct {
	CustomerID uint    `json:"customer_id" binding:"required"`
	Number     string  `json:"number" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

func (h *InvoiceHandler) List(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	q := h.db.Where("clinic_id = ?", clinicID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}

	var invoices []models.Invoice
	if err := q.Order("created_at DESC").Find(&invoices).Error; err != nil {
		httperr.Internal(c, "failed_to_list_invoices", "Could not list invoices.")
		return
	}

	httpresp.List(c, invoices)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	// Archived customers can still be billed for work already done;
	// only nonexistent ones are rejected.
	var count int64
	h.db.Model(&models.Customer{}).
		Where("id = ? AND clinic_id = ?", req.CustomerID, clinicID).
		Count(&count)
	if count == 0 {
		httperr.NotFound(c, "customer_not_found", "Customer not found.")
		return
	}

	invoice := models.Invoice{
		ClinicID:   clinicID,
		CustomerID: req.CustomerID,
		Number:     req.Number,
		Amount:     req.Amount,
		Status:     models.InvoiceDraft,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionCreate, &invoice, c.Request, nil)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_invoice", "Could not create invoice.")
		return
	}

	httpresp.Created(c, invoice)
}

func (h *InvoiceHandler) Issue(c *gin.Context) {
	invoice, ok := h.load(c)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(c)

	if invoice.Status != models.InvoiceDraft {
		httperr.Conflict(c, "invoice_not_draft", "Only draft invoices can be issued.")
		return
	}

	now := time.Now()
	invoice.Status = models.InvoiceIssued
	invoice.IssuedAt = &now

	if err := h.save(c, actor, invoice); err != nil {
		httperr.Internal(c, "failed_to_issue_invoice", "Could not issue invoice.")
		return
	}

	httpresp.OK(c, invoice)
}

// Void cancels an issued invoice. The row stays forever; voiding is the
// billing equivalent of deletion.
func (h *InvoiceHandler) Void(c *gin.Context) {
	invoice, ok := h.load(c)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(c)

	if invoice.Status != models.InvoiceIssued {
		httperr.Conflict(c, "invoice_not_issued", "Only issued invoices can be voided.")
		return
	}

	now := time.Now()
	invoice.Status = models.InvoiceVoid
	invoice.VoidedAt = &now

	if err := h.save(c, actor, invoice); err != nil {
		httperr.Internal(c, "failed_to_void_invoice", "Could not void invoice.")
		return
	}

	httpresp.OK(c, invoice)
}

func (h *InvoiceHandler) load(c *gin.Context) (*models.Invoice, bool) {
	clinicID := clinicIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_invoice_id", "Invoice id must be numeric.")
		return nil, false
	}

	var invoice models.Invoice
	if err := h.db.Where("id = ? AND clinic_id = ?", id, clinicID).First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "invoice_not_found", "Invoice not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_invoice", "Could not load invoice.")
		return nil, false
	}

	return &invoice, true
}

func (h *InvoiceHandler) save(c *gin.Context, actor *models.User, invoice *models.Invoice) error {
	return h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoice).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionUpdate, invoice, c.Request,
			map[string]any{"status": invoice.Status})
	})
}
