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

type PurchaseOrderHandler struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewPurchaseOrderHandler(db *gorm.DB, recorder *audit.Recorder) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{db: db, recorder: recorder}
}

type PurchaseOrderRequest struct {
	OrderNumber string  `json:"order_number" binding:"required"`
	Supplier    string  `json:"supplier" binding:"required"`
	TotalAmount float64 `json:"total_amount"`
	Notes       string  `json:"notes"`
}

func (h *PurchaseOrderHandler) List(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	q := h.db.Where("clinic_id = ?", clinicID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.PurchaseOrder
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list purchase orders.")
		return
	}

	httpresp.List(c, orders)
}

func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	var req PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	order := models.PurchaseOrder{
		ClinicID:    clinicID,
		OrderNumber: req.OrderNumber,
		Supplier:    req.Supplier,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
		Status:      models.PurchaseOrderDraft,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionCreate, &order, c.Request, nil)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_order", "Could not create purchase order.")
		return
	}

	httpresp.Created(c, order)
}

func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	order, ok := h.load(c)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(c)

	if order.Status != models.PurchaseOrderDraft {
		httperr.Conflict(c, "order_not_draft", "Only draft orders can be edited.")
		return
	}

	var req PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	order.OrderNumber = req.OrderNumber
	order.Supplier = req.Supplier
	order.TotalAmount = req.TotalAmount
	order.Notes = req.Notes

	if err := h.save(c, actor, order, nil); err != nil {
		httperr.Internal(c, "failed_to_update_order", "Could not update purchase order.")
		return
	}

	httpresp.OK(c, order)
}

// Place moves a draft order to ordered.
func (h *PurchaseOrderHandler) Place(c *gin.Context) {
	order, ok := h.load(c)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(c)

	if order.Status != models.PurchaseOrderDraft {
		httperr.Conflict(c, "order_not_draft", "Only draft orders can be placed.")
		return
	}

	now := time.Now()
	order.Status = models.PurchaseOrderOrdered
	order.OrderedAt = &now

	if err := h.save(c, actor, order, map[string]any{"status": order.Status}); err != nil {
		httperr.Internal(c, "failed_to_place_order", "Could not place purchase order.")
		return
	}

	httpresp.OK(c, order)
}

// Receive moves an ordered order to received.
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	order, ok := h.load(c)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(c)

	if order.Status != models.PurchaseOrderOrdered {
		httperr.Conflict(c, "order_not_ordered", "Only placed orders can be received.")
		return
	}

	now := time.Now()
	order.Status = models.PurchaseOrderReceived
	order.ReceivedAt = &now

	if err := h.save(c, actor, order, map[string]any{"status": order.Status}); err != nil {
		httperr.Internal(c, "failed_to_receive_order", "Could not mark order as received.")
		return
	}

	httpresp.OK(c, order)
}

func (h *PurchaseOrderHandler) load(c *gin.Context) (*models.PurchaseOrder, bool) {
	clinicID := clinicIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_order_id", "Order id must be numeric.")
		return nil, false
	}

	var order models.PurchaseOrder
	if err := h.db.Where("id = ? AND clinic_id = ?", id, clinicID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "order_not_found", "Purchase order not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_order", "Could not load purchase order.")
		return nil, false
	}

	return &order, true
}

func (h *PurchaseOrderHandler) save(c *gin.Context, actor *models.User, order *models.PurchaseOrder, extra map[string]any) error {
	return h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionUpdate, order, c.Request, extra)
	})
}
