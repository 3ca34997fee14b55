package models

import (
	"fmt"
	"time"
)

const (
	PurchaseOrderDraft    = "draft"
	PurchaseOrderOrdered  = "ordered"
	PurchaseOrderReceived = "received"
)

type PurchaseOrder struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	OrderNumber string  `gorm:"size:30;uniqueIndex;not null" json:"order_number"`
	Supplier    string  `gorm:"size:200;not null" json:"supplier"`
	Status      string  `gorm:"size:20;default:'draft'" json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Notes       string  `gorm:"size:500" json:"notes"`

	OrderedAt  *time.Time `json:"ordered_at"`
	ReceivedAt *time.Time `json:"received_at"`

	TimestampedModel
}

func (po *PurchaseOrder) AuditResourceType() string { return "inventory.purchase_order" }

func (po *PurchaseOrder) AuditResourceID() string { return fmt.Sprintf("%d", po.ID) }

func (po *PurchaseOrder) AuditResourceRepr() string {
	return fmt.Sprintf("%s from %s (%s)", po.OrderNumber, po.Supplier, po.Status)
}
