package models

import (
	"fmt"
	"time"
)

const (
	InvoiceDraft  = "draft"
	InvoiceIssued = "issued"
	InvoiceVoid   = "void"
)

// Invoice covers billing for clinic work. No payment capture here:
// voiding is a status change, never a delete.
type Invoice struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	CustomerID uint     `gorm:"index" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	Number string  `gorm:"size:30;uniqueIndex;not null" json:"number"`
	Amount float64 `json:"amount"`
	Status string  `gorm:"size:20;default:'draft'" json:"status"`

	IssuedAt *time.Time `json:"issued_at"`
	VoidedAt *time.Time `json:"voided_at"`

	TimestampedModel
}

func (i *Invoice) AuditResourceType() string { return "billing.invoice" }

func (i *Invoice) AuditResourceID() string { return fmt.Sprintf("%d", i.ID) }

func (i *Invoice) AuditResourceRepr() string {
	return fmt.Sprintf("%s %.2f (%s)", i.Number, i.Amount, i.Status)
}
