package models

import (
	"fmt"
	"time"
)

const (
	PrescriptionActive    = "active"
	PrescriptionCompleted = "completed"
	PrescriptionCancelled = "cancelled"
)

// Prescription is a medication order for a pet. Prescriptions are never
// soft-deleted: regulatory history requires cancellation instead.
type Prescription struct {
	UUIDModel

	ClinicID uint   `gorm:"index" json:"clinic_id"`
	PetID    string `gorm:"type:uuid;index" json:"pet_id"`
	Pet      Pet    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pet"`

	PrescribedByID uint `json:"prescribed_by_id"`
	PrescribedBy   User `gorm:"foreignKey:PrescribedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"prescribed_by"`

	Medication   string `gorm:"size:200;not null" json:"medication"`
	Dosage       string `gorm:"size:100" json:"dosage"`
	Instructions string `gorm:"size:500" json:"instructions"`
	IsControlled bool   `gorm:"default:false" json:"is_controlled"`

	RefillsAllowed int `gorm:"default:0" json:"refills_allowed"`
	RefillsUsed    int `gorm:"default:0" json:"refills_used"`

	Status    string     `gorm:"size:20;default:'active'" json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`

	TimestampedModel
}

func (p *Prescription) AuditResourceType() string { return "pharmacy.prescription" }

func (p *Prescription) AuditResourceID() string { return p.ID }

func (p *Prescription) AuditResourceRepr() string {
	return fmt.Sprintf("%s %s for pet %s", p.Medication, p.Dosage, p.PetID)
}
