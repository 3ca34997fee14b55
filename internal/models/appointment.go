package models

import (
	"fmt"
	"time"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"clinic"`

	VetID uint `json:"vet_id"`
	Vet   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vet"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	PetID string `gorm:"type:uuid" json:"pet_id"`
	Pet   Pet    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pet"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	TimestampedModel
}

func (a *Appointment) AuditResourceType() string { return "appointments.appointment" }

func (a *Appointment) AuditResourceID() string { return fmt.Sprintf("%d", a.ID) }

func (a *Appointment) AuditResourceRepr() string {
	return fmt.Sprintf("%s at %s", a.Status, a.StartTime.Format("2006-01-02 15:04"))
}
