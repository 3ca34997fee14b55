package models

import "time"

type Pet struct {
	UUIDModel

	ClinicID   uint     `gorm:"index" json:"clinic_id"`
	CustomerID uint     `gorm:"index" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Species string `gorm:"size:30;not null" json:"species"`
	Breed   string `gorm:"size:60" json:"breed"`
	Sex     string `gorm:"size:10" json:"sex"`

	BirthDate *time.Time `json:"birth_date"`
	WeightKg  float64    `json:"weight_kg"`

	// S3 object key of the converted webp photo, empty when none.
	PhotoKey string `gorm:"size:255" json:"photo_key"`

	BaseModel
}

func (p *Pet) AuditResourceType() string { return "pets.pet" }

func (p *Pet) AuditResourceID() string { return p.ID }

func (p *Pet) AuditResourceRepr() string {
	return p.Name + " (" + p.Species + ")"
}
