package models

// Service is a bookable clinic service (exam, vaccination, dental...).
type Service struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	// No column default: a default would make GORM drop an explicit
	// false on insert. The create handler decides the default instead.
	Active bool `json:"active"`

	Category string `gorm:"size:50" json:"category"`

	TimestampedModel
}
