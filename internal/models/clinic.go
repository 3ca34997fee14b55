package models

type Clinic struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone string `gorm:"size:50" json:"timezone"`

	// Booking rules
	MinAdvanceMinutes int    `gorm:"default:60" json:"min_advance_minutes"`
	OpensAt           string `gorm:"size:5;default:'08:00'" json:"opens_at"`
	ClosesAt          string `gorm:"size:5;default:'19:00'" json:"closes_at"`

	TimestampedModel
}
