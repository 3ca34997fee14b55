package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimestampedModel adds created/updated timestamps maintained by GORM:
// CreatedAt is set exactly once, UpdatedAt on every successful write.
type TimestampedModel struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SoftDeleteModel adds a logical deletion marker. A nil DeletedAt means
// the row is live. The field is only ever mutated through the
// repository's SoftDelete/Restore operations, never by handlers.
//
// Deliberately not gorm.DeletedAt: visibility filtering must be an
// explicit choice at every call site (FindActive / FindAll /
// FindDeletedOnly), not an implicit global query rewrite.
type SoftDeleteModel struct {
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (m *SoftDeleteModel) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Deleted returns the deletion timestamp, nil when live.
func (m *SoftDeleteModel) Deleted() *time.Time {
	return m.DeletedAt
}

func (m *SoftDeleteModel) SetDeleted(t *time.Time) {
	m.DeletedAt = t
}

// BaseModel is the standard base for soft-deletable domain rows.
type BaseModel struct {
	TimestampedModel
	SoftDeleteModel
}

// UUIDModel gives an entity a random 128-bit identifier instead of an
// integer sequence. Used for clinical records (pets, prescriptions).
type UUIDModel struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
}

func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
