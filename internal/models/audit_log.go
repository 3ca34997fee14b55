package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionExport = "export"
	ActionLogin  = "login"
	ActionLogout = "logout"
)

type Sensitivity string

const (
	SensitivityNormal   Sensitivity = "normal"
	SensitivityHigh     Sensitivity = "high"
	SensitivityCritical Sensitivity = "critical"
)

// Field limits enforced at write time.
const (
	AuditReprMaxLen      = 200
	AuditUserAgentMaxLen = 500
)

// AuditLog is an append-only compliance record. Rows are written once
// by the audit recorder and never updated or deleted by the
// application; retention is indefinite.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Deleting the actor must not delete their trail.
	ActorID *uint `gorm:"index:idx_audit_actor_created,priority:1" json:"actor_id"`
	Actor   *User `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"actor,omitempty"`

	Action string `gorm:"size:20;not null;index:idx_audit_action_created,priority:1" json:"action"`

	ResourceType string `gorm:"size:100;not null;index:idx_audit_resource,priority:1" json:"resource_type"`
	ResourceID   string `gorm:"size:50;index:idx_audit_resource,priority:2" json:"resource_id"`
	ResourceRepr string `gorm:"size:200" json:"resource_repr"`

	URLPath   string `gorm:"size:500" json:"url_path"`
	Method    string `gorm:"size:10" json:"method"`
	IPAddress string `gorm:"size:45" json:"ip_address"`
	UserAgent string `gorm:"size:500" json:"user_agent"`

	Sensitivity Sensitivity       `gorm:"size:20;default:'normal';index" json:"sensitivity"`
	Extra       datatypes.JSONMap `json:"extra,omitempty"`

	CreatedAt time.Time `gorm:"index;index:idx_audit_actor_created,priority:2;index:idx_audit_action_created,priority:2" json:"created_at"`
}
