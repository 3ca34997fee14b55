package models

import "fmt"

// Customer is a pet owner managed by the clinic's CRM. No login,
// scoped to the clinic. Soft-deletable: archiving a customer must not
// destroy billing or medical history.
type Customer struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`
	Notes string `gorm:"size:500" json:"notes"`

	BaseModel
}

func (c *Customer) AuditResourceType() string { return "crm.customer" }

func (c *Customer) AuditResourceID() string { return fmt.Sprintf("%d", c.ID) }

func (c *Customer) AuditResourceRepr() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Phone)
}
