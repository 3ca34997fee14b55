package models

const (
	RoleAdmin        = "admin"
	RoleVet          = "vet"
	RoleTech         = "tech"
	RoleReceptionist = "receptionist"
	RoleCustomer     = "customer"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ClinicID uint   `json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"clinic"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'vet'" json:"role"`

	TimestampedModel
}

// Staff reports whether the user is clinic staff. Customer portal
// accounts are not staff and never trigger lifecycle audit records.
func (u *User) Staff() bool {
	switch u.Role {
	case RoleAdmin, RoleVet, RoleTech, RoleReceptionist:
		return true
	}
	return false
}
