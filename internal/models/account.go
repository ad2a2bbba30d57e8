package models

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleStaff    Role = "Staff"
	RoleCustomer Role = "Customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// Account is the login identity. Soft deletion is tracked with IsDeleted and
// DeletedAt so deleted rows stay visible to exports and the recycle bin.
type Account struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"unique;not null;size:32"`
	Email        string     `json:"email" gorm:"unique;not null"`
	FirstName    string     `json:"first_name" gorm:"size:150"`
	LastName     string     `json:"last_name" gorm:"size:150"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"type:varchar(16);not null;index"`
	IsStaff      bool       `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool       `json:"is_superuser" gorm:"not null;default:false"`
	IsDeleted    bool       `json:"is_deleted" gorm:"not null;default:false;index"`
	DeletedAt    *time.Time `json:"deleted_at"`
	DateJoined   time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at"`

	StaffProfile    *StaffProfile    `json:"staff_profile,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	CustomerProfile *CustomerProfile `json:"customer_profile,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (a *Account) DisplayName() string {
	if a.FirstName != "" {
		return a.FirstName
	}
	return a.Username
}

func (a *Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// RoleLabel is the role shown in reports and recycle bin snapshots.
func (a *Account) RoleLabel() Role {
	if a.IsSuperuser {
		return RoleAdmin
	}
	if a.Role != "" {
		return a.Role
	}
	return RoleCustomer
}

func (a *Account) MarkDeleted(at time.Time) {
	a.IsDeleted = true
	a.DeletedAt = &at
}

func (a *Account) ClearDeleted() {
	a.IsDeleted = false
	a.DeletedAt = nil
}
