package services

import (
	"press_admin/internal/models"
)

type ProfileKind int

const (
	ProfileNone ProfileKind = iota
	ProfileStaff
	ProfileCustomer
)

func (k ProfileKind) String() string {
	switch k {
	case ProfileStaff:
		return "staff"
	case ProfileCustomer:
		return "customer"
	default:
		return "none"
	}
}

// ProfileVariant picks the profile table an account belongs in.
func ProfileVariant(account *models.Account) ProfileKind {
	if account.IsSuperuser || account.IsStaff {
		return ProfileStaff
	}
	return ProfileVariantForRole(account.Role)
}

func ProfileVariantForRole(role models.Role) ProfileKind {
	switch role {
	case models.RoleAdmin, models.RoleStaff:
		return ProfileStaff
	default:
		return ProfileCustomer
	}
}

// ProfileRef is a read view over whichever profile an account has.
type ProfileRef struct {
	Kind     ProfileKind
	Staff    *models.StaffProfile
	Customer *models.CustomerProfile
}

// ResolveProfile expects the account's profiles to be loaded.
func ResolveProfile(account *models.Account) ProfileRef {
	switch {
	case account == nil:
		return ProfileRef{}
	case account.StaffProfile != nil && ProfileVariant(account) == ProfileStaff:
		return ProfileRef{Kind: ProfileStaff, Staff: account.StaffProfile}
	case account.CustomerProfile != nil:
		return ProfileRef{Kind: ProfileCustomer, Customer: account.CustomerProfile}
	case account.StaffProfile != nil:
		return ProfileRef{Kind: ProfileStaff, Staff: account.StaffProfile}
	}
	return ProfileRef{}
}

func (p ProfileRef) Exists() bool {
	return p.Kind != ProfileNone
}

func (p ProfileRef) Contact() string {
	var c *string
	switch p.Kind {
	case ProfileStaff:
		c = p.Staff.ContactNumber
	case ProfileCustomer:
		c = p.Customer.ContactNumber
	}
	if c == nil {
		return ""
	}
	return *c
}

func (p ProfileRef) PressName() string {
	switch p.Kind {
	case ProfileStaff:
		return p.Staff.PressName
	case ProfileCustomer:
		return p.Customer.PressName
	}
	return ""
}

// Credential is the stored plaintext copy of the current password.
func (p ProfileRef) Credential() string {
	switch p.Kind {
	case ProfileStaff:
		return p.Staff.PlainCredential
	case ProfileCustomer:
		return p.Customer.PlainCredential
	}
	return ""
}

func (p ProfileRef) Category() string {
	switch p.Kind {
	case ProfileStaff:
		return string(p.Staff.Category)
	case ProfileCustomer:
		return string(p.Customer.Category)
	}
	return ""
}

func (p ProfileRef) CustomerID() string {
	if p.Kind == ProfileCustomer {
		return p.Customer.CustomerID
	}
	return ""
}
