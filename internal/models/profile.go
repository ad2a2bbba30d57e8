package models

import "time"

type StaffCategory string

const (
	StaffManager    StaffCategory = "Manager"
	StaffAccountant StaffCategory = "Accountant"
	StaffOperator   StaffCategory = "Operator"
	StaffHelper     StaffCategory = "Helper"
)

type CustomerCategory string

const (
	CustomerCredit      CustomerCategory = "Credit"
	CustomerShortCredit CustomerCategory = "Short Credit"
	CustomerTemporary   CustomerCategory = "Temporary"
	CustomerReceived    CustomerCategory = "Received"
)

func (c StaffCategory) Valid() bool {
	switch c {
	case "", StaffManager, StaffAccountant, StaffOperator, StaffHelper:
		return true
	}
	return false
}

func (c CustomerCategory) Valid() bool {
	switch c {
	case "", CustomerCredit, CustomerShortCredit, CustomerTemporary, CustomerReceived:
		return true
	}
	return false
}

// StaffProfile belongs to Admin and Staff accounts.
type StaffProfile struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	AccountID       uint          `json:"account_id" gorm:"uniqueIndex;not null"`
	ContactNumber   *string       `json:"contact_number" gorm:"uniqueIndex;size:20"`
	PressName       string        `json:"press_name" gorm:"size:255"`
	PlainCredential string        `json:"-" gorm:"size:128"`
	Category        StaffCategory `json:"category" gorm:"type:varchar(20)"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CustomerProfile belongs to Customer accounts. CustomerID is allocated once
// and never handed out again.
type CustomerProfile struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	AccountID       uint             `json:"account_id" gorm:"uniqueIndex;not null"`
	CustomerID      string           `json:"customer_id" gorm:"uniqueIndex;size:16;not null"`
	ContactNumber   *string          `json:"contact_number" gorm:"uniqueIndex;size:20"`
	PressName       string           `json:"press_name" gorm:"size:255"`
	PlainCredential string           `json:"-" gorm:"size:128"`
	Category        CustomerCategory `json:"category" gorm:"type:varchar(20)"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
