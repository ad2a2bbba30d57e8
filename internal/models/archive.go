package models

import "time"

// ArchivedAccount is the recycle bin entry written when an account is soft
// deleted. OriginalID is not a foreign key and may point at a purged row.
type ArchivedAccount struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OriginalID    uint      `json:"original_id" gorm:"index;not null"`
	Username      string    `json:"username" gorm:"size:32;not null"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name" gorm:"size:150"`
	LastName      string    `json:"last_name" gorm:"size:150"`
	ContactNumber string    `json:"contact_number" gorm:"size:20"`
	Role          Role      `json:"role" gorm:"type:varchar(16)"`
	DateJoined    time.Time `json:"date_joined"`
	DeletedAt     time.Time `json:"deleted_at" gorm:"not null;index"`
	Reason        string    `json:"reason" gorm:"type:text"`
	Token         string    `json:"token" gorm:"uniqueIndex;size:36;not null"`
}

// IdentifierCounter records the highest number ever issued for a sequence.
type IdentifierCounter struct {
	Sequence  string `gorm:"primaryKey;size:32"`
	Value     int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
