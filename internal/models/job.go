package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Job struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Date           time.Time       `json:"date" gorm:"type:date;not null;index"`
	PartyName      string          `json:"party_name" gorm:"size:255;not null;index"`
	JobSize        string          `json:"job_size" gorm:"size:100"`
	Paper          string          `json:"paper" gorm:"size:100"`
	Quantity       string          `json:"quantity" gorm:"size:100"`
	Total          decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null;default:0"`
	PaymentType    string          `json:"payment_type" gorm:"size:50"`
	JobDetails     string          `json:"job_details" gorm:"type:text"`
	CTP            string          `json:"ctp" gorm:"size:100"`
	PaperBy        string          `json:"paper_by" gorm:"size:100"`
	Narration      string          `json:"narration" gorm:"type:text"`
	LaminationSize string          `json:"lamination_size" gorm:"size:100"`
	EnvelopeSize   string          `json:"envelope_size" gorm:"size:100"`
	CTPNumber      *uint           `json:"ctp_number"`
	Cost           decimal.Decimal `json:"cost" gorm:"type:numeric(12,2);not null;default:0"`
	PaperCost      decimal.Decimal `json:"paper_cost" gorm:"type:numeric(12,2);not null;default:0"`
	LaminationCost decimal.Decimal `json:"lamination_cost" gorm:"type:numeric(12,2);not null;default:0"`
	EnvelopeCost   decimal.Decimal `json:"envelope_cost" gorm:"type:numeric(12,2);not null;default:0"`
	Received       decimal.Decimal `json:"received" gorm:"type:numeric(12,2);not null;default:0"`
	Balance        decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
