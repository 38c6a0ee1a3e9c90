package models

import "time"

// CashSession tracks a cash drawer from opening to closing count.
// ExpectedAmount is derived from money-method orders placed while the
// session was open; Difference = ClosingAmount - ExpectedAmount.
type CashSession struct {
	BaseModel
	OpenedBy       string     `json:"opened_by"`
	ClosedBy       string     `json:"closed_by,omitempty"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	OpeningAmount  float64    `json:"opening_amount"`
	ClosingAmount  float64    `json:"closing_amount"`
	ExpectedAmount float64    `json:"expected_amount"`
	Difference     float64    `json:"difference"`
	Notes          string     `json:"notes"`
	Open           bool       `gorm:"index" json:"open"`
}
