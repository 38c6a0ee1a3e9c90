package models

import (
	"time"

	"gorm.io/datatypes"
)

// Motoboy statuses.
const (
	MotoboyAvailable  = "available"
	MotoboyDelivering = "delivering"
	MotoboyOff        = "off"
)

// MotoboyTip is one recorded tip for a delivery rider.
type MotoboyTip struct {
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Motoboy is a delivery rider. QRToken is handed to the rider so order
// pickups can be confirmed by scanning it.
type Motoboy struct {
	BaseModel
	Name          string                          `json:"name"`
	Phone         string                          `json:"phone"`
	Active        bool                            `json:"active"`
	Status        string                          `json:"status"`
	QRToken       string                          `gorm:"index" json:"qr_token"`
	QRGeneratedAt *time.Time                      `json:"qr_generated_at,omitempty"`
	Tips          datatypes.JSONSlice[MotoboyTip] `json:"tips"`
}
