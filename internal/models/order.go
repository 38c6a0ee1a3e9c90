package models

import (
	"time"

	"gorm.io/datatypes"
)

// Canonical order statuses. Legacy synonyms ("em_preparo", "finalizado", ...)
// are mapped onto these by the orders package; values outside this set are
// kept as-is, so readers must tolerate unknown statuses.
const (
	StatusOpen           = "open"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDone           = "done"
	StatusCancelled      = "cancelled"
)

// Order types.
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
	OrderTypeCounter  = "counter"
)

// Payment methods.
const (
	PaymentMoney    = "money"
	PaymentPix      = "pix"
	PaymentCredit   = "credit"
	PaymentDebit    = "debit"
	PaymentIfood    = "ifood"
	PaymentToDefine = "to_define"
)

// Motoboy assignment states carried on the delivery sub-object.
const (
	MotoboyWaitingQR = "waiting_qr"
	MotoboyAssigned  = "assigned"
)

// Address is the structured street address used by customer snapshots and
// delivery records.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	CEP          string `json:"cep"`
	Complement   string `json:"complement,omitempty"`
}

// CustomerSnapshot is a denormalized copy of the customer at order time.
// It is intentionally decoupled from the live customer record so historical
// orders stay stable when the customer is later edited.
type CustomerSnapshot struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	CPF     string  `json:"cpf,omitempty"`
	Address Address `json:"address"`
}

// OrderExtra is an add-on attached to a line item.
type OrderExtra struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderItem is one line of an order. LineTotal equals UnitPrice*Quantity
// unless an imported record carried an explicit total.
type OrderItem struct {
	LineID          string       `json:"line_id"`
	ProductID       string       `json:"product_id,omitempty"`
	Name            string       `json:"name"`
	Size            string       `json:"size,omitempty"`
	Quantity        float64      `json:"quantity"`
	UnitPrice       float64      `json:"unit_price"`
	LineTotal       float64      `json:"line_total"`
	IsHalfHalf      bool         `json:"is_half_half"`
	HalfDescription string       `json:"half_description,omitempty"`
	Extras          []OrderExtra `json:"extras"`
	KitchenNotes    string       `json:"kitchen_notes,omitempty"`
}

// DeliveryInfo carries delivery mode, fee and motoboy assignment.
type DeliveryInfo struct {
	Mode          string  `json:"mode"`
	Fee           float64 `json:"fee"`
	Address       Address `json:"address"`
	Neighborhood  string  `json:"neighborhood,omitempty"`
	DistanceKm    float64 `json:"distance_km,omitempty"`
	EtaMinutes    int     `json:"eta_minutes,omitempty"`
	MotoboyID     string  `json:"motoboy_id,omitempty"`
	MotoboyName   string  `json:"motoboy_name,omitempty"`
	MotoboyStatus string  `json:"motoboy_status,omitempty"`
}

// PaymentInfo records how the order is paid. Cash fields only apply to the
// money method.
type PaymentInfo struct {
	Method       string  `json:"method"`
	Status       string  `json:"status"`
	CashGiven    float64 `json:"cash_given,omitempty"`
	ChangeAmount float64 `json:"change_amount,omitempty"`
}

// Totals is the reconciled money summary of an order.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Discount    float64 `json:"discount"`
	FinalTotal  float64 `json:"final_total"`
}

// StatusChange is one entry in the order history.
type StatusChange struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	By     string    `json:"by,omitempty"`
}

// Order is the canonical persisted order record. Drafts arrive in several
// historical shapes and are reconciled by orders.Normalize before reaching
// this struct.
type Order struct {
	BaseModel
	ShortID          string                               `gorm:"index" json:"short_id"`
	Status           string                               `gorm:"index" json:"status"`
	Type             string                               `gorm:"index" json:"type"`
	Source           string                               `json:"source"`
	PlacedAt         time.Time                            `json:"placed_at"`
	CustomerSnapshot datatypes.JSONType[CustomerSnapshot] `json:"customer_snapshot"`
	Items            datatypes.JSONSlice[OrderItem]       `json:"items"`
	Delivery         datatypes.JSONType[DeliveryInfo]     `json:"delivery"`
	Payment          datatypes.JSONType[PaymentInfo]      `json:"payment"`
	Totals           datatypes.JSONType[Totals]           `json:"totals"`
	OrderNotes       string                               `json:"order_notes"`
	KitchenNotes     string                               `json:"kitchen_notes"`
	History          datatypes.JSONSlice[StatusChange]    `json:"history"`
	Deleted          bool                                 `gorm:"index" json:"deleted"`
	DeletedAt        *time.Time                           `json:"deleted_at,omitempty"`
	DeletedBy        string                               `json:"deleted_by,omitempty"`
}
