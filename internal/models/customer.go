package models

import "github.com/google/uuid"

// Customer is a registered client of the pizzeria.
type Customer struct {
	BaseModel
	Name      string            `json:"name"`
	Phone     string            `gorm:"index" json:"phone"`
	CPF       string            `json:"cpf"`
	Notes     string            `json:"notes"`
	Addresses []CustomerAddress `json:"addresses,omitempty"`
}

// CustomerAddress is one of possibly several saved delivery addresses.
type CustomerAddress struct {
	BaseModel
	CustomerID   uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Label        string    `json:"label"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	CEP          string    `json:"cep"`
	Complement   string    `json:"complement"`
	IsDefault    bool      `json:"is_default"`
}
