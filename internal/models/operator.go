package models

// Operator roles.
const (
	RoleAdmin     = "admin"
	RoleAttendant = "attendant"
)

// Operator is a staff account that signs in to the POS.
type Operator struct {
	BaseModel
	Name         string `json:"name"`
	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}
