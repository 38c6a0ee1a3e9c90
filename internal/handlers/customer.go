package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/utils"
)

// CustomerHandler manages the customer registry and saved addresses.
type CustomerHandler struct {
	db *gorm.DB
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// ListCustomers returns customers with pagination and optional name or
// phone search.
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Customer{})

	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var customers []models.Customer
	if err := query.Preload("Addresses").
		Order("name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&customers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    customers,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetCustomer returns one customer with addresses.
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.findCustomer(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": customer})
}

type customerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	CPF   *string `json:"cpf"`
	Notes *string `json:"notes"`
}

// CreateCustomer registers a customer.
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == nil || *req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	customer := models.Customer{Name: *req.Name}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.CPF != nil {
		customer.CPF = *req.CPF
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := h.db.Create(&customer).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": customer})
}

// UpdateCustomer edits a customer.
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	customer, err := h.findCustomer(c)
	if err != nil {
		return err
	}

	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.CPF != nil {
		customer.CPF = *req.CPF
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := h.db.Save(&customer).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// DeleteCustomer removes a customer and their saved addresses.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	customer, err := h.findCustomer(c)
	if err != nil {
		return err
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customer.ID).
			Delete(&models.CustomerAddress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if txErr != nil {
		return txErr
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type addressRequest struct {
	Label        string `json:"label"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	CEP          string `json:"cep"`
	Complement   string `json:"complement"`
	IsDefault    bool   `json:"is_default"`
}

// AddAddress saves a delivery address. Marking it default clears the
// flag on the customer's other addresses.
func (h *CustomerHandler) AddAddress(c *fiber.Ctx) error {
	customer, err := h.findCustomer(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Street == "" {
		return fiber.NewError(fiber.StatusBadRequest, "street is required")
	}

	address := models.CustomerAddress{
		CustomerID:   customer.ID,
		Label:        req.Label,
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		CEP:          req.CEP,
		Complement:   req.Complement,
		IsDefault:    req.IsDefault,
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.CustomerAddress{}).
				Where("customer_id = ?", customer.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if txErr != nil {
		return txErr
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": address})
}

// DeleteAddress removes one saved address.
func (h *CustomerHandler) DeleteAddress(c *fiber.Ctx) error {
	customerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	addressID, err := uuid.Parse(c.Params("addressId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid address id")
	}

	result := h.db.Where("id = ? AND customer_id = ?", addressID, customerID).
		Delete(&models.CustomerAddress{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "address not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CustomerHandler) findCustomer(c *fiber.Ctx) (models.Customer, error) {
	var customer models.Customer

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return customer, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Preload("Addresses").First(&customer, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return customer, fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return customer, err
	}
	return customer, nil
}
