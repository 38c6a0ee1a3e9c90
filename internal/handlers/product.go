package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
)

// ProductHandler manages the product catalog.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns the catalog, optionally filtered by type or
// availability.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	query := h.db.Model(&models.Product{})

	if productType := c.Query("type"); productType != "" {
		query = query.Where("lower(type) = lower(?)", productType)
	}
	if c.Query("available") == "true" {
		query = query.Where("active = ? AND is_available = ?", true, true)
	}

	var products []models.Product
	if err := query.Order("name asc").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

// GetProduct returns one product by ID.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Name         *string   `json:"name"`
	Type         *string   `json:"type"`
	Price        *float64  `json:"price"`
	PriceBroto   *float64  `json:"price_broto"`
	PriceGrande  *float64  `json:"price_grande"`
	Ingredientes *[]string `json:"ingredientes"`
	Active       *bool     `json:"active"`
}

// CreateProduct adds a catalog item and recomputes availability, since a
// new pizza can reference ingredients that are already out.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == nil || *req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	product := models.Product{
		Name:        *req.Name,
		Type:        models.ProductPizza,
		Active:      true,
		IsAvailable: true,
	}
	if req.Type != nil && *req.Type != "" {
		product.Type = *req.Type
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.PriceBroto != nil {
		product.PriceBroto = *req.PriceBroto
	}
	if req.PriceGrande != nil {
		product.PriceGrande = *req.PriceGrande
	}
	if req.Ingredientes != nil {
		product.Ingredientes = pq.StringArray(*req.Ingredientes)
	}
	if req.Active != nil {
		product.Active = *req.Active
		product.IsAvailable = *req.Active
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return recomputeAvailability(tx)
	})
	if err != nil {
		return err
	}

	if err := h.db.First(&product, "id = ?", product.ID).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct edits a catalog item. Changing the ingredient list can
// flip availability, so the recompute runs in the same transaction.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Type != nil {
		product.Type = *req.Type
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.PriceBroto != nil {
		product.PriceBroto = *req.PriceBroto
	}
	if req.PriceGrande != nil {
		product.PriceGrande = *req.PriceGrande
	}
	if req.Ingredientes != nil {
		product.Ingredientes = pq.StringArray(*req.Ingredientes)
	}
	if req.Active != nil {
		product.Active = *req.Active
		product.IsAvailable = *req.Active
		product.AutoPausedByStock = false
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return recomputeAvailability(tx)
	})
	if txErr != nil {
		return txErr
	}

	if err := h.db.First(&product, "id = ?", product.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

type manualStockRequest struct {
	ManualOutOfStock bool `json:"manual_out_of_stock"`
}

// SetManualOutOfStock flips the operator override. The flag always wins
// over ingredient-derived state and is only ever lifted here.
func (h *ProductHandler) SetManualOutOfStock(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}

	var req manualStockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product.ManualOutOfStock = req.ManualOutOfStock
	if !req.ManualOutOfStock && !product.AutoPausedByStock {
		// the recompute only restores products it paused itself, so an
		// explicit override clear reactivates here
		product.Active = true
		product.IsAvailable = true
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return recomputeAvailability(tx)
	})
	if txErr != nil {
		return txErr
	}

	if err := h.db.First(&product, "id = ?", product.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a catalog item.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&product).Error; err != nil {
			return err
		}
		return recomputeAvailability(tx)
	})
	if txErr != nil {
		return txErr
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) findProduct(c *fiber.Ctx) (models.Product, error) {
	var product models.Product

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return product, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return product, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return product, err
	}
	return product, nil
}
