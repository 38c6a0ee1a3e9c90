package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
)

// MotoboyHandler manages delivery riders.
type MotoboyHandler struct {
	db *gorm.DB
}

// NewMotoboyHandler constructs MotoboyHandler.
func NewMotoboyHandler(db *gorm.DB) *MotoboyHandler {
	return &MotoboyHandler{db: db}
}

// ListMotoboys returns riders, optionally only active ones.
func (h *MotoboyHandler) ListMotoboys(c *fiber.Ctx) error {
	query := h.db.Model(&models.Motoboy{})
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var motoboys []models.Motoboy
	if err := query.Order("name asc").Find(&motoboys).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": motoboys})
}

// GetMotoboy returns one rider.
func (h *MotoboyHandler) GetMotoboy(c *fiber.Ctx) error {
	motoboy, err := h.findMotoboy(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": motoboy})
}

type motoboyRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Active *bool   `json:"active"`
	Status *string `json:"status"`
}

// CreateMotoboy registers a rider with a fresh QR token.
func (h *MotoboyHandler) CreateMotoboy(c *fiber.Ctx) error {
	var req motoboyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == nil || *req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	now := time.Now()
	motoboy := models.Motoboy{
		Name:          *req.Name,
		Active:        true,
		Status:        models.MotoboyAvailable,
		QRToken:       newQRToken(),
		QRGeneratedAt: &now,
	}
	if req.Phone != nil {
		motoboy.Phone = *req.Phone
	}

	if err := h.db.Create(&motoboy).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": motoboy})
}

// UpdateMotoboy edits a rider.
func (h *MotoboyHandler) UpdateMotoboy(c *fiber.Ctx) error {
	motoboy, err := h.findMotoboy(c)
	if err != nil {
		return err
	}

	var req motoboyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil {
		motoboy.Name = *req.Name
	}
	if req.Phone != nil {
		motoboy.Phone = *req.Phone
	}
	if req.Active != nil {
		motoboy.Active = *req.Active
		if !motoboy.Active {
			motoboy.Status = models.MotoboyOff
		}
	}
	if req.Status != nil {
		switch *req.Status {
		case models.MotoboyAvailable, models.MotoboyDelivering, models.MotoboyOff:
			motoboy.Status = *req.Status
		default:
			return fiber.NewError(fiber.StatusBadRequest, "unknown status")
		}
	}

	if err := h.db.Save(&motoboy).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": motoboy})
}

// RegenerateQR issues a new QR token, invalidating the previous one.
func (h *MotoboyHandler) RegenerateQR(c *fiber.Ctx) error {
	motoboy, err := h.findMotoboy(c)
	if err != nil {
		return err
	}

	now := time.Now()
	motoboy.QRToken = newQRToken()
	motoboy.QRGeneratedAt = &now

	if err := h.db.Save(&motoboy).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": motoboy})
}

type tipRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// AddTip records a tip for the rider.
func (h *MotoboyHandler) AddTip(c *fiber.Ctx) error {
	motoboy, err := h.findMotoboy(c)
	if err != nil {
		return err
	}

	var req tipRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}

	motoboy.Tips = append(motoboy.Tips, models.MotoboyTip{
		Amount: req.Amount,
		Note:   req.Note,
		At:     time.Now(),
	})

	if err := h.db.Save(&motoboy).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": motoboy})
}

// DeleteMotoboy removes a rider.
func (h *MotoboyHandler) DeleteMotoboy(c *fiber.Ctx) error {
	motoboy, err := h.findMotoboy(c)
	if err != nil {
		return err
	}
	if err := h.db.Delete(&motoboy).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MotoboyHandler) findMotoboy(c *fiber.Ctx) (models.Motoboy, error) {
	var motoboy models.Motoboy

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return motoboy, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(&motoboy, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return motoboy, fiber.NewError(fiber.StatusNotFound, "motoboy not found")
		}
		return motoboy, err
	}
	return motoboy, nil
}

func newQRToken() string {
	return fmt.Sprintf("motoboy-qr-%s", uuid.NewString())
}
