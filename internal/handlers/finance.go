package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/orders"
	"github.com/example/fornetto/internal/utils"
)

// FinanceHandler manages cash drawer sessions.
type FinanceHandler struct {
	db *gorm.DB
}

// NewFinanceHandler constructs FinanceHandler.
func NewFinanceHandler(db *gorm.DB) *FinanceHandler {
	return &FinanceHandler{db: db}
}

// ListCashSessions returns sessions, newest first.
func (h *FinanceHandler) ListCashSessions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.CashSession{}).Count(&total).Error; err != nil {
		return err
	}

	var sessions []models.CashSession
	if err := h.db.Order("opened_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&sessions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sessions,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetCurrentCashSession returns the open session, if any.
func (h *FinanceHandler) GetCurrentCashSession(c *fiber.Ctx) error {
	var session models.CashSession
	if err := h.db.Where("open = ?", true).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "no open cash session")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": session})
}

type openSessionRequest struct {
	OpeningAmount float64 `json:"opening_amount"`
	Notes         string  `json:"notes"`
}

// OpenCashSession opens the drawer. Only one session can be open at a
// time.
func (h *FinanceHandler) OpenCashSession(c *fiber.Ctx) error {
	var req openSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.OpeningAmount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "opening amount cannot be negative")
	}

	var openCount int64
	if err := h.db.Model(&models.CashSession{}).
		Where("open = ?", true).Count(&openCount).Error; err != nil {
		return err
	}
	if openCount > 0 {
		return fiber.NewError(fiber.StatusConflict, "a cash session is already open")
	}

	session := models.CashSession{
		OpenedBy:      operatorName(c),
		OpenedAt:      time.Now(),
		OpeningAmount: req.OpeningAmount,
		Notes:         req.Notes,
		Open:          true,
	}
	if err := h.db.Create(&session).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": session})
}

type closeSessionRequest struct {
	ClosingAmount float64 `json:"closing_amount"`
	Notes         string  `json:"notes"`
}

// CloseCashSession counts the drawer. The expected amount is the opening
// float plus cash taken on money-method orders placed while the session
// was open, skipping cancelled and deleted ones.
func (h *FinanceHandler) CloseCashSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var session models.CashSession
	if err := h.db.First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "cash session not found")
		}
		return err
	}
	if !session.Open {
		return fiber.NewError(fiber.StatusConflict, "cash session already closed")
	}

	var req closeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	now := time.Now()
	expected, err := h.cashTakenBetween(session.OpenedAt, now)
	if err != nil {
		return err
	}

	session.ClosedBy = operatorName(c)
	session.ClosedAt = &now
	session.ClosingAmount = req.ClosingAmount
	session.ExpectedAmount = session.OpeningAmount + expected
	session.Difference = req.ClosingAmount - session.ExpectedAmount
	session.Open = false
	if req.Notes != "" {
		session.Notes = req.Notes
	}

	if err := h.db.Save(&session).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": session})
}

func (h *FinanceHandler) cashTakenBetween(from, to time.Time) (float64, error) {
	var records []models.Order
	if err := h.db.
		Where("deleted = ?", false).
		Where("status <> ?", models.StatusCancelled).
		Where("placed_at >= ? AND placed_at <= ?", from, to).
		Find(&records).Error; err != nil {
		return 0, err
	}

	var total float64
	for _, order := range records {
		if order.Payment.Data().Method != models.PaymentMoney {
			continue
		}
		total += orders.OrderTotal(order)
	}
	return total, nil
}
