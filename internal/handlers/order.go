package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/middleware"
	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/orders"
	"github.com/example/fornetto/internal/services"
	"github.com/example/fornetto/internal/utils"
	"github.com/example/fornetto/internal/ws"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
	hub      *ws.Hub
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, telegram *services.TelegramService, hub *ws.Hub) *OrderHandler {
	return &OrderHandler{db: db, telegram: telegram, hub: hub}
}

// CreateOrder accepts an order draft in any historical shape, normalizes
// it and persists the canonical record.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order := orders.Normalize(raw)
	if order.ShortID == "" {
		order.ShortID = generateShortID()
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	h.hub.Broadcast("order_created", order)
	if h.telegram != nil {
		go func(o models.Order) {
			if err := h.telegram.NotifyNewOrder(o); err != nil {
				log.Printf("[Orders] Telegram notification failed: %v", err)
			}
		}(order)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// IntakeOrder accepts an order pushed by the website. The draft goes
// through the same normalization as POS orders; the source is forced so
// the poller's dedupe by source and remote ID keeps working.
func (h *OrderHandler) IntakeOrder(c *fiber.Ctx) error {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	raw["source"] = "website"

	if remoteID, _ := raw["id"].(string); remoteID != "" {
		var existing models.Order
		err := h.db.Where("source = ? AND short_id = ?", "website", remoteID).
			First(&existing).Error
		if err == nil {
			return c.JSON(fiber.Map{"success": true, "data": existing})
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
	}

	order := orders.Normalize(raw)
	if remoteID, _ := raw["id"].(string); remoteID != "" {
		order.ShortID = remoteID
	} else if order.ShortID == "" {
		order.ShortID = generateShortID()
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	h.hub.Broadcast("order_created", order)
	if h.telegram != nil {
		go func(o models.Order) {
			if err := h.telegram.NotifyNewOrder(o); err != nil {
				log.Printf("[Orders] Telegram notification failed: %v", err)
			}
		}(order)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns non-deleted orders, newest first, with optional
// status/type/source filters. Soft-deleted orders never appear here.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("deleted = ?", false)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", orders.NormalizeStatus(status))
	}
	if orderType := c.Query("type"); orderType != "" {
		query = query.Where("type = ?", orderType)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var records []models.Order
	if err := query.Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&records).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order by ID.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// UpdateOrder merges an edited draft over the stored order and
// re-normalizes the result. ID, short ID, placement time and history are
// preserved from the stored record.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	merged, err := mergeOrderDraft(order, raw)
	if err != nil {
		return err
	}

	updated := orders.Normalize(merged)
	updated.ID = order.ID
	updated.CreatedAt = order.CreatedAt
	updated.ShortID = order.ShortID
	updated.PlacedAt = order.PlacedAt
	updated.History = order.History
	updated.Deleted = order.Deleted
	updated.DeletedAt = order.DeletedAt
	updated.DeletedBy = order.DeletedBy

	if err := h.db.Save(&updated).Error; err != nil {
		return err
	}

	h.hub.Broadcast("order_updated", updated)
	return c.JSON(fiber.Map{"success": true, "data": updated})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus transitions the order and appends to its history.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	order.Status = orders.NormalizeStatus(req.Status)
	order.History = append(order.History, models.StatusChange{
		Status: order.Status,
		At:     time.Now(),
		By:     operatorName(c),
	})

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	h.hub.Broadcast("status_changed", order)
	return c.JSON(fiber.Map{"success": true, "data": order})
}

type paymentRequest struct {
	Method       string   `json:"method"`
	Status       string   `json:"status"`
	CashGiven    *float64 `json:"cash_given"`
	ChangeAmount *float64 `json:"change_amount"`
}

// UpdatePayment changes how an order is paid.
func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payment := order.Payment.Data()
	if req.Method != "" {
		payment.Method = orders.NormalizePaymentMethod(req.Method)
	}
	if req.Status != "" {
		payment.Status = req.Status
	}
	if req.CashGiven != nil {
		payment.CashGiven = *req.CashGiven
	}
	if req.ChangeAmount != nil {
		payment.ChangeAmount = *req.ChangeAmount
	}
	order.Payment = datatypes.NewJSONType(payment)

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	h.hub.Broadcast("order_updated", order)
	return c.JSON(fiber.Map{"success": true, "data": order})
}

type assignMotoboyRequest struct {
	MotoboyID string `json:"motoboy_id"`
}

// AssignMotoboy links a delivery rider to the order.
func (h *OrderHandler) AssignMotoboy(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	var req assignMotoboyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	motoboyID, err := uuid.Parse(req.MotoboyID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid motoboy id")
	}

	var motoboy models.Motoboy
	if err := h.db.First(&motoboy, "id = ?", motoboyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "motoboy not found")
		}
		return err
	}
	if !motoboy.Active {
		return fiber.NewError(fiber.StatusConflict, "motoboy is inactive")
	}

	deliveryInfo := order.Delivery.Data()
	deliveryInfo.MotoboyID = motoboy.ID.String()
	deliveryInfo.MotoboyName = motoboy.Name
	deliveryInfo.MotoboyStatus = models.MotoboyAssigned
	order.Delivery = datatypes.NewJSONType(deliveryInfo)

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	h.hub.Broadcast("order_updated", order)
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// DeleteOrder soft-deletes: the record stays in storage but leaves every
// listing. Orders are never hard-deleted.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	now := time.Now()
	order.Deleted = true
	order.DeletedAt = &now
	order.DeletedBy = operatorName(c)

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	h.hub.Broadcast("order_updated", order)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) findOrder(c *fiber.Ctx) (models.Order, error) {
	var order models.Order

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return order, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return order, fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return order, err
	}
	return order, nil
}

// mergeOrderDraft overlays edited draft fields over the stored order's
// JSON form, so partial edits keep untouched sections.
func mergeOrderDraft(order models.Order, raw map[string]any) (map[string]any, error) {
	encoded, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	var base map[string]any
	if err := json.Unmarshal(encoded, &base); err != nil {
		return nil, err
	}

	for key, value := range raw {
		base[key] = value
	}
	return base, nil
}

func operatorName(c *fiber.Ctx) string {
	if id, ok := middleware.GetCurrentOperatorID(c); ok {
		return id.String()
	}
	return ""
}

func generateShortID() string {
	return fmt.Sprintf("#%d", time.Now().UnixNano()%1000000000)
}
