package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/orders"
	"github.com/example/fornetto/internal/stock"
)

// DashboardHandler aggregates sales stats for the operator dashboard.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GetStats returns order counts, revenue, average ticket, pizzas sold and
// source/status breakdowns for a period (today, 7d, 30d or all).
// Cancelled and soft-deleted orders are excluded from every figure.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	period := c.Query("period", "today")

	query := h.db.Model(&models.Order{}).Where("deleted = ?", false)
	if since, ok := periodStart(period, time.Now()); ok {
		query = query.Where("placed_at >= ?", since)
	}

	var records []models.Order
	if err := query.Find(&records).Error; err != nil {
		return err
	}

	pizzaNames, err := h.pizzaNameSet()
	if err != nil {
		return err
	}

	var (
		revenue       float64
		deliveryFees  float64
		discountTotal float64
		pizzasSold    float64
		bySource      = map[string]int{}
		byStatus      = map[string]int{}
		customers     = map[string]bool{}
		count         int
	)

	for _, order := range records {
		byStatus[order.Status]++
		if order.Status == models.StatusCancelled {
			continue
		}

		count++
		revenue += orders.OrderTotal(order)
		deliveryFees += order.Totals.Data().DeliveryFee
		discountTotal += order.Totals.Data().Discount

		source := order.Source
		if source == "" {
			source = "pos"
		}
		bySource[source]++

		customer := order.CustomerSnapshot.Data()
		if key := customerKey(customer); key != "" {
			customers[key] = true
		}

		for _, item := range order.Items {
			if pizzaNames[stock.NormalizeKey(item.Name)] || item.IsHalfHalf {
				pizzasSold += item.Quantity
			}
		}
	}

	avgTicket := 0.0
	if count > 0 {
		avgTicket = revenue / float64(count)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"period":           period,
			"orders":           count,
			"revenue":          revenue,
			"delivery_fees":    deliveryFees,
			"discounts":        discountTotal,
			"average_ticket":   avgTicket,
			"pizzas_sold":      pizzasSold,
			"unique_customers": len(customers),
			"by_source":        bySource,
			"by_status":        byStatus,
		},
	})
}

func (h *DashboardHandler) pizzaNameSet() (map[string]bool, error) {
	var products []models.Product
	if err := h.db.Where("lower(type) = ?", strings.ToLower(models.ProductPizza)).
		Find(&products).Error; err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(products))
	for _, product := range products {
		names[stock.NormalizeKey(product.Name)] = true
	}
	return names, nil
}

func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "today":
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case "7d":
		return now.AddDate(0, 0, -7), true
	case "30d":
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

func customerKey(customer models.CustomerSnapshot) string {
	if customer.Phone != "" {
		return customer.Phone
	}
	if customer.Name != "" && customer.Name != orders.PlaceholderCustomer {
		return strings.ToLower(customer.Name)
	}
	return ""
}
