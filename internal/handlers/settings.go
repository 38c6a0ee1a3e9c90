package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/delivery"
	"github.com/example/fornetto/internal/models"
)

// SettingsHandler manages the singleton settings records and the delivery
// quote endpoint built on top of them.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// GetDeliverySettings returns the delivery fee table, creating defaults
// on first read.
func (h *SettingsHandler) GetDeliverySettings(c *fiber.Ctx) error {
	settings, err := h.loadDeliverySettings()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

type deliverySettingsRequest struct {
	BaseFee              *float64                  `json:"base_fee"`
	FeePerKm             *float64                  `json:"fee_per_km"`
	MinOrderValue        *float64                  `json:"min_order_value"`
	MaxDistanceKm        *float64                  `json:"max_distance_km"`
	NeighborhoodFees     *[]models.NeighborhoodFee `json:"neighborhood_fees"`
	BlockedNeighborhoods *[]string                 `json:"blocked_neighborhoods"`
	PeakFee              *models.PeakFee           `json:"peak_fee"`
}

// UpdateDeliverySettings edits the delivery fee table.
func (h *SettingsHandler) UpdateDeliverySettings(c *fiber.Ctx) error {
	settings, err := h.loadDeliverySettings()
	if err != nil {
		return err
	}

	var req deliverySettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.BaseFee != nil {
		settings.BaseFee = *req.BaseFee
	}
	if req.FeePerKm != nil {
		settings.FeePerKm = *req.FeePerKm
	}
	if req.MinOrderValue != nil {
		settings.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxDistanceKm != nil {
		settings.MaxDistanceKm = *req.MaxDistanceKm
	}
	if req.NeighborhoodFees != nil {
		settings.NeighborhoodFees = datatypes.NewJSONSlice(*req.NeighborhoodFees)
	}
	if req.BlockedNeighborhoods != nil {
		settings.BlockedNeighborhoods = *req.BlockedNeighborhoods
	}
	if req.PeakFee != nil {
		settings.PeakFee = datatypes.NewJSONType(*req.PeakFee)
	}

	if err := h.db.Save(&settings).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// QuoteDelivery computes the delivery fee for a prospective order from
// subtotal, distance_km and neighborhood query params. Refusals come back
// as 422 with the reason, so the front can show it instead of a generic
// failure.
func (h *SettingsHandler) QuoteDelivery(c *fiber.Ctx) error {
	settings, err := h.loadDeliverySettings()
	if err != nil {
		return err
	}

	subtotal, err := strconv.ParseFloat(c.Query("subtotal", "0"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid subtotal")
	}
	distanceKm, err := strconv.ParseFloat(c.Query("distance_km", "0"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid distance_km")
	}

	quote, err := delivery.Compute(settings, delivery.Request{
		Subtotal:     subtotal,
		DistanceKm:   distanceKm,
		Neighborhood: c.Query("neighborhood"),
	}, time.Now())
	if err != nil {
		if errors.Is(err, delivery.ErrBlockedNeighborhood) ||
			errors.Is(err, delivery.ErrBelowMinimum) ||
			errors.Is(err, delivery.ErrTooFar) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": quote})
}

// GetPrintSettings returns receipt printing preferences.
func (h *SettingsHandler) GetPrintSettings(c *fiber.Ctx) error {
	var settings models.PrintSettings
	if err := h.db.First(&settings).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		settings = models.PrintSettings{Copies: 1, PaperWidth: 80}
		if err := h.db.Create(&settings).Error; err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

type printSettingsRequest struct {
	PrinterName *string `json:"printer_name"`
	Copies      *int    `json:"copies"`
	AutoPrint   *bool   `json:"auto_print"`
	PaperWidth  *int    `json:"paper_width"`
}

// UpdatePrintSettings edits receipt printing preferences.
func (h *SettingsHandler) UpdatePrintSettings(c *fiber.Ctx) error {
	var settings models.PrintSettings
	if err := h.db.First(&settings).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		settings = models.PrintSettings{Copies: 1, PaperWidth: 80}
	}

	var req printSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PrinterName != nil {
		settings.PrinterName = *req.PrinterName
	}
	if req.Copies != nil && *req.Copies > 0 {
		settings.Copies = *req.Copies
	}
	if req.AutoPrint != nil {
		settings.AutoPrint = *req.AutoPrint
	}
	if req.PaperWidth != nil && *req.PaperWidth > 0 {
		settings.PaperWidth = *req.PaperWidth
	}

	if err := h.db.Save(&settings).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// GetWebIntegrationSettings returns the website import config. The API
// token is write-only and never serialized back.
func (h *SettingsHandler) GetWebIntegrationSettings(c *fiber.Ctx) error {
	var settings models.WebIntegrationSettings
	if err := h.db.First(&settings).Error; err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

type webIntegrationRequest struct {
	Enabled     *bool   `json:"enabled"`
	BaseURL     *string `json:"base_url"`
	APIToken    *string `json:"api_token"`
	PollSeconds *int    `json:"poll_seconds"`
}

// UpdateWebIntegrationSettings edits the website import config. The
// poller re-reads it on every cycle, so changes apply without restart.
func (h *SettingsHandler) UpdateWebIntegrationSettings(c *fiber.Ctx) error {
	var settings models.WebIntegrationSettings
	if err := h.db.First(&settings).Error; err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	var req webIntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.BaseURL != nil {
		settings.BaseURL = *req.BaseURL
	}
	if req.APIToken != nil && *req.APIToken != "" {
		settings.APIToken = *req.APIToken
	}
	if req.PollSeconds != nil && *req.PollSeconds > 0 {
		settings.PollSeconds = *req.PollSeconds
	}

	if err := h.db.Save(&settings).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

func (h *SettingsHandler) loadDeliverySettings() (models.DeliverySettings, error) {
	var settings models.DeliverySettings
	err := h.db.First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return settings, err
	}

	settings = models.DeliverySettings{BaseFee: 5, FeePerKm: 1.5}
	if err := h.db.Create(&settings).Error; err != nil {
		return settings, err
	}
	return settings, nil
}
