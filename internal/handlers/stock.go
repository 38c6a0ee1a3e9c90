package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/stock"
)

// StockHandler manages ingredient stock records and the availability
// recomputation they trigger.
type StockHandler struct {
	db *gorm.DB
}

// NewStockHandler constructs StockHandler.
func NewStockHandler(db *gorm.DB) *StockHandler {
	return &StockHandler{db: db}
}

// GetStockMap returns the tracked-ingredient universe: every ingredient
// referenced by a pizza plus orphan stock rows, with current levels.
func (h *StockHandler) GetStockMap(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Find(&products).Error; err != nil {
		return err
	}

	var records []models.IngredientStock
	if err := h.db.Find(&records).Error; err != nil {
		return err
	}

	rows := make([]stock.Row, len(records))
	for i, record := range records {
		rows[i] = stock.RowFromModel(record)
	}

	return c.JSON(fiber.Map{"success": true, "data": stock.BuildIngredientStockMap(products, rows)})
}

// ListStock returns the raw persisted stock rows.
func (h *StockHandler) ListStock(c *fiber.Ctx) error {
	var records []models.IngredientStock
	if err := h.db.Order("key asc").Find(&records).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": records})
}

type stockUpsertRequest struct {
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity"`
	MinQuantity *float64 `json:"min_quantity"`
	Unavailable *bool    `json:"unavailable"`
}

// UpsertStock creates or updates one ingredient's stock row, keyed by the
// normalized ingredient name, then recomputes catalog availability in the
// same transaction.
func (h *StockHandler) UpsertStock(c *fiber.Ctx) error {
	key := stock.NormalizeKey(c.Params("key"))
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ingredient key")
	}

	var req stockUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var record models.IngredientStock
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", key).First(&record).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			record = models.IngredientStock{Key: key, Name: strings.TrimSpace(c.Params("key"))}
		}

		if req.Name != "" {
			record.Name = req.Name
		}
		if req.Quantity != nil {
			record.Quantity = *req.Quantity
		}
		if req.MinQuantity != nil {
			record.MinQuantity = *req.MinQuantity
		}
		if req.Unavailable != nil {
			record.Unavailable = *req.Unavailable
		}

		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		return recomputeAvailability(tx)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": record})
}

// ImportStock bulk-loads stock rows from legacy exports. Rows may name
// the ingredient under key, name or ingrediente; rows resolving to the
// same key collapse, last write wins.
func (h *StockHandler) ImportStock(c *fiber.Ctx) error {
	var rows []stock.Row
	if err := c.BodyParser(&rows); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	imported := 0
	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			record, ok := stockRecordFromRow(row)
			if !ok {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "quantity", "min_quantity", "unavailable", "updated_at",
				}),
			}).Create(&record).Error; err != nil {
				return err
			}
			imported++
		}
		return recomputeAvailability(tx)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"imported": imported}})
}

// DeleteStock removes one stock row and recomputes availability. If a
// pizza still references the ingredient it reappears in the map with zero
// levels.
func (h *StockHandler) DeleteStock(c *fiber.Ctx) error {
	key := stock.NormalizeKey(c.Params("key"))
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ingredient key")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", key).Delete(&models.IngredientStock{}).Error; err != nil {
			return err
		}
		return recomputeAvailability(tx)
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func stockRecordFromRow(row stock.Row) (models.IngredientStock, bool) {
	key := stock.NormalizeKey(row.Key)
	name := row.Name
	if key == "" {
		key = stock.NormalizeKey(row.Name)
	}
	if key == "" {
		key = stock.NormalizeKey(row.Ingrediente)
	}
	if key == "" {
		return models.IngredientStock{}, false
	}
	if name == "" {
		name = row.Ingrediente
	}
	if name == "" {
		name = key
	}
	return models.IngredientStock{
		Key:         key,
		Name:        name,
		Quantity:    row.Quantity,
		MinQuantity: row.MinQuantity,
		Unavailable: row.Unavailable,
	}, true
}

// recomputeAvailability re-derives pause state for the whole catalog
// inside the caller's transaction, writing back only changed products.
func recomputeAvailability(tx *gorm.DB) error {
	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return err
	}

	var records []models.IngredientStock
	if err := tx.Find(&records).Error; err != nil {
		return err
	}

	rows := make([]stock.Row, len(records))
	for i, record := range records {
		rows[i] = stock.RowFromModel(record)
	}

	stockMap := stock.BuildIngredientStockMap(products, rows)
	updated := stock.ComputeProductsWithStock(products, stockMap)

	changed := 0
	for i := range updated {
		before := products[i]
		after := updated[i]
		if before.Active == after.Active &&
			before.IsAvailable == after.IsAvailable &&
			before.AutoPausedByStock == after.AutoPausedByStock {
			continue
		}
		if err := tx.Model(&models.Product{}).
			Where("id = ?", after.ID).
			Updates(map[string]any{
				"active":               after.Active,
				"is_available":         after.IsAvailable,
				"auto_paused_by_stock": after.AutoPausedByStock,
			}).Error; err != nil {
			return err
		}
		changed++
	}
	if changed > 0 {
		log.Printf("[Stock] availability recomputed, %d product(s) changed", changed)
	}
	return nil
}
