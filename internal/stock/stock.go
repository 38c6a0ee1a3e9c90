// Package stock derives product availability from ingredient stock levels.
//
// Products reference ingredients by display name, not by ID, so the join
// runs over normalized string keys. That fragility is the documented
// contract of the catalog data and is preserved here on purpose.
package stock

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/example/fornetto/internal/models"
)

var keyStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeKey turns an ingredient name into its map key: trimmed,
// lowercased, accents stripped. "Mussarela " and "mussarela" collide, as
// do "Calabresa" and "calabresa" with cedillas and tildes removed, which
// is exactly what the name-keyed join needs.
func NormalizeKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	stripped, _, err := transform.String(keyStripper, value)
	if err != nil {
		return value
	}
	return stripped
}

// Entry is one tracked ingredient with its stock state.
type Entry struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"min_quantity"`
	Unavailable bool    `json:"unavailable"`
}

// IsMissing reports whether the ingredient should block products: either
// manually flagged unavailable, or tracked (min quantity set) and out.
func (e Entry) IsMissing() bool {
	return e.Unavailable || (e.MinQuantity > 0 && e.Quantity <= 0)
}

// Row is a raw stock record. Old exports named the ingredient under three
// different fields, so all aliases are kept and resolved in order.
type Row struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Ingrediente string  `json:"ingrediente"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"min_quantity"`
	Unavailable bool    `json:"unavailable"`
}

func (r Row) normalizedKey() string {
	if k := NormalizeKey(r.Key); k != "" {
		return k
	}
	if k := NormalizeKey(r.Name); k != "" {
		return k
	}
	return NormalizeKey(r.Ingrediente)
}

func (r Row) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Ingrediente != "" {
		return r.Ingrediente
	}
	return r.normalizedKey()
}

// RowFromModel converts a persisted stock record for map building.
func RowFromModel(m models.IngredientStock) Row {
	return Row{
		Key:         m.Key,
		Name:        m.Name,
		Quantity:    m.Quantity,
		MinQuantity: m.MinQuantity,
		Unavailable: m.Unavailable,
	}
}

// BuildIngredientStockMap derives the tracked-ingredient universe and its
// stock state. Every ingredient referenced by a pizza is tracked, seeded
// with zeroes when no stock row exists yet. Stock rows for ingredients no
// pizza references anymore are kept as orphans rather than dropped.
func BuildIngredientStockMap(products []models.Product, rows []Row) map[string]Entry {
	stockMap := make(map[string]Entry)

	for _, product := range products {
		if !strings.EqualFold(product.Type, models.ProductPizza) {
			continue
		}
		for _, rawName := range product.Ingredientes {
			key := NormalizeKey(rawName)
			if key == "" {
				continue
			}
			if _, exists := stockMap[key]; exists {
				continue
			}

			entry := Entry{Key: key, Name: strings.TrimSpace(rawName)}
			if entry.Name == "" {
				entry.Name = key
			}
			if row, ok := findRow(rows, key); ok {
				if row.displayName() != "" {
					entry.Name = row.displayName()
				}
				entry.Quantity = row.Quantity
				entry.MinQuantity = row.MinQuantity
				entry.Unavailable = row.Unavailable
			}
			stockMap[key] = entry
		}
	}

	for _, row := range rows {
		key := row.normalizedKey()
		if key == "" {
			continue
		}
		if _, exists := stockMap[key]; exists {
			continue
		}
		stockMap[key] = Entry{
			Key:         key,
			Name:        row.displayName(),
			Quantity:    row.Quantity,
			MinQuantity: row.MinQuantity,
			Unavailable: row.Unavailable,
		}
	}

	return stockMap
}

// findRow matches on the first-defined alias or on the name, so a row
// whose key diverges from its display name still joins by name.
func findRow(rows []Row, key string) (Row, bool) {
	for _, row := range rows {
		if row.normalizedKey() == key || NormalizeKey(row.Name) == key {
			return row, true
		}
	}
	return Row{}, false
}

// ComputeProductsWithStock re-derives availability for the catalog:
//
//   - a pizza with any missing ingredient is force-paused
//     (auto_paused_by_stock set, active and is_available cleared);
//   - a manual out-of-stock flag pauses regardless of ingredients and is
//     never lifted here;
//   - a previously auto-paused product whose ingredients are all back is
//     restored;
//   - everything else passes through untouched, preserving active state
//     set elsewhere.
//
// The function is a fixed point on its own output; it runs on every stock
// edit and catalog load, so a second application must change nothing.
func ComputeProductsWithStock(products []models.Product, stockMap map[string]Entry) []models.Product {
	missing := make(map[string]bool, len(stockMap))
	for key, entry := range stockMap {
		if entry.IsMissing() {
			missing[key] = true
		}
	}

	out := make([]models.Product, len(products))
	for i, product := range products {
		hasMissing := false
		if strings.EqualFold(product.Type, models.ProductPizza) {
			for _, ing := range product.Ingredientes {
				if missing[NormalizeKey(ing)] {
					hasMissing = true
					break
				}
			}
		}

		switch {
		case hasMissing || product.ManualOutOfStock:
			product.AutoPausedByStock = hasMissing
			product.Active = false
			product.IsAvailable = false
		case product.AutoPausedByStock:
			product.AutoPausedByStock = false
			product.Active = true
			product.IsAvailable = true
		}

		out[i] = product
	}
	return out
}
