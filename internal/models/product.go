package models

import "github.com/lib/pq"

// Product types.
const (
	ProductPizza = "pizza"
	ProductDrink = "drink"
	ProductExtra = "extra"
)

// Product is a catalog entry. Pizzas price by size (broto/grande) and list
// their ingredients by display name; the stock package joins those names
// against IngredientStock rows by normalized key, there is no foreign key.
//
// AutoPausedByStock is derived, never operator-set: when true, Active is
// false and the pause is lifted automatically once stock returns.
// ManualOutOfStock is the operator override; it always wins over automatic
// restoration and only the operator clears it.
type Product struct {
	BaseModel
	Name              string         `json:"name"`
	Type              string         `gorm:"index" json:"type"`
	Price             float64        `json:"price"`
	PriceBroto        float64        `json:"price_broto"`
	PriceGrande       float64        `json:"price_grande"`
	Ingredientes      pq.StringArray `gorm:"type:text[]" json:"ingredientes"`
	Active            bool           `json:"active"`
	IsAvailable       bool           `json:"is_available"`
	ManualOutOfStock  bool           `json:"manual_out_of_stock"`
	AutoPausedByStock bool           `json:"auto_paused_by_stock"`
}

// IngredientStock is one tracked ingredient. Key is the normalized form of
// the name (trimmed, lowercased, accent-stripped) and is what products match
// against.
type IngredientStock struct {
	BaseModel
	Key         string  `gorm:"uniqueIndex" json:"key"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"min_quantity"`
	Unavailable bool    `json:"unavailable"`
}
