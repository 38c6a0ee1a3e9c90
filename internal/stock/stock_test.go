package stock

import (
	"reflect"
	"testing"

	"github.com/example/fornetto/internal/models"
)

func pizza(name string, ingredients ...string) models.Product {
	return models.Product{
		Name:         name,
		Type:         models.ProductPizza,
		Ingredientes: ingredients,
		Active:       true,
		IsAvailable:  true,
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"  Mussarela ": "mussarela",
		"CALABRESA":    "calabresa",
		"Linguiça":     "linguica",
		"Açaí":         "acai",
		"tomate":       "tomate",
		"":             "",
		"   ":          "",
	}
	for input, want := range cases {
		if got := NormalizeKey(input); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildIngredientStockMapUniverse(t *testing.T) {
	products := []models.Product{
		pizza("Calabresa", "Calabresa", "Cebola"),
		pizza("Mussarela", "Mussarela"),
		{Name: "Guaraná", Type: models.ProductDrink, Ingredientes: []string{"Guaraná"}},
	}
	rows := []Row{
		{Key: "calabresa", Name: "Calabresa", Quantity: 5, MinQuantity: 1},
	}

	stockMap := BuildIngredientStockMap(products, rows)

	// drink ingredients are not tracked
	if _, ok := stockMap["guarana"]; ok {
		t.Error("drink ingredient should not be tracked")
	}

	calabresa, ok := stockMap["calabresa"]
	if !ok {
		t.Fatal("calabresa missing from map")
	}
	if calabresa.Quantity != 5 || calabresa.MinQuantity != 1 {
		t.Errorf("calabresa = %+v, want stock row values", calabresa)
	}

	// ingredients without a stock row get zero defaults
	cebola, ok := stockMap["cebola"]
	if !ok {
		t.Fatal("cebola missing from map")
	}
	if cebola.Quantity != 0 || cebola.MinQuantity != 0 || cebola.Unavailable {
		t.Errorf("cebola = %+v, want zero defaults", cebola)
	}
	if cebola.Name != "Cebola" {
		t.Errorf("cebola display name = %q, want original casing", cebola.Name)
	}
}

func TestBuildIngredientStockMapLegacyAliases(t *testing.T) {
	products := []models.Product{pizza("Portuguesa", "Presunto", "Ovo")}
	rows := []Row{
		{Ingrediente: "Presunto", Quantity: 3},
		{Name: "OVO ", Quantity: 12, MinQuantity: 6},
	}

	stockMap := BuildIngredientStockMap(products, rows)

	if got := stockMap["presunto"].Quantity; got != 3 {
		t.Errorf("ingrediente alias not matched, quantity = %v", got)
	}
	if got := stockMap["ovo"].Quantity; got != 12 {
		t.Errorf("name alias not matched case-insensitively, quantity = %v", got)
	}
}

func TestBuildIngredientStockMapMatchesByNameWhenKeyDiverges(t *testing.T) {
	products := []models.Product{pizza("Margherita", "Mussarela")}
	rows := []Row{
		{Key: "queijo", Name: "Mussarela", Quantity: 0, MinQuantity: 5},
	}

	stockMap := BuildIngredientStockMap(products, rows)

	mussarela, ok := stockMap["mussarela"]
	if !ok {
		t.Fatal("mussarela missing from map")
	}
	if mussarela.MinQuantity != 5 {
		t.Errorf("row with diverging key not matched by name: %+v", mussarela)
	}
	if !mussarela.IsMissing() {
		t.Error("out-of-stock row should be missing")
	}

	out := ComputeProductsWithStock(products, stockMap)
	if out[0].Active || !out[0].AutoPausedByStock {
		t.Errorf("margherita should be auto-paused: %+v", out[0])
	}
}

func TestBuildIngredientStockMapKeepsOrphanRows(t *testing.T) {
	products := []models.Product{pizza("Margherita", "Mussarela")}
	rows := []Row{
		{Key: "mussarela", Quantity: 2},
		{Key: "atum", Name: "Atum", Quantity: 4},
	}

	stockMap := BuildIngredientStockMap(products, rows)

	atum, ok := stockMap["atum"]
	if !ok {
		t.Fatal("orphan stock row should persist even with no pizza referencing it")
	}
	if atum.Name != "Atum" || atum.Quantity != 4 {
		t.Errorf("atum = %+v", atum)
	}
}

func TestIsMissingPredicate(t *testing.T) {
	cases := []struct {
		entry Entry
		want  bool
	}{
		{Entry{Quantity: 0, MinQuantity: 1}, true},
		{Entry{Quantity: -1, MinQuantity: 1}, true},
		{Entry{Quantity: 5, MinQuantity: 1}, false},
		{Entry{Quantity: 0, MinQuantity: 0}, false},
		{Entry{Quantity: 10, Unavailable: true}, true},
	}
	for _, tc := range cases {
		if got := tc.entry.IsMissing(); got != tc.want {
			t.Errorf("IsMissing(%+v) = %v, want %v", tc.entry, got, tc.want)
		}
	}
}

func TestComputeProductsWithStockAutoPause(t *testing.T) {
	products := []models.Product{
		pizza("Calabresa", "Calabresa", "Cebola"),
		pizza("Margherita", "Mussarela", "Tomate"),
	}
	stockMap := map[string]Entry{
		"calabresa": {Key: "calabresa", Quantity: 0, MinQuantity: 1},
		"mussarela": {Key: "mussarela", Quantity: 10, MinQuantity: 1},
	}

	out := ComputeProductsWithStock(products, stockMap)

	if out[0].Active || out[0].IsAvailable || !out[0].AutoPausedByStock {
		t.Errorf("calabresa pizza should be auto-paused: %+v", out[0])
	}
	if !out[1].Active || out[1].AutoPausedByStock {
		t.Errorf("margherita should be untouched: %+v", out[1])
	}
}

func TestComputeProductsWithStockAccentInsensitiveMatch(t *testing.T) {
	products := []models.Product{pizza("Especial", "Linguiça")}
	stockMap := map[string]Entry{
		"linguica": {Key: "linguica", Quantity: 0, MinQuantity: 2},
	}

	out := ComputeProductsWithStock(products, stockMap)
	if !out[0].AutoPausedByStock {
		t.Error("accented ingredient name should match stripped stock key")
	}
}

func TestComputeProductsWithStockRestore(t *testing.T) {
	paused := pizza("Calabresa", "Calabresa")
	paused.Active = false
	paused.IsAvailable = false
	paused.AutoPausedByStock = true

	stockMap := map[string]Entry{
		"calabresa": {Key: "calabresa", Quantity: 8, MinQuantity: 1},
	}

	out := ComputeProductsWithStock([]models.Product{paused}, stockMap)
	if !out[0].Active || !out[0].IsAvailable || out[0].AutoPausedByStock {
		t.Errorf("restocked pizza should be restored: %+v", out[0])
	}
}

func TestComputeProductsWithStockManualOverrideWins(t *testing.T) {
	manual := pizza("Quatro Queijos", "Mussarela")
	manual.ManualOutOfStock = true

	stockMap := map[string]Entry{
		"mussarela": {Key: "mussarela", Quantity: 99, MinQuantity: 1},
	}

	out := ComputeProductsWithStock([]models.Product{manual}, stockMap)
	if out[0].Active || out[0].IsAvailable {
		t.Errorf("manual out-of-stock must stay paused: %+v", out[0])
	}
	if out[0].AutoPausedByStock {
		t.Error("manual pause must not be recorded as auto-pause")
	}

	// clearing the manual flag alone does not force-activate; only a prior
	// auto-pause restores automatically
	cleared := out[0]
	cleared.ManualOutOfStock = false
	out2 := ComputeProductsWithStock([]models.Product{cleared}, stockMap)
	if out2[0].Active {
		t.Errorf("manually paused product must wait for operator reactivation: %+v", out2[0])
	}
}

func TestComputeProductsWithStockInactiveUntouched(t *testing.T) {
	inactive := pizza("Sazonal", "Mussarela")
	inactive.Active = false
	inactive.IsAvailable = false

	out := ComputeProductsWithStock([]models.Product{inactive}, map[string]Entry{})
	if out[0].Active {
		t.Error("inactive product with no stock involvement must stay inactive")
	}
}

func TestComputeProductsWithStockFixedPoint(t *testing.T) {
	products := []models.Product{
		pizza("Calabresa", "Calabresa", "Cebola"),
		pizza("Margherita", "Mussarela"),
		{Name: "Coca-Cola", Type: models.ProductDrink, Active: true},
	}
	products[1].ManualOutOfStock = true

	stockMap := map[string]Entry{
		"calabresa": {Key: "calabresa", Quantity: 0, MinQuantity: 1},
		"cebola":    {Key: "cebola", Quantity: 4, MinQuantity: 1},
		"mussarela": {Key: "mussarela", Quantity: 9, MinQuantity: 1},
	}

	once := ComputeProductsWithStock(products, stockMap)
	twice := ComputeProductsWithStock(once, stockMap)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not a fixed point:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestStockEditRoundTrip(t *testing.T) {
	// quantity drops to zero -> pizza pauses; restock -> pizza returns
	products := []models.Product{pizza("Calabresa", "Calabresa")}

	out := ComputeProductsWithStock(products, map[string]Entry{
		"calabresa": {Key: "calabresa", Quantity: 0, MinQuantity: 1},
	})
	if out[0].Active {
		t.Fatal("pizza should pause when ingredient runs out")
	}

	restored := ComputeProductsWithStock(out, map[string]Entry{
		"calabresa": {Key: "calabresa", Quantity: 7, MinQuantity: 1},
	})
	if !restored[0].Active || restored[0].AutoPausedByStock {
		t.Fatalf("pizza should reactivate after restock: %+v", restored[0])
	}
}
