package handlers

import (
	"testing"
	"time"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/orders"
	"github.com/example/fornetto/internal/stock"
)

func TestMergeOrderDraftOverlaysEditedFields(t *testing.T) {
	order := orders.Normalize(map[string]any{
		"customerName": "Ana",
		"items": []any{
			map[string]any{"name": "Calabresa", "quantity": 2, "unitPrice": 45},
		},
		"orderNotes": "sem cebola",
	})

	merged, err := mergeOrderDraft(order, map[string]any{
		"orderNotes": "com cebola",
	})
	if err != nil {
		t.Fatalf("mergeOrderDraft: %v", err)
	}

	updated := orders.Normalize(merged)
	if got := updated.OrderNotes; got != "com cebola" {
		t.Errorf("order notes = %q, want %q", got, "com cebola")
	}
	if got := updated.CustomerSnapshot.Data().Name; got != "Ana" {
		t.Errorf("customer name = %q, want untouched %q", got, "Ana")
	}
	if got := len(updated.Items); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}
	if got := updated.Items[0].LineTotal; got != 90 {
		t.Errorf("line total = %v, want 90", got)
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	since, ok := periodStart("today", now)
	if !ok {
		t.Fatal("today: expected a bounded period")
	}
	if want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC); !since.Equal(want) {
		t.Errorf("today start = %v, want %v", since, want)
	}

	since, ok = periodStart("7d", now)
	if !ok || !since.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("7d start = %v ok=%v", since, ok)
	}

	if _, ok := periodStart("all", now); ok {
		t.Error("all: expected unbounded period")
	}
	if _, ok := periodStart("bogus", now); ok {
		t.Error("unknown period should be unbounded")
	}
}

func TestCustomerKeyPrefersPhoneAndSkipsPlaceholder(t *testing.T) {
	if got := customerKey(models.CustomerSnapshot{Name: "Ana", Phone: "11 99999-0000"}); got != "11 99999-0000" {
		t.Errorf("key = %q, want phone", got)
	}
	if got := customerKey(models.CustomerSnapshot{Name: "Ana"}); got != "ana" {
		t.Errorf("key = %q, want lowercased name", got)
	}
	if got := customerKey(models.CustomerSnapshot{Name: orders.PlaceholderCustomer}); got != "" {
		t.Errorf("placeholder customer produced key %q", got)
	}
	if got := customerKey(models.CustomerSnapshot{}); got != "" {
		t.Errorf("empty snapshot produced key %q", got)
	}
}

func TestStockRecordFromRowResolvesLegacyAliases(t *testing.T) {
	record, ok := stockRecordFromRow(stock.Row{Ingrediente: "Linguiça", Quantity: 3})
	if !ok {
		t.Fatal("row with ingrediente alias should resolve")
	}
	if record.Key != "linguica" {
		t.Errorf("key = %q, want %q", record.Key, "linguica")
	}
	if record.Name != "Linguiça" {
		t.Errorf("name = %q, want display name kept", record.Name)
	}

	if _, ok := stockRecordFromRow(stock.Row{Quantity: 1}); ok {
		t.Error("row without any name should be skipped")
	}
}
