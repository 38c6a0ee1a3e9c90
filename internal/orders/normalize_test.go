package orders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/example/fornetto/internal/models"
)

func decodeDraft(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("invalid draft fixture: %v", err)
	}
	return raw
}

func TestNormalizeLegacyFlatDraft(t *testing.T) {
	raw := decodeDraft(t, `{
		"type": "retirada",
		"subtotal": 50,
		"deliveryFee": 0,
		"discount": "10",
		"customerName": "Maria",
		"customerPhone": "11999990000",
		"paymentMethod": "credit_card"
	}`)

	order := Normalize(raw)

	if order.Type != models.OrderTypePickup {
		t.Errorf("type = %q, want pickup", order.Type)
	}

	totals := order.Totals.Data()
	if totals.Subtotal != 50 || totals.DeliveryFee != 0 || totals.Discount != 10 {
		t.Errorf("totals = %+v, want subtotal 50, fee 0, discount 10", totals)
	}
	if totals.FinalTotal != 40 {
		t.Errorf("finalTotal = %v, want 40 (subtotal + fee - discount)", totals.FinalTotal)
	}

	if got := order.CustomerSnapshot.Data().Name; got != "Maria" {
		t.Errorf("customer name = %q, want Maria", got)
	}
	if got := order.Payment.Data().Method; got != models.PaymentCredit {
		t.Errorf("payment method = %q, want credit", got)
	}
	if order.Status != models.StatusOpen {
		t.Errorf("status = %q, want open", order.Status)
	}
	if order.Source != "desktop" {
		t.Errorf("source = %q, want desktop", order.Source)
	}
}

func TestNormalizeExplicitTotalWins(t *testing.T) {
	raw := decodeDraft(t, `{"subtotal": 80, "deliveryFee": 10, "discount": 5, "total": 100}`)

	totals := Normalize(raw).Totals.Data()
	if totals.FinalTotal != 100 {
		t.Errorf("finalTotal = %v, want explicit 100 over computed 85", totals.FinalTotal)
	}
}

func TestNormalizeComputedTotalWhenAbsent(t *testing.T) {
	raw := decodeDraft(t, `{"subtotal": 80, "deliveryFee": 10, "discount": 5}`)

	totals := Normalize(raw).Totals.Data()
	if totals.FinalTotal != 85 {
		t.Errorf("finalTotal = %v, want 85", totals.FinalTotal)
	}
}

func TestNormalizeNestedCanonicalDraft(t *testing.T) {
	raw := decodeDraft(t, `{
		"totals": {"subtotal": 60, "deliveryFee": 8, "finalTotal": 68},
		"delivery": {"fee": 8, "motoboyId": "mb-1", "motoboyName": "Carlos"},
		"customerSnapshot": {"name": "João", "phone": "11888887777",
			"address": {"street": "Rua A", "number": "10", "neighborhood": "Centro"}},
		"payment": {"method": "pix", "status": "paid"},
		"status": "em_preparo",
		"type": "delivery"
	}`)

	order := Normalize(raw)

	if order.Status != models.StatusPreparing {
		t.Errorf("status = %q, want preparing", order.Status)
	}
	totals := order.Totals.Data()
	if totals.Subtotal != 60 || totals.DeliveryFee != 8 || totals.FinalTotal != 68 {
		t.Errorf("totals = %+v", totals)
	}

	deliveryInfo := order.Delivery.Data()
	if deliveryInfo.MotoboyID != "mb-1" || deliveryInfo.MotoboyName != "Carlos" {
		t.Errorf("motoboy = %q/%q", deliveryInfo.MotoboyID, deliveryInfo.MotoboyName)
	}
	if deliveryInfo.MotoboyStatus != models.MotoboyAssigned {
		t.Errorf("motoboy status = %q, want assigned", deliveryInfo.MotoboyStatus)
	}

	snapshot := order.CustomerSnapshot.Data()
	if snapshot.Address.Neighborhood != "Centro" {
		t.Errorf("neighborhood = %q, want Centro", snapshot.Address.Neighborhood)
	}
	payment := order.Payment.Data()
	if payment.Method != models.PaymentPix || payment.Status != "paid" {
		t.Errorf("payment = %+v", payment)
	}
}

func TestNormalizeTopLevelBeatsNested(t *testing.T) {
	raw := decodeDraft(t, `{
		"subtotal": 30,
		"totals": {"subtotal": 999},
		"deliveryFee": 5,
		"delivery": {"fee": 999}
	}`)

	totals := Normalize(raw).Totals.Data()
	if totals.Subtotal != 30 {
		t.Errorf("subtotal = %v, want top-level 30", totals.Subtotal)
	}
	if totals.DeliveryFee != 5 {
		t.Errorf("deliveryFee = %v, want top-level 5", totals.DeliveryFee)
	}
}

func TestNormalizeDiscountObjectShape(t *testing.T) {
	raw := decodeDraft(t, `{"subtotal": 100, "discount": {"type": "percent", "value": 10, "amount": 10}}`)

	totals := Normalize(raw).Totals.Data()
	if totals.Discount != 10 {
		t.Errorf("discount = %v, want amount 10 from object", totals.Discount)
	}
	if totals.FinalTotal != 90 {
		t.Errorf("finalTotal = %v, want 90", totals.FinalTotal)
	}
}

func TestNormalizeTypeFallsBackToDelivery(t *testing.T) {
	cases := map[string]string{
		"retirada": models.OrderTypePickup,
		"balcao":   models.OrderTypeCounter,
		"balcão":   models.OrderTypeCounter,
		"pickup":   models.OrderTypePickup,
		"counter":  models.OrderTypeCounter,
		"delivery": models.OrderTypeDelivery,
		"whatever": models.OrderTypeDelivery,
		"":         models.OrderTypeDelivery,
	}
	for input, want := range cases {
		raw := map[string]any{"type": input}
		if got := Normalize(raw).Type; got != want {
			t.Errorf("type %q normalized to %q, want %q", input, got, want)
		}
	}
}

func TestNormalizePaymentMethodLossyMapping(t *testing.T) {
	cases := map[string]string{
		"credit_card": "credit",
		"card":        "credit",
		"debit_card":  "debit",
		"PIX":         "pix",
		"money":       "money",
		"ifood":       "ifood",
		"to_define":   "to_define",
		"bitcoin":     "money",
		"":            "money",
	}
	for input, want := range cases {
		if got := NormalizePaymentMethod(input); got != want {
			t.Errorf("NormalizePaymentMethod(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeItemNamePriority(t *testing.T) {
	raw := decodeDraft(t, `{"items": [
		{"name": "Calabresa", "title": "ignored"},
		{"title": "Meio a meio"},
		{"flavor1Name": "Mussarela"},
		{"productName": "Guaraná 2L"},
		{}
	]}`)

	items := Normalize(raw).Items
	wantNames := []string{"Calabresa", "Meio a meio", "Mussarela", "Guaraná 2L", PlaceholderItem}
	if len(items) != len(wantNames) {
		t.Fatalf("got %d items, want %d", len(items), len(wantNames))
	}
	for i, want := range wantNames {
		if items[i].Name != want {
			t.Errorf("item %d name = %q, want %q", i, items[i].Name, want)
		}
	}
}

func TestNormalizeItemTotals(t *testing.T) {
	raw := decodeDraft(t, `{"items": [
		{"name": "Calabresa", "quantity": 2, "unitPrice": 45},
		{"name": "Importada", "quantity": 2, "unitPrice": 45, "lineTotal": 80},
		{"name": "Sem preço"}
	]}`)

	items := Normalize(raw).Items

	if items[0].LineTotal != 90 {
		t.Errorf("computed lineTotal = %v, want 90", items[0].LineTotal)
	}
	if items[1].LineTotal != 80 {
		t.Errorf("explicit lineTotal = %v, want 80 (explicit wins)", items[1].LineTotal)
	}
	if items[2].Quantity != 1 {
		t.Errorf("quantity default = %v, want 1", items[2].Quantity)
	}
	if items[2].LineID == "" {
		t.Error("lineId should be generated when absent")
	}
}

func TestNormalizeHalfHalfFromFlavors(t *testing.T) {
	raw := decodeDraft(t, `{"items": [
		{"flavor1Name": "Calabresa", "flavor2Name": "Mussarela", "quantity": 1}
	]}`)

	item := Normalize(raw).Items[0]
	if !item.IsHalfHalf {
		t.Error("two flavors should mark the item half-half")
	}
	if item.HalfDescription != "Calabresa / Mussarela" {
		t.Errorf("halfDescription = %q", item.HalfDescription)
	}
}

func TestNormalizeMotoboyStatusDefaults(t *testing.T) {
	noMotoboy := Normalize(map[string]any{"type": "delivery"})
	if got := noMotoboy.Delivery.Data().MotoboyStatus; got != models.MotoboyWaitingQR {
		t.Errorf("delivery without motoboy: status = %q, want waiting_qr", got)
	}

	withMotoboy := Normalize(decodeDraft(t, `{"type": "delivery", "motoboyId": "mb-9"}`))
	if got := withMotoboy.Delivery.Data().MotoboyStatus; got != models.MotoboyAssigned {
		t.Errorf("delivery with motoboy: status = %q, want assigned", got)
	}

	pickup := Normalize(map[string]any{"type": "retirada"})
	if got := pickup.Delivery.Data().MotoboyStatus; got != models.MotoboyAssigned {
		t.Errorf("pickup: status = %q, want assigned", got)
	}
}

func TestNormalizeMotoboySnapshotFallback(t *testing.T) {
	raw := decodeDraft(t, `{"type": "delivery",
		"motoboySnapshot": {"id": "mb-3", "name": "Pedro", "status": "delivering"}}`)

	deliveryInfo := Normalize(raw).Delivery.Data()
	if deliveryInfo.MotoboyID != "mb-3" || deliveryInfo.MotoboyName != "Pedro" {
		t.Errorf("motoboy snapshot not resolved: %+v", deliveryInfo)
	}
	if deliveryInfo.MotoboyStatus != "delivering" {
		t.Errorf("motoboy status = %q, want delivering", deliveryInfo.MotoboyStatus)
	}
}

func TestNormalizeMalformedValuesCoerce(t *testing.T) {
	raw := decodeDraft(t, `{
		"subtotal": "abc",
		"deliveryFee": null,
		"discount": [1, 2],
		"items": ["not-an-object", 42, {"name": "Válido"}]
	}`)

	order := Normalize(raw)

	totals := order.Totals.Data()
	if totals.Subtotal != 0 || totals.DeliveryFee != 0 || totals.Discount != 0 {
		t.Errorf("malformed numerics should coerce to 0, got %+v", totals)
	}
	if len(order.Items) != 1 {
		t.Fatalf("non-object items should be skipped, got %d items", len(order.Items))
	}
	if got := order.CustomerSnapshot.Data().Name; got != PlaceholderCustomer {
		t.Errorf("missing customer name = %q, want placeholder", got)
	}
}

func TestNormalizeNilDraft(t *testing.T) {
	order := Normalize(nil)

	if order.Status != models.StatusOpen {
		t.Errorf("status = %q, want open", order.Status)
	}
	if order.Type != models.OrderTypeDelivery {
		t.Errorf("type = %q, want delivery", order.Type)
	}
	if order.PlacedAt.IsZero() {
		t.Error("placedAt should default to now")
	}
}

func TestNormalizeKeepsExplicitCreatedAt(t *testing.T) {
	raw := decodeDraft(t, `{"createdAt": "2026-03-01T12:30:00Z"}`)

	order := Normalize(raw)
	want := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	if !order.PlacedAt.Equal(want) {
		t.Errorf("placedAt = %v, want %v", order.PlacedAt, want)
	}
}

func TestNormalizeAddressStringShape(t *testing.T) {
	raw := decodeDraft(t, `{"customerAddress": "Rua das Flores, 123 - Centro"}`)

	addr := Normalize(raw).CustomerSnapshot.Data().Address
	if addr.Street != "Rua das Flores, 123 - Centro" {
		t.Errorf("free-text address = %q", addr.Street)
	}
}

func TestOrderTotalResolution(t *testing.T) {
	explicit := Normalize(decodeDraft(t, `{"subtotal": 10, "total": 99}`))
	if got := OrderTotal(explicit); got != 99 {
		t.Errorf("OrderTotal = %v, want explicit 99", got)
	}

	computed := Normalize(decodeDraft(t, `{"subtotal": 10, "deliveryFee": 5, "discount": 3}`))
	if got := OrderTotal(computed); got != 12 {
		t.Errorf("OrderTotal = %v, want computed 12", got)
	}
}
