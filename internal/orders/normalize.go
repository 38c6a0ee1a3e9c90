package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/example/fornetto/internal/models"
)

// Placeholder values used when a draft lacks required display data. The
// normalizer never rejects a draft; it fills gaps instead.
const (
	PlaceholderCustomer = "Cliente"
	PlaceholderItem     = "Item sem nome"
)

// itemNamePaths is the priority list for resolving a line item's display
// name; the first non-empty match wins.
var itemNamePaths = []string{"name", "title", "flavor1Name", "productName", "flavor"}

// Normalize converts a raw order draft in any historical shape into the
// canonical Order record. It is pure and total: malformed values coerce to
// zero values, missing display data becomes a placeholder, and nothing in
// the input can make it fail.
func Normalize(raw map[string]any) models.Order {
	if raw == nil {
		raw = map[string]any{}
	}
	now := time.Now()

	subtotal := pickNum(raw, "subtotal", "totals.subtotal")
	deliveryFee := pickNum(raw, "deliveryFee", "delivery.fee", "totals.deliveryFee", "totals.delivery_fee")
	discount := resolveDiscount(raw)

	finalTotal := subtotal + deliveryFee - discount
	if v, ok := pick(raw, "total", "totals.finalTotal", "totals.final_total"); ok {
		finalTotal = num(v)
	}

	orderType := normalizeType(pickStr(raw, "type", "orderType"))
	snapshot := resolveCustomer(raw)
	delivery := resolveDelivery(raw, orderType, deliveryFee, snapshot.Address)

	placedAt := parseTime(rawValue(raw, "createdAt", "created_at", "placed_at"))
	if placedAt.IsZero() {
		placedAt = now
	}

	order := models.Order{
		ShortID:          pickStr(raw, "shortId", "short_id"),
		Status:           NormalizeStatus(pickStr(raw, "status")),
		Type:             orderType,
		Source:           defaultStr(pickStr(raw, "source"), "desktop"),
		PlacedAt:         placedAt,
		CustomerSnapshot: datatypes.NewJSONType(snapshot),
		Items:            datatypes.NewJSONSlice(normalizeItems(asSlice(rawValue(raw, "items")))),
		Delivery:         datatypes.NewJSONType(delivery),
		Payment:          datatypes.NewJSONType(resolvePayment(raw)),
		Totals: datatypes.NewJSONType(models.Totals{
			Subtotal:    subtotal,
			DeliveryFee: deliveryFee,
			Discount:    discount,
			FinalTotal:  finalTotal,
		}),
		OrderNotes:   pickStr(raw, "orderNotes", "order_notes", "notes"),
		KitchenNotes: pickStr(raw, "kitchenNotes", "kitchen_notes", "observacoes"),
		History:      datatypes.NewJSONSlice(normalizeHistory(asSlice(rawValue(raw, "history")))),
		Deleted:      pickBool(raw, "deleted"),
	}

	return order
}

// resolveDiscount handles the two historical discount shapes: an object
// with type/value/amount, or a bare number.
func resolveDiscount(raw map[string]any) float64 {
	v, ok := pick(raw, "discount", "totals.discount")
	if !ok {
		return 0
	}
	if obj := asMap(v); obj != nil {
		return pickNum(obj, "amount")
	}
	return num(v)
}

// normalizeType folds counter-UI and website labels onto the canonical
// order types. Anything unrecognized is treated as a delivery, not an
// error.
func normalizeType(raw string) string {
	switch strings.ToLower(raw) {
	case "retirada", models.OrderTypePickup:
		return models.OrderTypePickup
	case "balcao", "balcão", models.OrderTypeCounter:
		return models.OrderTypeCounter
	default:
		return models.OrderTypeDelivery
	}
}

// NormalizePaymentMethod lowercases and folds card aliases; anything
// outside the known set becomes "money". The lossy mapping is deliberate:
// imported orders always end up with a chargeable method.
func NormalizePaymentMethod(raw string) string {
	m := strings.ToLower(strings.TrimSpace(raw))
	switch m {
	case "credit_card", "card":
		return models.PaymentCredit
	case "debit_card":
		return models.PaymentDebit
	}
	switch m {
	case models.PaymentMoney, models.PaymentPix, models.PaymentCredit,
		models.PaymentDebit, models.PaymentIfood, models.PaymentToDefine:
		return m
	}
	return models.PaymentMoney
}

func resolvePayment(raw map[string]any) models.PaymentInfo {
	return models.PaymentInfo{
		Method:       NormalizePaymentMethod(pickStr(raw, "payment.method", "paymentMethod")),
		Status:       defaultStr(pickStr(raw, "payment.status", "paymentStatus"), "pending"),
		CashGiven:    pickNum(raw, "payment.cashGiven", "payment.cash_given", "cash.cashGiven"),
		ChangeAmount: pickNum(raw, "payment.changeAmount", "payment.change_amount", "cash.changeAmount"),
	}
}

func resolveCustomer(raw map[string]any) models.CustomerSnapshot {
	snapshot := models.CustomerSnapshot{
		ID:    pickStr(raw, "customerSnapshot.id", "customer_snapshot.id", "customer.id", "customerId"),
		Name:  pickStr(raw, "customerSnapshot.name", "customer_snapshot.name", "customer.name", "customerName"),
		Phone: pickStr(raw, "customerSnapshot.phone", "customer_snapshot.phone", "customer.phone", "customerPhone"),
		CPF:   pickStr(raw, "customerSnapshot.cpf", "customer_snapshot.cpf", "customer.cpf", "customerCpf"),
	}
	if snapshot.Name == "" {
		snapshot.Name = PlaceholderCustomer
	}

	addr, _ := pick(raw, "customerSnapshot.address", "customer_snapshot.address", "customer.address", "customerAddress")
	snapshot.Address = normalizeAddress(addr)
	return snapshot
}

// normalizeAddress accepts either the structured address object or the
// free-text single string older records used.
func normalizeAddress(v any) models.Address {
	if s := str(v); s != "" {
		return models.Address{Street: s}
	}
	obj := asMap(v)
	if obj == nil {
		return models.Address{}
	}
	return models.Address{
		Street:       pickStr(obj, "street", "rua"),
		Number:       pickStr(obj, "number", "numero"),
		Neighborhood: pickStr(obj, "neighborhood", "bairro"),
		City:         pickStr(obj, "city", "cidade"),
		State:        pickStr(obj, "state"),
		CEP:          pickStr(obj, "cep", "zip"),
		Complement:   pickStr(obj, "complement", "complemento"),
	}
}

func resolveDelivery(raw map[string]any, orderType string, fee float64, addr models.Address) models.DeliveryInfo {
	info := models.DeliveryInfo{
		Mode:          defaultStr(pickStr(raw, "delivery.mode"), orderType),
		Fee:           fee,
		Address:       addr,
		Neighborhood:  pickStr(raw, "deliveryNeighborhood", "delivery.neighborhood"),
		DistanceKm:    pickNum(raw, "deliveryDistanceKm", "delivery.distanceKm", "delivery.distance_km"),
		EtaMinutes:    int(pickNum(raw, "deliveryMinMinutes", "delivery.etaMinutes", "delivery.eta_minutes")),
		MotoboyID:     pickStr(raw, "motoboyId", "delivery.motoboyId", "delivery.motoboy_id", "motoboySnapshot.id"),
		MotoboyName:   pickStr(raw, "motoboyName", "delivery.motoboyName", "delivery.motoboy_name", "motoboySnapshot.name"),
		MotoboyStatus: pickStr(raw, "motoboyStatus", "delivery.motoboyStatus", "delivery.motoboy_status", "motoboySnapshot.status"),
	}

	if info.MotoboyStatus == "" {
		if orderType == models.OrderTypeDelivery && info.MotoboyID == "" {
			info.MotoboyStatus = models.MotoboyWaitingQR
		} else {
			info.MotoboyStatus = models.MotoboyAssigned
		}
	}

	return info
}

func normalizeItems(rawItems []any) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(rawItems))
	for _, entry := range rawItems {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		items = append(items, normalizeItem(obj))
	}
	return items
}

func normalizeItem(obj map[string]any) models.OrderItem {
	name := pickStr(obj, itemNamePaths...)
	if name == "" {
		name = PlaceholderItem
	}

	quantity := pickNum(obj, "quantity")
	if quantity == 0 {
		quantity = 1
	}

	unitPrice := pickNum(obj, "unitPrice", "unit_price", "price")

	lineTotal := unitPrice * quantity
	if v, ok := pick(obj, "lineTotal", "line_total", "total"); ok {
		lineTotal = num(v)
	}

	flavors := collectFlavors(obj)
	half := pickBool(obj, "isHalfHalf", "is_half_half") || len(flavors) > 1
	halfDescription := pickStr(obj, "halfDescription", "half_description")
	if halfDescription == "" && len(flavors) > 1 {
		halfDescription = strings.Join(flavors, " / ")
	}

	lineID := pickStr(obj, "lineId", "line_id")
	if lineID == "" {
		lineID = uuid.NewString()
	}

	return models.OrderItem{
		LineID:          lineID,
		ProductID:       pickStr(obj, "id", "productId", "product_id"),
		Name:            name,
		Size:            pickStr(obj, "size", "sizeLabel"),
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		LineTotal:       lineTotal,
		IsHalfHalf:      half,
		HalfDescription: halfDescription,
		Extras:          normalizeExtras(asSlice(rawValue(obj, "extras"))),
		KitchenNotes:    pickStr(obj, "kitchenNotes", "kitchen_notes"),
	}
}

func collectFlavors(obj map[string]any) []string {
	var flavors []string
	for _, key := range []string{"flavor1Name", "flavor2Name", "flavor3Name"} {
		if f := pickStr(obj, key); f != "" {
			flavors = append(flavors, f)
		}
	}
	return flavors
}

func normalizeExtras(rawExtras []any) []models.OrderExtra {
	extras := make([]models.OrderExtra, 0, len(rawExtras))
	for _, entry := range rawExtras {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		extras = append(extras, models.OrderExtra{
			Name:  defaultStr(pickStr(obj, "name"), PlaceholderItem),
			Price: pickNum(obj, "price"),
		})
	}
	return extras
}

func normalizeHistory(rawHistory []any) []models.StatusChange {
	history := make([]models.StatusChange, 0, len(rawHistory))
	for _, entry := range rawHistory {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		at := parseTime(rawValue(obj, "at"))
		history = append(history, models.StatusChange{
			Status: NormalizeStatus(pickStr(obj, "status")),
			At:     at,
			By:     pickStr(obj, "by"),
		})
	}
	return history
}

func rawValue(m map[string]any, paths ...string) any {
	v, _ := pick(m, paths...)
	return v
}

func defaultStr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
