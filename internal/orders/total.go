package orders

import "github.com/example/fornetto/internal/models"

// OrderTotal resolves an order's effective total the same way the listing
// and dashboard views do: the reconciled final total wins, with the
// computed sum as fallback for records whose final total is zero or was
// never filled.
func OrderTotal(order models.Order) float64 {
	totals := order.Totals.Data()
	if totals.FinalTotal != 0 {
		return totals.FinalTotal
	}
	return totals.Subtotal + totals.DeliveryFee - totals.Discount
}
