package delivery

import (
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/example/fornetto/internal/models"
)

func settings() models.DeliverySettings {
	return models.DeliverySettings{
		BaseFee:       5,
		FeePerKm:      2,
		MinOrderValue: 30,
		MaxDistanceKm: 10,
		NeighborhoodFees: []models.NeighborhoodFee{
			{Name: "Centro", Fee: 4},
			{Name: "Santana", Fee: 8},
		},
		BlockedNeighborhoods: []string{"Vila Longe"},
		PeakFee: datatypes.NewJSONType(models.PeakFee{
			Enabled: true,
			Days:    []string{"fri", "sat"},
			Start:   "18:00",
			End:     "22:00",
			Amount:  3,
		}),
	}
}

// 2026-03-06 is a Friday.
var fridayEvening = time.Date(2026, 3, 6, 19, 30, 0, 0, time.UTC)
var tuesdayNoon = time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

func TestComputeDistanceFormula(t *testing.T) {
	quote, err := Compute(settings(), Request{Subtotal: 50, DistanceKm: 3}, tuesdayNoon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Fee != 11 { // 5 + 2*3
		t.Errorf("fee = %v, want 11", quote.Fee)
	}
}

func TestComputeNeighborhoodTableWins(t *testing.T) {
	quote, err := Compute(settings(), Request{Subtotal: 50, DistanceKm: 9, Neighborhood: "  centro "}, tuesdayNoon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Fee != 4 {
		t.Errorf("fee = %v, want neighborhood fee 4 over distance formula", quote.Fee)
	}
}

func TestComputePeakSurcharge(t *testing.T) {
	quote, err := Compute(settings(), Request{Subtotal: 50, DistanceKm: 2, Neighborhood: "Santana"}, fridayEvening)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.PeakFee != 3 {
		t.Errorf("peakFee = %v, want 3", quote.PeakFee)
	}
	if quote.Fee != 11 { // 8 + 3
		t.Errorf("fee = %v, want 11", quote.Fee)
	}

	offPeak, err := Compute(settings(), Request{Subtotal: 50, DistanceKm: 2, Neighborhood: "Santana"}, tuesdayNoon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offPeak.PeakFee != 0 || offPeak.Fee != 8 {
		t.Errorf("off-peak quote = %+v, want fee 8 without surcharge", offPeak)
	}
}

func TestComputeRefusals(t *testing.T) {
	if _, err := Compute(settings(), Request{Subtotal: 50, DistanceKm: 1, Neighborhood: "vila longe"}, tuesdayNoon); !errors.Is(err, ErrBlockedNeighborhood) {
		t.Errorf("blocked neighborhood error = %v", err)
	}
	if _, err := Compute(settings(), Request{Subtotal: 20, DistanceKm: 1}, tuesdayNoon); !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("minimum order error = %v", err)
	}
	if _, err := Compute(settings(), Request{Subtotal: 50, DistanceKm: 15}, tuesdayNoon); !errors.Is(err, ErrTooFar) {
		t.Errorf("max distance error = %v", err)
	}
}

func TestComputeZeroLimitsDisableChecks(t *testing.T) {
	cfg := settings()
	cfg.MinOrderValue = 0
	cfg.MaxDistanceKm = 0

	if _, err := Compute(cfg, Request{Subtotal: 1, DistanceKm: 100}, tuesdayNoon); err != nil {
		t.Errorf("zeroed limits should not refuse: %v", err)
	}
}

func TestComputeOvernightPeakWindow(t *testing.T) {
	cfg := settings()
	cfg.PeakFee = datatypes.NewJSONType(models.PeakFee{
		Enabled: true,
		Start:   "22:00",
		End:     "02:00",
		Amount:  5,
	})

	lateNight := time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC)
	quote, err := Compute(cfg, Request{Subtotal: 50, DistanceKm: 1}, lateNight)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.PeakFee != 5 {
		t.Errorf("overnight window should apply surcharge, got %+v", quote)
	}
}
