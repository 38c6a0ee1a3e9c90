// Package delivery computes delivery fees from the configured fee table.
package delivery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/fornetto/internal/models"
)

// Refusal reasons returned by Compute.
var (
	ErrBlockedNeighborhood = errors.New("neighborhood blocked for delivery")
	ErrBelowMinimum        = errors.New("order below delivery minimum")
	ErrTooFar              = errors.New("distance above delivery maximum")
)

// Request is the quoting input.
type Request struct {
	Subtotal     float64
	DistanceKm   float64
	Neighborhood string
}

// Quote is the fee breakdown for a deliverable request.
type Quote struct {
	Fee        float64 `json:"fee"`
	BaseFee    float64 `json:"base_fee"`
	PeakFee    float64 `json:"peak_fee"`
	EtaMinutes int     `json:"eta_minutes,omitempty"`
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sun",
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
}

// Compute resolves the delivery fee for a request at a given moment.
// A neighborhood entry in the fee table beats the distance formula; the
// peak surcharge is added when the moment falls inside the configured
// window. Refusals (blocked neighborhood, below minimum, too far) come
// back as errors for the caller to surface.
func Compute(cfg models.DeliverySettings, req Request, at time.Time) (Quote, error) {
	neighborhood := normalizeName(req.Neighborhood)

	for _, blocked := range cfg.BlockedNeighborhoods {
		if neighborhood != "" && normalizeName(blocked) == neighborhood {
			return Quote{}, fmt.Errorf("%w: %s", ErrBlockedNeighborhood, strings.TrimSpace(blocked))
		}
	}

	if cfg.MinOrderValue > 0 && req.Subtotal < cfg.MinOrderValue {
		return Quote{}, ErrBelowMinimum
	}

	if cfg.MaxDistanceKm > 0 && req.DistanceKm > cfg.MaxDistanceKm {
		return Quote{}, ErrTooFar
	}

	base := cfg.BaseFee + cfg.FeePerKm*req.DistanceKm
	for _, entry := range cfg.NeighborhoodFees {
		if neighborhood != "" && normalizeName(entry.Name) == neighborhood {
			base = entry.Fee
			break
		}
	}

	quote := Quote{Fee: base, BaseFee: base}

	peak := cfg.PeakFee.Data()
	if peakActive(peak, at) {
		quote.PeakFee = peak.Amount
		quote.Fee += peak.Amount
	}

	return quote, nil
}

func peakActive(peak models.PeakFee, at time.Time) bool {
	if !peak.Enabled || peak.Amount == 0 {
		return false
	}

	day := weekdayNames[at.Weekday()]
	dayMatches := len(peak.Days) == 0
	for _, d := range peak.Days {
		if strings.EqualFold(strings.TrimSpace(d), day) {
			dayMatches = true
			break
		}
	}
	if !dayMatches {
		return false
	}

	start, okStart := parseClock(peak.Start)
	end, okEnd := parseClock(peak.End)
	if !okStart || !okEnd {
		return false
	}

	minute := at.Hour()*60 + at.Minute()
	if end < start {
		// window crosses midnight
		return minute >= start || minute <= end
	}
	return minute >= start && minute <= end
}

// parseClock reads "HH:MM" into minutes since midnight.
func parseClock(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
