package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// NeighborhoodFee is a fixed delivery fee for a named neighborhood. It takes
// precedence over the distance-based fee.
type NeighborhoodFee struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

// PeakFee is an extra charge applied inside a weekly time window.
// Days uses three-letter lowercase weekday names ("mon".."sun"); Start and
// End are "HH:MM" local times.
type PeakFee struct {
	Enabled bool     `json:"enabled"`
	Days    []string `json:"days"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Amount  float64  `json:"amount"`
}

// DeliverySettings stores the delivery fee table and limits.
// There should be only one row (singleton pattern).
type DeliverySettings struct {
	BaseModel
	BaseFee              float64                              `json:"base_fee"`
	FeePerKm             float64                              `json:"fee_per_km"`
	MinOrderValue        float64                              `json:"min_order_value"`
	MaxDistanceKm        float64                              `json:"max_distance_km"`
	NeighborhoodFees     datatypes.JSONSlice[NeighborhoodFee] `json:"neighborhood_fees"`
	BlockedNeighborhoods pq.StringArray                       `gorm:"type:text[]" json:"blocked_neighborhoods"`
	PeakFee              datatypes.JSONType[PeakFee]          `json:"peak_fee"`
}

// PrintSettings stores receipt printing preferences. Single row.
type PrintSettings struct {
	BaseModel
	PrinterName string `json:"printer_name"`
	Copies      int    `json:"copies"`
	AutoPrint   bool   `json:"auto_print"`
	PaperWidth  int    `json:"paper_width"`
}

// WebIntegrationSettings configures the website order import. Single row.
type WebIntegrationSettings struct {
	BaseModel
	Enabled     bool   `json:"enabled"`
	BaseURL     string `json:"base_url"`
	APIToken    string `json:"-"`
	PollSeconds int    `json:"poll_seconds"`
}
