package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
)

// LateOrderWatcher periodically flags orders that have been sitting in an
// active status past the threshold and alerts the admin chat once per
// order.
type LateOrderWatcher struct {
	db        *gorm.DB
	telegram  *TelegramService
	threshold time.Duration
	interval  time.Duration
	notified  map[uuid.UUID]bool
}

// NewLateOrderWatcher creates a watcher. Zero threshold or interval fall
// back to 50 minutes and 5 minutes.
func NewLateOrderWatcher(db *gorm.DB, telegram *TelegramService, threshold, interval time.Duration) *LateOrderWatcher {
	if threshold <= 0 {
		threshold = 50 * time.Minute
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LateOrderWatcher{
		db:        db,
		telegram:  telegram,
		threshold: threshold,
		interval:  interval,
		notified:  make(map[uuid.UUID]bool),
	}
}

// Run checks until the context is cancelled.
func (w *LateOrderWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.check(); err != nil {
				log.Printf("[LateOrders] Check failed: %v", err)
			}
		}
	}
}

func (w *LateOrderWatcher) check() error {
	cutoff := time.Now().Add(-w.threshold)

	var records []models.Order
	if err := w.db.
		Where("deleted = ?", false).
		Where("status IN ?", []string{
			models.StatusOpen, models.StatusPreparing, models.StatusOutForDelivery,
		}).
		Where("placed_at < ?", cutoff).
		Find(&records).Error; err != nil {
		return err
	}

	fresh := make([]models.Order, 0, len(records))
	seen := make(map[uuid.UUID]bool, len(records))
	for _, order := range records {
		seen[order.ID] = true
		if !w.notified[order.ID] {
			fresh = append(fresh, order)
		}
	}

	// forget orders that left the late set so memory does not grow
	for id := range w.notified {
		if !seen[id] {
			delete(w.notified, id)
		}
	}

	if len(fresh) == 0 {
		return nil
	}
	if err := w.telegram.NotifyLateOrders(fresh); err != nil {
		return err
	}
	for _, order := range fresh {
		w.notified[order.ID] = true
	}
	return nil
}
