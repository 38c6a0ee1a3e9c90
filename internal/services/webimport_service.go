package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/orders"
)

// Package-level token cache guarded by a mutex to allow safe reuse across
// poll cycles.
var (
	webToken       string
	webTokenExpiry time.Time
	webTokenMu     sync.RWMutex
	httpClient     = &http.Client{Timeout: 15 * time.Second}
)

const tokenRefreshLeeway = 30 * time.Second

type webAuthRequest struct {
	APIToken string `json:"api_token"`
}

type webAuthResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	} `json:"data"`
	Error any `json:"error,omitempty"`
}

type webPendingResponse struct {
	Data []map[string]any `json:"data"`
}

// WebImportService polls the pizzeria website for pending orders and
// feeds each raw payload through the draft normalizer before saving.
type WebImportService struct {
	db       *gorm.DB
	onImport func(models.Order)
}

// NewWebImportService creates a WebImportService. onImport runs after each
// successfully saved order (notifications, live feed) and may be nil.
func NewWebImportService(db *gorm.DB, onImport func(models.Order)) *WebImportService {
	return &WebImportService{db: db, onImport: onImport}
}

// Run polls until the context is cancelled. The interval and endpoint come
// from the web integration settings row, re-read on every cycle so changes
// apply without a restart.
func (s *WebImportService) Run(ctx context.Context) {
	for {
		interval := 30 * time.Second

		var cfg models.WebIntegrationSettings
		err := s.db.First(&cfg).Error
		switch {
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("[WebImport] Failed to load settings: %v", err)
		case err == nil && cfg.Enabled && cfg.BaseURL != "":
			if cfg.PollSeconds > 0 {
				interval = time.Duration(cfg.PollSeconds) * time.Second
			}
			if imported, err := s.importPending(cfg); err != nil {
				log.Printf("[WebImport] Import cycle failed: %v", err)
			} else if imported > 0 {
				log.Printf("[WebImport] Imported %d website order(s)", imported)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (s *WebImportService) importPending(cfg models.WebIntegrationSettings) (int, error) {
	token, err := getWebToken(cfg, false)
	if err != nil {
		return 0, err
	}

	pending, err := s.fetchPending(cfg, token)
	if err != nil {
		// a stale token is the common failure; retry once with a fresh one
		token, err = getWebToken(cfg, true)
		if err != nil {
			return 0, err
		}
		pending, err = s.fetchPending(cfg, token)
		if err != nil {
			return 0, err
		}
	}

	imported := 0
	for _, raw := range pending {
		remoteID, _ := raw["id"].(string)
		if remoteID == "" {
			log.Printf("[WebImport] Skipping pending order without id")
			continue
		}

		var count int64
		if err := s.db.Model(&models.Order{}).
			Where("source = ? AND short_id = ?", "website", remoteID).
			Count(&count).Error; err != nil {
			return imported, err
		}
		if count > 0 {
			// already imported on a previous cycle whose ack was lost
			if err := s.acknowledge(cfg, token, remoteID); err != nil {
				log.Printf("[WebImport] Re-ack failed for %s: %v", remoteID, err)
			}
			continue
		}

		raw["source"] = "website"
		raw["shortId"] = remoteID
		order := orders.Normalize(raw)

		if err := s.db.Create(&order).Error; err != nil {
			return imported, err
		}

		if err := s.acknowledge(cfg, token, remoteID); err != nil {
			log.Printf("[WebImport] Ack failed for %s: %v", remoteID, err)
		}

		if s.onImport != nil {
			s.onImport(order)
		}
		imported++
	}

	return imported, nil
}

func (s *WebImportService) fetchPending(cfg models.WebIntegrationSettings, token string) ([]map[string]any, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL(cfg)+"/pos/orders/pending", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pending orders returned status %d: %s", resp.StatusCode, body)
	}

	var parsed webPendingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

func (s *WebImportService) acknowledge(cfg models.WebIntegrationSettings, token, remoteID string) error {
	req, err := http.NewRequest(http.MethodPost, baseURL(cfg)+"/pos/orders/"+remoteID+"/ack", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("ack returned status %d", resp.StatusCode)
	}
	return nil
}

func baseURL(cfg models.WebIntegrationSettings) string {
	return strings.TrimRight(cfg.BaseURL, "/")
}

func getWebToken(cfg models.WebIntegrationSettings, force bool) (string, error) {
	if !force {
		if token, ok := cachedWebToken(); ok {
			return token, nil
		}
	}

	webTokenMu.Lock()
	defer webTokenMu.Unlock()

	if !force && webToken != "" && time.Now().Before(webTokenExpiry.Add(-tokenRefreshLeeway)) {
		return webToken, nil
	}

	body, err := json.Marshal(webAuthRequest{APIToken: cfg.APIToken})
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Post(baseURL(cfg)+"/pos/auth", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web auth returned status %d", resp.StatusCode)
	}

	var parsed webAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Data.AccessToken == "" {
		return "", errors.New("web auth returned empty token")
	}

	webToken = parsed.Data.AccessToken
	webTokenExpiry = time.Now().Add(time.Duration(parsed.Data.ExpiresIn) * time.Second)
	return webToken, nil
}

func cachedWebToken() (string, bool) {
	webTokenMu.RLock()
	defer webTokenMu.RUnlock()

	if webToken != "" && time.Now().Before(webTokenExpiry.Add(-tokenRefreshLeeway)) {
		return webToken, true
	}
	return "", false
}
