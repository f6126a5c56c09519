// Package whatsapp builds outbound WhatsApp deep links and optionally
// sends messages through a gowa-compatible gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crm_followup_backend/platform/config"
	"crm_followup_backend/platform/logger"
	"crm_followup_backend/platform/phone"
)

// Client talks to a gowa-compatible WhatsApp HTTP gateway. A nil client
// is valid and drops all sends, so callers need no conditional wiring
// when the gateway is not configured.
type Client struct {
	baseURL    string
	apiKey     string
	deviceID   string
	normalizer *phone.Normalizer
	http       *http.Client
	log        *logger.Logger
}

type gowaRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewClient creates a Client, or nil when no gateway URL is configured.
func NewClient(cfg config.WhatsAppConfig, normalizer *phone.Normalizer, log *logger.Logger) *Client {
	if cfg.GetWhatsAppURL() == "" {
		return nil
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.GetWhatsAppURL(), "/"),
		apiKey:     cfg.GetWhatsAppKey(),
		deviceID:   cfg.GetWhatsAppDeviceID(),
		normalizer: normalizer,
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// SendMessage delivers a message to the phone number via the gateway.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	normalized, ok := c.normalizer.Normalize(phoneNumber)
	if !ok {
		return fmt.Errorf("phone number %q is not usable", phoneNumber)
	}

	payload := gowaRequest{
		Phone:   strings.TrimPrefix(normalized, "+"),
		Message: message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/send/message", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", formatAuthHeader(c.apiKey))
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("whatsapp sent via gowa", "phone", payload.Phone)
	return nil
}

func formatAuthHeader(apiKey string) string {
	if strings.HasPrefix(strings.ToLower(apiKey), "basic ") {
		return apiKey
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(apiKey))
	return "Basic " + encoded
}
