// internal/share/sms.go
//
// Share-by-SMS collaborator: consumes a destination number and message
// body, returns the provider's message id. The production implementation
// posts to the Twilio Messages REST resource; tests substitute the Sender
// interface.

package share

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender delivers a text message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// Config carries the Twilio credentials and messaging service to send from.
type Config struct {
	AccountSID          string
	APIKeySID           string
	APIKeySecret        string
	MessagingServiceSID string
	BaseURL             string // override for tests; defaults to Twilio
	StatusCallback      string // optional delivery-status webhook (https only)
}

// Client is the Twilio-backed Sender.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a Client from config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: 15 * time.Second}}
}

// Send posts one outbound message. to must already be E.164.
func (c *Client) Send(ctx context.Context, to, body string) (string, error) {
	if c.cfg.AccountSID == "" || c.cfg.APIKeySID == "" {
		return "", fmt.Errorf("share: twilio credentials missing")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("MessagingServiceSid", c.cfg.MessagingServiceSID)
	form.Set("Body", body)
	if strings.HasPrefix(c.cfg.StatusCallback, "https://") {
		form.Set("StatusCallback", c.cfg.StatusCallback)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.APIKeySID, c.cfg.APIKeySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("share: send failed: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("share: provider status %d", resp.StatusCode)
	}

	var out struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("share: decode response: %w", err)
	}
	return out.SID, nil
}

// ToE164 normalizes a user-entered US phone number to E.164, returning ""
// when the input can't be.
func ToE164(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "+") {
		return s
	}
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d
	default:
		return ""
	}
}
