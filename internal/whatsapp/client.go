package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Provider actions forwarded to the messaging provider.
const (
	ActionTestConnection   = "test_connection"
	ActionConfigureWebhook = "configure_webhook"
	ActionSendMessage      = "send_message"
	ActionSimulateIncoming = "simulate_incoming"
)

const connectionCacheKey = "connection_ok"

// Credentials identify one provider instance. Absent credentials make
// outbound sends fail with a configuration error at the gateway.
type Credentials struct {
	BaseURL    string
	InstanceID string
	Token      string
}

func (c *Credentials) Valid() bool {
	return c != nil && c.BaseURL != "" && c.InstanceID != "" && c.Token != ""
}

// ProviderResponse is the normalized provider reply.
type ProviderResponse struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Client forwards actions to the third-party WhatsApp provider.
type Client struct {
	http   *http.Client
	cache  *cache.Cache
	logger *zerolog.Logger
}

func NewClient(logger *zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache:  cache.New(5*time.Minute, 10*time.Minute),
		logger: logger,
	}
}

// TestConnection pings the provider. A successful result is cached so
// repeated dashboard checks do not hammer the provider API.
func (c *Client) TestConnection(ctx context.Context, creds *Credentials) (*ProviderResponse, error) {
	if ok, found := c.cache.Get(connectionCacheKey); found && ok.(bool) {
		return &ProviderResponse{Success: true}, nil
	}

	resp, err := c.do(ctx, creds, ActionTestConnection, nil)
	if err != nil {
		return nil, err
	}
	if resp.Success {
		c.cache.Set(connectionCacheKey, true, cache.DefaultExpiration)
	}
	return resp, nil
}

func (c *Client) ConfigureWebhook(ctx context.Context, creds *Credentials, webhookURL string) (*ProviderResponse, error) {
	return c.do(ctx, creds, ActionConfigureWebhook, map[string]string{
		"webhook_url": webhookURL,
	})
}

func (c *Client) SendMessage(ctx context.Context, creds *Credentials, phone, content string) (*ProviderResponse, error) {
	return c.do(ctx, creds, ActionSendMessage, map[string]string{
		"phone":   phone,
		"message": content,
	})
}

func (c *Client) SimulateIncoming(ctx context.Context, creds *Credentials, phone, content string) (*ProviderResponse, error) {
	return c.do(ctx, creds, ActionSimulateIncoming, map[string]string{
		"phone":   phone,
		"message": content,
	})
}

func (c *Client) do(ctx context.Context, creds *Credentials, action string, payload interface{}) (*ProviderResponse, error) {
	body, err := json.Marshal(map[string]interface{}{
		"action":      action,
		"instance_id": creds.InstanceID,
		"payload":     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider request: %w", err)
	}

	url := fmt.Sprintf("%s/instances/%s/actions", creds.BaseURL, creds.InstanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	var out ProviderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	if resp.StatusCode >= 400 && out.Error == "" {
		out.Success = false
		out.Error = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}

	c.logger.Debug().
		Str("action", action).
		Bool("success", out.Success).
		Msg("provider action completed")

	return &out, nil
}
