// Package gstprovider implements the outbound client for the external GSTIN
// verification service and the normalizer that flattens its response shapes.
package gstprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealerdesk/dealerdesk/internal/domain"
)

// Config carries the provider connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the GSTIN verification provider over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a provider client. An empty base URL or API key leaves the
// client unconfigured; Lookup must not be called on an unconfigured client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Configured reports whether provider credentials are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// providerResponse is the provider's envelope. Some vendors signal
// application-level failure through "flag", others through "success".
type providerResponse struct {
	Flag    *bool           `json:"flag"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (r providerResponse) rejected() bool {
	if r.Flag != nil {
		return !*r.Flag
	}
	if r.Success != nil {
		return !*r.Success
	}
	return false
}

func (r providerResponse) rejectionMessage() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return "lookup rejected by provider"
}

// Lookup fetches and normalizes the taxpayer record for a GSTIN. Transport
// errors and timeouts map to ErrProviderUnreachable, application-level
// rejections to ErrProviderRejected.
func (c *Client) Lookup(ctx context.Context, gstin string) (*domain.TaxpayerInfo, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(gstin))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("gstin", gstin).Msg("gstin provider request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProviderUnreachable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Warn().Int("status", resp.StatusCode).Str("gstin", gstin).Msg("gstin provider returned server error")
		return nil, fmt.Errorf("%w: provider status %d", domain.ErrProviderUnreachable, resp.StatusCode)
	}

	var envelope providerResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrProviderRejected, err)
	}

	if resp.StatusCode != http.StatusOK || envelope.rejected() {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderRejected, envelope.rejectionMessage())
	}

	payload := map[string]any{}
	raw := body
	if len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", domain.ErrProviderRejected, err)
	}

	return Normalize(gstin, payload), nil
}
