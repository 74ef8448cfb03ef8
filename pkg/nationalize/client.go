package nationalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ggorockee/nameorigin/internal/logger"
)

var (
	// ErrRateLimited indicates the upstream API rejected the call with 429
	ErrRateLimited = errors.New("nationalize: rate limit exceeded")
	// ErrUnavailable indicates a transport failure or an unexpected response
	ErrUnavailable = errors.New("nationalize: service unavailable")
)

// CountryPrediction is one ranked guess from the predictor. Probability is
// a pointer so a missing field in the payload is distinguishable from 0.
type CountryPrediction struct {
	CountryID   string   `json:"country_id"`
	Probability *float64 `json:"probability"`
}

type predictResponse struct {
	Count   int                 `json:"count"`
	Name    string              `json:"name"`
	Country []CountryPrediction `json:"country"`
}

// Client calls the Nationalize.io name-nationality predictor
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Predict returns the ranked country guesses for name, in upstream order.
// A successful call with no guesses returns (nil, nil).
func (c *Client) Predict(ctx context.Context, name string) ([]CountryPrediction, error) {
	log := logger.GetLogger("nationalize")

	reqURL := fmt.Sprintf("%s?name=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("request failed for name %q: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		log.Warnf("rate limited for name %q", name)
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		log.Warnf("unexpected status %d for name %q", resp.StatusCode, name)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warnf("failed to decode response for name %q: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(payload.Country) == 0 {
		return nil, nil
	}
	return payload.Country, nil
}
