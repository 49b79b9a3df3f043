package polymarket

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

const (
	DefaultDataAPIURL = "https://data-api.polymarket.com"
	DefaultTimeout    = 10 * time.Second
	maxErrorBody      = 512
)

// ActivityClient reads wallet activity from the Polymarket data API.
type ActivityClient struct {
	baseURL string
	client  *http.Client
}

func NewActivityClient(baseURL string, timeout time.Duration) *ActivityClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultDataAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ActivityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ActivityClient) Name() string { return "polymarket-data-api" }

// Fetch returns up to limit recent activities for wallet, newest first.
func (c *ActivityClient) Fetch(ctx context.Context, wallet string, limit int) ([]model.Activity, error) {
	params := url.Values{}
	params.Set("user", wallet)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")
	endpoint := fmt.Sprintf("%s/activity?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("polymarket: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polymarket: get activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("polymarket: activity http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polymarket: read activity: %w", err)
	}

	activities, skipped, err := model.ParseActivities(wallet, body)
	if err != nil {
		return nil, fmt.Errorf("polymarket: %w", err)
	}
	for _, e := range skipped {
		log.Warn().Err(e).Str("wallet", wallet).Msg("polymarket: skipping malformed activity")
	}
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

var _ port.ActivitySource = (*ActivityClient)(nil)
