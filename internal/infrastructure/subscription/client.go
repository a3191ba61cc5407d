// Package subscription adapts the external subscription service's HTTP API to
// the coverage.SubscriptionProvider interface. The provider owns checkout,
// proration and invoicing; this engine only consumes derived coverage.
package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/shared/config"
	"seatwise/internal/shared/logger"
)

const (
	defaultRequestTimeout = 10 * time.Second
	// Maximum response body size for coverage payloads (256KB)
	maxResponseSize = 256 << 10
)

// coverageResponse is the provider's wire format for derived coverage.
type coverageResponse struct {
	Active      bool     `json:"active"`
	Status      string   `json:"status"`
	Features    []string `json:"features"`
	PeriodStart int64    `json:"period_start"`
	PeriodEnd   int64    `json:"period_end"`
	Charges     []struct {
		Feature     string `json:"feature"`
		AmountCents int64  `json:"amount_cents"`
		Currency    string `json:"currency"`
	} `json:"charges"`
}

// HTTPClient implements coverage.SubscriptionProvider over the provider's
// REST API.
type HTTPClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     logger.Interface
}

// NewHTTPClient creates a subscription provider client from configuration.
func NewHTTPClient(cfg *config.SubscriptionProviderConfig, logger logger.Interface) *HTTPClient {
	timeout := defaultRequestTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &HTTPClient{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

var _ coverage.SubscriptionProvider = (*HTTPClient)(nil)

// GetIndividualCoverage fetches the learner's current individual coverage.
// A 404 means the learner has no subscription and returns (nil, nil).
func (c *HTTPClient) GetIndividualCoverage(ctx context.Context, learnerID uint, asOf time.Time) (*coverage.IndividualCoverage, error) {
	url := fmt.Sprintf("%s/api/v1/learners/%d/coverage?as_of=%d", c.baseURL, learnerID, asOf.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create coverage request: %w", err)
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coverage.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: provider returned %d", coverage.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected provider response %d for learner %d", resp.StatusCode, learnerID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage response: %w", err)
	}

	var payload coverageResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode coverage response: %w", err)
	}
	if !payload.Active {
		return nil, nil
	}

	features := make([]coverage.FeatureKey, 0, len(payload.Features))
	for _, f := range payload.Features {
		features = append(features, coverage.FeatureKey(f))
	}

	charges := make(map[coverage.FeatureKey]coverage.Money, len(payload.Charges))
	for _, charge := range payload.Charges {
		key := coverage.FeatureKey(charge.Feature)
		amount := coverage.NewMoney(charge.AmountCents, charge.Currency)
		if existing, ok := charges[key]; ok {
			// Duplicate subscription items for the same feature: charges
			// accumulate even though coverage collapses to one set member.
			sum, err := existing.Add(amount)
			if err != nil {
				return nil, fmt.Errorf("inconsistent charge currencies for feature %s: %w", key, err)
			}
			amount = sum
		}
		charges[key] = amount
	}

	c.logger.Debugw("individual coverage fetched",
		"learner_id", learnerID,
		"status", payload.Status,
		"feature_count", len(features),
	)

	return &coverage.IndividualCoverage{
		Features:        coverage.NewFeatureSet(features...),
		PeriodStart:     time.Unix(payload.PeriodStart, 0).UTC(),
		PeriodEnd:       time.Unix(payload.PeriodEnd, 0).UTC(),
		Status:          coverage.SubscriptionStatus(payload.Status),
		ChargeByFeature: charges,
	}, nil
}
