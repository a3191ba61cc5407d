package subscription_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/infrastructure/subscription"
	"seatwise/internal/shared/config"
	"seatwise/internal/shared/logger"
)

func newClient(t *testing.T, handler http.HandlerFunc) *subscription.HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &config.SubscriptionProviderConfig{BaseURL: server.URL, TimeoutSeconds: 2}
	return subscription.NewHTTPClient(cfg, logger.NewLogger())
}

func TestGetIndividualCoverageAccumulatesDuplicateItems(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"active": true,
			"status": "active",
			"features": ["MODULE_ELA"],
			"period_start": 1767243600,
			"period_end": 1769835600,
			"charges": [
				{"feature": "MODULE_ELA", "amount_cents": 500, "currency": "USD"},
				{"feature": "MODULE_ELA", "amount_cents": 499, "currency": "USD"}
			]
		}`))
	})

	individual, err := client.GetIndividualCoverage(context.Background(), 42, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, individual)

	charge := individual.ChargeFor(coverage.FeatureKey("MODULE_ELA"))
	assert.Equal(t, int64(999), charge.AmountInCents())
	assert.Equal(t, "USD", charge.Currency())
}

func TestGetIndividualCoverageRejectsMixedCurrencyItems(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"active": true,
			"status": "active",
			"features": ["MODULE_ELA"],
			"period_start": 1767243600,
			"period_end": 1769835600,
			"charges": [
				{"feature": "MODULE_ELA", "amount_cents": 500, "currency": "USD"},
				{"feature": "MODULE_ELA", "amount_cents": 499, "currency": "EUR"}
			]
		}`))
	})

	individual, err := client.GetIndividualCoverage(context.Background(), 42, time.Now().UTC())
	require.Error(t, err)
	assert.Nil(t, individual)
	assert.ErrorIs(t, err, coverage.ErrCurrencyMismatch)
}

func TestGetIndividualCoverageNotFoundMeansNoSubscription(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	individual, err := client.GetIndividualCoverage(context.Background(), 42, time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, individual)
}
