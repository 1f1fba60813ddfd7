package staking

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewClient(ClientConfig{
		HTTPClient:   hc,
		MaxRetries:   1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestFindStakingAddresses(t *testing.T) {
	t.Run("returns stake accounts", func(t *testing.T) {
		c := newTestClient(t)
		httpmock.RegisterResponderWithQuery(
			http.MethodGet,
			DefaultEndpoint,
			"paw_address=paw_1abc",
			httpmock.NewStringResponder(http.StatusOK, `{"stake_accounts":["paw_1stake","paw_3stake"]}`),
		)

		got, err := c.FindStakingAddresses(context.Background(), "paw_1abc")
		require.NoError(t, err)
		assert.Equal(t, []string{"paw_1stake", "paw_3stake"}, got)
	})
	t.Run("empty body means no accounts", func(t *testing.T) {
		c := newTestClient(t)
		httpmock.RegisterResponder(http.MethodGet, DefaultEndpoint, httpmock.NewStringResponder(http.StatusOK, "null"))

		got, err := c.FindStakingAddresses(context.Background(), "paw_1abc")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("missing field means no accounts", func(t *testing.T) {
		c := newTestClient(t)
		httpmock.RegisterResponder(http.MethodGet, DefaultEndpoint, httpmock.NewStringResponder(http.StatusOK, `{}`))

		got, err := c.FindStakingAddresses(context.Background(), "paw_1abc")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
	t.Run("retries server errors then gives up", func(t *testing.T) {
		c := newTestClient(t)
		httpmock.RegisterResponder(http.MethodGet, DefaultEndpoint, httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy"))

		_, err := c.FindStakingAddresses(context.Background(), "paw_1abc")
		assert.Error(t, err)
		assert.Equal(t, 2, httpmock.GetTotalCallCount())
	})
	t.Run("client errors are not retried", func(t *testing.T) {
		c := newTestClient(t)
		httpmock.RegisterResponder(http.MethodGet, DefaultEndpoint, httpmock.NewStringResponder(http.StatusNotFound, "nope"))

		_, err := c.FindStakingAddresses(context.Background(), "paw_1abc")
		assert.ErrorContains(t, err, "unexpected status 404")
		assert.Equal(t, 1, httpmock.GetTotalCallCount())
	})
	t.Run("malformed json", func(t *testing.T) {
		c := newTestClient(t)
		httpmock.RegisterResponder(http.MethodGet, DefaultEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"stake_accounts":`))

		_, err := c.FindStakingAddresses(context.Background(), "paw_1abc")
		assert.ErrorContains(t, err, "decode staking response")
	})
	t.Run("address is required", func(t *testing.T) {
		c := newTestClient(t)
		_, err := c.FindStakingAddresses(context.Background(), " ")
		assert.Error(t, err)
		assert.Zero(t, httpmock.GetTotalCallCount())
	})
}

func TestLookupURL(t *testing.T) {
	c := NewClient(ClientConfig{Endpoint: "https://apps.paw.digital/staking/stake_addresses.php?lang=en"})

	got, err := c.LookupURL(" paw_1a&b=c ")
	require.NoError(t, err)
	assert.Equal(t, "https://apps.paw.digital/staking/stake_addresses.php?lang=en&paw_address=paw_1a%26b%3Dc", got)
	assert.Equal(t, 1, strings.Count(got, "?"))

	_, err = c.LookupURL("  ")
	assert.Error(t, err)
}
