package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-tracker/internal/model/customerr"
)

type testConfig struct {
	url     string
	timeout int64
}

func (c testConfig) APIKey() string  { return "test-key" }
func (c testConfig) BaseURL() string { return c.url }
func (c testConfig) TimeoutSeconds() int64 {
	if c.timeout == 0 {
		return 2
	}
	return c.timeout
}

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func reasonOf(t *testing.T, err error) customerr.RateReason {
	t.Helper()
	var rateErr *customerr.RateError
	require.ErrorAs(t, err, &rateErr)
	return rateErr.Reason
}

func Test_OnWellFormedResponse_ShouldReturnBothRates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": {"USD": "1.0", "SAR": "3.75", "EGP": "30.9"}}`)
	defer srv.Close()

	pair, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "SAR", "EGP")
	require.NoError(t, err)
	assert.True(t, pair.Source.Equal(decimal.RequireFromString("3.75")))
	assert.True(t, pair.Reference.Equal(decimal.RequireFromString("30.9")))
}

func Test_OnNumericRates_ShouldAcceptThemToo(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": {"USD": 0.5, "EGP": 30.9}}`)
	defer srv.Close()

	pair, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	require.NoError(t, err)
	assert.True(t, pair.Source.Equal(decimal.RequireFromString("0.5")))
}

func Test_OnNonSuccessStatus_ShouldReturnHTTPErrorWithStatus(t *testing.T) {
	srv := newTestServer(t, http.StatusBadGateway, `upstream down`)
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	var rateErr *customerr.RateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, customerr.RateHTTPError, rateErr.Reason)
	assert.Equal(t, http.StatusBadGateway, rateErr.Status)
}

func Test_OnMissingTargetCurrency_ShouldReturnUnsupportedCurrency(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": {"USD": "1.0", "EGP": "30.9"}}`)
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "XTS", "EGP")
	assert.Equal(t, customerr.RateUnsupportedCurrency, reasonOf(t, err))
}

func Test_OnMissingReferenceCurrency_ShouldReturnMalformedResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": {"USD": "1.0"}}`)
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	assert.Equal(t, customerr.RateMalformedResponse, reasonOf(t, err))
}

func Test_OnBrokenBody_ShouldReturnMalformedResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": `)
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	assert.Equal(t, customerr.RateMalformedResponse, reasonOf(t, err))
}

func Test_OnUnparsableRateValue_ShouldReturnMalformedResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": {"USD": "1.0", "EGP": "n/a"}}`)
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	assert.Equal(t, customerr.RateMalformedResponse, reasonOf(t, err))
}

func Test_OnZeroSourceRate_ShouldReturnMalformedResponse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"rates": {"USD": "0", "EGP": "30.9"}}`)
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	assert.Equal(t, customerr.RateMalformedResponse, reasonOf(t, err))
}

func Test_OnClosedServer_ShouldReturnUnreachable(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	srv.Close()

	_, err := New(testConfig{url: srv.URL}).GetRates(context.Background(), "USD", "EGP")
	assert.Equal(t, customerr.RateUnreachable, reasonOf(t, err))
}

func Test_OnSlowServer_ShouldReturnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}))
	defer srv.Close()

	_, err := New(testConfig{url: srv.URL, timeout: 1}).GetRates(context.Background(), "USD", "EGP")
	assert.Equal(t, customerr.RateTimeout, reasonOf(t, err))
}
