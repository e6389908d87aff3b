package rates

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"max.ks1230/expenses-tracker/internal/model/customerr"
)

const apiKeyParam = "apikey"

type config interface {
	APIKey() string
	BaseURL() string
	TimeoutSeconds() int64
}

// Pair carries the two anchor-relative rates needed to cross-convert an
// amount into the reference currency.
type Pair struct {
	Source    decimal.Decimal
	Reference decimal.Decimal
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(cfg config) *Client {
	return &Client{
		apiKey:  cfg.APIKey(),
		baseURL: cfg.BaseURL(),
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds()) * time.Second,
		},
	}
}

// rate values arrive as bare numbers or quoted strings depending on the
// service plan, so they are kept raw and parsed leniently
type ratesResponse struct {
	Rates map[string]json.RawMessage `json:"rates"`
}

// GetRates issues one request to the rate service and returns the rates for
// code and reference, both relative to the service's anchor currency.
// Failures come back as *customerr.RateError. The call is idempotent and
// performs no caching.
func (c *Client) GetRates(ctx context.Context, code, reference string) (Pair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return Pair{}, &customerr.RateError{Reason: customerr.RateUnreachable, Cause: err}
	}

	q := req.URL.Query()
	q.Add(apiKeyParam, c.apiKey)
	req.URL.RawQuery = q.Encode()

	res, err := c.client.Do(req)
	if err != nil {
		reason := customerr.RateUnreachable
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			reason = customerr.RateTimeout
		}
		return Pair{}, &customerr.RateError{Reason: reason, Cause: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Pair{}, &customerr.RateError{Reason: customerr.RateHTTPError, Status: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Pair{}, &customerr.RateError{Reason: customerr.RateMalformedResponse, Cause: err}
	}

	var parsed ratesResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return Pair{}, &customerr.RateError{Reason: customerr.RateMalformedResponse, Cause: errors.Wrap(err, "unmarshalling response")}
	}

	source, ok := parsed.Rates[code]
	if !ok {
		return Pair{}, &customerr.RateError{
			Reason: customerr.RateUnsupportedCurrency,
			Cause:  errors.Errorf("no rate for %s", code),
		}
	}
	ref, ok := parsed.Rates[reference]
	if !ok {
		return Pair{}, &customerr.RateError{
			Reason: customerr.RateMalformedResponse,
			Cause:  errors.Errorf("no rate for reference currency %s", reference),
		}
	}

	pair, err := parsePair(source, ref)
	if err != nil {
		return Pair{}, &customerr.RateError{Reason: customerr.RateMalformedResponse, Cause: err}
	}
	return pair, nil
}

func parsePair(source, reference json.RawMessage) (Pair, error) {
	src, err := parseRate(source)
	if err != nil {
		return Pair{}, errors.Wrap(err, "parsing source rate")
	}
	ref, err := parseRate(reference)
	if err != nil {
		return Pair{}, errors.Wrap(err, "parsing reference rate")
	}
	if src.IsZero() {
		return Pair{}, errors.New("zero source rate")
	}
	return Pair{Source: src, Reference: ref}, nil
}

func parseRate(raw json.RawMessage) (decimal.Decimal, error) {
	value := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return decimal.NewFromString(value)
}
