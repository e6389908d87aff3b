package convert

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-tracker/internal/clients/rates"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

type fakeProvider struct {
	pair  rates.Pair
	err   error
	calls int
}

func (f *fakeProvider) GetRates(context.Context, string, string) (rates.Pair, error) {
	f.calls++
	return f.pair, f.err
}

type testConfig string

func (c testConfig) ReferenceCurrency() string { return string(c) }

func pairOf(source, reference string) rates.Pair {
	return rates.Pair{
		Source:    decimal.RequireFromString(source),
		Reference: decimal.RequireFromString(reference),
	}
}

func Test_OnReferenceCurrency_ShouldReturnAmountWithoutLookup(t *testing.T) {
	provider := &fakeProvider{}
	converter := New(provider, testConfig("EGP"))

	amount := decimal.RequireFromString("123.45")
	got, err := converter.ToReference(context.Background(), amount, "EGP")

	require.NoError(t, err)
	assert.True(t, got.Equal(amount))
	assert.Zero(t, provider.calls)
}

func Test_OnForeignCurrency_ShouldCrossConvertThroughAnchor(t *testing.T) {
	provider := &fakeProvider{pair: pairOf("0.5", "30.9")}
	converter := New(provider, testConfig("EGP"))

	got, err := converter.ToReference(context.Background(), decimal.RequireFromString("100"), "XTS")

	require.NoError(t, err)
	// 100 / 0.5 * 30.9
	assert.Equal(t, "6180.00", got.StringFixed(2))
	assert.Equal(t, 1, provider.calls)
}

func Test_OnFractionalResult_ShouldRoundHalfUpOnceAtTheEnd(t *testing.T) {
	converter := New(&fakeProvider{pair: pairOf("3", "1")}, testConfig("EGP"))

	got, err := converter.ToReference(context.Background(), decimal.RequireFromString("10"), "XTS")
	require.NoError(t, err)
	assert.Equal(t, "3.33", got.StringFixed(2))

	converter = New(&fakeProvider{pair: pairOf("1", "1")}, testConfig("EGP"))
	got, err = converter.ToReference(context.Background(), decimal.RequireFromString("1.005"), "XTS")
	require.NoError(t, err)
	assert.Equal(t, "1.01", got.StringFixed(2))
}

func Test_OnProviderFailure_ShouldPropagateRateErrorUnchanged(t *testing.T) {
	want := &customerr.RateError{Reason: customerr.RateTimeout}
	converter := New(&fakeProvider{err: want}, testConfig("EGP"))

	_, err := converter.ToReference(context.Background(), decimal.RequireFromString("10"), "USD")

	var rateErr *customerr.RateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, customerr.RateTimeout, rateErr.Reason)
}
