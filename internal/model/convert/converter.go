package convert

import (
	"context"

	"github.com/shopspring/decimal"

	"max.ks1230/expenses-tracker/internal/clients/rates"
)

type ratesProvider interface {
	GetRates(ctx context.Context, code, reference string) (rates.Pair, error)
}

type config interface {
	ReferenceCurrency() string
}

// Converter cross-converts amounts into the reference currency through the
// rate service's anchor currency.
type Converter struct {
	provider  ratesProvider
	reference string
}

func New(provider ratesProvider, cfg config) *Converter {
	return &Converter{
		provider:  provider,
		reference: cfg.ReferenceCurrency(),
	}
}

func (c *Converter) Reference() string {
	return c.reference
}

// ToReference converts amount from code into the reference currency.
// The reference currency itself short-circuits with no network call.
// Rounding is half-up to 2 decimals, applied once at the final result; the
// intermediate anchor-currency amount keeps full precision.
func (c *Converter) ToReference(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if code == c.reference {
		return amount, nil
	}

	pair, err := c.provider.GetRates(ctx, code, c.reference)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Div(pair.Source).Mul(pair.Reference).Round(2), nil
}
