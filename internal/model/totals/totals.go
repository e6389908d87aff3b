package totals

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
)

// Sum folds the stored reference-currency amounts over records. It is
// recomputed from scratch on every call rather than kept as a running
// counter, so partial failures can never make it drift.
//
// A record whose stored amount does not parse contributes 0 and is logged
// (skip-and-log policy); one corrupted row must not blank the whole total.
func Sum(records []expense.Record) decimal.Decimal {
	total := decimal.Zero
	for i, rec := range records {
		val, err := decimal.NewFromString(strings.TrimSpace(rec.Converted))
		if err != nil {
			logger.Warn("skipping unparsable reference amount",
				zap.Int("row", i), zap.String("value", rec.Converted))
			continue
		}
		total = total.Add(val)
	}
	return total
}
