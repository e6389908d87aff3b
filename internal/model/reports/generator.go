package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
)

var periodStarts = map[string]func() time.Time{
	"":      func() time.Time { return time.Time{} },
	"week":  now.BeginningOfWeek,
	"month": now.BeginningOfMonth,
	"year":  now.BeginningOfYear,
}

// Periods lists the supported report periods.
func Periods() []string {
	res := make([]string, 0, len(periodStarts))
	for k := range periodStarts {
		if k != "" {
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return res
}

type line struct {
	category string
	amount   decimal.Decimal
}

// Generate renders a category breakdown of the reference-currency amounts in
// records, optionally filtered to the current week, month or year. It is a
// pure function of the snapshot; rows with unparsable dates or amounts are
// skipped and logged, same policy as the running total.
func Generate(records []expense.Record, period string) (string, error) {
	startOf, ok := periodStarts[period]
	if !ok {
		return "", errors.Errorf("report period %q is not supported", period)
	}

	filtered := filterAfter(records, startOf())
	if len(filtered) == 0 {
		return "no expenses for this period", nil
	}

	return render(group(filtered)), nil
}

func filterAfter(records []expense.Record, after time.Time) []expense.Record {
	if after.IsZero() {
		return records
	}
	res := make([]expense.Record, 0, len(records))
	for i, rec := range records {
		date, err := time.Parse(expense.DateLayout, rec.Date)
		if err != nil {
			logger.Warn("skipping row with unparsable date",
				zap.Int("row", i), zap.String("date", rec.Date))
			continue
		}
		if !date.Before(after) {
			res = append(res, rec)
		}
	}
	return res
}

func group(records []expense.Record) []line {
	m := make(map[string]decimal.Decimal)
	for i, rec := range records {
		amount, err := decimal.NewFromString(strings.TrimSpace(rec.Converted))
		if err != nil {
			logger.Warn("skipping row with unparsable reference amount",
				zap.Int("row", i), zap.String("value", rec.Converted))
			continue
		}
		m[rec.Category] = m[rec.Category].Add(amount)
	}

	lines := make([]line, 0, len(m))
	for cat, amount := range m {
		lines = append(lines, line{category: cat, amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].amount.Equal(lines[j].amount) {
			return lines[i].category < lines[j].category
		}
		return lines[i].amount.GreaterThan(lines[j].amount)
	})
	return lines
}

func render(lines []line) string {
	total := decimal.Zero
	res := make([]string, 0, len(lines)+2)
	for _, l := range lines {
		res = append(res, l.category+": "+l.amount.StringFixed(2))
		total = total.Add(l.amount)
	}
	res = append(res, "", "Total: "+total.StringFixed(2))
	return strings.Join(res, "\n")
}
