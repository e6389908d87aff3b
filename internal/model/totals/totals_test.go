package totals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"max.ks1230/expenses-tracker/internal/entity/expense"
)

func withReference(converted string) expense.Record {
	return expense.Record{
		Amount:    converted,
		Currency:  "EGP",
		Converted: converted,
		Category:  "Other",
		Payment:   "Cash",
		Date:      "2026-01-02",
		Due:       "2026-01-02",
	}
}

func Test_OnEmptyLedger_ShouldReturnZero(t *testing.T) {
	assert.Equal(t, "0.00", Sum(nil).StringFixed(2))
}

func Test_OnWellFormedRecords_ShouldSumReferenceAmounts(t *testing.T) {
	total := Sum([]expense.Record{
		withReference("100.00"),
		withReference("50.00"),
		withReference("0.50"),
	})
	assert.Equal(t, "150.50", total.StringFixed(2))
}

func Test_OnCorruptReferenceAmount_ShouldSkipItNotBlankTheTotal(t *testing.T) {
	total := Sum([]expense.Record{
		withReference("100.00"),
		withReference("corrupt"),
		withReference("50.00"),
	})
	assert.Equal(t, "150.00", total.StringFixed(2))
}
