package ledger

import (
	"strings"

	"github.com/pkg/errors"

	"max.ks1230/expenses-tracker/internal/entity/expense"
)

const (
	delimiter  = "|"
	fieldCount = 7
)

// encodeLine joins a record's fields with the delimiter. Today's field values
// are fixed enumerations and numerals, so none can contain the delimiter;
// adding a free-text field later would break the format.
func encodeLine(rec expense.Record) string {
	return strings.Join([]string{
		rec.Amount,
		rec.Currency,
		rec.Converted,
		rec.Category,
		rec.Payment,
		rec.Date,
		rec.Due,
	}, delimiter)
}

func decodeLine(line string) (expense.Record, error) {
	fields := strings.Split(line, delimiter)
	if len(fields) != fieldCount {
		return expense.Record{}, errors.Errorf("want %d fields, got %d", fieldCount, len(fields))
	}
	return expense.Record{
		Amount:    fields[0],
		Currency:  fields[1],
		Converted: fields[2],
		Category:  fields[3],
		Payment:   fields[4],
		Date:      fields[5],
		Due:       fields[6],
	}, nil
}
