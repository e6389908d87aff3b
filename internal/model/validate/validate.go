package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"max.ks1230/expenses-tracker/internal/entity/currency"
	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

var (
	ErrAmountEmpty       = errors.New("amount is required")
	ErrAmountMalformed   = errors.New("amount must be a plain number, e.g. 100 or 100.50")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountTooLarge    = errors.New("amount is too large")

	ErrCurrencyEmpty   = errors.New("currency is required")
	ErrCurrencyLength  = errors.New("currency code must be 3 letters, e.g. USD")
	ErrCurrencyUnknown = errors.New("unknown currency code")

	ErrCategoryNotSelected = errors.New("category is not selected")
	ErrCategoryUnknown     = errors.New("unknown category")
	ErrPaymentNotSelected  = errors.New("payment method is not selected")
	ErrPaymentUnknown      = errors.New("unknown payment method")

	ErrDateMalformed = errors.New("date must be YYYY-MM-DD")
)

// amountPattern is the accepted numeral grammar: no sign, no thousands
// separators, optional fractional part.
var amountPattern = regexp.MustCompile(`^\d+\.?\d*$`)

var maxAmount = decimal.NewFromInt(999_999_999)

// Amount checks a raw amount string and returns its decimal value.
func Amount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, ErrAmountEmpty
	}
	if !amountPattern.MatchString(text) {
		return decimal.Zero, ErrAmountMalformed
	}
	// the grammar allows a trailing dot, decimal.NewFromString does not
	if strings.HasSuffix(text, ".") {
		text += "0"
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, ErrAmountMalformed
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return amount, nil
}

// Currency normalizes a raw currency string and checks it against the
// ISO-4217 alpha-3 set.
func Currency(text string) (string, error) {
	code := currency.Normalize(text)
	if code == "" {
		return "", ErrCurrencyEmpty
	}
	if len(code) != currency.CodeLength {
		return "", ErrCurrencyLength
	}
	if !currency.Known(code) {
		return "", ErrCurrencyUnknown
	}
	return code, nil
}

func Category(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || value == expense.CategorySentinel {
		return ErrCategoryNotSelected
	}
	if !expense.KnownCategory(value) {
		return ErrCategoryUnknown
	}
	return nil
}

func Payment(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || value == expense.PaymentSentinel {
		return ErrPaymentNotSelected
	}
	if !expense.KnownPayment(value) {
		return ErrPaymentUnknown
	}
	return nil
}

// Date checks a raw date string against the fixed YYYY-MM-DD layout and
// returns it trimmed.
func Date(text string) (string, error) {
	text = strings.TrimSpace(text)
	if _, err := time.Parse(expense.DateLayout, text); err != nil {
		return "", ErrDateMalformed
	}
	return text, nil
}

// All runs every field check and collects every violation, so a front-end
// can report them together instead of one at a time.
func All(amount, curr, category, payment, date, due string) error {
	var issues []string

	if _, err := Amount(amount); err != nil {
		issues = append(issues, err.Error())
	}
	if _, err := Currency(curr); err != nil {
		issues = append(issues, err.Error())
	}
	if err := Category(category); err != nil {
		issues = append(issues, err.Error())
	}
	if err := Payment(payment); err != nil {
		issues = append(issues, err.Error())
	}
	if _, err := Date(date); err != nil {
		issues = append(issues, "expense "+err.Error())
	}
	if _, err := Date(due); err != nil {
		issues = append(issues, "due "+err.Error())
	}

	if len(issues) > 0 {
		return &customerr.ValidationError{Issues: issues}
	}
	return nil
}
