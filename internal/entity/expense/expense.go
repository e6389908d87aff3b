package expense

// DateLayout is the calendar format used for expense and due dates.
const DateLayout = "2006-01-02"

// Sentinel placeholders shown by a front-end when nothing is chosen yet.
// They are rejected by validation and never stored.
const (
	CategorySentinel = "Select Category"
	PaymentSentinel  = "Select Payment Method"
)

// Categories is the fixed category set.
var Categories = []string{
	"Food & Dining", "Transportation", "Utilities",
	"Entertainment", "Healthcare", "Personal Care",
	"Education", "Gifts & Donations", "Shopping",
	"Housing", "Insurance", "Savings & Investments", "Other",
}

// Payments is the fixed payment-method set.
var Payments = []string{
	"Cash", "Credit Card", "Debit Card",
	"Mobile Payment", "Bank Transfer", "Check", "Digital Wallet",
}

// Record is one stored expense row in normalized textual form. Amount and
// Converted are fixed to two decimals, dates follow DateLayout. All invariants
// are enforced at the submission boundary; a record read back from disk is
// kept as-is under the tolerant-load policy.
type Record struct {
	Amount    string
	Currency  string
	Converted string
	Category  string
	Payment   string
	Date      string
	Due       string
}

func KnownCategory(v string) bool {
	return contains(Categories, v)
}

func KnownPayment(v string) bool {
	return contains(Payments, v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
