package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/totals"
	"max.ks1230/expenses-tracker/internal/model/validate"
)

// ErrNotEditing is returned for a submit-update outside an editing session.
var ErrNotEditing = errors.New("no row is being edited")

// Fields is one raw form submission, exactly as the user typed it.
type Fields struct {
	Amount   string
	Currency string
	Category string
	Payment  string
	Date     string
	Due      string
}

type converter interface {
	ToReference(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error)
	Reference() string
}

type store interface {
	Insert(rec expense.Record) error
	Update(index int, rec expense.Record) error
	Delete(index int) error
	All() []expense.Record
	Len() int
}

// mode is the edit state of the session.
type mode int

const (
	modeIdle mode = iota
	modeEditing
)

// Service is the user-facing surface of the tracker: it validates raw
// submissions, converts them into the reference currency and applies them to
// the store. It also owns the idle/editing state machine, so selection state
// never lives in front-end globals.
//
// Operations are meant to be driven serially by a single front-end loop;
// the store guards its own mutate-then-persist pair.
type Service struct {
	store     store
	converter converter

	mode      mode
	editIndex int
}

func NewService(store store, converter converter) *Service {
	return &Service{
		store:     store,
		converter: converter,
	}
}

// SubmitNew validates f, converts it and prepends the resulting record.
// Validation and conversion failures abort with no mutation. A persistence
// failure comes back as *customerr.PersistError with the record already
// committed in memory.
func (s *Service) SubmitNew(ctx context.Context, f Fields) (rec expense.Record, err error) {
	err = s.instrument(ctx, "submitNew", func(ctx context.Context) error {
		var opErr error
		rec, opErr = s.buildRecord(ctx, f)
		if opErr != nil {
			return opErr
		}
		s.toIdle()
		return s.store.Insert(rec)
	})
	return rec, err
}

// Update replaces the row selected with BeginEdit. The index must match the
// editing session started earlier; the state machine goes back to idle only
// when the replacement succeeds.
func (s *Service) Update(ctx context.Context, index int, f Fields) (rec expense.Record, err error) {
	err = s.instrument(ctx, "update", func(ctx context.Context) error {
		if s.mode != modeEditing || s.editIndex != index {
			return ErrNotEditing
		}
		var opErr error
		rec, opErr = s.buildRecord(ctx, f)
		if opErr != nil {
			return opErr
		}
		opErr = s.store.Update(index, rec)
		if opErr != nil && errors.Is(opErr, customerr.ErrOutOfRange) {
			return opErr
		}
		s.toIdle()
		return opErr
	})
	return rec, err
}

// Remove deletes the row at index and resets any editing session, the same
// way the form clears after a delete.
func (s *Service) Remove(ctx context.Context, index int) error {
	return s.instrument(ctx, "remove", func(context.Context) error {
		err := s.store.Delete(index)
		if err != nil && errors.Is(err, customerr.ErrOutOfRange) {
			return err
		}
		s.toIdle()
		return err
	})
}

// BeginEdit selects the row at index for editing and returns its fields for
// the front-end to prefill.
func (s *Service) BeginEdit(index int) (Fields, error) {
	recs := s.store.All()
	if index < 0 || index >= len(recs) {
		return Fields{}, customerr.ErrOutOfRange
	}

	s.mode = modeEditing
	s.editIndex = index

	rec := recs[index]
	return Fields{
		Amount:   rec.Amount,
		Currency: rec.Currency,
		Category: rec.Category,
		Payment:  rec.Payment,
		Date:     rec.Date,
		Due:      rec.Due,
	}, nil
}

// Cancel abandons the current editing session.
func (s *Service) Cancel() {
	s.toIdle()
}

// Editing reports the selected row while an editing session is active.
func (s *Service) Editing() (int, bool) {
	return s.editIndex, s.mode == modeEditing
}

// Reference names the currency all totals are expressed in.
func (s *Service) Reference() string {
	return s.converter.Reference()
}

// Records returns the current ledger view, newest first.
func (s *Service) Records() []expense.Record {
	return s.store.All()
}

// Total recomputes the running reference-currency total from the ledger.
func (s *Service) Total() decimal.Decimal {
	return totals.Sum(s.store.All())
}

func (s *Service) buildRecord(ctx context.Context, f Fields) (expense.Record, error) {
	f = withDateDefaults(f)

	if err := validate.All(f.Amount, f.Currency, f.Category, f.Payment, f.Date, f.Due); err != nil {
		return expense.Record{}, err
	}

	amount, err := validate.Amount(f.Amount)
	if err != nil {
		return expense.Record{}, err
	}
	code, err := validate.Currency(f.Currency)
	if err != nil {
		return expense.Record{}, err
	}

	converted, err := s.converter.ToReference(ctx, amount, code)
	if err != nil {
		return expense.Record{}, err
	}

	return expense.Record{
		Amount:    amount.StringFixed(2),
		Currency:  code,
		Converted: converted.StringFixed(2),
		Category:  strings.TrimSpace(f.Category),
		Payment:   strings.TrimSpace(f.Payment),
		Date:      strings.TrimSpace(f.Date),
		Due:       strings.TrimSpace(f.Due),
	}, nil
}

func withDateDefaults(f Fields) Fields {
	if strings.TrimSpace(f.Date) == "" {
		f.Date = time.Now().Format(expense.DateLayout)
	}
	if strings.TrimSpace(f.Due) == "" {
		f.Due = f.Date
	}
	return f
}

func (s *Service) toIdle() {
	s.mode = modeIdle
	s.editIndex = 0
}

func (s *Service) instrument(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	observeOperation(op, elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}
