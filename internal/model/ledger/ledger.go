package ledger

import (
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/customerr"
)

type config interface {
	DataFile() string
}

// Ledger is the session's ordered expense collection, newest first, mirrored
// to a flat data file on every mutation. The mutex keeps mutate-then-rewrite
// atomic should a front-end ever drive it from more than one goroutine.
type Ledger struct {
	mu      sync.Mutex
	records []expense.Record
	path    string
}

func New(cfg config) *Ledger {
	return &Ledger{path: cfg.DataFile()}
}

// Load reads the data file if it exists, appending rows in file order.
// A line with the wrong field count is skipped and logged, never fatal, so
// one corrupted row does not take the rest of the file with it.
func (l *Ledger) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "reading data file")
	}

	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, err := decodeLine(line)
		if err != nil {
			logger.Warn("skipping malformed data line",
				zap.Int("line", i+1), zap.Error(err))
			continue
		}
		l.records = append(l.records, rec)
	}
	return nil
}

// Insert prepends rec and rewrites the data file.
func (l *Ledger) Insert(rec expense.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]expense.Record{rec}, l.records...)
	return l.persist()
}

// Update replaces the record at index wholesale and rewrites the data file.
func (l *Ledger) Update(index int, rec expense.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.records) {
		return customerr.ErrOutOfRange
	}
	l.records[index] = rec
	return l.persist()
}

// Delete removes the record at index and rewrites the data file.
func (l *Ledger) Delete(index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.records) {
		return customerr.ErrOutOfRange
	}
	l.records = append(l.records[:index], l.records[index+1:]...)
	return l.persist()
}

// All returns a snapshot of the current records, newest first.
func (l *Ledger) All() []expense.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]expense.Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// persist rewrites the whole file so it always reflects memory exactly.
// On failure the in-memory mutation stands and the caller gets a
// *customerr.PersistError to report.
func (l *Ledger) persist() error {
	var sb strings.Builder
	for _, rec := range l.records {
		sb.WriteString(encodeLine(rec))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(l.path, []byte(sb.String()), 0o644); err != nil {
		return &customerr.PersistError{Cause: err}
	}
	return nil
}
