package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/entity/expense"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/reports"
	"max.ks1230/expenses-tracker/internal/model/tracker"
)

const commandTimeoutSeconds = 15

const (
	okMessage             = "Gotcha!"
	dontUnderstandMessage = "I don't understand that. Type /help"
	noExpensesMessage     = "You have no expenses yet"
	byeMessage            = "Bye!"

	needRowNumberMessage = "Give me a row number, e.g. /edit 0"
	notEditingMessage    = "Nothing is being edited. Pick a row with /edit first"
	noSuchRowMessage     = "There is no such row"

	savedAnywayMessage = "Saved in memory, but writing the data file failed; it will be retried on the next change"
)

const fieldSeparator = ","

// errQuit breaks the input loop; it never reaches the user.
var errQuit = errors.New("quit")

type handler func(ctx context.Context, arg string) (string, error)

type handlerMap map[string]handler

// Client is the console front-end: one blocking read-eval-print loop over the
// tracker service, the only driver of mutations in a session.
type Client struct {
	service     *tracker.Service
	handlersMap handlerMap
	in          io.Reader
	out         io.Writer
}

func New(service *tracker.Service, in io.Reader, out io.Writer) *Client {
	c := &Client{
		service: service,
		in:      in,
		out:     out,
	}
	c.handlersMap = newMap(c)
	return c
}

func newMap(c *Client) handlerMap {
	m := make(handlerMap)
	m["/help"] = c.handleHelp
	m["/add"] = c.handleAdd
	m["/list"] = c.handleList
	m["/total"] = c.handleTotal
	m["/report"] = c.handleReport
	m["/edit"] = c.handleEdit
	m["/update"] = c.handleUpdate
	m["/cancel"] = c.handleCancel
	m["/delete"] = c.handleDelete
	m["/quit"] = c.handleQuit

	return m
}

// Run reads commands until EOF, /quit or ctx cancellation.
func (c *Client) Run(ctx context.Context) {
	fmt.Fprintln(c.out, "Expenses tracker. Type /help for commands.")

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		reply, err := c.handleLine(ctx, scanner.Text())
		if err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(c.out, reply)
				return
			}
			logger.Error("command failed", zap.Error(err))
		}
		if reply != "" {
			fmt.Fprintln(c.out, reply)
		}
	}
}

func (c *Client) handleLine(ctx context.Context, line string) (string, error) {
	cmd, arg := parseCommand(line)
	if cmd == "" && arg == "" {
		return "", nil
	}

	h, ok := c.handlersMap[cmd]
	if !ok {
		return dontUnderstandMessage, nil
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeoutSeconds*time.Second)
	defer cancel()
	return h(ctx, arg)
}

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", 2)

	if len(split) == 2 {
		return split[0], strings.TrimSpace(split[1])
	}
	if strings.HasPrefix(text, "/") {
		return text, ""
	}
	return "", text
}

func (c *Client) handleHelp(context.Context, string) (string, error) {
	lines := []string{
		"Commands:",
		"  /add amount, currency, category, payment[, date[, due date]]",
		"      e.g. /add 100, USD, Shopping, Cash, 2026-01-02",
		"  /list              show all expenses, newest first",
		"  /total             running total in " + c.service.Reference(),
		"  /report [" + strings.Join(reports.Periods(), "|") + "]",
		"  /edit N            load row N into an editing session",
		"  /update fields     replace the row being edited",
		"  /cancel            abandon the editing session",
		"  /delete N          remove row N",
		"  /quit",
		"",
		"Categories: " + strings.Join(expense.Categories, ", "),
		"Payment methods: " + strings.Join(expense.Payments, ", "),
		"Dates are YYYY-MM-DD and default to today.",
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Client) handleAdd(ctx context.Context, arg string) (string, error) {
	rec, err := c.service.SubmitNew(ctx, parseFields(arg))
	if err != nil {
		if reply, ok := describeFailure(err); ok {
			return reply, err
		}
		return savedAnywayMessage, err
	}
	return okMessage + " " + describeRecord(rec, c.service.Reference()), nil
}

func (c *Client) handleList(context.Context, string) (string, error) {
	recs := c.service.Records()
	if len(recs) == 0 {
		return noExpensesMessage, nil
	}

	lines := make([]string, 0, len(recs))
	for i, rec := range recs {
		lines = append(lines, fmt.Sprintf("%d) %s", i, describeRecord(rec, c.service.Reference())))
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Client) handleTotal(context.Context, string) (string, error) {
	return "Total: " + c.service.Total().StringFixed(2) + " " + c.service.Reference(), nil
}

func (c *Client) handleReport(_ context.Context, arg string) (string, error) {
	report, err := reports.Generate(c.service.Records(), arg)
	if err != nil {
		return "Unknown period. Try one of: " + strings.Join(reports.Periods(), ", "), err
	}
	return report, nil
}

func (c *Client) handleEdit(_ context.Context, arg string) (string, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return needRowNumberMessage, nil
	}

	fields, err := c.service.BeginEdit(index)
	if err != nil {
		return noSuchRowMessage, err
	}

	prefill := strings.Join([]string{
		fields.Amount, fields.Currency, fields.Category,
		fields.Payment, fields.Date, fields.Due,
	}, fieldSeparator+" ")
	return fmt.Sprintf("Editing row %d: %s\nSubmit with /update fields, or /cancel", index, prefill), nil
}

func (c *Client) handleUpdate(ctx context.Context, arg string) (string, error) {
	index, ok := c.service.Editing()
	if !ok {
		return notEditingMessage, nil
	}

	rec, err := c.service.Update(ctx, index, parseFields(arg))
	if err != nil {
		if reply, replyOK := describeFailure(err); replyOK {
			return reply, err
		}
		return savedAnywayMessage, err
	}
	return okMessage + " " + describeRecord(rec, c.service.Reference()), nil
}

func (c *Client) handleCancel(context.Context, string) (string, error) {
	c.service.Cancel()
	return okMessage, nil
}

func (c *Client) handleDelete(ctx context.Context, arg string) (string, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return needRowNumberMessage, nil
	}

	if err = c.service.Remove(ctx, index); err != nil {
		if reply, ok := describeFailure(err); ok {
			return reply, err
		}
		return savedAnywayMessage, err
	}
	return okMessage, nil
}

func (c *Client) handleQuit(context.Context, string) (string, error) {
	return byeMessage, errQuit
}

func parseFields(arg string) tracker.Fields {
	parts := strings.Split(arg, fieldSeparator)
	for len(parts) < 6 {
		parts = append(parts, "")
	}
	return tracker.Fields{
		Amount:   strings.TrimSpace(parts[0]),
		Currency: strings.TrimSpace(parts[1]),
		Category: strings.TrimSpace(parts[2]),
		Payment:  strings.TrimSpace(parts[3]),
		Date:     strings.TrimSpace(parts[4]),
		Due:      strings.TrimSpace(parts[5]),
	}
}

func describeRecord(rec expense.Record, reference string) string {
	desc := fmt.Sprintf("%s %s -> %s %s | %s | %s | %s",
		rec.Amount, rec.Currency, rec.Converted, reference,
		rec.Category, rec.Payment, rec.Date)
	if rec.Due != "" && rec.Due != rec.Date {
		desc += " (due " + rec.Due + ")"
	}
	return desc
}

// describeFailure maps operation errors onto user guidance. The second result
// is false for persistence failures, which need the saved-anyway wording.
func describeFailure(err error) (string, bool) {
	var validationErr *customerr.ValidationError
	if errors.As(err, &validationErr) {
		lines := make([]string, 0, len(validationErr.Issues)+1)
		lines = append(lines, "That doesn't look right:")
		for _, issue := range validationErr.Issues {
			lines = append(lines, "  - "+issue)
		}
		return strings.Join(lines, "\n"), true
	}

	var rateErr *customerr.RateError
	if errors.As(err, &rateErr) {
		switch rateErr.Reason {
		case customerr.RateTimeout:
			return "The exchange-rate service timed out. Check your connection and try again", true
		case customerr.RateUnreachable:
			return "Can't reach the exchange-rate service. Check your connection", true
		case customerr.RateUnsupportedCurrency:
			return "That currency is not supported by the rate service", true
		case customerr.RateHTTPError:
			return fmt.Sprintf("The exchange-rate service answered with status %d. Try later", rateErr.Status), true
		default:
			return "The exchange-rate service sent something unexpected. Try later", true
		}
	}

	if errors.Is(err, customerr.ErrOutOfRange) {
		return noSuchRowMessage, true
	}
	if errors.Is(err, tracker.ErrNotEditing) {
		return notEditingMessage, true
	}

	var persistErr *customerr.PersistError
	if errors.As(err, &persistErr) {
		return "", false
	}
	return "Sorry, something wrong happened...", true
}
