package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/services"
)

// Runner executes parsed commands against a book.
type Runner struct {
	book   *services.Book
	logger *applog.Logger

	lastChart *services.SpendChart
}

// NewRunner creates a runner logging under the script component.
func NewRunner(book *services.Book, logger *applog.Logger) *Runner {
	return &Runner{
		book:   book,
		logger: logger.WithComponent(applog.ComponentScript),
	}
}

// Run executes cmds in order and writes their output to w.
//
// Rejected withdrawals, transfers and charts are reported on w and the run
// continues. Any other failure, such as an unknown category, stops the run.
func (r *Runner) Run(ctx context.Context, cmds []Command, w io.Writer) error {
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("line %d: %w", cmd.Line, err)
		}

		lineCtx := applog.WithLogger(ctx, r.logger.With(applog.FieldLine, cmd.Line))
		err := r.exec(lineCtx, cmd, w)
		if err == nil {
			continue
		}
		logger := applog.FromContext(lineCtx)
		if reason, ok := rejection(err); ok {
			logger.DebugContext(ctx, "Command rejected",
				applog.FieldOperation, cmd.Op,
				applog.FieldError, err)
			if _, werr := fmt.Fprintf(w, "%s rejected: %s\n", cmd.Op, reason); werr != nil {
				return werr
			}
			continue
		}
		logger.ErrorContext(ctx, "Script aborted",
			applog.FieldOperation, cmd.Op,
			applog.FieldError, err)
		return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Op, err)
	}
	return nil
}

// LastChart returns the most recent chart rendered by Run, if any.
func (r *Runner) LastChart() (services.SpendChart, bool) {
	if r.lastChart == nil {
		return services.SpendChart{}, false
	}
	return *r.lastChart, true
}

func (r *Runner) exec(ctx context.Context, cmd Command, w io.Writer) error {
	switch cmd.Op {
	case OpCreate:
		if _, err := r.book.CreateCategory(ctx, cmd.Category); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "created %s\n", cmd.Category)
		return err

	case OpDeposit:
		return r.book.Deposit(ctx, cmd.Category, cmd.Amount, cmd.Description)

	case OpWithdraw:
		return r.book.Withdraw(ctx, cmd.Category, cmd.Amount, cmd.Description)

	case OpTransfer:
		return r.book.Transfer(ctx, cmd.Category, cmd.Target, cmd.Amount)

	case OpBalance:
		balance, err := r.book.Balance(cmd.Category)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s: %s\n", cmd.Category, core.FormatAmount(balance))
		return err

	case OpReport:
		report, err := r.book.Report(cmd.Category)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, report)
		return err

	case OpChart:
		chart, err := r.book.SpendChart(ctx, cmd.Categories...)
		if err != nil {
			return err
		}
		r.lastChart = &chart
		_, err = fmt.Fprintln(w, chart.Text)
		return err
	}
	return fmt.Errorf("%w: unknown command %q", ErrSyntax, cmd.Op)
}

// rejection reports whether err is an outcome the script carries on after,
// and the short reason to print for it.
func rejection(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return services.ErrInsufficientFunds.Error(), true
	case errors.Is(err, core.ErrNoSpending):
		return core.ErrNoSpending.Error(), true
	case errors.Is(err, core.ErrInvalidInput):
		return err.Error(), true
	}
	return "", false
}
