package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budget/internal/amqp"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/metrics"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryExists    = errors.New("category already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// EventPublisher receives one message per ledger entry.
type EventPublisher interface {
	PublishEntry(ctx context.Context, msg *amqp.EntryRecordedMessage) error
}

// SpendChart is a rendered spend chart together with the numbers behind it.
type SpendChart struct {
	Text      string
	Breakdown []core.CategorySpend
}

// Book keeps named categories and runs ledger operations on them, recording
// metrics and publishing an event for every entry written.
type Book struct {
	mu         sync.RWMutex
	categories map[string]*core.Category
	order      []string

	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *applog.Logger

	// gaugeMu orders balance gauge writes so the last one carries the
	// latest balance.
	gaugeMu sync.Mutex
}

// NewBook creates an empty book. publisher and m may be nil.
func NewBook(publisher EventPublisher, m *metrics.Metrics, logger *applog.Logger) *Book {
	return &Book{
		categories: make(map[string]*core.Category),
		publisher:  publisher,
		metrics:    m,
		logger:     logger.WithComponent(applog.ComponentBook),
	}
}

// CreateCategory adds an empty category. Names are unique within a book.
func (b *Book) CreateCategory(ctx context.Context, name string) (*core.Category, error) {
	if err := core.ValidateName(name); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.categories[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrCategoryExists, name)
	}
	c := core.NewCategory(name)
	b.categories[name] = c
	b.order = append(b.order, name)

	b.logger.InfoContext(ctx, "Category created", applog.FieldCategory, name)
	b.observe(applog.OpCreate, true)
	b.setBalance(c)
	return c, nil
}

// Category looks a category up by name.
func (b *Book) Category(name string) (*core.Category, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.categories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return c, nil
}

// Categories returns all categories in creation order.
func (b *Book) Categories() []*core.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*core.Category, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.categories[name])
	}
	return out
}

// Deposit adds amount to the named category.
func (b *Book) Deposit(ctx context.Context, name string, amount decimal.Decimal, description string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	c, err := b.Category(name)
	if err != nil {
		return err
	}

	balance := c.Deposit(amount, description)

	b.logger.InfoContext(ctx, "Deposit recorded", entryFields(applog.OpDeposit, name, amount, description, true)...)
	b.observe(applog.OpDeposit, true)
	b.setBalance(c)
	b.publish(ctx, amqp.NewEntryRecordedMessage(name, amqp.KindDeposit, amount, description, balance))
	return nil
}

// Withdraw takes amount out of the named category. It returns
// ErrInsufficientFunds, leaving the category unchanged, when the balance does
// not exceed amount.
func (b *Book) Withdraw(ctx context.Context, name string, amount decimal.Decimal, description string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	c, err := b.Category(name)
	if err != nil {
		return err
	}

	balance, ok := c.TryWithdraw(amount, description)
	b.observe(applog.OpWithdraw, ok)
	if !ok {
		b.logger.WarnContext(ctx, "Withdrawal rejected", entryFields(applog.OpWithdraw, name, amount, description, false)...)
		return fmt.Errorf("withdraw %s from %s: %w", core.FormatAmount(amount), name, ErrInsufficientFunds)
	}

	b.logger.InfoContext(ctx, "Withdrawal recorded", entryFields(applog.OpWithdraw, name, amount, description, true)...)
	b.setBalance(c)
	b.publish(ctx, amqp.NewEntryRecordedMessage(name, amqp.KindWithdrawal, amount.Neg(), description, balance))
	return nil
}

// Transfer moves amount between two categories of the book.
func (b *Book) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	src, err := b.Category(from)
	if err != nil {
		return err
	}
	dst, err := b.Category(to)
	if err != nil {
		return err
	}

	srcBalance, dstBalance, ok := src.TryTransfer(amount, dst)
	b.observe(applog.OpTransfer, ok)
	fields := entryFields(applog.OpTransfer, from, amount, "", ok)
	fields = append(fields, applog.FieldTarget, to)
	if !ok {
		b.logger.WarnContext(ctx, "Transfer rejected", fields...)
		if src == dst {
			return fmt.Errorf("%w: cannot transfer %s to itself", core.ErrInvalidInput, from)
		}
		return fmt.Errorf("transfer %s from %s to %s: %w", core.FormatAmount(amount), from, to, ErrInsufficientFunds)
	}
	b.logger.InfoContext(ctx, "Transfer recorded", fields...)
	b.setBalance(src)
	b.setBalance(dst)

	transferID := uuid.NewString()
	out := amqp.NewEntryRecordedMessage(from, amqp.KindTransferOut, amount.Neg(), "Transfer to "+to, srcBalance)
	in := amqp.NewEntryRecordedMessage(to, amqp.KindTransferIn, amount, "Transfer from "+from, dstBalance)
	out.TransferID, in.TransferID = transferID, transferID
	b.publish(ctx, out)
	b.publish(ctx, in)
	return nil
}

// Balance returns the named category's balance.
func (b *Book) Balance(name string) (decimal.Decimal, error) {
	c, err := b.Category(name)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Balance(), nil
}

// Report renders the named category's statement.
func (b *Book) Report(name string) (string, error) {
	c, err := b.Category(name)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// SpendChart renders the spend chart for the named categories, or for every
// category when no name is given.
func (b *Book) SpendChart(ctx context.Context, names ...string) (SpendChart, error) {
	var categories []*core.Category
	if len(names) == 0 {
		categories = b.Categories()
	} else {
		for _, name := range names {
			c, err := b.Category(name)
			if err != nil {
				return SpendChart{}, err
			}
			categories = append(categories, c)
		}
	}

	breakdown, err := core.SpendBreakdown(categories)
	if err != nil {
		b.logger.WarnContext(ctx, "Spend chart not rendered", applog.FieldError, err)
		return SpendChart{}, fmt.Errorf("spend chart: %w", err)
	}

	b.logger.DebugContext(ctx, "Spend chart rendered", "categories", len(breakdown))
	return SpendChart{
		Text:      core.RenderSpendChart(breakdown),
		Breakdown: breakdown,
	}, nil
}

// Close closes the publisher when it holds resources.
func (b *Book) Close() error {
	if closer, ok := b.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}

// publish never fails the ledger operation: entries are already recorded.
func (b *Book) publish(ctx context.Context, msg *amqp.EntryRecordedMessage) {
	if b.publisher == nil {
		b.logger.DebugContext(ctx, "No publisher configured, skipping ledger event", "kind", msg.Kind)
		return
	}
	if err := b.publisher.PublishEntry(ctx, msg); err != nil {
		b.logger.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldCategory, msg.Category,
			"kind", msg.Kind,
			applog.FieldError, err)
	}
}

func (b *Book) observe(op string, applied bool) {
	if b.metrics != nil {
		b.metrics.ObserveOperation(op, applied)
	}
}

// setBalance reads the balance while holding gaugeMu.
func (b *Book) setBalance(c *core.Category) {
	if b.metrics == nil {
		return
	}
	b.gaugeMu.Lock()
	defer b.gaugeMu.Unlock()
	b.metrics.SetBalance(c.Name(), c.Balance())
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", core.ErrInvalidAmount, amount)
	}
	return nil
}

func entryFields(op, category string, amount decimal.Decimal, description string, ok bool) []any {
	return applog.NewFields().
		WithOperation(op).
		WithEntry(category, core.FormatAmount(amount), description).
		WithSuccess(ok).
		ToSlice()
}
