package core

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// LedgerEntry is one recorded deposit, withdrawal or transfer leg.
	// Positive amounts are deposits and incoming transfers, negative amounts
	// withdrawals and outgoing transfers.
	LedgerEntry struct {
		Amount      decimal.Decimal
		Description string
	}

	// Category is a named budget with an ordered ledger and a running balance.
	// The balance always equals the sum of the ledger amounts.
	Category struct {
		mu      sync.RWMutex
		id      uuid.UUID
		name    string
		ledger  []LedgerEntry
		balance decimal.Decimal
	}

	// CategorySpend is a category's gross spend and its share of the total,
	// floored to a multiple of ten.
	CategorySpend struct {
		Name    string
		Spent   decimal.Decimal
		Percent int
	}
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoSpending    = errors.New("no spending recorded")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty category name")
)

// NewCategory creates an empty category with zero balance.
func NewCategory(name string) *Category {
	return &Category{
		id:      uuid.New(),
		name:    name,
		balance: decimal.Zero,
	}
}

// Name returns the category name.
func (c *Category) Name() string {
	return c.name
}

// ID returns the identity used to order locks between categories.
func (c *Category) ID() uuid.UUID {
	return c.id
}
