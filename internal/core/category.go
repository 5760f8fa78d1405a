package core

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Deposit appends a positive entry, raises the balance by amount and returns
// the resulting balance.
func (c *Category) Deposit(amount decimal.Decimal, description string) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.append(amount, description)
	return c.balance
}

// Withdraw records a withdrawal when funds are available. It reports false and
// leaves the category untouched otherwise.
func (c *Category) Withdraw(amount decimal.Decimal, description string) bool {
	_, ok := c.TryWithdraw(amount, description)
	return ok
}

// TryWithdraw is Withdraw that also returns the balance left by the
// operation, read under the same lock.
func (c *Category) TryWithdraw(amount decimal.Decimal, description string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fundsAvailable(amount) {
		return c.balance, false
	}
	c.append(amount.Neg(), description)
	return c.balance, true
}

// Transfer moves amount from c to target, recording one leg in each ledger.
// Both categories are locked for the whole operation, so either both legs are
// visible or neither is. A transfer to itself is rejected rather than recorded
// as two offsetting legs, and so is a transfer to nil.
func (c *Category) Transfer(amount decimal.Decimal, target *Category) bool {
	_, _, ok := c.TryTransfer(amount, target)
	return ok
}

// TryTransfer is Transfer that also returns both balances as left by the
// operation, read while both categories are still locked. When target is nil
// or c itself the balances are zero.
func (c *Category) TryTransfer(amount decimal.Decimal, target *Category) (from, to decimal.Decimal, ok bool) {
	if target == nil || target == c {
		return decimal.Zero, decimal.Zero, false
	}

	first, second := c, target
	if bytes.Compare(target.id[:], c.id[:]) < 0 {
		first, second = target, c
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if !c.fundsAvailable(amount) {
		return c.balance, target.balance, false
	}
	c.append(amount.Neg(), "Transfer to "+target.name)
	target.append(amount, "Transfer from "+c.name)
	return c.balance, target.balance, true
}

// Balance returns the current balance.
func (c *Category) Balance() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.balance
}

// Ledger returns a copy of the entries in insertion order.
func (c *Category) Ledger() []LedgerEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]LedgerEntry(nil), c.ledger...)
}

// Spent returns the gross amount withdrawn or transferred out.
func (c *Category) Spent() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spent := decimal.Zero
	for _, e := range c.ledger {
		if e.Amount.IsNegative() {
			spent = spent.Sub(e.Amount)
		}
	}
	return spent
}

// String renders the category as a fixed-width statement: a 30 character
// title, one line per entry and the running total.
func (c *Category) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder
	b.WriteString(titleLine(c.name))
	b.WriteByte('\n')
	for _, e := range c.ledger {
		b.WriteString(entryLine(e))
		b.WriteByte('\n')
	}
	b.WriteString("Total: ")
	b.WriteString(c.balance.String())
	return b.String()
}

// fundsAvailable is strict: the full balance cannot be withdrawn.
// Callers must hold c.mu.
func (c *Category) fundsAvailable(amount decimal.Decimal) bool {
	return amount.LessThan(c.balance)
}

// append must be called with c.mu held for writing.
func (c *Category) append(amount decimal.Decimal, description string) {
	c.ledger = append(c.ledger, LedgerEntry{Amount: amount, Description: description})
	c.balance = c.balance.Add(amount)
}
