// Package script reads and runs ledger command scripts.
//
// A script holds one command per line:
//
//	create <name>
//	deposit <name> <amount> [description...]
//	withdraw <name> <amount> [description...]
//	transfer <from> <to> <amount>
//	balance <name>
//	report <name>
//	chart [name...]
//
// Blank lines and lines starting with # are ignored.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("syntax error")

// Command verbs.
const (
	OpCreate   = "create"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpBalance  = "balance"
	OpReport   = "report"
	OpChart    = "chart"
)

// Command is one parsed script line.
type Command struct {
	Line        int
	Op          string
	Category    string
	Target      string
	Amount      decimal.Decimal
	Description string
	// Categories lists the chart's categories; empty means all.
	Categories []string
}

// Parse reads a whole script. It stops at the first malformed line.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

// ParseLine parses a single non-empty command line.
func ParseLine(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrSyntax)
	}
	cmd := Command{Op: strings.ToLower(fields[0])}
	args := fields[1:]

	switch cmd.Op {
	case OpCreate, OpBalance, OpReport:
		if err := arity(cmd.Op, args, 1, 1); err != nil {
			return Command{}, err
		}
		cmd.Category = args[0]

	case OpDeposit, OpWithdraw:
		if err := arity(cmd.Op, args, 2, -1); err != nil {
			return Command{}, err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return Command{}, err
		}
		cmd.Category = args[0]
		cmd.Amount = amount
		cmd.Description = strings.Join(args[2:], " ")

	case OpTransfer:
		if err := arity(cmd.Op, args, 3, 3); err != nil {
			return Command{}, err
		}
		amount, err := parseAmount(args[2])
		if err != nil {
			return Command{}, err
		}
		cmd.Category = args[0]
		cmd.Target = args[1]
		cmd.Amount = amount

	case OpChart:
		cmd.Categories = args

	default:
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrSyntax, fields[0])
	}
	return cmd, nil
}

// arity checks the argument count; hi < 0 means unbounded.
func arity(op string, args []string, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return fmt.Errorf("%w: %s expects %s", ErrSyntax, op, usage(op))
	}
	return nil
}

func usage(op string) string {
	switch op {
	case OpCreate, OpBalance, OpReport:
		return "<name>"
	case OpDeposit, OpWithdraw:
		return "<name> <amount> [description]"
	case OpTransfer:
		return "<from> <to> <amount>"
	}
	return ""
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := core.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q: %w", ErrSyntax, s, err)
	}
	return amount, nil
}
