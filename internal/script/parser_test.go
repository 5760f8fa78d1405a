package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	src := `# monthly budget
create Food

deposit Food 900 initial deposit
withdraw Food 105,55 groceries
transfer Food Clothing 50
balance Food
report Food
chart
chart Food Clothing
`
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cmds) != 8 {
		t.Fatalf("Parse() returned %d commands, want 8", len(cmds))
	}

	tests := []struct {
		idx         int
		line        int
		op          string
		category    string
		target      string
		amount      string
		description string
	}{
		{0, 2, OpCreate, "Food", "", "0", ""},
		{1, 4, OpDeposit, "Food", "", "900", "initial deposit"},
		{2, 5, OpWithdraw, "Food", "", "105.55", "groceries"},
		{3, 6, OpTransfer, "Food", "Clothing", "50", ""},
		{4, 7, OpBalance, "Food", "", "0", ""},
		{5, 8, OpReport, "Food", "", "0", ""},
	}
	for _, tt := range tests {
		cmd := cmds[tt.idx]
		if cmd.Line != tt.line || cmd.Op != tt.op || cmd.Category != tt.category || cmd.Target != tt.target {
			t.Errorf("command %d = %+v", tt.idx, cmd)
		}
		if !cmd.Amount.Equal(decimal.RequireFromString(tt.amount)) {
			t.Errorf("command %d amount = %s, want %s", tt.idx, cmd.Amount, tt.amount)
		}
		if cmd.Description != tt.description {
			t.Errorf("command %d description = %q, want %q", tt.idx, cmd.Description, tt.description)
		}
	}

	if len(cmds[6].Categories) != 0 {
		t.Errorf("bare chart should cover all categories, got %v", cmds[6].Categories)
	}
	if got := strings.Join(cmds[7].Categories, ","); got != "Food,Clothing" {
		t.Errorf("chart categories = %s", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{"unknown command", "create Food\nspend Food 10", "line 2"},
		{"missing name", "create", "line 1"},
		{"extra argument", "balance Food Auto", "line 1"},
		{"missing amount", "deposit Food", "line 1"},
		{"bad amount", "withdraw Food ten", "line 1"},
		{"negative amount", "deposit Food -5", "line 1"},
		{"zero amount", "transfer Food Auto 0", "line 1"},
		{"transfer with description", "transfer Food Auto 5 gift", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse() error = %v, want ErrSyntax", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q should mention %s", err, tt.line)
			}
		})
	}
}

func TestParseLineIsCaseInsensitive(t *testing.T) {
	cmd, err := ParseLine("DEPOSIT Food 1.5")
	if err != nil {
		t.Fatalf("ParseLine() error = %v", err)
	}
	if cmd.Op != OpDeposit || cmd.Category != "Food" {
		t.Errorf("unexpected command %+v", cmd)
	}
}
