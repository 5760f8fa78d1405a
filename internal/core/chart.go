package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const chartHeader = "Percentage spent by category"

var hundred = decimal.NewFromInt(100)

// SpendBreakdown computes each category's gross spend and its share of the
// combined spend, floored to a multiple of ten. The result is ordered by
// percentage, highest first; equal percentages keep the input order.
//
// It fails with ErrNoSpending when nothing was spent across the categories.
func SpendBreakdown(categories []*Category) ([]CategorySpend, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidInput)
	}

	spends := make([]CategorySpend, len(categories))
	total := decimal.Zero
	for i, c := range categories {
		if c == nil {
			return nil, fmt.Errorf("%w: nil category at index %d", ErrInvalidInput, i)
		}
		spent := c.Spent()
		spends[i] = CategorySpend{Name: c.Name(), Spent: spent}
		total = total.Add(spent)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoSpending)
	}

	for i := range spends {
		spends[i].Percent = bucket(spends[i].Spent, total)
	}
	sort.SliceStable(spends, func(i, j int) bool {
		return spends[i].Percent > spends[j].Percent
	})
	return spends, nil
}

// bucket floors the share of spent in total to a multiple of ten percent.
// The quotient is exact; Div would round before the floor.
func bucket(spent, total decimal.Decimal) int {
	q, _ := spent.Mul(hundred).QuoRem(total, 0)
	p := int(q.IntPart())
	return p - p%10
}

// CreateSpendChart renders the categories' spend shares as a vertical bar
// chart with the category names written top to bottom underneath.
func CreateSpendChart(categories []*Category) (string, error) {
	spends, err := SpendBreakdown(categories)
	if err != nil {
		return "", err
	}
	return RenderSpendChart(spends), nil
}

// RenderSpendChart lays out an already computed breakdown. Bars are drawn in
// the order given.
func RenderSpendChart(spends []CategorySpend) string {
	var b strings.Builder
	b.WriteString(chartHeader)
	b.WriteByte('\n')

	rowWidth := 0
	for threshold := 100; threshold >= 0; threshold -= 10 {
		row := fmt.Sprintf("%3d| ", threshold)
		for _, s := range spends {
			if s.Percent >= threshold {
				row += "o  "
			} else {
				row += "   "
			}
		}
		rowWidth = len(row)
		b.WriteString(row)
		b.WriteByte('\n')
	}

	b.WriteString("    ")
	b.WriteString(strings.Repeat("-", rowWidth-4))
	b.WriteByte('\n')

	names := make([][]rune, len(spends))
	longest := 0
	for i, s := range spends {
		names[i] = []rune(s.Name)
		if len(names[i]) > longest {
			longest = len(names[i])
		}
	}
	for y := 0; y <= longest; y++ {
		b.WriteString("     ")
		for _, name := range names {
			if y < len(name) {
				b.WriteRune(name[y])
				b.WriteString("  ")
			} else {
				b.WriteString("   ")
			}
		}
		if y < longest {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
