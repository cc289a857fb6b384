package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aureon/opportunity-engine/internal/rules"
)

// Should-Cost Model
//
// Bottom-up price estimate from a labor mix:
//
//   direct   = Σ category_median × 173 hours/month × months × fte
//   overhead = direct × (overhead_rate - 1)
//   subtotal = direct + overhead
//   profit   = subtotal × margin
//   total    = subtotal + profit
//
// All arithmetic is decimal; results are exact to the cent.

// hoursPerMonth is the standard full-time labor month.
const hoursPerMonth = 173

// LaborCost is the cost breakdown for one labor category.
type LaborCost struct {
	FTECount   int             `json:"fteCount"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// ShouldCost is the full should-cost breakdown.
type ShouldCost struct {
	LaborBreakdown map[string]LaborCost `json:"laborBreakdown"`
	DirectLabor    decimal.Decimal      `json:"directLabor"`
	OverheadCost   decimal.Decimal      `json:"overheadCost"`
	OverheadRate   decimal.Decimal      `json:"overheadRate"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	ProfitMargin   decimal.Decimal      `json:"profitMargin"`
	Profit         decimal.Decimal      `json:"profit"`
	TotalPrice     decimal.Decimal      `json:"totalPrice"`
	DurationMonths int                  `json:"durationMonths"`
	PricePerMonth  decimal.Decimal      `json:"pricePerMonth"`
	SkippedCategories []string          `json:"skippedCategories,omitempty"`
}

// CalculateShouldCost computes the estimate for a labor mix of
// category -> FTE count. Categories absent from the benchmark table are
// skipped and reported. durationMonths defaults to 12 when non-positive.
func (s *Service) CalculateShouldCost(laborMix map[string]int, durationMonths int, overheadRate, profitMargin decimal.Decimal) ShouldCost {
	if durationMonths <= 0 {
		durationMonths = 12
	}

	totalHours := decimal.NewFromInt(int64(hoursPerMonth * durationMonths))
	laborCosts := make(map[string]LaborCost, len(laborMix))
	directLabor := decimal.Zero
	var skipped []string

	// Iterate in sorted order so the skipped list is stable.
	categories := make([]string, 0, len(laborMix))
	for cat := range laborMix {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fte := laborMix[cat]
		benchmark, ok := rules.LaborRate(cat)
		if !ok {
			skipped = append(skipped, cat)
			continue
		}
		cost := benchmark.MedianRate.Mul(totalHours).Mul(decimal.NewFromInt(int64(fte)))
		laborCosts[cat] = LaborCost{
			FTECount:   fte,
			HourlyRate: benchmark.MedianRate,
			TotalCost:  cost,
		}
		directLabor = directLabor.Add(cost)
	}

	overheadCost := directLabor.Mul(overheadRate.Sub(decimal.NewFromInt(1)))
	subtotal := directLabor.Add(overheadCost)
	profit := subtotal.Mul(profitMargin)
	total := subtotal.Add(profit)

	return ShouldCost{
		LaborBreakdown:    laborCosts,
		DirectLabor:       directLabor,
		OverheadCost:      overheadCost,
		OverheadRate:      overheadRate,
		Subtotal:          subtotal,
		ProfitMargin:      profitMargin,
		Profit:            profit,
		TotalPrice:        total,
		DurationMonths:    durationMonths,
		PricePerMonth:     total.Div(decimal.NewFromInt(int64(durationMonths))).Round(2),
		SkippedCategories: skipped,
	}
}
