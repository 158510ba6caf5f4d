package knapsack

import (
	"fmt"
	"math"
)

// FormatRatio renders a profit/weight ratio for display. A weightless item
// with positive profit has an infinite ratio, shown as the literal "inf";
// every finite ratio uses three decimals like the rest of the trace.
func FormatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.3f", v)
}
