package utils

import "math"

// Round2 rounds x to 2 decimal places. All money amounts (prices,
// installments, revenue sums) pass through here before persisting or
// comparing.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
