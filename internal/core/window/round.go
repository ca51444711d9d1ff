package window

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Percent returns num/den*100 rounded to places decimals.
// Arithmetic is exact until the final rounding step; a zero denominator yields 0.
func Percent(num, den int64, places int32) float64 {
	if den == 0 {
		return 0
	}
	v := decimal.NewFromInt(num).Mul(hundred).Div(decimal.NewFromInt(den))
	return v.Round(places).InexactFloat64()
}

// Ratio returns num/den rounded to places decimals; a zero denominator yields 0.
func Ratio(num, den int64, places int32) float64 {
	if den == 0 {
		return 0
	}
	v := decimal.NewFromInt(num).Div(decimal.NewFromInt(den))
	return v.Round(places).InexactFloat64()
}

// PercentDiff returns round((a-b)/den*100) as an integer score, with halves
// rounded up toward positive infinity (-0.5 -> 0, 0.5 -> 1).
// Used for net scores where both terms share the same denominator.
func PercentDiff(a, b, den int64) int {
	if den == 0 {
		return 0
	}
	v := decimal.NewFromInt(a - b).Mul(hundred).Div(decimal.NewFromInt(den))
	return int(v.Add(half).Floor().IntPart())
}

// AverageMinutes returns total/count expressed in minutes, rounded to places
// decimals; a zero count yields 0.
func AverageMinutes(total time.Duration, count int64, places int32) float64 {
	if count == 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(time.Minute))).
		Div(decimal.NewFromInt(count))
	return v.Round(places).InexactFloat64()
}
