package utils

import "math"

// RoundHalfUp rounds to the nearest integer, halves away from zero for positive values.
func RoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// ConvertCurrency converts a provider amount into local currency and adds a flat markup.
func ConvertCurrency(amount, rate float64, markup int64) int64 {
	converted := RoundHalfUp(amount*rate) + markup
	if converted < 0 {
		return 0
	}
	return converted
}
