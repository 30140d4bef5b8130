package simulator

import (
	"math"
	"strconv"
	"strings"
)

// num renders a float the way operators see it in event text: shortest
// form, with a trailing ".0" on whole numbers.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// num1 is num after rounding to one decimal place.
func num1(v float64) string {
	return num(math.Round(v*10) / 10)
}
