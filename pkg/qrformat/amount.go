package qrformat

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// fixedLimit is the magnitude above which fixed-point formatting falls back
// to the shortest float representation.
const fixedLimit = 1e21

// formatAmount parses s as a float64 and renders it with exactly two
// decimals. Rounding works on the exact binary value of the float, with
// ties going away from zero.
func formatAmount(s string) (string, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return toFixed2(f), true
}

func toFixed2(f float64) string {
	if math.Abs(f) >= fixedLimit {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	r := new(big.Rat).SetFloat64(f)
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	digits := n.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}
