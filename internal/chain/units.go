package chain

import (
	"math/big"
	"strings"
)

// FormatUnits renders v scaled down by 10^decimals without trailing zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	if decimals == 0 {
		return v.String()
	}
	d := int(decimals)
	s := new(big.Int).Abs(v).String()
	neg := v.Sign() < 0
	var out string
	if len(s) <= d {
		frac := strings.TrimRight(strings.Repeat("0", d-len(s))+s, "0")
		out = "0"
		if frac != "" {
			out = "0." + frac
		}
	} else {
		out = s[:len(s)-d]
		if frac := strings.TrimRight(s[len(s)-d:], "0"); frac != "" {
			out += "." + frac
		}
	}
	if neg {
		return "-" + out
	}
	return out
}

// ToFloat converts a smallest-unit amount to human units.
func ToFloat(v *big.Int, decimals uint8) float64 {
	if v == nil {
		return 0
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	f, _ := new(big.Rat).SetFrac(v, scale).Float64()
	return f
}
