package burn

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var (
	ErrInvalidPercent    = errors.New("invalid percentage")
	ErrPercentOutOfRange = errors.New("percentage out of range [0.01, 100]")
)

var percentPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

var (
	minPercent = big.NewRat(1, 100)
	maxPercent = big.NewRat(100, 1)
	thousand   = big.NewInt(1000)
)

// Percent is an exact decimal percentage. The zero value is 0%.
type Percent struct {
	r *big.Rat
}

var (
	MinPercent = Percent{r: minPercent}
	Full       = Percent{r: maxPercent}
)

// NewPercent returns a whole-number percentage.
func NewPercent(v int64) Percent { return Percent{r: big.NewRat(v, 1)} }

// ParsePercent parses plain decimal text such as "80", "12.5" or ".5".
func ParsePercent(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	if !percentPattern.MatchString(s) {
		return Percent{}, fmt.Errorf("%w: %q", ErrInvalidPercent, s)
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Percent{}, fmt.Errorf("%w: %q", ErrInvalidPercent, s)
	}
	return Percent{r: r}, nil
}

// ClampPercent parses user input and pins it into [0.01, 100].
func ClampPercent(s string) (Percent, error) {
	p, err := ParsePercent(s)
	if err != nil {
		return Percent{}, err
	}
	return p.Clamp(), nil
}

func (p Percent) rat() *big.Rat {
	if p.r == nil {
		return new(big.Rat)
	}
	return p.r
}

// Rat returns a copy of the underlying value.
func (p Percent) Rat() *big.Rat { return new(big.Rat).Set(p.rat()) }

func (p Percent) Cmp(q Percent) int { return p.rat().Cmp(q.rat()) }

func (p Percent) InRange() bool {
	return p.rat().Cmp(minPercent) >= 0 && p.rat().Cmp(maxPercent) <= 0
}

func (p Percent) Clamp() Percent {
	switch {
	case p.rat().Cmp(minPercent) < 0:
		return MinPercent
	case p.rat().Cmp(maxPercent) > 0:
		return Full
	}
	return p
}

// IsFull reports exactly 100%.
func (p Percent) IsFull() bool { return p.rat().Cmp(maxPercent) == 0 }

// Milli is floor(p * 1000). Sub-milli-percent digits are dropped.
func (p Percent) Milli() *big.Int {
	v := new(big.Rat).Mul(p.rat(), new(big.Rat).SetInt(thousand))
	return new(big.Int).Quo(v.Num(), v.Denom())
}

// String renders up to three decimals without trailing zeros.
func (p Percent) String() string {
	s := p.rat().FloatString(3)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
