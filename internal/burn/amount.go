package burn

import (
	"errors"
	"math/big"
)

var ErrInvalidBalance = errors.New("balance must be a non-negative integer")

var hundredThousand = big.NewInt(100_000)

// Calculate returns the smallest-unit amount for burning p of balance.
// 100% returns the balance untouched; anything else is
// balance * floor(p*1000) / 100000 with integer division. A zero result for a
// tiny percentage is valid.
func Calculate(balance *big.Int, p Percent) (*big.Int, error) {
	if balance == nil || balance.Sign() < 0 {
		return nil, ErrInvalidBalance
	}
	if !p.InRange() {
		return nil, ErrPercentOutOfRange
	}
	if p.IsFull() {
		return new(big.Int).Set(balance), nil
	}
	amount := new(big.Int).Mul(balance, p.Milli())
	return amount.Quo(amount, hundredThousand), nil
}
