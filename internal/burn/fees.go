package burn

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// GasPolicy prices the burn transaction.
type GasPolicy struct {
	// BufferPct is added on top of the gas estimate.
	BufferPct int64
	// BaseMul multiplies the latest base fee when computing the fee cap.
	BaseMul int64
	// FallbackTip is used when the node cannot suggest a tip.
	FallbackTip *big.Int
	// FallbackGasLimit is used when estimation fails for a non-revert reason.
	FallbackGasLimit uint64
}

func DefaultGasPolicy() GasPolicy {
	return GasPolicy{
		BufferPct:        5,
		BaseMul:          2,
		FallbackTip:      big.NewInt(params.GWei),
		FallbackGasLimit: 90_000,
	}
}

func (g GasPolicy) gasLimit(estimate uint64) uint64 {
	if g.BufferPct <= 0 {
		return estimate
	}
	return estimate + estimate*uint64(g.BufferPct)/100
}

// fees returns tip and fee cap from the latest header.
func (g GasPolicy) fees(ctx context.Context, b Backend) (tip, feeCap *big.Int, err error) {
	h, err := b.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	tip, err = b.SuggestGasTipCap(ctx)
	if err != nil || tip == nil || tip.Sign() <= 0 {
		tip = new(big.Int)
		if g.FallbackTip != nil {
			tip.Set(g.FallbackTip)
		}
	}
	if h.BaseFee == nil {
		return tip, new(big.Int).Set(tip), nil
	}
	mul := g.BaseMul
	if mul < 1 {
		mul = 1
	}
	feeCap = new(big.Int).Mul(h.BaseFee, big.NewInt(mul))
	return tip, feeCap.Add(feeCap, tip), nil
}
