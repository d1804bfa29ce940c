// Package classifier flags fee-on-transfer, rebasing and similar tokens that
// tend to revert on full-balance transfers.
package classifier

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ligun0805/token-inferno/internal/abis"
)

const FeeWarning = "This appears to be a fee-on-transfer token. Consider using a lower burn percentage."

// FeeAccessors are probed in this order; the first positive one wins.
var FeeAccessors = []string{
	"_taxFee",
	"getFeePercent",
	"getTotalFee",
	"getTransferFeeRate",
	"transferFee",
	"fee",
}

// Keywords are matched against name and symbol in this order.
var Keywords = []string{
	"rebase", "elastic", "fee", "tax", "reflection",
	"rewards", "dividend", "yield", "stake", "deflationary",
}

func KeywordWarning(kw string) string {
	return fmt.Sprintf("This might be a %s token. Consider using a lower burn percentage.", kw)
}

// ContractReader is the chain access the classifier needs.
type ContractReader interface {
	Call(ctx context.Context, chainID uint64, to common.Address, data []byte) ([]byte, error)
	TokenString(ctx context.Context, chainID uint64, token common.Address, method string) (string, bool)
}

// Heuristic classifies by fee accessor probes, then by keywords.
type Heuristic struct {
	reader ContractReader
	log    *zap.SugaredLogger
}

var _ Classifier = (*Heuristic)(nil)

func NewHeuristic(reader ContractReader, log *zap.SugaredLogger) *Heuristic {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Heuristic{reader: reader, log: log}
}

// Classify never fails. Any probe error or panic degrades to not special.
func (h *Heuristic) Classify(ctx context.Context, in Input) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			h.log.Warnw("classification panicked", "token", in.Token.Hex(), "panic", p)
			res = Result{}
		}
	}()

	if accessor, ok := h.probeFees(ctx, in); ok {
		h.log.Infow("fee accessor detected", "token", in.Token.Hex(), "accessor", accessor)
		return Result{IsSpecial: true, Warning: FeeWarning, Reason: accessor}
	}

	name, symbol := in.Name, in.Symbol
	if name == "" {
		name, _ = h.reader.TokenString(ctx, in.ChainID, in.Token, "name")
	}
	if symbol == "" {
		symbol, _ = h.reader.TokenString(ctx, in.ChainID, in.Token, "symbol")
	}
	if kw, ok := MatchKeyword(name, symbol); ok {
		h.log.Infow("risk keyword matched", "token", in.Token.Hex(), "keyword", kw, "name", name, "symbol", symbol)
		return Result{IsSpecial: true, Warning: KeywordWarning(kw), Reason: kw}
	}
	return Result{}
}

// probeFees runs every accessor concurrently and reports the first one, in
// list order, that returned a value above zero.
func (h *Heuristic) probeFees(ctx context.Context, in Input) (string, bool) {
	hits := make([]bool, len(FeeAccessors))
	var g errgroup.Group
	for i, method := range FeeAccessors {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					h.log.Warnw("fee probe panicked", "token", in.Token.Hex(), "accessor", method, "panic", p)
				}
			}()
			v, err := h.readFee(ctx, in, method)
			if err != nil {
				h.log.Debugw("fee accessor not present", "token", in.Token.Hex(), "accessor", method, "err", err)
				return nil
			}
			hits[i] = v.Sign() > 0
			return nil
		})
	}
	_ = g.Wait()
	for i, hit := range hits {
		if hit {
			return FeeAccessors[i], true
		}
	}
	return "", false
}

func (h *Heuristic) readFee(ctx context.Context, in Input, method string) (*big.Int, error) {
	data, err := abis.Fee.Pack(method)
	if err != nil {
		return nil, err
	}
	ret, err := h.reader.Call(ctx, in.ChainID, in.Token, data)
	if err != nil {
		return nil, err
	}
	out, err := abis.Fee.Unpack(method, ret)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("%s: unexpected return type %T", method, out[0])
	}
	return v, nil
}

// MatchKeyword reports the first keyword contained in name or symbol,
// ignoring case.
func MatchKeyword(name, symbol string) (string, bool) {
	name, symbol = strings.ToLower(name), strings.ToLower(symbol)
	for _, kw := range Keywords {
		if strings.Contains(name, kw) || strings.Contains(symbol, kw) {
			return kw, true
		}
	}
	return "", false
}
