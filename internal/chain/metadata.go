package chain

import (
	"bytes"
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/ligun0805/token-inferno/internal/abis"
)

const (
	DefaultName     = "Unknown Token"
	DefaultSymbol   = "???"
	DefaultDecimals = 18
)

// Metadata is what a lookup learns about a token for one holder.
type Metadata struct {
	Name     string
	Symbol   string
	NameOK   bool
	SymbolOK bool
	Decimals uint8
	Balance  *big.Int
}

// Token reads name, symbol, decimals and owner's balance concurrently.
// It never fails; unreadable fields fall back to defaults.
func (r *Reader) Token(ctx context.Context, chainID uint64, token, owner common.Address) Metadata {
	md := Metadata{
		Name:     DefaultName,
		Symbol:   DefaultSymbol,
		Decimals: DefaultDecimals,
		Balance:  new(big.Int),
	}

	var g errgroup.Group
	g.Go(func() error {
		if s, ok := r.TokenString(ctx, chainID, token, "name"); ok {
			md.Name, md.NameOK = s, true
		}
		return nil
	})
	g.Go(func() error {
		if s, ok := r.TokenString(ctx, chainID, token, "symbol"); ok {
			md.Symbol, md.SymbolOK = s, true
		}
		return nil
	})
	g.Go(func() error {
		if d, ok := r.decimals(ctx, chainID, token); ok {
			md.Decimals = d
		}
		return nil
	})
	g.Go(func() error {
		if b, ok := r.balance(ctx, chainID, token, owner); ok {
			md.Balance = b
		}
		return nil
	})
	_ = g.Wait()
	return md
}

// TokenString reads a string-valued metadata getter ("name" or "symbol").
// Tokens that return bytes32 instead of string are decoded through the
// legacy ABI. Empty results count as unreadable.
func (r *Reader) TokenString(ctx context.Context, chainID uint64, token common.Address, method string) (string, bool) {
	data, err := abis.ERC20.Pack(method)
	if err != nil {
		return "", false
	}
	ret, err := r.Call(ctx, chainID, token, data)
	if err == nil {
		if s, ok := unpackString(abis.ERC20, method, ret); ok {
			return s, s != ""
		}
	} else {
		r.log.Debugw("string read failed, trying bytes32", "method", method, "token", token.Hex(), "err", DescribeCallError(err))
		data, _ = abis.ERC20Bytes32.Pack(method)
		ret, err = r.Call(ctx, chainID, token, data)
		if err != nil {
			r.log.Debugw("bytes32 read failed", "method", method, "token", token.Hex(), "err", DescribeCallError(err))
			return "", false
		}
	}
	s, ok := unpackBytes32(method, ret)
	return s, ok && s != ""
}

func (r *Reader) decimals(ctx context.Context, chainID uint64, token common.Address) (uint8, bool) {
	data, _ := abis.ERC20.Pack("decimals")
	ret, err := r.Call(ctx, chainID, token, data)
	if err != nil {
		r.log.Debugw("decimals read failed", "token", token.Hex(), "err", DescribeCallError(err))
		return 0, false
	}
	out, err := abis.ERC20.Unpack("decimals", ret)
	if err != nil || len(out) == 0 {
		return 0, false
	}
	d, ok := out[0].(uint8)
	return d, ok
}

func (r *Reader) balance(ctx context.Context, chainID uint64, token, owner common.Address) (*big.Int, bool) {
	data, err := abis.ERC20.Pack("balanceOf", owner)
	if err != nil {
		return nil, false
	}
	ret, err := r.Call(ctx, chainID, token, data)
	if err != nil {
		r.log.Debugw("balance read failed", "token", token.Hex(), "owner", owner.Hex(), "err", DescribeCallError(err))
		return nil, false
	}
	out, err := abis.ERC20.Unpack("balanceOf", ret)
	if err != nil || len(out) == 0 {
		return nil, false
	}
	b, ok := out[0].(*big.Int)
	if !ok {
		return nil, false
	}
	return zeroIfNil(b), true
}

func unpackString(contract abi.ABI, method string, ret []byte) (string, bool) {
	out, err := contract.Unpack(method, ret)
	if err != nil || len(out) == 0 {
		return "", false
	}
	s, ok := out[0].(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(strings.ToValidUTF8(s, "")), true
}

func unpackBytes32(method string, ret []byte) (string, bool) {
	out, err := abis.ERC20Bytes32.Unpack(method, ret)
	if err != nil || len(out) == 0 {
		return "", false
	}
	b, ok := out[0].([32]byte)
	if !ok {
		return "", false
	}
	return decodeBytes32(b), true
}

// decodeBytes32 keeps the text up to the first zero byte.
func decodeBytes32(b [32]byte) string {
	raw := b[:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
}
