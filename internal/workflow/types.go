package workflow

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ligun0805/token-inferno/internal/burn"
	"github.com/ligun0805/token-inferno/internal/chain"
	"github.com/ligun0805/token-inferno/internal/ledger"
)

var (
	ErrInvalidAddress = errors.New("invalid token address")
	ErrNotContract    = errors.New("address is not a contract on any supported network")
	ErrWrongNetwork   = errors.New("token contract exists on another network")
	ErrStale          = errors.New("result discarded: address or chain changed")
	ErrNotLoaded      = errors.New("no token loaded")
	ErrBusy           = errors.New("burn in progress")
	ErrZeroBalance    = errors.New("no tokens to burn")
	ErrUnknownTx      = errors.New("transaction is not the pending burn")
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateBurnPending
	StateBurnConfirming
	StateBurnConfirmed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateBurnPending:
		return "burn_pending"
	case StateBurnConfirming:
		return "burn_confirming"
	case StateBurnConfirmed:
		return "burn_confirmed"
	}
	return "idle"
}

// TokenInfo is the loaded token as shown to the user.
type TokenInfo struct {
	Address        common.Address
	Name           string
	Symbol         string
	Decimals       uint8
	Balance        *big.Int
	IsSpecialToken bool
	TokenWarning   string
	Restrictions   chain.Restrictions
}

func (t TokenInfo) clone() TokenInfo {
	if t.Balance != nil {
		t.Balance = new(big.Int).Set(t.Balance)
	}
	return t
}

// View is a consistent snapshot of the controller.
type View struct {
	State        State
	ChainID      uint64
	Address      string
	Token        *TokenInfo
	Percent      burn.Percent
	AdvancedOpen bool
	TxHash       common.Hash
}

// Outcome describes a confirmed burn.
type Outcome struct {
	TxHash   common.Hash
	Amount   *big.Int
	Receipt  *types.Receipt
	Recorded bool
}

// ChainReader is the chain access used while loading a token.
type ChainReader interface {
	HasCode(ctx context.Context, chainID uint64, addr common.Address) (bool, error)
	Locate(ctx context.Context, current uint64, token common.Address) (chain.Network, bool)
	Token(ctx context.Context, chainID uint64, token, owner common.Address) chain.Metadata
	Restrictions(ctx context.Context, chainID uint64, token, from, to common.Address) chain.Restrictions
}

// Submitter sends and tracks one burn.
type Submitter interface {
	Submit(ctx context.Context, token common.Address, amount *big.Int) (*types.Transaction, error)
	Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// SubmitterFactory returns the submitter bound to chainID.
type SubmitterFactory func(chainID uint64) (Submitter, error)

// Ledger is the history the controller records confirmed burns into.
type Ledger interface {
	HasTx(txID string) bool
	AddBurn(ctx context.Context, b ledger.Burn) (ledger.Entry, error)
}

// AfterFunc schedules f and returns a stop function.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
