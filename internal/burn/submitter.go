// Package burn computes burn amounts and sends them to the dead address.
package burn

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/ligun0805/token-inferno/internal/abis"
)

// DeadAddress receives every burn.
var DeadAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusConfirming
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirming:
		return "confirming"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	}
	return "idle"
}

// Backend is the node access needed to send and track a burn.
type Backend interface {
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Preview is shown to the signer before the transaction is signed.
type Preview struct {
	ChainID  *big.Int
	From     common.Address
	Token    common.Address
	To       common.Address
	Amount   *big.Int
	Nonce    uint64
	GasLimit uint64
	TipCap   *big.Int
	FeeCap   *big.Int
}

// Confirmer stands in for the wallet signature prompt. A non-nil error
// rejects the burn.
type Confirmer func(ctx context.Context, p Preview) error

// AutoConfirm approves every request.
func AutoConfirm(context.Context, Preview) error { return nil }

type Submitter struct {
	backend Backend
	opts    *bind.TransactOpts
	confirm Confirmer
	gas     GasPolicy
	log     *zap.SugaredLogger

	mu       sync.Mutex
	status   Status
	onStatus func(Status)
}

type SubmitterOption func(*Submitter)

func WithGasPolicy(g GasPolicy) SubmitterOption { return func(s *Submitter) { s.gas = g } }

func WithSubmitterLogger(l *zap.SugaredLogger) SubmitterOption {
	return func(s *Submitter) { s.log = l }
}

// OnStatus registers a callback invoked on every status change.
func OnStatus(fn func(Status)) SubmitterOption { return func(s *Submitter) { s.onStatus = fn } }

func NewSubmitter(backend Backend, opts *bind.TransactOpts, confirm Confirmer, options ...SubmitterOption) *Submitter {
	if confirm == nil {
		confirm = AutoConfirm
	}
	s := &Submitter{
		backend: backend,
		opts:    opts,
		confirm: confirm,
		gas:     DefaultGasPolicy(),
		log:     zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Submitter) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Submitter) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	cb := s.onStatus
	s.mu.Unlock()
	if cb != nil {
		cb(st)
	}
}

func (s *Submitter) begin() error {
	s.mu.Lock()
	if s.status == StatusPending || s.status == StatusConfirming {
		s.mu.Unlock()
		return ErrBusy
	}
	s.mu.Unlock()
	s.setStatus(StatusPending)
	return nil
}

func (s *Submitter) fail(err error) error {
	fe := ClassifyFailure(err)
	s.log.Warnw("burn failed", "kind", fe.Kind.String(), "reason", fe.Reason)
	s.setStatus(StatusFailed)
	return fe
}

// EncodeTransfer builds transfer(DeadAddress, amount) calldata.
func EncodeTransfer(amount *big.Int) ([]byte, error) {
	return abis.ERC20.Pack("transfer", DeadAddress, amount)
}

// Submit asks for a signature and sends the burn. It returns once the
// transaction is accepted by the node. A rejected signature returns
// ErrUserRejected and leaves the submitter idle.
func (s *Submitter) Submit(ctx context.Context, token common.Address, amount *big.Int) (*types.Transaction, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	from := s.opts.From

	data, err := EncodeTransfer(amount)
	if err != nil {
		return nil, s.fail(err)
	}
	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, s.fail(fmt.Errorf("chain id: %w", err))
	}
	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, s.fail(fmt.Errorf("nonce: %w", err))
	}

	msg := ethereum.CallMsg{From: from, To: &token, Value: big.NewInt(0), Data: data}
	gasLimit, err := s.backend.EstimateGas(ctx, msg)
	switch {
	case err != nil && strings.Contains(strings.ToLower(err.Error()), "revert"):
		return nil, s.fail(err)
	case err != nil:
		s.log.Warnw("gas estimate failed, using fallback", "err", err, "gas", s.gas.FallbackGasLimit)
		gasLimit = s.gas.FallbackGasLimit
	default:
		gasLimit = s.gas.gasLimit(gasLimit)
	}

	tip, feeCap, err := s.gas.fees(ctx, s.backend)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fees: %w", err))
	}

	preview := Preview{
		ChainID:  chainID,
		From:     from,
		Token:    token,
		To:       DeadAddress,
		Amount:   new(big.Int).Set(amount),
		Nonce:    nonce,
		GasLimit: gasLimit,
		TipCap:   tip,
		FeeCap:   feeCap,
	}
	if err := s.confirm(ctx, preview); err != nil {
		s.log.Infow("burn rejected at signature", "token", token.Hex(), "err", err)
		s.setStatus(StatusIdle)
		if errors.Is(err, ErrUserRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		Gas:       gasLimit,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		To:        &token,
		Value:     big.NewInt(0),
		Data:      data,
	})
	signed, err := s.opts.Signer(from, tx)
	if err != nil {
		return nil, s.fail(fmt.Errorf("sign: %w", err))
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, s.fail(err)
	}
	s.log.Infow("burn submitted", "tx", signed.Hash().Hex(), "token", token.Hex(), "amount", amount.String(), "nonce", nonce)
	s.setStatus(StatusConfirming)
	return signed, nil
}

// Wait blocks until tx is mined. A reverted receipt yields a FailureError
// carrying the revert reason when the node can replay it. If ctx ends first
// the context error is returned unclassified and the status stays
// StatusConfirming.
func (s *Submitter) Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	rcpt, err := bind.WaitMined(ctx, s.backend, tx)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		// Already broadcast; it may still be mined.
		s.log.Warnw("stopped waiting for burn", "tx", tx.Hash().Hex(), "err", err)
		return nil, fmt.Errorf("wait mined %s: %w", tx.Hash().Hex(), err)
	}
	if err != nil {
		return nil, s.fail(fmt.Errorf("wait mined: %w", err))
	}
	if rcpt.Status == types.ReceiptStatusFailed {
		return rcpt, s.fail(s.replayRevert(ctx, tx, rcpt))
	}
	s.log.Infow("burn confirmed", "tx", tx.Hash().Hex(), "block", rcpt.BlockNumber)
	s.setStatus(StatusConfirmed)
	return rcpt, nil
}

func (s *Submitter) replayRevert(ctx context.Context, tx *types.Transaction, rcpt *types.Receipt) error {
	msg := ethereum.CallMsg{From: s.opts.From, To: tx.To(), Gas: tx.Gas(), Value: tx.Value(), Data: tx.Data()}
	if _, err := s.backend.CallContract(ctx, msg, rcpt.BlockNumber); err != nil {
		return err
	}
	return errors.New("execution reverted")
}

// NewTransactorFromHex builds a keyed signer for chainID.
func NewTransactorFromHex(pkHex string, chainID *big.Int) (*bind.TransactOpts, error) {
	prv, err := gethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(pkHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return bind.NewKeyedTransactorWithChainID(prv, chainID)
}
