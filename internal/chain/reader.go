// Package chain reads token contracts over JSON-RPC.
//
// Every read is best-effort: a field that cannot be fetched recovers to a
// default instead of failing the lookup.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Caller is the subset of an RPC client needed for reads.
type Caller interface {
	bind.ContractCaller
}

// Dialer opens a Caller for a network.
type Dialer func(ctx context.Context, n Network) (Caller, error)

// DialEthClient is the default Dialer backed by ethclient.
func DialEthClient(ctx context.Context, n Network) (Caller, error) {
	ec, err := ethclient.DialContext(ctx, n.RPCURL)
	if err != nil {
		return nil, err
	}
	return ec, nil
}

type Reader struct {
	networks    []Network
	dial        Dialer
	log         *zap.SugaredLogger
	gate        chan struct{}
	maxAttempts int
	backoff     time.Duration

	mu      sync.Mutex
	callers map[uint64]Caller
}

type Option func(*Reader)

func WithDialer(d Dialer) Option { return func(r *Reader) { r.dial = d } }

func WithLogger(l *zap.SugaredLogger) Option { return func(r *Reader) { r.log = l } }

// WithMaxConcurrency limits parallel eth_calls across all networks.
func WithMaxConcurrency(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.gate = make(chan struct{}, n)
		}
	}
}

// WithRetry sets attempts and initial backoff for throttled calls.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(r *Reader) {
		if attempts > 0 {
			r.maxAttempts = attempts
		}
		r.backoff = backoff
	}
}

func NewReader(networks []Network, opts ...Option) *Reader {
	r := &Reader{
		networks:    networks,
		dial:        DialEthClient,
		log:         zap.NewNop().Sugar(),
		gate:        make(chan struct{}, 16),
		maxAttempts: 3,
		backoff:     200 * time.Millisecond,
		callers:     map[uint64]Caller{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reader) Networks() []Network {
	out := make([]Network, len(r.networks))
	copy(out, r.networks)
	return out
}

func (r *Reader) Network(chainID uint64) (Network, bool) {
	for _, n := range r.networks {
		if n.ID == chainID {
			return n, true
		}
	}
	return Network{}, false
}

// Caller returns a cached client for chainID, dialing on first use.
func (r *Reader) Caller(ctx context.Context, chainID uint64) (Caller, error) {
	n, ok := r.Network(chainID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.callers[chainID]; ok {
		return c, nil
	}
	c, err := r.dial(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", n, err)
	}
	r.callers[chainID] = c
	return c, nil
}

// Call issues a read-only call against a contract on chainID.
func (r *Reader) Call(ctx context.Context, chainID uint64, to common.Address, data []byte) ([]byte, error) {
	c, err := r.Caller(ctx, chainID)
	if err != nil {
		return nil, err
	}
	return r.callWithRetry(ctx, c, ethereum.CallMsg{To: &to, Data: data})
}

// HasCode reports whether addr holds contract bytecode on chainID.
func (r *Reader) HasCode(ctx context.Context, chainID uint64, addr common.Address) (bool, error) {
	c, err := r.Caller(ctx, chainID)
	if err != nil {
		return false, err
	}
	code, err := c.CodeAt(ctx, addr, nil)
	if err != nil {
		return false, fmt.Errorf("code at %s: %w", addr.Hex(), err)
	}
	return len(code) > 0, nil
}

// Locate looks for bytecode at token on every network except current and
// returns the first match in registry order.
func (r *Reader) Locate(ctx context.Context, current uint64, token common.Address) (Network, bool) {
	found := make([]bool, len(r.networks))
	var g errgroup.Group
	for i, n := range r.networks {
		if n.ID == current {
			continue
		}
		g.Go(func() error {
			ok, err := r.HasCode(ctx, n.ID, token)
			if err != nil {
				r.log.Debugw("locate: code check failed", "chain", n.ID, "token", token.Hex(), "err", err)
				return nil
			}
			found[i] = ok
			return nil
		})
	}
	_ = g.Wait()
	for i, ok := range found {
		if ok {
			return r.networks[i], true
		}
	}
	return Network{}, false
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
