package chain

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var errReverted = errors.New("execution reverted")

type fakeCaller struct {
	mu      sync.Mutex
	code    map[common.Address][]byte
	returns map[string][]byte
	errs    map[string][]error
	calls   int
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		code:    map[common.Address][]byte{},
		returns: map[string][]byte{},
		errs:    map[string][]error{},
	}
}

func (f *fakeCaller) on(data []byte, ret []byte) { f.returns[hexutil.Encode(data)] = ret }

// fail queues errors returned before the configured return value.
func (f *fakeCaller) fail(data []byte, errs ...error) { f.errs[hexutil.Encode(data)] = errs }

func (f *fakeCaller) CodeAt(_ context.Context, addr common.Address, _ *big.Int) ([]byte, error) {
	return f.code[addr], nil
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := hexutil.Encode(msg.Data)
	if q := f.errs[key]; len(q) > 0 {
		err := q[0]
		f.errs[key] = q[1:]
		return nil, err
	}
	if ret, ok := f.returns[key]; ok {
		return ret, nil
	}
	return nil, errReverted
}

func dialerFor(callers map[uint64]*fakeCaller) Dialer {
	return func(_ context.Context, n Network) (Caller, error) {
		c, ok := callers[n.ID]
		if !ok {
			return nil, errors.New("connection refused")
		}
		return c, nil
	}
}

func word(b []byte) []byte { return common.LeftPadBytes(b, 32) }

func uintWord(v uint64) []byte { return word(new(big.Int).SetUint64(v).Bytes()) }

func stringReturn(s string) []byte {
	out := uintWord(32)
	out = append(out, uintWord(uint64(len(s)))...)
	padded := make([]byte, (len(s)+31)/32*32)
	copy(padded, s)
	return append(out, padded...)
}

func bytes32Return(s string) []byte {
	out := make([]byte, 32)
	copy(out, s)
	return out
}
