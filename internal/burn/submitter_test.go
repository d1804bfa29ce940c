package burn

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testToken = common.HexToAddress("0x4444444444444444444444444444444444444444")

type fakeBackend struct {
	mu       sync.Mutex
	estimate uint64
	estErr   error
	tipErr   error
	sendErr  error
	callErr  error
	rcptErr  error
	status   uint64
	baseFee  *big.Int
	sent     []*types.Transaction
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{estimate: 50_000, status: types.ReceiptStatusSuccessful, baseFee: big.NewInt(10 * params.GWei)}
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(1), nil }

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) { return 7, nil }

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: f.baseFee}, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	if f.tipErr != nil {
		return nil, f.tipErr
	}
	return big.NewInt(2 * params.GWei), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.estimate, f.estErr
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	if f.rcptErr != nil {
		return nil, f.rcptErr
	}
	return &types.Receipt{TxHash: h, Status: f.status, BlockNumber: big.NewInt(101)}, nil
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, nil
}

func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, f.callErr
}

func newTransactor(t *testing.T) *bind.TransactOpts {
	t.Helper()
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1))
	require.NoError(t, err)
	return opts
}

func TestSubmitter_SubmitAndWait(t *testing.T) {
	backend := newFakeBackend()
	opts := newTransactor(t)
	var statuses []Status
	var preview Preview
	s := NewSubmitter(backend, opts, func(_ context.Context, p Preview) error {
		preview = p
		return nil
	}, OnStatus(func(st Status) { statuses = append(statuses, st) }), WithSubmitterLogger(zaptest.NewLogger(t).Sugar()))

	amount := big.NewInt(12345)
	tx, err := s.Submit(context.Background(), testToken, amount)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirming, s.Status())

	require.Len(t, backend.sent, 1)
	assert.Equal(t, testToken, *tx.To())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(52_500), tx.Gas())
	assert.Equal(t, 0, big.NewInt(2*params.GWei).Cmp(tx.GasTipCap()))
	assert.Equal(t, 0, big.NewInt(22*params.GWei).Cmp(tx.GasFeeCap()))
	assert.Equal(t, 0, tx.Value().Sign())

	want, err := EncodeTransfer(amount)
	require.NoError(t, err)
	assert.Equal(t, want, tx.Data())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), tx)
	require.NoError(t, err)
	assert.Equal(t, opts.From, sender)

	assert.Equal(t, DeadAddress, preview.To)
	assert.Equal(t, 0, amount.Cmp(preview.Amount))

	rcpt, err := s.Wait(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, rcpt.Status)
	assert.Equal(t, StatusConfirmed, s.Status())
	assert.Equal(t, []Status{StatusPending, StatusConfirming, StatusConfirmed}, statuses)
}

func TestSubmitter_Rejected(t *testing.T) {
	backend := newFakeBackend()
	var statuses []Status
	s := NewSubmitter(backend, newTransactor(t), func(context.Context, Preview) error {
		return errors.New("user denied")
	}, OnStatus(func(st Status) { statuses = append(statuses, st) }))

	_, err := s.Submit(context.Background(), testToken, big.NewInt(1))
	assert.ErrorIs(t, err, ErrUserRejected)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, backend.sent)
	assert.Equal(t, []Status{StatusPending, StatusIdle}, statuses)
}

func TestSubmitter_EstimateRevertLocked(t *testing.T) {
	backend := newFakeBackend()
	backend.estErr = errors.New("execution reverted: Token is locked")
	s := NewSubmitter(backend, newTransactor(t), nil)

	_, err := s.Submit(context.Background(), testToken, big.NewInt(1))
	require.Error(t, err)
	assert.True(t, IsLocked(err))
	var fe *FailureError
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.Retryable())
	assert.Equal(t, "execution reverted: Token is locked", fe.Reason)
	assert.Equal(t, StatusFailed, s.Status())
	assert.Empty(t, backend.sent)
}

func TestSubmitter_EstimateFallback(t *testing.T) {
	backend := newFakeBackend()
	backend.estErr = errors.New("connection reset by peer")
	backend.tipErr = errors.New("method not found")
	s := NewSubmitter(backend, newTransactor(t), nil)

	tx, err := s.Submit(context.Background(), testToken, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(90_000), tx.Gas())
	assert.Equal(t, 0, big.NewInt(params.GWei).Cmp(tx.GasTipCap()))
	assert.Equal(t, 0, big.NewInt(21*params.GWei).Cmp(tx.GasFeeCap()))
}

func TestSubmitter_RevertedReceipt(t *testing.T) {
	backend := newFakeBackend()
	backend.status = types.ReceiptStatusFailed
	backend.callErr = errors.New("execution reverted: ERC20: transfer amount exceeds balance")
	s := NewSubmitter(backend, newTransactor(t), nil)

	tx, err := s.Submit(context.Background(), testToken, big.NewInt(1))
	require.NoError(t, err)
	_, err = s.Wait(context.Background(), tx)
	var fe *FailureError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindReverted, fe.Kind)
	assert.True(t, fe.Retryable())
	assert.Contains(t, fe.Reason, "transfer amount exceeds balance")
	assert.Equal(t, StatusFailed, s.Status())
}

func TestSubmitter_WaitCancelled(t *testing.T) {
	backend := newFakeBackend()
	backend.rcptErr = ethereum.NotFound
	s := NewSubmitter(backend, newTransactor(t), nil)

	tx, err := s.Submit(context.Background(), testToken, big.NewInt(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Wait(ctx, tx)
	assert.ErrorIs(t, err, context.Canceled)
	var fe *FailureError
	assert.False(t, errors.As(err, &fe))
	assert.Equal(t, StatusConfirming, s.Status())
}

func TestSubmitter_Busy(t *testing.T) {
	s := NewSubmitter(newFakeBackend(), newTransactor(t), nil)
	_, err := s.Submit(context.Background(), testToken, big.NewInt(1))
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), testToken, big.NewInt(1))
	assert.ErrorIs(t, err, ErrBusy)
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"locked", errors.New("execution reverted: LOCKED"), KindLocked},
		{"locked mixed case", errors.New("Execution Reverted: tokens are Locked until 2030"), KindLocked},
		{"plain revert", errors.New("execution reverted: TransferHelper: TRANSFER_FAILED"), KindReverted},
		{"locked without revert", errors.New("wallet locked"), KindRPC},
		{"rpc", errors.New("dial tcp: connection refused"), KindRPC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err).Kind)
		})
	}
	assert.Nil(t, ClassifyFailure(nil))
}

func TestNewTransactorFromHex(t *testing.T) {
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + common.Bytes2Hex(gethcrypto.FromECDSA(key))

	opts, err := NewTransactorFromHex(hexKey, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, gethcrypto.PubkeyToAddress(key.PublicKey), opts.From)

	_, err = NewTransactorFromHex("not-a-key", big.NewInt(1))
	assert.Error(t, err)
}
