package burn

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPercent(t *testing.T, s string) Percent {
	t.Helper()
	p, err := ParsePercent(s)
	require.NoError(t, err)
	return p
}

func bigString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return v
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		percent string
		want    string
		wantErr error
	}{
		{name: "full burn is exact", balance: "1000000000000000000000000000000", percent: "100", want: "1000000000000000000000000000000"},
		{name: "full burn of odd balance", balance: "123456789012345678901234567891", percent: "100", want: "123456789012345678901234567891"},
		{name: "full burn of zero", balance: "0", percent: "100", want: "0"},
		{name: "eighty percent", balance: "1000", percent: "80", want: "800"},
		{name: "fractional percent", balance: "1000000", percent: "12.345", want: "123450"},
		{name: "sub milli digits truncate", balance: "1000000", percent: "12.3459", want: "123450"},
		{name: "minimum percent", balance: "1000000", percent: "0.01", want: "100"},
		{name: "tiny result truncates to zero", balance: "5", percent: "0.01", want: "0"},
		{name: "integer division floors", balance: "999", percent: "50", want: "499"},
		{name: "below range", balance: "1000", percent: "0.001", wantErr: ErrPercentOutOfRange},
		{name: "above range", balance: "1000", percent: "100.5", wantErr: ErrPercentOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(bigString(t, tt.balance), mustPercent(t, tt.percent))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCalculate_InvalidBalance(t *testing.T) {
	_, err := Calculate(nil, Full)
	assert.ErrorIs(t, err, ErrInvalidBalance)
	_, err = Calculate(big.NewInt(-1), Full)
	assert.ErrorIs(t, err, ErrInvalidBalance)
}

func TestCalculate_DoesNotAliasBalance(t *testing.T) {
	balance := big.NewInt(42)
	got, err := Calculate(balance, Full)
	require.NoError(t, err)
	got.SetInt64(0)
	assert.Equal(t, int64(42), balance.Int64())
}

func TestCalculate_BoundsAndMonotonicity(t *testing.T) {
	balances := []*big.Int{
		big.NewInt(1),
		big.NewInt(7),
		big.NewInt(1_000_003),
		bigString(t, "1000000000000000000000000000000"),
	}
	percents := []string{"0.01", "0.015", "0.5", "1", "12.345", "33.333", "50", "66.667", "99.999", "100"}

	for _, b := range balances {
		prev := big.NewInt(0)
		for _, ps := range percents {
			got, err := Calculate(b, mustPercent(t, ps))
			require.NoError(t, err)
			assert.True(t, got.Sign() >= 0, "negative amount for %s%% of %s", ps, b)
			assert.True(t, got.Cmp(b) <= 0, "amount above balance for %s%% of %s", ps, b)
			assert.True(t, got.Cmp(prev) >= 0, "not monotonic at %s%% of %s", ps, b)
			prev = got
		}
	}
}
