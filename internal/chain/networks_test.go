package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRPCOverrides(t *testing.T) {
	got, err := ParseRPCOverrides(" 1=https://a.example , 8453=https://b.example,")
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{1: "https://a.example", 8453: "https://b.example"}, got)

	_, err = ParseRPCOverrides("mainnet")
	assert.Error(t, err)
	_, err = ParseRPCOverrides("x=https://a")
	assert.Error(t, err)
}

func TestWithRPCOverrides(t *testing.T) {
	base := DefaultNetworks()
	out := WithRPCOverrides(base, map[uint64]string{10: "http://localhost:8545"})
	for i, n := range out {
		if n.ID == 10 {
			assert.Equal(t, "http://localhost:8545", n.RPCURL)
		} else {
			assert.Equal(t, base[i].RPCURL, n.RPCURL)
		}
	}
	assert.NotEqual(t, "http://localhost:8545", base[2].RPCURL)
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		v        *big.Int
		decimals uint8
		want     string
	}{
		{"nil", nil, 18, "0"},
		{"zero", big.NewInt(0), 18, "0"},
		{"one token", big.NewInt(1_000_000), 6, "1"},
		{"fraction", big.NewInt(1_500_000), 6, "1.5"},
		{"sub unit", big.NewInt(25), 4, "0.0025"},
		{"no decimals", big.NewInt(42), 0, "42"},
		{"negative", big.NewInt(-1_250_000), 6, "-1.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(tt.v, tt.decimals))
		})
	}
}

func TestToFloat(t *testing.T) {
	assert.InDelta(t, 1.5, ToFloat(big.NewInt(1_500_000), 6), 1e-12)
	assert.Equal(t, 0.0, ToFloat(nil, 18))
}

func TestDescribeCallError(t *testing.T) {
	assert.Equal(t, "", DescribeCallError(nil))
	assert.Equal(t, "[REVERT] Pausable: paused", DescribeCallError(errorString("execution reverted: Pausable: paused")))
	assert.Equal(t, "[RATE_LIMIT] provider throttled the request", DescribeCallError(errorString("429 Too Many Requests")))
	assert.Equal(t, "[NO_DATA] method missing or not a contract", DescribeCallError(ErrEmptyReturn))
}

type errorString string

func (e errorString) Error() string { return string(e) }
