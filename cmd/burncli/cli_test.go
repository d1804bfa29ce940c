package main

import (
	"bufio"
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligun0805/token-inferno/internal/burn"
	"github.com/ligun0805/token-inferno/internal/ledger"
	"github.com/ligun0805/token-inferno/internal/storage/memory"
)

func TestMaskHex(t *testing.T) {
	assert.Equal(t, "***", maskHex("0x1234"))
	assert.Equal(t, "0xabcd…7890", maskHex(" 0xabcdef1234567890 "))
}

func TestPromptConfirmer(t *testing.T) {
	preview := burn.Preview{
		ChainID: big.NewInt(1),
		Amount:  big.NewInt(1_500_000),
		TipCap:  big.NewInt(1_000_000_000),
		FeeCap:  big.NewInt(30_000_000_000),
	}
	tests := []struct {
		answer  string
		wantErr error
	}{
		{"y\n", nil},
		{"YES\n", nil},
		{"n\n", burn.ErrUserRejected},
		{"\n", burn.ErrUserRejected},
		{"", burn.ErrUserRejected},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			var out bytes.Buffer
			confirm := promptConfirmer(bufio.NewReader(strings.NewReader(tt.answer)), &out, "USDC", 6)
			err := confirm(context.Background(), preview)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), "1.5 USDC")
			assert.Contains(t, out.String(), "30.00 gwei")
		})
	}
}

func TestPrintHistory(t *testing.T) {
	ctx := context.Background()
	l, err := ledger.Open(ctx, memory.NewKVStore())
	require.NoError(t, err)

	var out bytes.Buffer
	printHistory(&out, l, false)
	assert.Contains(t, out.String(), "Novice Burner")
	assert.Contains(t, out.String(), "No burns yet.")

	for _, tx := range []string{"0xaa", "0xbb", "0xaa"} {
		_, err := l.AddBurn(ctx, ledger.Burn{Name: "Pepe", Symbol: "PEPE", Value: 10, TxID: tx})
		require.NoError(t, err)
	}

	out.Reset()
	printHistory(&out, l, false)
	assert.Contains(t, out.String(), "(2 burns)")
	assert.Contains(t, out.String(), "history cleanup")
	assert.Equal(t, 2, strings.Count(out.String(), "PEPE"))

	out.Reset()
	printHistory(&out, l, true)
	assert.Equal(t, 3, strings.Count(out.String(), "PEPE"))
}
