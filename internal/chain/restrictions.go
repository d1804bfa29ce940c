package chain

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Global pause getters seen in the wild. enabled marks getters where false
// means transfers are blocked.
var pauseGetters = []struct {
	sig     string
	enabled bool
}{
	{"paused()", false},
	{"isPaused()", false},
	{"transfersPaused()", false},
	{"tradingPaused()", false},
	{"isTradingPaused()", false},
	{"transferDisabled()", false},
	{"isTransferDisabled()", false},
	{"transferEnabled()", true},
	{"isTransferEnabled()", true},
	{"tradingEnabled()", true},
	{"isTradingEnabled()", true},
}

var blacklistGetters = []string{
	"isBlacklisted(address)", "isBlackListed(address)", "blacklisted(address)", "isInBlacklist(address)",
}

func sel(sig string) []byte {
	return gethcrypto.Keccak256([]byte(sig))[:4]
}

// Restrictions summarises transfer locks detected through public getters.
type Restrictions struct {
	Paused          bool
	PausedBy        string
	BlacklistedFrom bool
	BlacklistedTo   bool
}

func (tr Restrictions) Blocked() bool {
	return tr.Paused || tr.BlacklistedFrom || tr.BlacklistedTo
}

func (tr Restrictions) Summary() string {
	var parts []string
	if tr.Paused {
		parts = append(parts, "paused:"+tr.PausedBy)
	}
	if tr.BlacklistedFrom {
		parts = append(parts, "from:blacklisted")
	}
	if tr.BlacklistedTo {
		parts = append(parts, "to:blacklisted")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// Restrictions probes pause and blacklist getters for a transfer from -> to.
// Getters that revert or return nothing are skipped.
func (r *Reader) Restrictions(ctx context.Context, chainID uint64, token, from, to common.Address) Restrictions {
	var out Restrictions

	boolCall := func(data []byte) (v, ok bool) {
		ret, err := r.Call(ctx, chainID, token, data)
		if err != nil || len(ret) != 32 {
			return false, false
		}
		return ret[31] == 1, true
	}

	for _, g := range pauseGetters {
		v, ok := boolCall(sel(g.sig))
		if !ok {
			continue
		}
		if v != g.enabled {
			out.Paused = true
			out.PausedBy = g.sig
			return out
		}
	}

	isBlacklisted := func(addr common.Address) bool {
		for _, s := range blacklistGetters {
			data := append(sel(s), common.LeftPadBytes(addr.Bytes(), 32)...)
			if v, ok := boolCall(data); ok {
				return v
			}
		}
		return false
	}
	out.BlacklistedFrom = isBlacklisted(from)
	out.BlacklistedTo = isBlacklisted(to)
	return out
}
