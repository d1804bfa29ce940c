package chain

import (
	"fmt"
	"strconv"
	"strings"
)

// Network is an EVM chain the reader can talk to.
type Network struct {
	ID     uint64
	Name   string
	RPCURL string
}

func (n Network) String() string { return fmt.Sprintf("%s (%d)", n.Name, n.ID) }

// DefaultNetworks returns the supported chains with public RPC endpoints.
func DefaultNetworks() []Network {
	return []Network{
		{ID: 1, Name: "Ethereum", RPCURL: "https://ethereum-rpc.publicnode.com"},
		{ID: 11155111, Name: "Sepolia", RPCURL: "https://ethereum-sepolia-rpc.publicnode.com"},
		{ID: 10, Name: "OP Mainnet", RPCURL: "https://mainnet.optimism.io"},
		{ID: 42161, Name: "Arbitrum One", RPCURL: "https://arb1.arbitrum.io/rpc"},
		{ID: 137, Name: "Polygon", RPCURL: "https://polygon-rpc.com"},
		{ID: 8453, Name: "Base", RPCURL: "https://mainnet.base.org"},
	}
}

// WithRPCOverrides replaces RPC URLs for the chain ids present in overrides.
func WithRPCOverrides(networks []Network, overrides map[uint64]string) []Network {
	out := make([]Network, len(networks))
	copy(out, networks)
	for i := range out {
		if u := strings.TrimSpace(overrides[out[i].ID]); u != "" {
			out[i].RPCURL = u
		}
	}
	return out
}

// ParseRPCOverrides parses "1=https://a,8453=https://b".
func ParseRPCOverrides(s string) (map[uint64]string, error) {
	out := map[uint64]string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("rpc override %q: expected id=url", part)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("rpc override %q: %w", part, err)
		}
		out[id] = strings.TrimSpace(v)
	}
	return out, nil
}
