// Package abis holds the contract ABIs the burn workflow talks to.
package abis

import (
	"bytes"
	_ "embed"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	//go:embed erc20.json
	erc20 []byte
	//go:embed erc20_bytes32.json
	erc20Bytes32 []byte
	//go:embed fee.json
	fee []byte
)

var (
	// ERC20 is the standard token surface with string metadata.
	ERC20 abi.ABI
	// ERC20Bytes32 covers legacy tokens (MKR, SAI) that return bytes32 name/symbol.
	ERC20Bytes32 abi.ABI
	// Fee lists zero-argument fee accessors seen on fee-on-transfer tokens.
	Fee abi.ABI
)

func init() {
	builder := []struct {
		ABI  *abi.ABI
		data []byte
	}{
		{&ERC20, erc20},
		{&ERC20Bytes32, erc20Bytes32},
		{&Fee, fee},
	}

	for _, b := range builder {
		var err error
		*b.ABI, err = abi.JSON(bytes.NewReader(b.data))
		if err != nil {
			panic(err)
		}
	}
}
