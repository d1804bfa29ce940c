package classifier

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Classifier decides whether a token needs a reduced burn percentage.
type Classifier interface {
	Classify(ctx context.Context, in Input) Result
}

// Input identifies the token. Name and Symbol are optional; when empty they
// are fetched from the chain.
type Input struct {
	ChainID uint64
	Token   common.Address
	Name    string
	Symbol  string
}

type Result struct {
	IsSpecial bool
	Warning   string
	// Reason is the fee accessor or keyword that triggered, empty otherwise.
	Reason string
}
