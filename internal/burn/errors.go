package burn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUserRejected means the signature request was declined.
	ErrUserRejected = errors.New("user rejected the request")
	// ErrBusy means a burn is already awaiting signature or inclusion.
	ErrBusy = errors.New("burn already in progress")
)

type FailureKind int

const (
	// KindRPC covers transport and node errors.
	KindRPC FailureKind = iota
	// KindReverted is a revert that may pass with a smaller amount.
	KindReverted
	// KindLocked is a token that refuses transfers outright.
	KindLocked
)

func (k FailureKind) String() string {
	switch k {
	case KindReverted:
		return "reverted"
	case KindLocked:
		return "locked"
	}
	return "rpc"
}

// FailureError is a failed burn with its classification.
type FailureError struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("burn failed (%s): %s", e.Kind, e.Reason)
}

func (e *FailureError) Unwrap() error { return e.Err }

// Retryable is false for locked tokens; other failures may pass at a lower
// percentage.
func (e *FailureError) Retryable() bool { return e.Kind != KindLocked }

// ClassifyFailure maps a send, estimate or receipt error to a FailureError.
func ClassifyFailure(err error) *FailureError {
	if err == nil {
		return nil
	}
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe
	}
	msg := strings.ToLower(err.Error())
	kind := KindRPC
	switch {
	case strings.Contains(msg, "execution reverted") && strings.Contains(msg, "locked"):
		kind = KindLocked
	case strings.Contains(msg, "revert"):
		kind = KindReverted
	}
	return &FailureError{Kind: kind, Reason: revertReason(err), Err: err}
}

// IsLocked reports whether err is a locked-token failure.
func IsLocked(err error) bool {
	var fe *FailureError
	return errors.As(err, &fe) && fe.Kind == KindLocked
}

func revertReason(e error) string {
	s := e.Error()
	if i := strings.Index(s, "execution reverted"); i >= 0 {
		return s[i:]
	}
	return s
}
