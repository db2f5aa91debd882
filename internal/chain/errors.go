package chain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrRpcUnavailable is transient: the node could not be reached or did not answer in time.
	ErrRpcUnavailable      = errors.New("rpc unavailable")
	ErrNonceConflict       = errors.New("nonce conflict")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrContractReverted    = errors.New("contract reverted")
	// ErrRejected is a non-transient refusal by the node that fits no other class.
	ErrRejected    = errors.New("rejected by node")
	ErrNotYetMined = errors.New("transaction not yet mined")
)

// RevertError carries the decoded revert reason when one is available.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return ErrContractReverted.Error()
	}
	return fmt.Sprintf("%s: %s", ErrContractReverted, e.Reason)
}

func (e *RevertError) Is(target error) bool {
	return target == ErrContractReverted
}

var (
	nonceConflictMessages = []string{
		"nonce too low",
		"nonce too high",
		"replacement transaction underpriced",
		"already imported",
	}
	insufficientBalanceMessages = []string{
		"insufficient funds",
		"insufficient balance",
	}
)

// classifyError maps an RPC error onto the package error taxonomy. Caller
// cancellation is returned untouched.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if revert, ok := revertFromError(err); ok {
		return revert
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, nonceConflictMessages) {
		return fmt.Errorf("%w: %w", ErrNonceConflict, err)
	}
	if containsAny(msg, insufficientBalanceMessages) {
		return fmt.Errorf("%w: %w", ErrInsufficientBalance, err)
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %w", ErrRpcUnavailable, err)
		}
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}

	return fmt.Errorf("%w: %w", ErrRpcUnavailable, err)
}

// isAlreadyKnown reports whether the node already holds the exact transaction.
func isAlreadyKnown(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already known")
}

func revertFromError(err error) (*RevertError, bool) {
	msg := err.Error()
	idx := strings.Index(strings.ToLower(msg), "execution reverted")
	if idx < 0 {
		return nil, false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if encoded, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(encoded); decodeErr == nil {
				reason, unpackErr := abi.UnpackRevert(data)
				if unpackErr != nil {
					// custom error: keep the raw selector and arguments
					reason = encoded
				}
				return &RevertError{Reason: reason, Data: data}, true
			}
		}
	}

	reason := strings.TrimSpace(strings.TrimPrefix(msg[idx+len("execution reverted"):], ":"))
	return &RevertError{Reason: reason}, true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
