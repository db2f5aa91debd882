package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/pipeline"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/signer"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

// errorMapping pairs a domain error with its API status and code. Order
// matters: the first match wins.
var errorMappings = []struct {
	target     error
	statusCode int
	errorCode  types.ErrorCode
}{
	{registry.ErrUnknownProtocol, http.StatusNotFound, types.UnknownProtocol},
	{pipeline.ErrInvalidAmount, http.StatusBadRequest, types.InvalidAmount},
	{utils.ErrInvalidAmount, http.StatusBadRequest, types.InvalidAmount},
	{utils.ErrInvalidAddress, http.StatusBadRequest, types.ValidationError},
	{pipeline.ErrInvalidIntent, http.StatusBadRequest, types.ValidationError},
	{registry.ErrClaimNotSupported, http.StatusBadRequest, types.UnsupportedOperation},
	{registry.ErrNoExchangeRate, http.StatusBadRequest, types.UnsupportedOperation},
	{pipeline.ErrWithdrawalNotYetUnlocked, http.StatusBadRequest, types.WithdrawalNotYetUnlocked},
	{pipeline.ErrWithdrawalNotFound, http.StatusNotFound, types.WithdrawalNotFound},
	{pipeline.ErrWithdrawalAlreadyClaimed, http.StatusConflict, types.WithdrawalAlreadyClaimed},
	{pipeline.ErrClaimInProgress, http.StatusConflict, types.ClaimInProgress},
	{pipeline.ErrJobNotFound, http.StatusNotFound, types.NotFound},
	{pipeline.ErrConfirmationTimeout, http.StatusGatewayTimeout, types.ConfirmationTimeout},
	{signer.ErrSigningDenied, http.StatusForbidden, types.SigningDenied},
	{chain.ErrInsufficientBalance, http.StatusUnprocessableEntity, types.InsufficientBalance},
	{chain.ErrContractReverted, http.StatusUnprocessableEntity, types.ContractReverted},
	{chain.ErrNonceConflict, http.StatusConflict, types.NonceConflict},
	{chain.ErrRpcUnavailable, http.StatusServiceUnavailable, types.RpcUnavailable},
	{chain.ErrNotYetMined, http.StatusServiceUnavailable, types.RpcUnavailable},
	{chain.ErrRejected, http.StatusBadGateway, types.RpcUnavailable},
	{context.Canceled, http.StatusRequestTimeout, types.RequestCanceled},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, types.RpcUnavailable},
}

// toApiError maps a domain error onto the API error type. Job failures carry
// the job id, state, attempt count and, once broadcast, the transaction hash.
func toApiError(err error) *types.Error {
	if err == nil {
		return nil
	}
	var apiErr *types.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	result := types.NewInternalServiceError(err)
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			result = types.NewError(m.statusCode, m.errorCode, err)
			break
		}
	}

	var jobErr *pipeline.JobError
	if errors.As(err, &jobErr) {
		result.WithDetail("jobId", jobErr.JobID).
			WithDetail("state", jobErr.State.ToString()).
			WithDetail("attempts", jobErr.Attempts)
		if jobErr.TxHash != "" {
			result.WithDetail("txHash", jobErr.TxHash)
		}
		if jobErr.RevertReason != "" {
			result.WithDetail("revertReason", jobErr.RevertReason)
		}
	}

	var revert *chain.RevertError
	if errors.As(err, &revert) && revert.Reason != "" {
		result.WithDetail("revertReason", revert.Reason)
	}

	var locked *pipeline.LockedWithdrawalError
	if errors.As(err, &locked) {
		result.WithDetail("unlockAt", utils.FormatTimestamp(locked.UnlockAt))
	}
	return result
}
