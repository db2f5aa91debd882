package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// 5XX
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	RpcUnavailable       ErrorCode = "RPC_UNAVAILABLE"
	ConfirmationTimeout  ErrorCode = "CONFIRMATION_TIMEOUT"
	// 4XX
	ValidationError          ErrorCode = "VALIDATION_ERROR"
	NotFound                 ErrorCode = "NOT_FOUND"
	BadRequest               ErrorCode = "BAD_REQUEST"
	Forbidden                ErrorCode = "FORBIDDEN"
	UnknownNetwork           ErrorCode = "UNKNOWN_NETWORK"
	UnknownProtocol          ErrorCode = "UNKNOWN_PROTOCOL"
	InvalidAmount            ErrorCode = "INVALID_AMOUNT"
	UnsupportedOperation     ErrorCode = "UNSUPPORTED_OPERATION"
	WithdrawalNotFound       ErrorCode = "WITHDRAWAL_NOT_FOUND"
	WithdrawalNotYetUnlocked ErrorCode = "WITHDRAWAL_NOT_YET_UNLOCKED"
	WithdrawalAlreadyClaimed ErrorCode = "WITHDRAWAL_ALREADY_CLAIMED"
	ClaimInProgress          ErrorCode = "CLAIM_IN_PROGRESS"
	NonceConflict            ErrorCode = "NONCE_CONFLICT"
	ContractReverted         ErrorCode = "CONTRACT_REVERTED"
	SigningDenied            ErrorCode = "SIGNING_DENIED"
	InsufficientBalance      ErrorCode = "INSUFFICIENT_BALANCE"
	RequestCanceled          ErrorCode = "REQUEST_CANCELED"
)

// Error represents an error with an HTTP status code and an application-specific error code.
// Details carries structured context for the caller, e.g. the hash of a broadcast transaction.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
	Details    map[string]interface{}
}

const UninitializedStatusCode = 0

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value pair to the error details and returns the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewError creates a new Error with the provided status code, error code, and underlying error.
// If the status code is not provided (0), it defaults to http.StatusInternalServerError(500).
// If the error code is empty, it defaults to INTERNAL_SERVICE_ERROR.
func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	if statusCode == UninitializedStatusCode {
		statusCode = http.StatusInternalServerError
	}
	if errorCode == "" {
		errorCode = InternalServiceError
	}
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}
