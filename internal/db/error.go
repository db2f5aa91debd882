package db

import (
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var dupErr *DuplicateKeyError
	return errors.As(err, &dupErr)
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// InvalidStateTransitionError is returned when a record exists but is not in
// one of the states eligible for the requested transition.
type InvalidStateTransitionError struct {
	Key          string
	CurrentState string
	Message      string
}

func (e *InvalidStateTransitionError) Error() string {
	return e.Message
}

func IsInvalidStateTransitionError(err error) bool {
	var transitionErr *InvalidStateTransitionError
	return errors.As(err, &transitionErr)
}

// Error code references: https://www.mongodb.com/docs/manual/reference/error-codes/
func IsWriteConflictError(err error) bool {
	return hasCommandErrorCode(err, 112)
}

func IsTransactionAbortedError(err error) bool {
	return hasCommandErrorCode(err, 251)
}

func hasCommandErrorCode(err error, code int32) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		log.Debug().Int32("code", cmdErr.Code).Msg("checking mongo command error code")
		return cmdErr.Code == code
	}
	var cmdErrPtr *mongo.CommandError
	if errors.As(err, &cmdErrPtr) && cmdErrPtr != nil {
		log.Debug().Int32("code", cmdErrPtr.Code).Msg("checking mongo command error code")
		return cmdErrPtr.Code == code
	}
	return false
}
