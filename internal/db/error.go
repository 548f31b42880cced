package db

import (
	"errors"

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
	var e *DuplicateKeyError
	return errors.As(err, &e)
}

// InvalidPaginationTokenError is an error type for invalid pagination token errors
type InvalidPaginationTokenError struct {
	Message string
}

func (e *InvalidPaginationTokenError) Error() string {
	return e.Message
}

func IsInvalidPaginationTokenError(err error) bool {
	var e *InvalidPaginationTokenError
	return errors.As(err, &e)
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
	var e *NotFoundError
	return errors.As(err, &e)
}

// Error code references: https://www.mongodb.com/docs/manual/reference/error-codes/
const (
	writeConflictCode      = 112
	transactionAbortedCode = 251
)

func IsWriteConflictError(err error) bool {
	return hasCommandErrorCode(err, writeConflictCode)
}

func IsTransactionAbortedError(err error) bool {
	return hasCommandErrorCode(err, transactionAbortedCode)
}

func hasCommandErrorCode(err error, code int32) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == code
	}
	var cmdErrPtr *mongo.CommandError
	if errors.As(err, &cmdErrPtr) && cmdErrPtr != nil {
		return cmdErrPtr.Code == code
	}
	return false
}
