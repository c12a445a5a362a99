package models

import (
	"errors"
	"fmt"
)

// Error message constants, shared by services, handlers and tests.
const (
	ErrMsgNotFound          = "not found"
	ErrMsgInvalidArgument   = "invalid argument"
	ErrMsgInvalidOperation  = "invalid operation"
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgForbidden         = "forbidden"
	ErrMsgConfiguration     = "configuration error"
	ErrMsgStoreUnavailable  = "store unavailable"
)

// Domain errors. Wrap them with fmt.Errorf("%w: ...", models.ErrXxx) to add
// context; callers classify with errors.Is.
var (
	ErrNotFound          = errors.New(ErrMsgNotFound)
	ErrInvalidArgument   = errors.New(ErrMsgInvalidArgument)
	ErrInvalidOperation  = errors.New(ErrMsgInvalidOperation)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrForbidden         = errors.New(ErrMsgForbidden)
	ErrConfiguration     = errors.New(ErrMsgConfiguration)
	ErrStoreUnavailable  = errors.New(ErrMsgStoreUnavailable)

	// ErrAlreadySold is a NotFound: a sold listing is no longer buyable.
	ErrAlreadySold = fmt.Errorf("listing already sold: %w", ErrNotFound)
)

// ErrorKind names the class of a domain error.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindInvalidOperation  ErrorKind = "invalid_operation"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindForbidden         ErrorKind = "forbidden"
	KindConfiguration     ErrorKind = "configuration_error"
	KindStoreUnavailable  ErrorKind = "store_unavailable"
	KindInternal          ErrorKind = "internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrNotFound, KindNotFound},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrInvalidOperation, KindInvalidOperation},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrForbidden, KindForbidden},
	{ErrConfiguration, KindConfiguration},
	{ErrStoreUnavailable, KindStoreUnavailable},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
