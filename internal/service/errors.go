package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/internal/auth"
	"github.com/mmynk/mintsense/internal/calculator"
	"github.com/mmynk/mintsense/internal/storage"
)

var (
	ErrNotOwner            = errors.New("group belongs to another user")
	ErrGroupFull           = errors.New("group has reached its participant limit")
	ErrOwnerParticipant    = errors.New("the group owner cannot be removed")
	ErrNotInGroup          = errors.New("participant is not in this group")
	ErrMissingName         = errors.New("name is required")
	ErrMissingDescription  = errors.New("description is required")
	ErrSelfSettlement      = errors.New("cannot settle with yourself")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrInvalidAmountFilter = errors.New("amount filters cannot be negative")
)

// toConnectError maps domain and storage errors onto Connect codes.
// Anything unrecognised is an internal error.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrParticipantInUse),
		errors.Is(err, storage.ErrRosterFull),
		errors.Is(err, ErrGroupFull),
		errors.Is(err, ErrOwnerParticipant):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, calculator.ErrInvalidSplit),
		errors.Is(err, calculator.ErrUnknownParticipant),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrMissingDisplayName),
		errors.Is(err, ErrNotInGroup),
		errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingDescription),
		errors.Is(err, ErrSelfSettlement),
		errors.Is(err, ErrNonPositiveAmount),
		errors.Is(err, ErrInvalidAmountFilter):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
