package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/calculator"
	"github.com/mmynk/wesplit/internal/storage"
)

var (
	errInvalidArgument = errors.New("invalid argument")
	errNotMember       = errors.New("not a member of this group")
)

// invalidf builds a request validation error.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, args...))
}

// codeOf maps domain and storage errors to Connect codes.
func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, errInvalidArgument), errors.Is(err, calculator.ErrInvalidSplit):
		return connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, errNotMember):
		return connect.CodePermissionDenied
	case errors.Is(err, storage.ErrParticipantInUse):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}
