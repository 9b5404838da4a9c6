package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sfu/database"
	"sfu/media"
)

// Below is the error taxonomy of coordinator operations.
var (
	ErrNotFound                 = errors.New("not found")
	ErrDuplicatePeer            = errors.New("duplicate peer")
	ErrInvalidState             = errors.New("invalid state")
	ErrIncompatibleCapabilities = errors.New("incompatible capabilities")
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrTimeout                  = errors.New("timeout")
	ErrEngineFatal              = errors.New("media engine is unavailable")
)

var taxonomy = []error{
	ErrNotFound, ErrDuplicatePeer, ErrInvalidState, ErrIncompatibleCapabilities,
	ErrInvalidArgument, ErrTimeout, ErrEngineFatal,
}

// translate wraps registry and engine errors with the matching error of the taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range taxonomy {
		if errors.Is(err, target) {
			return err
		}
	}

	var kind error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = ErrTimeout
	case errors.Is(err, media.ErrEngineFatal):
		kind = ErrEngineFatal
	case errors.Is(err, database.ErrRoomNotFound),
		errors.Is(err, database.ErrPeerNotFound),
		errors.Is(err, database.ErrTransportNotFound),
		errors.Is(err, database.ErrProducerNotFound),
		errors.Is(err, database.ErrConsumerNotFound),
		errors.Is(err, media.ErrProducerNotFound),
		errors.Is(err, media.ErrClosed):
		kind = ErrNotFound
	case errors.Is(err, database.ErrPeerAlreadyExists):
		kind = ErrDuplicatePeer
	case errors.Is(err, database.ErrTransportStateMismatch),
		errors.Is(err, database.ErrTransportAlreadyExists),
		errors.Is(err, media.ErrTransportDirection):
		kind = ErrInvalidState
	case errors.Is(err, media.ErrUnsupportedCodec),
		errors.Is(err, media.ErrIncompatible):
		kind = ErrIncompatibleCapabilities
	case errors.Is(err, media.ErrInvalidParameters),
		errors.Is(err, media.ErrInvalidKind),
		errors.Is(err, media.ErrInvalidDirection),
		errors.Is(err, database.ErrRoomMismatch):
		kind = ErrInvalidArgument
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
