package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/Tomlord1122/listsync/internal/domain"
	"github.com/Tomlord1122/listsync/internal/repository"
)

var (
	// ErrBlankField is returned when a record's primary text is empty or
	// whitespace-only. Nothing is sent to the server.
	ErrBlankField = errors.New("primary field is blank")

	// ErrNoActiveEdit is returned by draft operations while no record is
	// being edited.
	ErrNoActiveEdit = errors.New("no record is being edited")

	// ErrUnknownRecord is returned when an id is not in the local collection.
	ErrUnknownRecord = errors.New("record not in local collection")
)

// Op names a synchronizer operation.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpToggle Op = "toggle"
	OpRemove Op = "remove"
	OpEdit   Op = "edit"
)

// Reason classifies why an operation failed.
type Reason string

const (
	ReasonValidation Reason = "validation"
	ReasonTransport  Reason = "transport"
	ReasonStatus     Reason = "status"
	ReasonNotFound   Reason = "not_found"
	ReasonDecode     Reason = "decode"
	ReasonCanceled   Reason = "canceled"
	ReasonTimeout    Reason = "timeout"
)

// SyncError is the failure outcome of a synchronizer operation. The local
// collection is never patched when one is returned.
type SyncError struct {
	Op     Op
	ID     domain.ID
	Reason Reason
	Err    error
}

func (e *SyncError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s failed (%s): %v", e.Op, e.ID, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the failure reason carried by err, or "" if err is not a
// *SyncError.
func ReasonOf(err error) Reason {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Reason
	}
	return ""
}

func classify(err error) Reason {
	var statusErr *repository.StatusError
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	case errors.Is(err, repository.ErrNotFound):
		return ReasonNotFound
	case errors.As(err, &statusErr):
		return ReasonStatus
	case errors.Is(err, repository.ErrMalformedResponse):
		return ReasonDecode
	default:
		return ReasonTransport
	}
}
