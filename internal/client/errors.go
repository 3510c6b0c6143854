package client

import (
	"errors"
	"fmt"
)

// Remote faults are classified exactly once, into one of the errors below,
// and returned immediately; the client never retries. The error text is the
// user-facing message printed by the command layer.
var (
	// ErrBadCredentials is returned when the cluster answers 401.
	ErrBadCredentials = errors.New("Bad credentials")

	// ErrUnknownServer covers every other transport or HTTP fault on an
	// operation that has no defined negative outcome.
	ErrUnknownServer = errors.New("Unknown error received from the server")

	// ErrNodeNotFound is the target of errors.Is for NodeNotFoundError.
	ErrNodeNotFound = errors.New("node not found")
)

// NodeNotFoundError is returned by NodeInfo when no node in the cluster
// matches the requested name.
type NodeNotFoundError struct {
	Name string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("No node named '%s' was found", e.Name)
}

func (e *NodeNotFoundError) Unwrap() error { return ErrNodeNotFound }
