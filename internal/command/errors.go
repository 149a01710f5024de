package command

import "errors"

// Domain errors for the command package.
//
// These are surfaced synchronously to the command caller: they represent
// user-correctable input or a best-effort transport attempt, not system
// faults.
var (
	// ErrInvalid is returned when a command cannot be dispatched because
	// the device has no derivable command topic.
	ErrInvalid = errors.New("command: not dispatchable")

	// ErrUnsupported is returned when the action is not in the device
	// type's accepted action set.
	ErrUnsupported = errors.New("command: unsupported action")

	// ErrTransportFailure is returned when the dispatch was translated
	// but the publish to the broker failed.
	ErrTransportFailure = errors.New("command: transport failure")
)
