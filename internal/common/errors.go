// Package common holds the error kinds shared by every validation service.
// Services wrap these sentinels with fmt.Errorf("%w: ...") so callers can
// classify failures with errors.Is while still seeing a specific message.
package common

import "errors"

var (
	// ErrRequiredField marks structurally incomplete input: an empty string,
	// an unset timestamp, a non-positive foreign key, or start >= end.
	ErrRequiredField = errors.New("required field")

	// ErrNotFound marks a missing referenced entity among non-deleted rows,
	// including the empty-result-set case of the FindAll operations.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate marks a uniqueness violation: email, login, project
	// title, or a conflicting time interval for the same user.
	ErrDuplicate = errors.New("duplicate")
)
