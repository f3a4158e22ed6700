package core

import "errors"

var (
	// ErrAlreadyOpen is returned by OpenShift when the user's ledger
	// already resolves to an open shift.
	ErrAlreadyOpen = errors.New("you already have an open shift")

	// ErrNoOpenShift is returned by CloseShift when there is no
	// unmatched clock-in to close.
	ErrNoOpenShift = errors.New("no open shift found to close")

	// ErrWriteInProgress is returned when a second Open/Close for the
	// same user arrives while one is still in flight.
	ErrWriteInProgress = errors.New("shift action already in progress")

	// ErrNotFound is returned by EditEvent/DeleteEvent for an unknown id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when required edit fields are missing.
	ErrInvalidInput = errors.New("type and timestamp are required")

	// ErrStoreUnavailable wraps persistence failures.
	ErrStoreUnavailable = errors.New("attendance store unavailable")
)
