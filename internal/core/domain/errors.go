package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownField is returned when a configuration entry contains a field outside its recognized set.
	ErrUnknownField = zerr.New("unknown field")

	// ErrDuplicateField is returned when a field appears more than once within one entry.
	ErrDuplicateField = zerr.New("duplicate field")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = zerr.New("missing field")

	// ErrWrongShape is returned when a configuration value has an unexpected structure.
	ErrWrongShape = zerr.New("wrong shape")

	// ErrInvalidScope is returned when an install scope is neither "user" nor "system".
	ErrInvalidScope = zerr.New("invalid install scope")

	// ErrHomeUnresolved is returned when $HOME is used in a path but the home directory cannot be determined.
	ErrHomeUnresolved = zerr.New("home directory could not be resolved")

	// ErrTransferFailed is returned when a remote resource could not be downloaded.
	ErrTransferFailed = zerr.New("transfer failed")

	// ErrChecksumMismatch is returned when a downloaded file does not match its declared sum.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrCommandFailed is returned when an external command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrRecordCorrupt is returned when the installed-binaries record cannot be parsed.
	ErrRecordCorrupt = zerr.New("installed record is corrupt")

	// ErrLocked is returned when another bow process holds the state lock.
	ErrLocked = zerr.New("another bow process is running")

	// ErrEnsureFailed is returned when one or more providers failed to reconcile.
	ErrEnsureFailed = zerr.New("ensure failed")
)
