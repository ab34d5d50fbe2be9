package shaderbind

import "errors"

// Engine errors.
//
// Per-call failures are locally recoverable: one bad write or bind never
// aborts processing of other slots or later draws. Construction-time
// violations abort New, since they mean the reflection data and the device
// cannot agree on a valid layout.
var (
	// ErrNotFound is returned when a name resolves to no slot.
	ErrNotFound = errors.New("shaderbind: name not found")

	// ErrSizeMismatch is reported when a write's byte width does not match
	// the backend-expected width for the slot's declared type. The write is
	// logged and skipped rather than returned, so draws keep going.
	ErrSizeMismatch = errors.New("shaderbind: uniform size mismatch")

	// ErrOutOfRange is returned when an array index or suballocation
	// capacity is exceeded, or a staging write would overrun its arena.
	ErrOutOfRange = errors.New("shaderbind: argument out of range")

	// ErrUnsupported is returned when suballocation is requested on a
	// backend that does not support it.
	ErrUnsupported = errors.New("shaderbind: operation not supported by backend")

	// ErrMissingBuffer is reported when a slot's backing resource is gone.
	// Like ErrSizeMismatch it is logged and skipped, never returned.
	ErrMissingBuffer = errors.New("shaderbind: missing backing buffer")

	// ErrNotSuballocated is returned when a generation switch resolved to
	// slots but none of them were suballocated.
	ErrNotSuballocated = errors.New("shaderbind: no suballocated buffer for name")

	// ErrInvalidReflection is returned by New when the reflection snapshot
	// violates a construction invariant (zero-length block, block larger
	// than the device or format allows, duplicate texture name).
	ErrInvalidReflection = errors.New("shaderbind: invalid reflection data")
)
