package importer

import "errors"

// Error taxonomy for the import pipeline. Per-item errors are recorded into
// the batch's bounded error log and never raise out of ProcessGroup; only
// ErrSourceUnreadable is fatal to a batch.
var (
	// ErrSourceUnreadable means the source root itself is missing or
	// unreadable; the batch transitions to failed.
	ErrSourceUnreadable = errors.New("source root unreadable")

	// ErrFileUnreadable is a per-item fault: the file could not be opened or
	// decoded. The group is skipped and logged.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrUnsupportedFormat is a per-item fault for files whose extension
	// promised a decodable image but whose content is not.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDerivativeWriteFailed is a per-item fault; partial outputs for the
	// item are cleaned up before it is recorded.
	ErrDerivativeWriteFailed = errors.New("derivative write failed")

	// ErrDuplicateRace indicates two groups raced to create the same photo
	// identity. The check-then-create step is serialized per identity hash,
	// so seeing this error is a programming error, not a user-facing
	// condition.
	ErrDuplicateRace = errors.New("duplicate photo creation race detected")
)
