package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrScanFailed is returned when a search path root cannot be scanned.
	// It is recoverable: the root is skipped and the remaining roots are still scanned.
	ErrScanFailed = zerr.New("failed to scan search path root")

	// ErrUnsupportedRoot is returned when a root is neither a directory nor a known archive.
	ErrUnsupportedRoot = zerr.New("search path root is neither a directory nor an archive")

	// ErrArchiveOpenFailed is returned when a packaged archive cannot be opened.
	ErrArchiveOpenFailed = zerr.New("failed to open archive")

	// ErrInvalidName is returned when a qualified name is empty or malformed.
	ErrInvalidName = zerr.New("invalid qualified name")

	// ErrInvalidLevel is returned when a negative nesting level is requested.
	ErrInvalidLevel = zerr.New("nesting level must not be negative")

	// ErrMalformedRecord is returned when a CSV line cannot be parsed into a unit record.
	ErrMalformedRecord = zerr.New("malformed unit record")

	// ErrAlreadyRunning is returned when the inspection registry is started while not stopped.
	ErrAlreadyRunning = zerr.New("inspection registry is already running")

	// ErrRegistrationConflict is returned when a management name is already published.
	ErrRegistrationConflict = zerr.New("management name is already published")

	// ErrNotPublished is returned when unpublishing or querying a name that is not published.
	ErrNotPublished = zerr.New("management name is not published")

	// ErrHookAlreadyInstalled is returned when a load hook is installed twice.
	ErrHookAlreadyInstalled = zerr.New("load hook is already installed")

	// ErrUnsupportedExportURI is returned when no exporter handles the given URI.
	ErrUnsupportedExportURI = zerr.New("unsupported export URI")

	// ErrExportFailed is returned when writing exported content fails.
	ErrExportFailed = zerr.New("failed to export statistics")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConflictPolicy is returned when the configured conflict policy is unknown.
	ErrInvalidConflictPolicy = zerr.New("invalid conflict policy, expected 'fail' or 'warn'")

	// ErrInvalidLogFormat is returned when the configured log format is unknown.
	ErrInvalidLogFormat = zerr.New("invalid log format, expected 'auto', 'pretty' or 'json'")

	// ErrNoRoots is returned when no search path roots are configured or given.
	ErrNoRoots = zerr.New("no search path roots configured")

	// ErrEventReadFailed is returned when reading the load event stream fails.
	ErrEventReadFailed = zerr.New("failed to read load events")

	// ErrDaemonUnavailable is returned when the inspection daemon cannot be reached.
	ErrDaemonUnavailable = zerr.New("inspection daemon is not reachable")

	// ErrDaemonRunning is returned when another daemon already answers on the socket.
	ErrDaemonRunning = zerr.New("an inspection daemon is already listening on the socket")
)

// Tag annotates a sentinel with one metadata pair.
// Unlike zerr.With on the sentinel itself, the result still matches errors.Is(err, sentinel).
func Tag(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}

// Cause attaches the underlying error to a sentinel so that errors.Is matches both.
// The result is safe to annotate further with zerr.With.
func Cause(sentinel, err error) error {
	if err == nil {
		return zerr.Wrap(sentinel, "")
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
