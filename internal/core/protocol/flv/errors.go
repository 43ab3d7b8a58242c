// If you are AI: This file defines the demuxer error classes.
// Fatal errors wrap ErrFormat or ErrCacheOverflow; ErrDecode is per-tag and recoverable.

package flv

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports a structural violation of the container grammar. Fatal.
	ErrFormat = errors.New("flv format error")
	// ErrCacheOverflow reports a single unit larger than the stream cache. Fatal.
	ErrCacheOverflow = errors.New("flv stream cache overflow")
	// ErrDecode reports a malformed audio or video tag body. Recoverable.
	ErrDecode = errors.New("flv tag decode error")
	// ErrStopped is returned by Feed after the demuxer stopped.
	ErrStopped = errors.New("flv demuxer stopped")
	// ErrClosed is returned by Feed after Close.
	ErrClosed = errors.New("flv demuxer closed")
)

// formatError builds a fatal grammar error annotated with the reader state.
func formatError(state ReadState, reason string) error {
	return fmt.Errorf("%w: %s (state %s)", ErrFormat, reason, state)
}

// decodeError builds a recoverable tag error.
func decodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}
