package ninel

import (
	"errors"
	"fmt"
)

// Errno is the POSIX-style error code carried by Rlerror.
type Errno uint32

// The handlers only ever send ENOENT, ENOTDIR and EINVAL; EISDIR and
// ENOTEMPTY are exported for clients decoding Rlerror against the full
// code set.
const (
	ENOENT    Errno = 2
	ENOTDIR   Errno = 20
	EISDIR    Errno = 21
	EINVAL    Errno = 22
	ENOTEMPTY Errno = 39
)

func (e Errno) Error() string { return e.String() }

func (e Errno) String() string {
	switch e {
	case ENOENT:
		return "ENOENT"
	case ENOTDIR:
		return "ENOTDIR"
	case EISDIR:
		return "EISDIR"
	case EINVAL:
		return "EINVAL"
	case ENOTEMPTY:
		return "ENOTEMPTY"
	}
	return fmt.Sprintf("Errno(%d)", uint32(e))
}

var (
	ErrInvalidMessage = errors.New("invalid 9P message")
	ErrServerClosed   = errors.New("server closed")

	// errStatfsUnsupported marks platforms without a statfs syscall;
	// handlers substitute the synthetic fallback.
	errStatfsUnsupported = errors.New("statfs not supported on this platform")
)
