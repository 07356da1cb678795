package errkind

import (
	"os"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	psUtil "github.com/shirou/gopsutil/process"
)

// Kind tags a class of process-enumeration failures. Enumeration is racy by
// nature (a process may exit between listing and reading its attributes), so
// callers decide per kind whether a failure is recoverable.
type Kind int

const (
	Unknown Kind = iota
	PermissionDenied
	AccessDenied
	NoSuchProcess
	Zombie
)

// ErrZombieProcess marks a process that was only readable as a zombie entry.
var ErrZombieProcess = errors.New("zombie process")

func (k Kind) String() string {
	switch k {
	case PermissionDenied:
		return "permission-denied"
	case AccessDenied:
		return "access-denied"
	case NoSuchProcess:
		return "no-such-process"
	case Zombie:
		return "zombie-process"
	default:
		return "unknown"
	}
}

type Set map[Kind]struct{}

func NewSet(kinds ...Kind) Set {
	set := make(Set, len(kinds))
	for _, kind := range kinds {
		set[kind] = struct{}{}
	}
	return set
}

func (s Set) Add(kind Kind) {
	s[kind] = struct{}{}
}

func (s Set) Contains(kind Kind) bool {
	_, ok := s[kind]
	return ok
}

// ContainsAll reports whether every kind is in the set. An empty slice is
// never contained; a caller with no kinds has nothing to suppress.
func (s Set) ContainsAll(kinds []Kind) bool {
	if len(kinds) == 0 {
		return false
	}
	for _, kind := range kinds {
		if !s.Contains(kind) {
			return false
		}
	}
	return true
}

// DefaultSuppressSet holds the kinds a snapshot run treats as recoverable
// unless configured otherwise.
func DefaultSuppressSet() Set {
	return NewSet(PermissionDenied, AccessDenied, NoSuchProcess)
}

// Classify maps an error to its Kind, unwrapping pkg/errors message chains
// first. Anything that doesn't match a known OS or gopsutil sentinel is
// Unknown and must not be suppressed.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}

	cause := errors.Cause(err)
	switch {
	case cause == psUtil.ErrorProcessNotRunning || matchesErrno(cause, syscall.ESRCH):
		return NoSuchProcess
	case cause == ErrZombieProcess:
		return Zombie
	case matchesErrno(cause, syscall.EACCES):
		return AccessDenied
	case cause == os.ErrPermission || matchesErrno(cause, syscall.EPERM) || os.IsPermission(cause):
		return PermissionDenied
	default:
		return Unknown
	}
}

// KindsOf classifies every leaf of an error: the accumulated members of a
// multierror, or the error itself. Enumeration accumulates one wrapped error
// per unreadable process, so a fully failed pass surfaces as a multierror
// whose members each carry their own kind.
func KindsOf(err error) []Kind {
	if err == nil {
		return nil
	}

	if merged, ok := errors.Cause(err).(*multierror.Error); ok {
		kinds := make([]Kind, 0, len(merged.Errors))
		for _, member := range merged.Errors {
			kinds = append(kinds, KindsOf(member)...)
		}
		return kinds
	}

	return []Kind{Classify(err)}
}

func matchesErrno(err error, target syscall.Errno) bool {
	for {
		if errno, ok := err.(syscall.Errno); ok {
			return errno == target
		}

		switch wrapped := err.(type) {
		case *os.SyscallError:
			err = wrapped.Err
		case *os.PathError:
			err = wrapped.Err
		default:
			return false
		}
	}
}
