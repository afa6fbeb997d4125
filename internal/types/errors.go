package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoUserList    = errors.New("user list file not found")
	ErrEmptyUserList = errors.New("user list contains no usernames")
	ErrNoSnapshots   = errors.New("no snapshot files found")
	ErrNoComments    = errors.New("no recognizable comment markup")
	ErrNotLink       = errors.New("token is not a link")
)

// ParseError wraps errors that occur while reading or parsing a snapshot.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LinkError wraps a hyperlink target that could not be normalized.
type LinkError struct {
	Target string
	Err    error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("bad link target %q: %v", e.Target, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while writing a report artifact.
type StorageError struct {
	Artifact string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Artifact, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
