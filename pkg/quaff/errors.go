package quaff

import (
	"fmt"

	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/keypath"
)

// DuplicateKeyError is returned when two files map to the same key path.
type DuplicateKeyError struct {
	Key   string // dotted key path
	First string // file that claimed Key first
	Path  string // file that collided
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("More than one file attempted to use \"%s\" as its path. "+
		"This error is caused by having multiple files in a directory with the same name but different extensions.", e.Key)
}

// Code returns [errors.ErrCodeDuplicateKey].
func (e *DuplicateKeyError) Code() errors.Code { return errors.ErrCodeDuplicateKey }

// KeyConflictError is returned when one file's key path is a proper prefix
// of another's, so one value would have to nest inside the other.
type KeyConflictError struct {
	Key      keypath.Path // the shorter key path
	File     string       // file stored at Key
	Nested   keypath.Path // the longer key path
	NestedIn string       // file stored at Nested
}

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("key %q from %s conflicts with %q from %s: a value cannot also be a directory",
		e.Key, e.File, e.Nested, e.NestedIn)
}

// Code returns [errors.ErrCodeKeyConflict].
func (e *KeyConflictError) Code() errors.Code { return errors.ErrCodeKeyConflict }
