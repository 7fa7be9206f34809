package format

import (
	"fmt"

	"github.com/matzehuels/quaff/pkg/errors"
)

// UnsupportedExtensionError is returned for files no decoder handles.
type UnsupportedExtensionError struct {
	Path string
	Ext  string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unable to parse %s: no valid processor found for %q extension", e.Path, e.Ext)
}

// Code returns [errors.ErrCodeUnsupportedExtension].
func (e *UnsupportedExtensionError) Code() errors.Code { return errors.ErrCodeUnsupportedExtension }

// DecodeError reports malformed file contents. Err is the parser's own error.
type DecodeError struct {
	Path   string
	Ext    string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %s: %v", e.Format, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Code returns [errors.ErrCodeDecode].
func (e *DecodeError) Code() errors.Code { return errors.ErrCodeDecode }

// ScriptError reports a script data source that could not be evaluated:
// it failed to compile, has no default export, exports a function with an
// unsupported signature, or panicked. Errors the script returns itself are
// not wrapped.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// Code returns [errors.ErrCodeScriptFailed].
func (e *ScriptError) Code() errors.Code { return errors.ErrCodeScriptFailed }
