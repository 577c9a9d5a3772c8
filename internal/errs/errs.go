// Package errs defines the error kinds reported by cmm commands.
package errs

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Kind classifies a failure so callers can decide whether to abort or warn.
type Kind int

const (
	Unknown Kind = iota
	MissingRequiredInput
	UnrecognizedArgument
	NotAProjectDirectory
	DirectoryCreationFailed
	VersionControlInitFailed
	FileCreationFailed
	FileOpenOrParseFailed
	ExternalProcessFailed
)

var kindNames = [...]string{
	Unknown:                  "unknown error",
	MissingRequiredInput:     "missing required input",
	UnrecognizedArgument:     "unknown argument",
	NotAProjectDirectory:     "not a project directory",
	DirectoryCreationFailed:  "failed to create folder",
	VersionControlInitFailed: "failed to init git repo",
	FileCreationFailed:       "failed to create file",
	FileOpenOrParseFailed:    "failed to open file",
	ExternalProcessFailed:    "external process failed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// Error makes a bare Kind usable as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Error is a classified failure with optional path or argument context.
type Error struct {
	Kind Kind
	Path string // file or directory involved, if any
	Arg  string // offending input, if any
	Err  error
}

// New returns an *Error of kind k wrapping err.
func New(k Kind, err error) *Error {
	return &Error{Kind: k, Err: err}
}

// WithPath returns an *Error of kind k about path, wrapping err.
func WithPath(k Kind, path string, err error) *Error {
	return &Error{Kind: k, Path: path, Err: err}
}

// Unrecognized reports an argument the command does not accept.
func Unrecognized(arg string) *Error {
	return &Error{Kind: UnrecognizedArgument, Arg: arg}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		fmt.Fprintf(&b, " '%s'", e.Path)
	}
	if e.Arg != "" {
		fmt.Fprintf(&b, " '%s'", e.Arg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare Kind target against e.Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// ProcessError reports an external command that exited unsuccessfully.
// ExitCode is -1 when the process did not report one (signal, failure to start).
type ProcessError struct {
	Command  string
	ExitCode int
	Output   string // captured output, empty when it was streamed
	Err      error
}

// Process builds a *ProcessError for command from the error returned by exec.
func Process(command string, output string, err error) *ProcessError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ProcessError{Command: command, ExitCode: code, Output: strings.TrimSpace(output), Err: err}
}

func (e *ProcessError) Error() string {
	code := "an unknown error code"
	if e.ExitCode >= 0 {
		code = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	msg := fmt.Sprintf("run process '%s' exited with %s", e.Command, code)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Is reports ExternalProcessFailed for every ProcessError.
func (e *ProcessError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == ExternalProcessFailed
}
