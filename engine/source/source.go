// Package source defines the row source contract the executor consumes
// (spec §6): a lazy, single-pass, fallible pull iterator of Rows, plus
// the Open factory that selects a concrete source by the "from" target's
// shape — a file extension or a connection URI scheme.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/omniql-engine/queryengine/engine/row"
)

// Error carries a textual description of a source failure, per spec §6.
type Error struct {
	Description string
}

func (e *Error) Error() string { return e.Description }

// NewError builds a Error from a description.
func NewError(description string) *Error { return &Error{Description: description} }

// Wrap builds a Error wrapping an underlying error's message.
func Wrap(err error) *Error { return &Error{Description: err.Error()} }

// Source is a lazy, single-pass, fallible pull iterator of Rows. Next
// returns (row, nil, false) for a row, (nil, err, false) on failure, and
// (nil, nil, true) at end of stream. The executor consumes exactly once
// and never closes or resets a Source.
type Source interface {
	Next() (*row.Row, error, bool)
}

// Opener is a constructor registered against a scheme or file extension.
type Opener func(target string) (Source, error)

var (
	extensionOpeners = map[string]Opener{}
	schemeOpeners    = map[string]Opener{}
)

// RegisterExtension makes Open dispatch filenames ending in "."+ext to
// open. Called from each concrete source package's init.
func RegisterExtension(ext string, open Opener) {
	extensionOpeners[ext] = open
}

// RegisterScheme makes Open dispatch targets of the form "scheme://..."
// to open. Called from each concrete source package's init.
func RegisterScheme(scheme string, open Opener) {
	schemeOpeners[scheme] = open
}

// Open selects a concrete Source for target: a registered URI scheme
// (e.g. "mongodb://", "redis://") takes precedence over file-extension
// dispatch (.csv, .json). Unknown/missing extension yields the same
// error text as the original implementation.
func Open(target string) (Source, error) {
	if i := strings.Index(target, "://"); i > 0 {
		scheme := target[:i]
		if open, ok := schemeOpeners[scheme]; ok {
			return open(target)
		}
	}

	ext := filepath.Ext(target)
	if ext == "" {
		return nil, NewError("unknown file type")
	}
	ext = strings.TrimPrefix(ext, ".")
	open, ok := extensionOpeners[ext]
	if !ok {
		return nil, NewError(fmt.Sprintf("unknown file extension: .%s", ext))
	}
	return open(target)
}
