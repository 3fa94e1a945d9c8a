package models

import (
	"errors"
	"fmt"
)

// ErrExtractionEmpty marks a structurally valid file that yielded zero
// transactions or claims. Non-fatal: callers surface it as a warning so the
// user knows to check the source format.
var ErrExtractionEmpty = errors.New("extraction produced no records")

// MissingColumnError reports a required semantic column absent from an
// unrecognized CSV schema. Fatal for the file it names.
type MissingColumnError struct {
	File   string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: required column %q not found", e.File, e.Column)
	}
	return fmt.Sprintf("required column %q not found", e.Column)
}

// UnsupportedFormatError reports a file extension outside the supported set.
type UnsupportedFormatError struct {
	File string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported file format %q", e.File, e.Ext)
}
