package bsac

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the ways reading or writing a base-font header can
// fail. Every kind is fatal to the operation that raised it: parsing stops
// at the first error and returns no partial FileInfo.
type ErrorKind int

const (
	// OutOfBounds marks a cursor access outside the underlying buffer.
	OutOfBounds ErrorKind = iota + 1
	// InvalidWidth marks an offset access with a width outside 1…4.
	InvalidWidth
	// InvalidArgument marks an argument a call cannot honor, e.g. a
	// negative skip distance or an extra value too wide to encode.
	InvalidArgument
	// BadMagic marks a blob that does not start with 'BSAC'.
	BadMagic
	// UnsupportedVersion marks a header with a version other than 1.
	UnsupportedVersion
	// UnknownTag marks a tag-table entry this package does not know.
	UnknownTag
	// MalformedSegmentTable marks an inconsistency inside a compressed
	// segment table, e.g. an unknown format byte or a run of length zero
	// before the final entry.
	MalformedSegmentTable
	// ReconstructionError marks a failed consistency check while
	// synthesizing a character-map subtable from segment data.
	ReconstructionError
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfBounds:
		return "OutOfBounds"
	case InvalidWidth:
		return "InvalidWidth"
	case InvalidArgument:
		return "InvalidArgument"
	case BadMagic:
		return "BadMagic"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case UnknownTag:
		return "UnknownTag"
	case MalformedSegmentTable:
		return "MalformedSegmentTable"
	case ReconstructionError:
		return "ReconstructionError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error carries a failure from header parsing or buffer editing. Tag is
// set when the failure happened inside a tag handler, 0 otherwise. Offset
// is the cursor position relative to the cursor's base, or -1 when no
// position applies.
type Error struct {
	Kind   ErrorKind
	Tag    Tag
	Issue  string
	Offset int
}

func (e Error) Error() string {
	if e.Tag != 0 {
		return fmt.Sprintf("[%s] tag %s at offset %d: %s", e.Kind, e.Tag, e.Offset, e.Issue)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("[%s] at offset %d: %s", e.Kind, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Issue)
}

// KindOf returns the ErrorKind of err, or 0 if err did not originate in
// this package.
func KindOf(err error) ErrorKind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// withTag stamps a tag onto an Error that does not carry one yet. Foreign
// errors pass through untouched.
func withTag(err error, tag Tag) error {
	var e Error
	if errors.As(err, &e) && e.Tag == 0 {
		e.Tag = tag
		return e
	}
	return err
}

// Warning is a non-fatal observation recorded during header parsing, kept
// on the FileInfo for clients that care. Parsing continues after a warning.
type Warning struct {
	Tag    Tag
	Issue  string
	Offset int
}

func (w Warning) String() string {
	if w.Tag != 0 {
		return fmt.Sprintf("tag %s at offset %d: %s", w.Tag, w.Offset, w.Issue)
	}
	return fmt.Sprintf("at offset %d: %s", w.Offset, w.Issue)
}
