package zipcdir

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why reading an archive's directory failed
type ErrorKind uint8

// Resource errors
const (
	KindOK           ErrorKind = 0
	KindIoRead       ErrorKind = 1
	KindIoWrite      ErrorKind = 2
	KindIoSeek       ErrorKind = 3
	KindMemAlloc     ErrorKind = 4
	KindInvalidArg   ErrorKind = 5
	KindBadFileDesc  ErrorKind = 6
	KindFileTooSmall ErrorKind = 7
	KindTruncated    ErrorKind = 8
)

// Structural errors: EOCD
const (
	KindEocdNotFound      ErrorKind = 10
	KindEocdSignatureBad  ErrorKind = 11
	KindEocdCorruptFields ErrorKind = 12
)

// Structural errors: central directory
const (
	KindCentralDirLoc       ErrorKind = 20
	KindCentralDirRead      ErrorKind = 21
	KindCentralDirCorrupt   ErrorKind = 22
	KindCdEntrySignatureBad ErrorKind = 23
	KindCdEntryCorrupt      ErrorKind = 24
)

// Local file header errors, reserved for extraction
const (
	KindLfhLoc          ErrorKind = 30
	KindLfhRead         ErrorKind = 31
	KindLfhSignatureBad ErrorKind = 32
	KindLfhCorrupt      ErrorKind = 33
)

// Unsupported features
const (
	KindCompressionUnsupported ErrorKind = 50
	KindDecompressionFailed    ErrorKind = 51
	KindZip64Unsupported       ErrorKind = 52
)

// KindGeneric is an unclassified failure
const KindGeneric ErrorKind = 99

var kindMessages = map[ErrorKind]string{
	KindOK:                     "success",
	KindIoRead:                 "failed to read data from the file",
	KindIoWrite:                "failed to write data to the file",
	KindIoSeek:                 "failed to change file offset",
	KindMemAlloc:               "memory allocation failed",
	KindInvalidArg:             "invalid argument",
	KindBadFileDesc:            "the provided file descriptor is invalid",
	KindFileTooSmall:           "file too small for basic zip structures",
	KindTruncated:              "an expected amount of data could not be read",
	KindEocdNotFound:           "end of central directory record not found",
	KindEocdSignatureBad:       "end of central directory signature is incorrect",
	KindEocdCorruptFields:      "end of central directory fields are inconsistent",
	KindCentralDirLoc:          "failed to locate the central directory",
	KindCentralDirRead:         "failed to read central directory data",
	KindCentralDirCorrupt:      "central directory contents are malformed",
	KindCdEntrySignatureBad:    "central directory file header has an incorrect signature",
	KindCdEntryCorrupt:         "central directory file header fields are corrupted",
	KindLfhLoc:                 "failed to locate a local file header",
	KindLfhRead:                "failed to read a local file header",
	KindLfhSignatureBad:        "local file header has an incorrect signature",
	KindLfhCorrupt:             "local file header fields are corrupted",
	KindCompressionUnsupported: "compression method not supported",
	KindDecompressionFailed:    "decompression failed",
	KindZip64Unsupported:       "zip64 archives are not supported",
	KindGeneric:                "unclassified zip error",
}

// Message returns the fixed description for an error kind
func (k ErrorKind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[KindGeneric]
}

func (k ErrorKind) String() string {
	return fmt.Sprintf("%s (code %d)", k.Message(), uint8(k))
}

// Sentinels for errors.Is checks against a *ZipError
var (
	ErrIoRead              = &ZipError{Kind: KindIoRead, Offset: -1, Entry: -1}
	ErrInvalidArg          = &ZipError{Kind: KindInvalidArg, Offset: -1, Entry: -1}
	ErrBadFileDesc         = &ZipError{Kind: KindBadFileDesc, Offset: -1, Entry: -1}
	ErrFileTooSmall        = &ZipError{Kind: KindFileTooSmall, Offset: -1, Entry: -1}
	ErrTruncated           = &ZipError{Kind: KindTruncated, Offset: -1, Entry: -1}
	ErrEocdNotFound        = &ZipError{Kind: KindEocdNotFound, Offset: -1, Entry: -1}
	ErrEocdSignatureBad    = &ZipError{Kind: KindEocdSignatureBad, Offset: -1, Entry: -1}
	ErrCentralDirCorrupt   = &ZipError{Kind: KindCentralDirCorrupt, Offset: -1, Entry: -1}
	ErrCdEntrySignatureBad = &ZipError{Kind: KindCdEntrySignatureBad, Offset: -1, Entry: -1}
	ErrZip64Unsupported    = &ZipError{Kind: KindZip64Unsupported, Offset: -1, Entry: -1}
)

// ErrEmptyArchive is returned by the accessor for a zero-length file. It is an
// outcome rather than a failure: callers report an empty listing.
var ErrEmptyArchive = errors.New("empty archive")

// ZipError carries the kind of failure plus where in the archive it happened.
// Offset and Entry are -1 when not applicable.
type ZipError struct {
	Kind   ErrorKind
	Offset int64 // Byte offset of the offending record
	Entry  int   // Central directory index of the offending entry
	Detail string
	Err    error
}

func newZipError(kind ErrorKind, offset int64, entry int, format string, args ...interface{}) *ZipError {
	return &ZipError{
		Kind:   kind,
		Offset: offset,
		Entry:  entry,
		Detail: fmt.Sprintf(format, args...),
	}
}

func wrapZipError(kind ErrorKind, err error, format string, args ...interface{}) *ZipError {
	return &ZipError{
		Kind:   kind,
		Offset: -1,
		Entry:  -1,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

func (e *ZipError) Error() string {
	msg := "zip: " + e.Kind.Message()
	if e.Entry >= 0 {
		msg += fmt.Sprintf(" (entry %d)", e.Entry)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ZipError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *ZipError of the same kind
func (e *ZipError) Is(target error) bool {
	t, ok := target.(*ZipError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the error kind from err, KindGeneric for foreign errors and
// KindOK for nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindOK
	}
	var ze *ZipError
	if errors.As(err, &ze) {
		return ze.Kind
	}
	return KindGeneric
}
