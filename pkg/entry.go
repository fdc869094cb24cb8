package zipcdir

import (
	"strings"
	"time"
)

// ZipEntry is one central directory record, copied out of the archive
type ZipEntry struct {
	Name              string // Raw name bytes, not validated as UTF-8
	CompressedSize    uint32
	UncompressedSize  uint32
	Method            uint16
	LocalHeaderOffset uint32 // Where the local file header begins, for extraction
	CRC32             uint32
	Flags             uint16
	VersionMadeBy     uint16
	ModTime           uint16 // MS-DOS time
	ModDate           uint16 // MS-DOS date
	ExternalAttrs     uint32

	nameOff int // Offset of Name inside the directory's name block
}

// NameBytes returns a copy of the raw name
func (e *ZipEntry) NameBytes() []byte {
	return []byte(e.Name)
}

// IsDir reports whether the entry names a directory
func (e *ZipEntry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// IsEncrypted reports whether the payload is encrypted
func (e *ZipEntry) IsEncrypted() bool {
	return e.Flags&(FlagEncrypted|FlagStrongEncrypt) != 0
}

// HasDataDescriptor reports whether sizes and CRC trail the payload
func (e *ZipEntry) HasDataDescriptor() bool {
	return e.Flags&FlagDataDescriptor != 0
}

// IsUTF8 reports whether the writer declared the name as UTF-8
func (e *ZipEntry) IsUTF8() bool {
	return e.Flags&FlagUTF8 != 0
}

// MethodName returns the compression method name
func (e *ZipEntry) MethodName() string {
	return MethodName(e.Method)
}

// Modified decodes the MS-DOS timestamp. MS-DOS times carry no zone and are
// reported in UTC; a zero date yields the zero time.
func (e *ZipEntry) Modified() time.Time {
	return msDosTimeToTime(e.ModDate, e.ModTime)
}

// Ratio returns compressed/uncompressed, 0 for empty entries
func (e *ZipEntry) Ratio() float64 {
	if e.UncompressedSize == 0 {
		return 0
	}
	return float64(e.CompressedSize) / float64(e.UncompressedSize)
}

func msDosTimeToTime(dosDate, dosTime uint16) time.Time {
	if dosDate == 0 {
		return time.Time{}
	}
	return time.Date(
		int(dosDate>>9+1980),
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),
		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f*2),
		0,
		time.UTC,
	)
}

func entryKind(e *ZipEntry) string {
	if e.IsDir() {
		return KindDir
	}
	return KindFile
}
