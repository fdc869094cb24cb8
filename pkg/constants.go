package zipcdir

import "strings"

// Record signatures, stored little-endian on disk ("PK" followed by two type bytes)
const (
	CentralDirSignature           uint32 = 0x02014b50
	LocalFileHeaderSignature      uint32 = 0x04034b50
	DataDescriptorSignature       uint32 = 0x08074b50
	EndOfCentralDirSignature      uint32 = 0x06054b50
	Zip64EndOfCentralDirSignature uint32 = 0x06064b50
	Zip64EndLocatorSignature      uint32 = 0x07064b50
)

// Fixed record sizes
const (
	EOCDFixedSize      = 22     // signature(4) + disks(4) + entry counts(4) + cd size(4) + cd offset(4) + comment len(2)
	EOCDMaxCommentLen  = 0xFFFF // comment length is a 16-bit field
	EOCDSearchWindow   = EOCDFixedSize + EOCDMaxCommentLen
	CDFHFixedSize      = 46
	LocalHeaderSize    = 30
	Zip64EndLocatorLen = 20
	Zip64EndRecordLen  = 56
)

// EOCD field values that defer to the ZIP64 record
const (
	Zip64EntriesPlaceholder uint16 = 0xFFFF
	Zip64FieldPlaceholder   uint32 = 0xFFFFFFFF
)

// Offsets of the fields inside the 22-byte EOCD record
const (
	eocdOffDiskNumber      = 4
	eocdOffCentralDirDisk  = 6
	eocdOffEntriesThisDisk = 8
	eocdOffTotalEntries    = 10
	eocdOffCentralDirSize  = 12
	eocdOffCentralDirStart = 16
	eocdOffCommentLength   = 20
)

// Offsets of the fields inside the 46-byte CDFH prefix
const (
	cdfhOffVersionMadeBy  = 4
	cdfhOffVersionNeeded  = 6
	cdfhOffFlags          = 8
	cdfhOffMethod         = 10
	cdfhOffModTime        = 12
	cdfhOffModDate        = 14
	cdfhOffCRC32          = 16
	cdfhOffCompressedSize = 20
	cdfhOffUncompressed   = 24
	cdfhOffNameLen        = 28
	cdfhOffExtraLen       = 30
	cdfhOffCommentLen     = 32
	cdfhOffDiskStart      = 34
	cdfhOffInternalAttrs  = 36
	cdfhOffExternalAttrs  = 38
	cdfhOffLocalHeaderOff = 42
)

// General purpose bit flags
const (
	FlagEncrypted      uint16 = 1 << 0
	FlagDataDescriptor uint16 = 1 << 3
	FlagStrongEncrypt  uint16 = 1 << 6
	FlagUTF8           uint16 = 1 << 11
)

// Compression method codes
const (
	MethodStore     uint16 = 0
	MethodShrink    uint16 = 1
	MethodImplode   uint16 = 6
	MethodDeflate   uint16 = 8
	MethodDeflate64 uint16 = 9
	MethodBzip2     uint16 = 12
	MethodLZMA      uint16 = 14
	MethodZstd      uint16 = 93
	MethodXZ        uint16 = 95
	MethodAES       uint16 = 99
)

// Entry kinds used as name index contexts
const (
	KindFile = "file"
	KindDir  = "dir"
)

var methodNames = map[uint16]string{
	MethodStore:     "store",
	MethodShrink:    "shrink",
	MethodImplode:   "implode",
	MethodDeflate:   "deflate",
	MethodDeflate64: "deflate64",
	MethodBzip2:     "bzip2",
	MethodLZMA:      "lzma",
	MethodZstd:      "zstd",
	MethodXZ:        "xz",
	MethodAES:       "aes",
}

// MethodName returns the human-readable name for a compression method
func MethodName(method uint16) string {
	if name, ok := methodNames[method]; ok {
		return name
	}
	return "unknown"
}

// MethodFromName returns the method code from a name (case-insensitive)
func MethodFromName(name string) (uint16, bool) {
	name = strings.ToLower(name)
	for method, n := range methodNames {
		if n == name {
			return method, true
		}
	}
	return 0, false
}
