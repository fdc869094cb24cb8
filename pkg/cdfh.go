package zipcdir

import (
	"encoding/binary"
	"fmt"
)

// centralDirHeader is the decoded 46-byte fixed prefix of a CDFH record
type centralDirHeader struct {
	Signature         uint32
	VersionMadeBy     uint16
	VersionNeeded     uint16
	Flags             uint16
	Method            uint16
	ModTime           uint16
	ModDate           uint16
	CRC32             uint32
	CompressedSize    uint32
	UncompressedSize  uint32
	NameLen           uint16
	ExtraLen          uint16
	CommentLen        uint16
	DiskStart         uint16
	InternalAttrs     uint16
	ExternalAttrs     uint32
	LocalHeaderOffset uint32
}

// RecordSize returns the full on-disk size: fixed prefix plus variable fields
func (h *centralDirHeader) RecordSize() int64 {
	return CDFHFixedSize + int64(h.NameLen) + int64(h.ExtraLen) + int64(h.CommentLen)
}

// peekCDFH validates and decodes only the fixed prefix at offset and returns the
// offset of the following record. No variable-length bytes are read, only
// bounded against the archive length.
func peekCDFH(data []byte, offset int64, entryIndex int) (centralDirHeader, int64, error) {
	n := int64(len(data))
	if offset < 0 || offset+CDFHFixedSize > n {
		return centralDirHeader{}, -1, newZipError(KindTruncated, offset, entryIndex,
			"header needs %d bytes, %d available", CDFHFixedSize, n-offset)
	}

	rec := data[offset : offset+CDFHFixedSize]
	hdr := centralDirHeader{
		Signature:         binary.LittleEndian.Uint32(rec),
		VersionMadeBy:     binary.LittleEndian.Uint16(rec[cdfhOffVersionMadeBy:]),
		VersionNeeded:     binary.LittleEndian.Uint16(rec[cdfhOffVersionNeeded:]),
		Flags:             binary.LittleEndian.Uint16(rec[cdfhOffFlags:]),
		Method:            binary.LittleEndian.Uint16(rec[cdfhOffMethod:]),
		ModTime:           binary.LittleEndian.Uint16(rec[cdfhOffModTime:]),
		ModDate:           binary.LittleEndian.Uint16(rec[cdfhOffModDate:]),
		CRC32:             binary.LittleEndian.Uint32(rec[cdfhOffCRC32:]),
		CompressedSize:    binary.LittleEndian.Uint32(rec[cdfhOffCompressedSize:]),
		UncompressedSize:  binary.LittleEndian.Uint32(rec[cdfhOffUncompressed:]),
		NameLen:           binary.LittleEndian.Uint16(rec[cdfhOffNameLen:]),
		ExtraLen:          binary.LittleEndian.Uint16(rec[cdfhOffExtraLen:]),
		CommentLen:        binary.LittleEndian.Uint16(rec[cdfhOffCommentLen:]),
		DiskStart:         binary.LittleEndian.Uint16(rec[cdfhOffDiskStart:]),
		InternalAttrs:     binary.LittleEndian.Uint16(rec[cdfhOffInternalAttrs:]),
		ExternalAttrs:     binary.LittleEndian.Uint32(rec[cdfhOffExternalAttrs:]),
		LocalHeaderOffset: binary.LittleEndian.Uint32(rec[cdfhOffLocalHeaderOff:]),
	}

	// A wrong signature here means the previous record's lengths pushed the
	// walk off the chain, or the directory offset is wrong
	if hdr.Signature != CentralDirSignature {
		return centralDirHeader{}, -1, newZipError(KindCdEntrySignatureBad, offset, entryIndex,
			"got 0x%08x, expected 0x%08x", hdr.Signature, CentralDirSignature)
	}

	next := offset + hdr.RecordSize()
	if next > n {
		return centralDirHeader{}, -1, newZipError(KindTruncated, offset, entryIndex,
			"name/extra/comment of %d+%d+%d bytes run %d bytes past end of file",
			hdr.NameLen, hdr.ExtraLen, hdr.CommentLen, next-n)
	}

	debugLog(DebugCDWalk, "entry %d at %d: name=%d extra=%d comment=%d next=%d",
		entryIndex, offset, hdr.NameLen, hdr.ExtraLen, hdr.CommentLen, next)

	return hdr, next, nil
}

// readCDFH decodes the record at offset and copies its name into dst, which
// must hold at least NameLen bytes. It returns the number of name bytes copied.
func readCDFH(data []byte, offset int64, entryIndex int, dst []byte) (centralDirHeader, int, int64, error) {
	hdr, next, err := peekCDFH(data, offset, entryIndex)
	if err != nil {
		return centralDirHeader{}, 0, -1, err
	}
	if len(dst) < int(hdr.NameLen) {
		panic(fmt.Sprintf("readCDFH: entry %d name of %d bytes does not fit %d byte slot", entryIndex, hdr.NameLen, len(dst)))
	}
	nameStart := offset + CDFHFixedSize
	copied := copy(dst, data[nameStart:nameStart+int64(hdr.NameLen)])
	return hdr, copied, next, nil
}
