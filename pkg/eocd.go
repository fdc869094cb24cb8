package zipcdir

import (
	"bytes"
	"encoding/binary"
)

// endOfCentralDirectory is the decoded 22-byte trailer plus its comment
type endOfCentralDirectory struct {
	Offset           int64  // Where the record starts in the archive
	DiskNumber       uint16 // Ignored for single-disk archives
	CentralDirDisk   uint16 // Ignored for single-disk archives
	EntriesThisDisk  uint16
	TotalEntries     uint16
	CentralDirSize   uint32
	CentralDirOffset uint32
	CommentLength    uint16
	Comment          []byte // Copied out of the view
}

// CentralDirEnd returns the first byte past the declared central directory
func (e *endOfCentralDirectory) CentralDirEnd() int64 {
	return int64(e.CentralDirOffset) + int64(e.CentralDirSize)
}

// needsZip64 reports whether a field holds its ZIP64 placeholder, meaning the
// real value lives only in the ZIP64 record
func (e *endOfCentralDirectory) needsZip64() bool {
	return e.TotalEntries == Zip64EntriesPlaceholder ||
		e.CentralDirSize == Zip64FieldPlaceholder ||
		e.CentralDirOffset == Zip64FieldPlaceholder
}

var eocdMagic = []byte{0x50, 0x4b, 0x05, 0x06}

// locateEOCD scans backward from the end of data for the EOCD signature and
// returns the offset of the match closest to EOF. The scan starts where a bare
// signature still fits so that a record cut short is reported as truncated by
// readEOCD rather than silently skipped. A signature too close to EOF to hold a
// whole record may also be comment bytes, so the scan carries on for a record
// whose comment ends exactly at EOF and only falls back to the short hit when
// there is none.
func locateEOCD(data []byte) (int64, error) {
	n := len(data)
	if n < EOCDFixedSize {
		return -1, newZipError(KindFileTooSmall, -1, -1, "%d bytes, need at least %d", n, EOCDFixedSize)
	}

	lowest := n - EOCDSearchWindow
	if lowest < 0 {
		lowest = 0
	}

	short := -1
	for i := n - len(eocdMagic); i >= lowest; i-- {
		if data[i] != eocdMagic[0] || data[i+1] != eocdMagic[1] ||
			data[i+2] != eocdMagic[2] || data[i+3] != eocdMagic[3] {
			continue
		}
		debugLog(DebugEOCD, "signature at offset %d (%d bytes before EOF)", i, n-i)

		if i+EOCDFixedSize > n {
			if short < 0 {
				short = i
			}
			continue
		}
		if short < 0 {
			return int64(i), nil
		}
		commentLen := int(binary.LittleEndian.Uint16(data[i+eocdOffCommentLength:]))
		if i+EOCDFixedSize+commentLen == n {
			debugLog(DebugEOCD, "signature at offset %d is comment data", short)
			return int64(i), nil
		}
	}
	if short >= 0 {
		return int64(short), nil
	}

	// A file cut inside the signature itself leaves a signature prefix at EOF
	for k := len(eocdMagic) - 1; k > 0; k-- {
		if bytes.Equal(data[n-k:], eocdMagic[:k]) {
			return -1, newZipError(KindTruncated, int64(n-k), -1, "end of central directory cut after %d signature bytes", k)
		}
	}

	return -1, newZipError(KindEocdNotFound, -1, -1, "no signature in the last %d bytes", n-lowest)
}

// readEOCD decodes the EOCD at offset, re-checking its signature and bounding
// the trailing comment by the archive length.
func readEOCD(data []byte, offset int64) (*endOfCentralDirectory, error) {
	n := int64(len(data))
	if offset < 0 || offset+EOCDFixedSize > n {
		return nil, newZipError(KindTruncated, offset, -1, "record needs %d bytes, %d available", EOCDFixedSize, n-offset)
	}

	rec := data[offset : offset+EOCDFixedSize]
	if sig := binary.LittleEndian.Uint32(rec); sig != EndOfCentralDirSignature {
		return nil, newZipError(KindEocdSignatureBad, offset, -1, "got 0x%08x, expected 0x%08x", sig, EndOfCentralDirSignature)
	}

	eocd := &endOfCentralDirectory{
		Offset:           offset,
		DiskNumber:       binary.LittleEndian.Uint16(rec[eocdOffDiskNumber:]),
		CentralDirDisk:   binary.LittleEndian.Uint16(rec[eocdOffCentralDirDisk:]),
		EntriesThisDisk:  binary.LittleEndian.Uint16(rec[eocdOffEntriesThisDisk:]),
		TotalEntries:     binary.LittleEndian.Uint16(rec[eocdOffTotalEntries:]),
		CentralDirSize:   binary.LittleEndian.Uint32(rec[eocdOffCentralDirSize:]),
		CentralDirOffset: binary.LittleEndian.Uint32(rec[eocdOffCentralDirStart:]),
		CommentLength:    binary.LittleEndian.Uint16(rec[eocdOffCommentLength:]),
	}

	if eocd.CommentLength > 0 {
		commentStart := offset + EOCDFixedSize
		commentEnd := commentStart + int64(eocd.CommentLength)
		if commentEnd > n {
			return nil, newZipError(KindTruncated, offset, -1, "comment of %d bytes runs %d bytes past end of file",
				eocd.CommentLength, commentEnd-n)
		}
		eocd.Comment = bytes.Clone(data[commentStart:commentEnd])
	}

	if offset >= Zip64EndLocatorLen {
		locOffset := offset - Zip64EndLocatorLen
		if binary.LittleEndian.Uint32(data[locOffset:]) == Zip64EndLocatorSignature {
			if eocd.needsZip64() {
				return nil, newZipError(KindZip64Unsupported, locOffset, -1, "zip64 end of central directory locator present")
			}
			VerboseLog(1, "zip64 locator at offset %d ignored, end of central directory fields are complete", locOffset)
		}
	}

	debugLog(DebugEOCD, "entries=%d (this disk %d) cd_offset=%d cd_size=%d comment=%d",
		eocd.TotalEntries, eocd.EntriesThisDisk, eocd.CentralDirOffset, eocd.CentralDirSize, eocd.CommentLength)

	return eocd, nil
}
