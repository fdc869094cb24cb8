package zipcdir

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testFile struct {
	name    string
	body    string
	method  uint16
	comment string
}

// buildZip writes files with archive/zip so the parser is checked against an
// independent writer
func buildZip(t *testing.T, comment string, files ...testFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.name,
			Method:   f.method,
			Comment:  f.comment,
			Modified: time.Date(2023, time.March, 14, 15, 9, 26, 0, time.UTC),
		}
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		if f.body != "" {
			_, err = fw.Write([]byte(f.body))
			require.NoError(t, err)
		}
	}
	if comment != "" {
		require.NoError(t, w.SetComment(comment))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// packEOCD returns a 22-byte EOCD record followed by comment
func packEOCD(entries uint16, cdSize, cdOffset uint32, comment []byte) []byte {
	rec := make([]byte, EOCDFixedSize, EOCDFixedSize+len(comment))
	binary.LittleEndian.PutUint32(rec, EndOfCentralDirSignature)
	binary.LittleEndian.PutUint16(rec[eocdOffEntriesThisDisk:], entries)
	binary.LittleEndian.PutUint16(rec[eocdOffTotalEntries:], entries)
	binary.LittleEndian.PutUint32(rec[eocdOffCentralDirSize:], cdSize)
	binary.LittleEndian.PutUint32(rec[eocdOffCentralDirStart:], cdOffset)
	binary.LittleEndian.PutUint16(rec[eocdOffCommentLength:], uint16(len(comment)))
	return append(rec, comment...)
}

// packCDFH returns a 46-byte fixed prefix declaring the given variable lengths.
// Only the name is appended; extra and comment bytes are left to the caller.
func packCDFH(name []byte, extraLen, commentLen uint16, localOffset uint32) []byte {
	rec := make([]byte, CDFHFixedSize, CDFHFixedSize+len(name))
	binary.LittleEndian.PutUint32(rec, CentralDirSignature)
	binary.LittleEndian.PutUint16(rec[cdfhOffVersionMadeBy:], 20)
	binary.LittleEndian.PutUint16(rec[cdfhOffVersionNeeded:], 20)
	binary.LittleEndian.PutUint16(rec[cdfhOffNameLen:], uint16(len(name)))
	binary.LittleEndian.PutUint16(rec[cdfhOffExtraLen:], extraLen)
	binary.LittleEndian.PutUint16(rec[cdfhOffCommentLen:], commentLen)
	binary.LittleEndian.PutUint32(rec[cdfhOffLocalHeaderOff:], localOffset)
	return append(rec, name...)
}

// eocdOffsetOf finds the EOCD of a comment-free archive built by buildZip
func eocdOffsetOf(t *testing.T, data []byte) int {
	t.Helper()
	off := bytes.LastIndex(data, eocdMagic)
	require.GreaterOrEqual(t, off, 0, "archive has no EOCD")
	return off
}

// centralDirOffsetOf reads the central directory offset out of the EOCD
func centralDirOffsetOf(t *testing.T, data []byte) int {
	t.Helper()
	eocd := eocdOffsetOf(t, data)
	return int(binary.LittleEndian.Uint32(data[eocd+eocdOffCentralDirStart:]))
}

func writeTempArchive(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func sampleFiles() []testFile {
	return []testFile{
		{name: "README.md", body: "# sample\n", method: zip.Store},
		{name: "src/", method: zip.Store},
		{name: "src/main.go", body: "package main\n\nfunc main() {}\n", method: zip.Deflate},
		{name: "src/empty.txt", method: zip.Deflate, comment: "nothing here"},
	}
}
