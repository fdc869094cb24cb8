package zipcdir

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"syscall"
	"unicode/utf8"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/google/vectorio"
)

// IOV_MAX on Linux; larger batches fail with EINVAL
const maxIovecsPerWrite = 1024

var newlineByte = []byte{'\n'}

// WriteNames writes every entry name to file with a single writev per batch.
// The iovecs point straight into the directory's name block. A terminator of 0
// reuses the NUL stored after each name; any other byte is written after each
// name from a shared buffer.
func WriteNames(file *os.File, dir *Directory, terminator byte) error {
	if dir == nil || len(dir.Entries) == 0 {
		return nil
	}

	sep := newlineByte
	if terminator != '\n' {
		sep = []byte{terminator}
	}

	iovecs := make([]syscall.Iovec, 0, 2*len(dir.Entries))
	for i := range dir.Entries {
		name := dir.nameWithTerminator(i)
		if terminator == 0 {
			iovecs = append(iovecs, newIovec(name))
			continue
		}
		if len(name) > 1 {
			iovecs = append(iovecs, newIovec(name[:len(name)-1]))
		}
		iovecs = append(iovecs, newIovec(sep))
	}

	for offset := 0; offset < len(iovecs); offset += maxIovecsPerWrite {
		end := offset + maxIovecsPerWrite
		if end > len(iovecs) {
			end = len(iovecs)
		}
		chunk := iovecs[offset:end]

		want := 0
		for _, iov := range chunk {
			want += int(iov.Len)
		}
		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), chunk)
		if err != nil {
			return wrapZipError(KindIoWrite, err, "failed to write names")
		}
		// writev may stop short on pipes
		if nw < want {
			if err := writeIovecTail(file, chunk, nw); err != nil {
				return wrapZipError(KindIoWrite, err, "failed to write names")
			}
		}
	}

	return nil
}

func newIovec(buf []byte) syscall.Iovec {
	iov := syscall.Iovec{Base: &buf[0]}
	iov.SetLen(len(buf))
	return iov
}

// writeIovecTail writes whatever of chunk lies past the first skip bytes
func writeIovecTail(w io.Writer, chunk []syscall.Iovec, skip int) error {
	for _, iov := range chunk {
		buf := unsafe.Slice(iov.Base, int(iov.Len))
		if skip >= len(buf) {
			skip -= len(buf)
			continue
		}
		if _, err := w.Write(buf[skip:]); err != nil {
			return err
		}
		skip = 0
	}
	return nil
}

// WriteLong writes one line per entry: method, sizes, ratio, CRC, modified
// time and name, followed by a totals line.
func WriteLong(w io.Writer, dir *Directory, human bool) error {
	size := func(n uint64) string {
		if human {
			return humanize.IBytes(n)
		}
		return fmt.Sprintf("%d", n)
	}

	for i := range dir.Entries {
		e := &dir.Entries[i]
		flags := ""
		if e.IsEncrypted() {
			flags = " (encrypted)"
		}
		modified := "-"
		if t := e.Modified(); !t.IsZero() {
			modified = t.Format("2006-01-02 15:04:05")
		}
		if _, err := fmt.Fprintf(w, "%-9s %10s %10s %5.1f%% %08x %s %q%s\n",
			e.MethodName(), size(uint64(e.CompressedSize)), size(uint64(e.UncompressedSize)),
			e.Ratio()*100, e.CRC32, modified, e.Name, flags); err != nil {
			return err
		}
	}

	compressed, uncompressed := dir.Totals()
	_, err := fmt.Fprintf(w, "%d entries, %s compressed, %s uncompressed\n",
		len(dir.Entries), size(compressed), size(uncompressed))
	return err
}

// jsonEntry is the JSON form of a ZipEntry. Names go out as UTF-8 strings when
// valid; invalid byte sequences are still carried verbatim in NameBytes.
type jsonEntry struct {
	Name              string `json:"name"`
	NameBytes         []byte `json:"name_bytes,omitempty"`
	Method            string `json:"method"`
	MethodCode        uint16 `json:"method_code"`
	CompressedSize    uint32 `json:"compressed_size"`
	UncompressedSize  uint32 `json:"uncompressed_size"`
	CRC32             uint32 `json:"crc32"`
	Flags             uint16 `json:"flags"`
	LocalHeaderOffset uint32 `json:"local_header_offset"`
	Modified          string `json:"modified,omitempty"`
	Dir               bool   `json:"dir,omitempty"`
	Encrypted         bool   `json:"encrypted,omitempty"`
}

type jsonDirectory struct {
	Entries          []jsonEntry `json:"entries"`
	Comment          string      `json:"comment,omitempty"`
	CommentBytes     []byte      `json:"comment_bytes,omitempty"`
	CentralDirOffset uint32      `json:"central_dir_offset"`
	CentralDirSize   uint32      `json:"central_dir_size"`
}

// WriteJSON writes the directory as a single JSON document
func WriteJSON(w io.Writer, dir *Directory) error {
	out := jsonDirectory{
		Entries:          make([]jsonEntry, len(dir.Entries)),
		Comment:          string(dir.Comment),
		CentralDirOffset: dir.CentralDirOffset,
		CentralDirSize:   dir.CentralDirSize,
	}
	if !utf8.Valid(dir.Comment) {
		out.CommentBytes = dir.Comment
	}
	for i := range dir.Entries {
		e := &dir.Entries[i]
		je := jsonEntry{
			Name:              e.Name,
			Method:            e.MethodName(),
			MethodCode:        e.Method,
			CompressedSize:    e.CompressedSize,
			UncompressedSize:  e.UncompressedSize,
			CRC32:             e.CRC32,
			Flags:             e.Flags,
			LocalHeaderOffset: e.LocalHeaderOffset,
			Dir:               e.IsDir(),
			Encrypted:         e.IsEncrypted(),
		}
		if !utf8.ValidString(e.Name) {
			je.NameBytes = e.NameBytes()
		}
		if t := e.Modified(); !t.IsZero() {
			je.Modified = t.Format("2006-01-02T15:04:05")
		}
		out.Entries[i] = je
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
