package zipcdir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// ByteView is a read-only, length-known view over the whole archive.
// Bytes must not be retained after Release.
type ByteView interface {
	Bytes() []byte
	Len() int
	Release() error
}

// mmapView is a memory-mapped archive file. The mapping is private and
// read-only; if another process rewrites the file while it is mapped the
// contents seen here are whatever the kernel provides for a modified mapping.
type mmapView struct {
	file     *os.File
	data     []byte
	filePath string
	once     sync.Once
	err      error
}

func (mv *mmapView) Bytes() []byte { return mv.data }
func (mv *mmapView) Len() int      { return len(mv.data) }

// Release unmaps the archive and closes its descriptor, exactly once
func (mv *mmapView) Release() error {
	mv.once.Do(func() {
		if mv.data != nil {
			if err := unix.Munmap(mv.data); err != nil {
				mv.err = fmt.Errorf("failed to unmap %s: %w", mv.filePath, err)
			}
			mv.data = nil
		}
		if mv.file != nil {
			if err := mv.file.Close(); err != nil && mv.err == nil {
				mv.err = fmt.Errorf("failed to close %s: %w", mv.filePath, err)
			}
			mv.file = nil
		}
	})
	return mv.err
}

// heapView holds archive bytes in ordinary memory
type heapView struct {
	data []byte
	file *os.File
	once sync.Once
	err  error
}

func (hv *heapView) Bytes() []byte { return hv.data }
func (hv *heapView) Len() int      { return len(hv.data) }

func (hv *heapView) Release() error {
	hv.once.Do(func() {
		hv.data = nil
		if hv.file != nil {
			hv.err = hv.file.Close()
			hv.file = nil
		}
	})
	return hv.err
}

// NewBytesView wraps bytes already in memory. Release is a no-op apart from
// dropping the reference.
func NewBytesView(data []byte) ByteView {
	return &heapView{data: data}
}

// OpenArchive opens path and maps it read-only. A zero-length file yields
// ErrEmptyArchive with the file already closed.
func OpenArchive(path string) (ByteView, error) {
	defer VerboseEnter()()

	file, err := os.Open(path)
	if err != nil {
		return nil, wrapZipError(KindBadFileDesc, err, "failed to open %s", path)
	}
	return MapFile(file)
}

// MapFile takes ownership of file and maps its whole content. The file is
// closed on every error path and by the returned view's Release.
func MapFile(file *os.File) (ByteView, error) {
	if file == nil {
		return nil, newZipError(KindBadFileDesc, -1, -1, "nil file")
	}

	size, err := fileSize(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	if size == 0 {
		file.Close()
		return nil, ErrEmptyArchive
	}
	if int64(int(size)) != size {
		file.Close()
		return nil, newZipError(KindMemAlloc, -1, -1, "file of %d bytes cannot be addressed", size)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		if errors.Is(err, unix.ENODEV) || errors.Is(err, unix.EACCES) || errors.Is(err, unix.EINVAL) {
			// Some filesystems refuse mappings: fall back to a heap copy
			VerboseLog(2, "mmap of %s failed (%v), reading into memory", file.Name(), err)
			return readFileView(file, size)
		}
		file.Close()
		return nil, wrapZipError(KindIoRead, err, "failed to mmap %s", file.Name())
	}

	VerboseLog(2, "mapped %s: %d bytes", file.Name(), size)
	return &mmapView{
		file:     file,
		data:     data,
		filePath: file.Name(),
	}, nil
}

// ReadFileView takes ownership of file and reads it fully into memory
func ReadFileView(file *os.File) (ByteView, error) {
	if file == nil {
		return nil, newZipError(KindBadFileDesc, -1, -1, "nil file")
	}
	size, err := fileSize(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	if size == 0 {
		file.Close()
		return nil, ErrEmptyArchive
	}
	return readFileView(file, size)
}

func readFileView(file *os.File, size int64) (ByteView, error) {
	data := make([]byte, size)
	n, err := file.ReadAt(data, 0)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == size) {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, newZipError(KindTruncated, int64(n), -1, "read %d of %d bytes from %s", n, size, file.Name())
		}
		return nil, wrapZipError(KindIoRead, err, "failed to read %s", file.Name())
	}
	return &heapView{data: data, file: file}, nil
}

func fileSize(file *os.File) (int64, error) {
	stat, err := file.Stat()
	if err != nil {
		return 0, wrapZipError(KindIoSeek, err, "failed to stat %s", file.Name())
	}
	if !stat.Mode().IsRegular() {
		return 0, newZipError(KindInvalidArg, -1, -1, "%s is not a regular file", file.Name())
	}
	return stat.Size(), nil
}
