package zipcdir

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

// Directory is the parsed central directory of one archive. Entry names all
// live in a single name block owned by the Directory; nothing refers back to
// the archive bytes.
type Directory struct {
	Entries          []ZipEntry // Central directory order
	Comment          []byte
	EOCDOffset       int64
	CentralDirOffset uint32
	CentralDirSize   uint32
	EmptyFile        bool // The archive file had zero length

	names []byte // Every name followed by a NUL
}

// Len returns the number of entries
func (d *Directory) Len() int {
	return len(d.Entries)
}

// Names returns entry names in directory order
func (d *Directory) Names() []string {
	names := make([]string, len(d.Entries))
	for i := range d.Entries {
		names[i] = d.Entries[i].Name
	}
	return names
}

// Totals returns the summed compressed and uncompressed sizes
func (d *Directory) Totals() (compressed, uncompressed uint64) {
	for i := range d.Entries {
		compressed += uint64(d.Entries[i].CompressedSize)
		uncompressed += uint64(d.Entries[i].UncompressedSize)
	}
	return compressed, uncompressed
}

// Select returns a Directory holding the entries at indices, in that order.
// The result shares this directory's name block.
func (d *Directory) Select(indices []int) *Directory {
	sub := &Directory{
		Entries:          make([]ZipEntry, len(indices)),
		Comment:          d.Comment,
		EOCDOffset:       d.EOCDOffset,
		CentralDirOffset: d.CentralDirOffset,
		CentralDirSize:   d.CentralDirSize,
		EmptyFile:        d.EmptyFile,
		names:            d.names,
	}
	for i, index := range indices {
		sub.Entries[i] = d.Entries[index]
	}
	return sub
}

// nameWithTerminator returns the stored name of entry i including its NUL
func (d *Directory) nameWithTerminator(i int) []byte {
	e := &d.Entries[i]
	return d.names[e.nameOff : e.nameOff+len(e.Name)+1]
}

// ParseOptions tunes directory parsing. The zero value applies no limits and
// maps the archive.
type ParseOptions struct {
	MaxEntries     int   // Reject directories declaring more entries, 0 = no limit
	MaxArchiveSize int64 // Reject larger archive files, 0 = no limit
	NoMmap         bool  // Read the archive into memory instead of mapping it
}

// parseState tracks progress through one directory read
type parseState int

const (
	stateStart parseState = iota
	stateEocdLocated
	stateEocdValidated
	stateSizing
	stateAllocated
	stateExtracting
	stateDone
	stateFailed
)

var parseStateNames = [...]string{
	stateStart:         "Start",
	stateEocdLocated:   "EocdLocated",
	stateEocdValidated: "EocdValidated",
	stateSizing:        "Sizing",
	stateAllocated:     "Allocated",
	stateExtracting:    "Extracting",
	stateDone:          "Done",
	stateFailed:        "Failed",
}

func (s parseState) String() string {
	if s >= 0 && int(s) < len(parseStateNames) {
		return parseStateNames[s]
	}
	return fmt.Sprintf("parseState(%d)", int(s))
}

type directoryParser struct {
	data     []byte
	opts     ParseOptions
	state    parseState
	failKind ErrorKind
}

func (p *directoryParser) enter(next parseState) {
	debugLog(DebugStates, "%s -> %s", p.state, next)
	p.state = next
}

func (p *directoryParser) fail(err error) error {
	p.failKind = KindOf(err)
	debugLog(DebugStates, "%s -> Failed(%s)", p.state, p.failKind.Message())
	p.state = stateFailed
	return err
}

// directoryPlan is the output of the sizing pass
type directoryPlan struct {
	entries   int
	nameBytes int // Sum of nameLen+1 over all entries
	cdStart   int64
	cdEnd     int64
	walkedEnd int64 // Where the last record actually ended
}

// planDirectory walks the central directory reading only fixed prefixes and
// computes exactly how much name storage the extraction pass needs. Every
// record must end inside both the file and the declared directory bounds.
func planDirectory(data []byte, eocd *endOfCentralDirectory) (directoryPlan, error) {
	plan := directoryPlan{
		entries: int(eocd.TotalEntries),
		cdStart: int64(eocd.CentralDirOffset),
		cdEnd:   eocd.CentralDirEnd(),
	}

	offset := plan.cdStart
	for i := 0; i < plan.entries; i++ {
		if offset >= plan.cdEnd {
			return directoryPlan{}, newZipError(KindCentralDirCorrupt, offset, i,
				"directory declares %d entries but its %d bytes end after %d", plan.entries, eocd.CentralDirSize, i)
		}

		hdr, next, err := peekCDFH(data, offset, i)
		if err != nil {
			return directoryPlan{}, err
		}
		if next > plan.cdEnd {
			return directoryPlan{}, newZipError(KindCentralDirCorrupt, offset, i,
				"record ends at %d, past directory end %d", next, plan.cdEnd)
		}

		plan.nameBytes += int(hdr.NameLen) + 1
		offset = next
	}
	plan.walkedEnd = offset

	if plan.walkedEnd != plan.cdEnd {
		VerboseLog(1, "central directory has %d trailing bytes after the last entry", plan.cdEnd-plan.walkedEnd)
	}
	debugLog(DebugLayout, "plan: %d entries, %d name bytes, directory [%d,%d)",
		plan.entries, plan.nameBytes, plan.cdStart, plan.cdEnd)

	return plan, nil
}

// allocate sizes the entry slots and name block exactly from plan
func (d *Directory) allocate(plan directoryPlan) {
	d.Entries = make([]ZipEntry, plan.entries)
	d.names = make([]byte, plan.nameBytes)
}

// materialise re-walks the directory and fills the entry slots and name block
// sized by plan. The plan was computed from the same immutable bytes, so any
// disagreement between the two passes is a bug and panics.
func materialise(data []byte, plan directoryPlan, dir *Directory) error {
	cursor := 0
	offset := plan.cdStart
	for i := 0; i < plan.entries; i++ {
		hdr, copied, next, err := readCDFH(data, offset, i, dir.names[cursor:])
		if err != nil {
			return err
		}
		if cursor+copied+1 > len(dir.names) {
			panic(fmt.Sprintf("materialise: entry %d overruns name block (%d+%d of %d)", i, cursor, copied+1, len(dir.names)))
		}

		dir.Entries[i] = ZipEntry{
			Name:              unsafe.String(&dir.names[cursor], copied),
			CompressedSize:    hdr.CompressedSize,
			UncompressedSize:  hdr.UncompressedSize,
			Method:            hdr.Method,
			LocalHeaderOffset: hdr.LocalHeaderOffset,
			CRC32:             hdr.CRC32,
			Flags:             hdr.Flags,
			VersionMadeBy:     hdr.VersionMadeBy,
			ModTime:           hdr.ModTime,
			ModDate:           hdr.ModDate,
			ExternalAttrs:     hdr.ExternalAttrs,
			nameOff:           cursor,
		}
		dir.names[cursor+copied] = 0
		cursor += copied + 1
		offset = next
	}

	if cursor != plan.nameBytes || offset != plan.walkedEnd {
		panic(fmt.Sprintf("materialise: passes disagree (names %d/%d, end %d/%d)", cursor, plan.nameBytes, offset, plan.walkedEnd))
	}
	return nil
}

func (p *directoryParser) run() (*Directory, error) {
	defer VerboseEnter()()

	eocdOffset, err := locateEOCD(p.data)
	if err != nil {
		return nil, p.fail(err)
	}
	p.enter(stateEocdLocated)

	eocd, err := readEOCD(p.data, eocdOffset)
	if err != nil {
		return nil, p.fail(err)
	}
	p.enter(stateEocdValidated)

	dir := &Directory{
		Comment:          eocd.Comment,
		EOCDOffset:       eocd.Offset,
		CentralDirOffset: eocd.CentralDirOffset,
		CentralDirSize:   eocd.CentralDirSize,
	}

	if eocd.TotalEntries == 0 {
		dir.Entries = []ZipEntry{}
		p.enter(stateDone)
		return dir, nil
	}

	if p.opts.MaxEntries > 0 && int(eocd.TotalEntries) > p.opts.MaxEntries {
		return nil, p.fail(newZipError(KindCentralDirCorrupt, eocd.Offset, -1,
			"%d entries exceeds limit of %d", eocd.TotalEntries, p.opts.MaxEntries))
	}

	p.enter(stateSizing)
	plan, err := planDirectory(p.data, eocd)
	if err != nil {
		return nil, p.fail(err)
	}

	dir.allocate(plan)
	p.enter(stateAllocated)

	p.enter(stateExtracting)
	if err := materialise(p.data, plan, dir); err != nil {
		return nil, p.fail(err)
	}

	p.enter(stateDone)
	VerboseLog(2, "read %d entries from central directory at %d", len(dir.Entries), eocd.CentralDirOffset)
	return dir, nil
}

// ReadDirectory parses the central directory of the archive held in data.
// On failure no entries are returned.
func ReadDirectory(data []byte) (*Directory, error) {
	return ReadDirectoryWithOptions(data, ParseOptions{})
}

// ReadDirectoryWithOptions is ReadDirectory with limits applied
func ReadDirectoryWithOptions(data []byte, opts ParseOptions) (*Directory, error) {
	if opts.MaxArchiveSize > 0 && int64(len(data)) > opts.MaxArchiveSize {
		return nil, newZipError(KindInvalidArg, -1, -1, "archive of %d bytes exceeds limit of %d", len(data), opts.MaxArchiveSize)
	}
	p := &directoryParser{data: data, opts: opts}
	return p.run()
}

// ReadDirectoryFrom parses view and releases it whatever the outcome
func ReadDirectoryFrom(view ByteView, opts ParseOptions) (dir *Directory, err error) {
	if view == nil {
		return nil, newZipError(KindInvalidArg, -1, -1, "nil view")
	}
	defer func() {
		if relErr := view.Release(); relErr != nil && err == nil {
			dir, err = nil, wrapZipError(KindGeneric, relErr, "failed to release archive view")
		}
	}()
	return ReadDirectoryWithOptions(view.Bytes(), opts)
}

// OpenDirectory opens the archive at path, parses its central directory and
// releases the file. A zero-length file gives an empty Directory with
// EmptyFile set.
func OpenDirectory(path string, opts ParseOptions) (*Directory, error) {
	var view ByteView
	var err error
	if opts.NoMmap {
		var file *os.File
		file, err = os.Open(path)
		if err != nil {
			return nil, wrapZipError(KindBadFileDesc, err, "failed to open %s", path)
		}
		view, err = ReadFileView(file)
	} else {
		view, err = OpenArchive(path)
	}
	if errors.Is(err, ErrEmptyArchive) {
		VerboseLog(1, "%s: empty archive", path)
		return &Directory{Entries: []ZipEntry{}, EmptyFile: true}, nil
	}
	if err != nil {
		return nil, err
	}

	dir, err := ReadDirectoryFrom(view, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dir, nil
}
