package zipcdir

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// entryRef refers to an entry by position so the skiplist never holds
// pointers into the Entries slice itself
type entryRef struct {
	dir   *Directory
	index int
}

func (ref *entryRef) entry() *ZipEntry {
	if ref.dir == nil || ref.index < 0 || ref.index >= len(ref.dir.Entries) {
		return nil
	}
	return &ref.dir.Entries[ref.index]
}

// NameIndex orders a directory's entries by raw name byte order and records
// names that occur more than once. Archive readers disagree on which of two
// same-named entries wins, so duplicates are worth reporting.
type NameIndex struct {
	dir        *Directory
	skiplist   *zcsl.ZeroCopySkiplist[entryRef, string, string]
	duplicates []int // Directory indices shadowed by an earlier entry
}

// NewNameIndex builds an index over every entry in dir. The first entry with a
// given name is indexed; later ones are recorded as duplicates.
func NewNameIndex(dir *Directory) *NameIndex {
	getKeyFromItem := func(ref *entryRef) string {
		e := ref.entry()
		if e == nil {
			return ""
		}
		return e.Name
	}

	getItemSize := func(ref *entryRef) int {
		e := ref.entry()
		if e == nil {
			return 0
		}
		return CDFHFixedSize + len(e.Name)
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	ni := &NameIndex{
		dir:      dir,
		skiplist: zcsl.MakeZeroCopySkiplist[entryRef, string, string](16, getKeyFromItem, getItemSize, cmpKey),
	}

	for i := range dir.Entries {
		e := &dir.Entries[i]
		if existing, _ := ni.skiplist.Find(e.Name); existing != nil {
			VerboseLog(1, "duplicate entry name %q at index %d", e.Name, i)
			ni.duplicates = append(ni.duplicates, i)
			continue
		}
		ni.skiplist.Insert(&entryRef{dir: dir, index: i}, entryKind(e))
	}

	return ni
}

// Find looks an entry up by its exact raw name
func (ni *NameIndex) Find(name string) (*ZipEntry, bool) {
	itemPtr, _ := ni.skiplist.Find(name)
	if itemPtr == nil {
		return nil, false
	}
	e := itemPtr.Item().entry()
	return e, e != nil
}

// FindIndex returns the directory index of the first entry named name
func (ni *NameIndex) FindIndex(name string) (int, bool) {
	itemPtr, _ := ni.skiplist.Find(name)
	if itemPtr == nil {
		return -1, false
	}
	return itemPtr.Item().index, true
}

// SortedIndices returns every directory index in name order. Duplicates follow
// the entry they shadow, in directory order.
func (ni *NameIndex) SortedIndices() []int {
	var shadowed map[int][]int
	if len(ni.duplicates) > 0 {
		shadowed = make(map[int][]int, len(ni.duplicates))
		for _, dup := range ni.duplicates {
			ref := entryRef{dir: ni.dir, index: dup}
			if first, ok := ni.FindIndex(ref.entry().Name); ok {
				shadowed[first] = append(shadowed[first], dup)
			}
		}
	}

	indices := make([]int, 0, ni.skiplist.Length()+len(ni.duplicates))
	for current := ni.skiplist.First(); current != nil; current = current.Next() {
		index := current.Item().index
		indices = append(indices, index)
		indices = append(indices, shadowed[index]...)
	}
	return indices
}

// ForEach visits entries in name order with their kind until callback returns false
func (ni *NameIndex) ForEach(callback func(*ZipEntry, string) bool) {
	for current := ni.skiplist.First(); current != nil; current = current.Next() {
		e := current.Item().entry()
		if e == nil {
			continue
		}
		if !callback(e, current.Context()) {
			break
		}
	}
}

// ForEachKind visits only entries of the given kind (KindFile or KindDir)
func (ni *NameIndex) ForEachKind(kind string, callback func(*ZipEntry) bool) {
	ni.ForEach(func(e *ZipEntry, entryKind string) bool {
		if entryKind == kind {
			return callback(e)
		}
		return true
	})
}

// Duplicates returns the directory indices of entries whose name was already taken
func (ni *NameIndex) Duplicates() []int {
	return ni.duplicates
}

// Len returns the number of distinct names
func (ni *NameIndex) Len() int {
	return ni.skiplist.Length()
}

// Stats counts indexed files and directories
func (ni *NameIndex) Stats() (files, dirs int) {
	ni.ForEach(func(e *ZipEntry, kind string) bool {
		if kind == KindDir {
			dirs++
		} else {
			files++
		}
		return true
	})
	return files, dirs
}
