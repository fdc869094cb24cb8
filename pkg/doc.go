// Package zipcdir reads the central directory of ZIP archives without
// touching entry payloads. It locates the End Of Central Directory record,
// walks the chain of central directory file headers twice (once to size,
// once to copy) and returns every entry's metadata with all names held in a
// single allocation.
//
// # Core API
//
// Open and parse an archive in one call:
//
//	dir, err := zipcdir.OpenDirectory("/path/to/archive.zip", zipcdir.ParseOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range dir.Entries {
//		fmt.Println(e.Name, e.UncompressedSize)
//	}
//
// Or parse bytes already in memory:
//
//	dir, err := zipcdir.ReadDirectory(data)
//
// # Errors
//
// Failures are *ZipError values carrying an ErrorKind, the byte offset and the
// entry index where parsing stopped. Match them with errors.Is against the
// sentinels or inspect the kind directly:
//
//	if errors.Is(err, zipcdir.ErrTruncated) { ... }
//	switch zipcdir.KindOf(err) { ... }
//
// A failed parse never returns partial entries.
//
// # Lookup and Output
//
// NewNameIndex orders entries by raw name and reports duplicate names.
// WriteNames dumps names with writev straight from the name block; WriteLong
// and WriteJSON produce detailed listings.
//
// # Configuration
//
// Enable debug output:
//
//	zipcdir.SetDebugFlags("eocd,cdwalk,states")
//	zipcdir.SetVerboseLevel(2)
//
// ZIP64, multi-disk archives, encryption and decompression are not handled.
package zipcdir
