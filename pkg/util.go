package zipcdir

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// HasZipExtension reports whether name ends in ".zip", ignoring case.
// Only the final path element is considered.
func HasZipExtension(name string) bool {
	ext := filepath.Ext(filepath.Base(name))
	return strings.EqualFold(ext, ".zip")
}

// ParseHumanSize parses human-readable size strings (e.g., "64M", "512KiB",
// "1 GB"). "0" and "" mean no limit and return 0.
func ParseHumanSize(sizeStr string) (int64, error) {
	sizeStr = strings.TrimSpace(sizeStr)
	if sizeStr == "" || sizeStr == "0" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(sizeStr)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", sizeStr, err)
	}
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}
	return int64(size), nil
}
