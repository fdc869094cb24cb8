package zipcdir

import (
	"testing"
)

func TestHasZipExtension(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"archive.zip", true},
		{"ARCHIVE.ZIP", true},
		{"dir/nested.Zip", true},
		{"archive.zip.bak", false},
		{"zip", false},
		{".zip", true},
		{"archive.jar", false},
		{"dir.zip/file", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasZipExtension(tt.name); got != tt.expected {
				t.Errorf("HasZipExtension(%q) = %v, expected %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"512", 512, false},
		{"1KiB", 1024, false},
		{"2MiB", 2 * 1024 * 1024, false},
		{"1 GB", 1000 * 1000 * 1000, false},
		{"4G", 4 * 1000 * 1000 * 1000, false},
		{"lots", 0, true},
		{"12XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHumanSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHumanSize(%q) should fail, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHumanSize(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseHumanSize(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMsDosTimeToTime(t *testing.T) {
	// 2023-03-14 15:09:26
	date := uint16((2023-1980)<<9 | 3<<5 | 14)
	clock := uint16(15<<11 | 9<<5 | 26/2)

	got := msDosTimeToTime(date, clock)
	if got.Year() != 2023 || got.Month() != 3 || got.Day() != 14 {
		t.Errorf("Unexpected date %v", got)
	}
	if got.Hour() != 15 || got.Minute() != 9 || got.Second() != 26 {
		t.Errorf("Unexpected time %v", got)
	}

	if !msDosTimeToTime(0, clock).IsZero() {
		t.Error("Zero date should give the zero time")
	}
}

func TestMethodNames(t *testing.T) {
	if MethodName(MethodDeflate) != "deflate" {
		t.Errorf("MethodName(8) = %q", MethodName(MethodDeflate))
	}
	if MethodName(42) != "unknown" {
		t.Errorf("MethodName(42) = %q", MethodName(42))
	}
	if m, ok := MethodFromName("ZSTD"); !ok || m != MethodZstd {
		t.Errorf("MethodFromName(ZSTD) = %d, %v", m, ok)
	}
	if _, ok := MethodFromName("brotli"); ok {
		t.Error("MethodFromName(brotli) should fail")
	}
}
