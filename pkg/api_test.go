package zipcdir

import (
	"bytes"
	"strings"
	"testing"
)

// TestPublicAPI tests the public API functions work correctly
func TestPublicAPI(t *testing.T) {
	t.Run("DebugFunctions", func(t *testing.T) {
		InitDebugFlags("eocd,layout")
		defer SetDebugFlags("")

		if !GetDebugEnabled("eocd") {
			t.Errorf("Expected eocd debug to be enabled")
		}
		if GetDebugEnabled("cdwalk") {
			t.Errorf("Expected cdwalk debug to be disabled")
		}

		var buf bytes.Buffer
		SetLogOutput(&buf)
		defer SetLogOutput(nil)
		SetVerboseLevel(1)
		defer SetVerboseLevel(0)

		LogDebugFlags()
		if !strings.Contains(buf.String(), "debug flag eocd enabled") {
			t.Errorf("Expected eocd in debug flag log, got %q", buf.String())
		}
		if strings.Contains(buf.String(), "cdwalk") {
			t.Errorf("Disabled flag logged: %q", buf.String())
		}
	})

	t.Run("VerboseFunctions", func(t *testing.T) {
		SetVerboseLevel(2)

		if GetVerbose() != 2 {
			t.Errorf("Expected verbose level 2, got %d", GetVerbose())
		}

		// Reset to 0
		SetVerboseLevel(0)
	})

	t.Run("VerboseOutput", func(t *testing.T) {
		var buf bytes.Buffer
		SetLogOutput(&buf)
		defer SetLogOutput(nil)

		SetVerboseLevel(1)
		defer SetVerboseLevel(0)

		VerboseLog(1, "shown %d", 1)
		VerboseLog(2, "hidden")
		if buf.String() != "[VERBOSE-1] shown 1\n" {
			t.Errorf("Unexpected verbose output %q", buf.String())
		}
	})

	t.Run("EmptyInitLeavesFlags", func(t *testing.T) {
		SetDebugFlags("states")
		defer SetDebugFlags("")

		InitDebugFlags("")
		if !GetDebugEnabled("states") {
			t.Errorf("InitDebugFlags(\"\") should not clear existing flags")
		}
	})
}
