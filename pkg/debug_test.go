package zipcdir

import (
	"testing"
)

func TestSetDebugFlags(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedEOCD   bool
		expectedCDWalk bool
		expectedStates bool
		expectedLayout bool
	}{
		{
			name:           "empty string",
			input:          "",
			expectedEOCD:   false,
			expectedCDWalk: false,
			expectedStates: false,
			expectedLayout: false,
		},
		{
			name:           "single option",
			input:          "eocd",
			expectedEOCD:   true,
			expectedCDWalk: false,
			expectedStates: false,
			expectedLayout: false,
		},
		{
			name:           "multiple options",
			input:          "eocd,cdwalk,states,layout",
			expectedEOCD:   true,
			expectedCDWalk: true,
			expectedStates: true,
			expectedLayout: true,
		},
		{
			name:           "options with values",
			input:          "eocd:true,cdwalk:false,states:1,layout:0",
			expectedEOCD:   true,
			expectedCDWalk: false,
			expectedStates: true,
			expectedLayout: false,
		},
		{
			name:           "mixed format",
			input:          "eocd,cdwalk:false,states",
			expectedEOCD:   true,
			expectedCDWalk: false,
			expectedStates: true,
			expectedLayout: false,
		},
		{
			name:           "whitespace handling",
			input:          " eocd , cdwalk , states ",
			expectedEOCD:   true,
			expectedCDWalk: true,
			expectedStates: true,
			expectedLayout: false,
		},
		{
			name:           "case insensitive",
			input:          "EOCD,CDWALK,States",
			expectedEOCD:   true,
			expectedCDWalk: true,
			expectedStates: true,
			expectedLayout: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset debug flags
			SetDebugFlags("")

			SetDebugFlags(tt.input)

			if IsDebugEnabled("eocd") != tt.expectedEOCD {
				t.Errorf("eocd: expected %v, got %v", tt.expectedEOCD, IsDebugEnabled("eocd"))
			}
			if IsDebugEnabled("cdwalk") != tt.expectedCDWalk {
				t.Errorf("cdwalk: expected %v, got %v", tt.expectedCDWalk, IsDebugEnabled("cdwalk"))
			}
			if IsDebugEnabled("states") != tt.expectedStates {
				t.Errorf("states: expected %v, got %v", tt.expectedStates, IsDebugEnabled("states"))
			}
			if IsDebugEnabled("layout") != tt.expectedLayout {
				t.Errorf("layout: expected %v, got %v", tt.expectedLayout, IsDebugEnabled("layout"))
			}
		})
	}
}

func TestDebugFlagAccessors(t *testing.T) {
	SetDebugFlags("eocd,states")

	if !IsDebugEnabled("eocd") {
		t.Error("Expected IsDebugEnabled('eocd') to return true")
	}
	if IsDebugEnabled("cdwalk") {
		t.Error("Expected IsDebugEnabled('cdwalk') to return false")
	}
	if !IsDebugEnabled("states") {
		t.Error("Expected IsDebugEnabled('states') to return true")
	}
	if IsDebugEnabled("layout") {
		t.Error("Expected IsDebugEnabled('layout') to return false")
	}
}

func TestDebugFlagCaseInsensitive(t *testing.T) {
	SetDebugFlags("CdWalk")

	// Should work with different cases
	if !IsDebugEnabled("cdwalk") {
		t.Error("Expected lowercase flag name to work")
	}
	if !IsDebugEnabled("CdWalk") {
		t.Error("Expected mixed case flag name to work")
	}
	if !IsDebugEnabled("CDWALK") {
		t.Error("Expected uppercase flag name to work")
	}
}

func TestDebugFlagValueParsing(t *testing.T) {
	tests := []struct {
		input          string
		flag     string
		expected bool
	}{
		{"flag:true", "flag", true},
		{"flag:TRUE", "flag", true},
		{"flag:1", "flag", true},
		{"flag:yes", "flag", true},
		{"flag:on", "flag", true},
		{"flag:false", "flag", false},
		{"flag:FALSE", "flag", false},
		{"flag:0", "flag", false},
		{"flag:no", "flag", false},
		{"flag:off", "flag", false},
		{"flag:unknown", "flag", true}, // Default to true for unknown values
		{"flag", "flag", true},         // Default to true for simple flag names
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetDebugFlags(tt.input)
			result := IsDebugEnabled(tt.flag)
			if result != tt.expected {
				t.Errorf("SetDebugFlags(%q) then IsDebugEnabled(%q) = %v, expected %v", tt.input, tt.flag, result, tt.expected)
			}
		})
	}
}
