package zipcdir

// InitDebugFlags initialises debug flags - for CLI compatibility
func InitDebugFlags(flagsStr string) {
	if flagsStr != "" {
		SetDebugFlags(flagsStr)
	}
}

// LogDebugFlags logs which debug flags are enabled at verbose level 1
func LogDebugFlags() {
	if globalVerboseLevel == 0 {
		return
	}
	for _, flag := range []string{DebugEOCD, DebugCDWalk, DebugStates, DebugLayout} {
		if IsDebugEnabled(flag) {
			VerboseLog(1, "debug flag %s enabled", flag)
		}
	}
}

// GetDebugEnabled returns whether a debug flag is enabled - public alternative to IsDebugEnabled
func GetDebugEnabled(flag string) bool {
	return IsDebugEnabled(flag)
}

// GetVerbose returns the current verbose level - public alternative
func GetVerbose() int {
	return GetVerboseLevel()
}
