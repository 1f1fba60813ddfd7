package app

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// Version is filled by ldflags in release builds.
	Version = ""
	// BuildDate is filled by ldflags in release builds.
	BuildDate = ""

	readBuildInfo = debug.ReadBuildInfo
)

// BuildVersion prefers the ldflags version, then the module version recorded
// by `go install`, then "dev".
func BuildVersion() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}

	return "dev"
}

func BuildDateYMD() string {
	raw := strings.TrimSpace(BuildDate)
	if raw == "" {
		return ""
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.Format(time.DateOnly)
	}
	if len(raw) >= len(time.DateOnly) {
		if _, err := time.Parse(time.DateOnly, raw[:len(time.DateOnly)]); err == nil {
			return raw[:len(time.DateOnly)]
		}
	}

	return raw
}

func BuildVersionWithDate() string {
	if date := BuildDateYMD(); date != "" {
		return fmt.Sprintf("%s (%s)", BuildVersion(), date)
	}

	return BuildVersion()
}
