package app

import (
	"runtime/debug"
	"testing"
)

func TestBuildVersion(t *testing.T) {
	originalVersion, originalRead := Version, readBuildInfo
	t.Cleanup(func() {
		Version, readBuildInfo = originalVersion, originalRead
	})

	tests := []struct {
		name      string
		ldflags   string
		moduleVer string
		want      string
	}{
		{name: "ldflags win", ldflags: " 1.2.3 ", moduleVer: "v0.9.0", want: "1.2.3"},
		{name: "module version", moduleVer: "v0.9.0", want: "v0.9.0"},
		{name: "devel build", moduleVer: "(devel)", want: "dev"},
		{name: "nothing known", want: "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.ldflags
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: tt.moduleVer}}, true
			}
			if got := BuildVersion(); got != tt.want {
				t.Fatalf("BuildVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildVersionWithDate(t *testing.T) {
	originalVersion, originalDate := Version, BuildDate
	t.Cleanup(func() {
		Version, BuildDate = originalVersion, originalDate
	})

	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "rfc3339", date: "2026-01-30T14:55:03Z", want: "0.1.2 (2026-01-30)"},
		{name: "date prefix", date: "2026-01-30 build 7", want: "0.1.2 (2026-01-30)"},
		{name: "unknown format kept", date: "yesterday", want: "0.1.2 (yesterday)"},
		{name: "no date", date: "", want: "0.1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = "0.1.2"
			BuildDate = tt.date
			if got := BuildVersionWithDate(); got != tt.want {
				t.Fatalf("BuildVersionWithDate() = %q, want %q", got, tt.want)
			}
		})
	}
}
