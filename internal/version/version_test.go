package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetKeepsLinkerValues(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldV, oldC, oldD })

	Version, Commit, BuildDate = "v1.2.3", "abcdef1", "2025-08-11T18:42:00Z"

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abcdef1" || info.BuildDate != "2025-08-11T18:42:00Z" {
		t.Errorf("Get() = %+v, want linker values", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if !strings.Contains(info.String(), "v1.2.3") {
		t.Errorf("String() = %q, want version", info.String())
	}
}
