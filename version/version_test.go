package version

import (
	"strings"
	"testing"
	"time"
)

func withVars(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, buildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestGet_UsesLinkerVars(t *testing.T) {
	withVars(t, "1.2.0", "abcdef1234567", "2026-03-01T10:00:00Z")

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected 1.2.0, got %q", info.Version)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected build date %v, got %v", want, info.BuildDate)
	}
}

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"no commit", Info{Version: "dev"}, "dev"},
		{"commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.0.0", BuildDate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if got := info.String(); got != "1.0.0 (built 2026-01-02T03:04:05Z)" {
		t.Errorf("unexpected String() %q", got)
	}
	if got := (Info{Version: "dev"}).String(); got != "dev" {
		t.Errorf("expected dev, got %q", got)
	}
}

func TestInfo_IsRelease(t *testing.T) {
	if (Info{Version: "dev"}).IsRelease() {
		t.Error("dev should not be a release")
	}
	if (Info{Version: "1.0.0", Dirty: true}).IsRelease() {
		t.Error("dirty tree should not be a release")
	}
	if !(Info{Version: "1.0.0"}).IsRelease() {
		t.Error("expected 1.0.0 to be a release")
	}
	if (Info{Version: "1.0.0-dirty"}).IsRelease() {
		t.Error("dirty version string should not be a release")
	}
}

func TestGet_GoVersion(t *testing.T) {
	if info := Get(); info.GoVersion != "" && !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("unexpected go version %q", info.GoVersion)
	}
}
