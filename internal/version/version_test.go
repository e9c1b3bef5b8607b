package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origCommit, origDate := Commit, Date
	t.Cleanup(func() { Commit, Date = origCommit, origDate })

	tests := []struct {
		name   string
		commit string
		date   string
		want   string
	}{
		{name: "dev build", commit: "unknown", date: "unknown", want: "palettecam version dev ("},
		{name: "release build", commit: "0123456789abcdef", date: "2025-01-02T03:04:05Z", want: "(commit: 01234567, built: 2025-01-02T03:04:05Z"},
		{name: "short commit", commit: "abc", date: "2025-01-02T03:04:05Z", want: "(commit: abc, built:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Commit, Date = tt.commit, tt.date
			if got := String(); !strings.Contains(got, tt.want) {
				t.Errorf("String() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestGetInfoPlatform(t *testing.T) {
	if info := GetInfo(); !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch", info.Platform)
	}
}
