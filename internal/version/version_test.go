package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version = "v1.2.3"
	Commit = "abc123"
	got := String()
	if !strings.HasPrefix(got, "v1.2.3 ") || !strings.Contains(got, "commit: abc123") {
		t.Errorf("String() = %q, want version and commit", got)
	}
}
