package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	old := Commit
	defer func() { Commit = old }()

	Commit = "0123456789abcdef"
	if got := Short(); got != "dev (0123456)" {
		t.Errorf("Short() = %q", got)
	}
	Commit = "none"
	if got := Short(); got != "dev (none)" {
		t.Errorf("Short() = %q", got)
	}
	if !strings.Contains(String(), "commit: none") {
		t.Errorf("String() = %q", String())
	}
}
