package version

import "testing"

func TestString(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "1.2.0", "abc123", "2026-01-01"
	if got := String(); got != "1.2.0 (abc123, 2026-01-01)" {
		t.Errorf("String() = %q", got)
	}
}
