package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := [3]string{Version, BuildTime, GitCommit}
	t.Cleanup(func() { Version, BuildTime, GitCommit = old[0], old[1], old[2] })

	Version, BuildTime, GitCommit = "1.2.3", "2026-01-02", "abc123"
	assert.Equal(t, "1.2.3 (commit abc123, built 2026-01-02)", String())
}
