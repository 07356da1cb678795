package report

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/procsnap/agent/internal/snapshot"
)

func writeTempLog(t *testing.T, snap snapshot.Snapshot) string {
	dir, err := ioutil.TempDir("", "procsnap-report-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "process_snapshot.log")
	require.NoError(t, WriteSnapshotLog(path, snap))

	content, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestWriteSnapshotLogHeader(t *testing.T) {
	content := writeTempLog(t, snapshot.Snapshot{{Pid: 1}, {Pid: 2}, {Pid: 3}})

	lines := strings.Split(content, "\n")
	require.True(t, len(lines) >= 3)

	assert.Contains(t, lines[0], "3 processes")
	assert.Contains(t, lines[1], "PID")
	assert.Contains(t, lines[1], "Cmdline")
	assert.Contains(t, lines[2], "---")
}

func TestWriteSnapshotLogRows(t *testing.T) {
	snap := snapshot.Snapshot{
		{
			Pid:            1234,
			Name:           "test-server",
			Executable:     null.StringFrom("/usr/bin/test-server"),
			CommandLine:    []string{"test-server", "--port", "8080"},
			Username:       null.StringFrom("alice"),
			CPUPercent:     15.5,
			MemoryPercent:  8.2,
			PhysicalMemory: 50 * 1024 * 1024,
		},
	}

	content := writeTempLog(t, snap)

	assert.Contains(t, content, "1234")
	assert.Contains(t, content, "test-server")
	assert.Contains(t, content, "alice")
	assert.Contains(t, content, "15.50")
	assert.Contains(t, content, "8.20")
	assert.Contains(t, content, "50.00")
	assert.Contains(t, content, "test-server --port 8080")
}

func TestWriteSnapshotLogPlaceholders(t *testing.T) {
	content := writeTempLog(t, snapshot.Snapshot{{Pid: 2, Name: "kthreadd"}})
	assert.Contains(t, content, "N/A")
}

func TestWriteSnapshotLogEmptySnapshot(t *testing.T) {
	content := writeTempLog(t, snapshot.Snapshot{})
	assert.Contains(t, content, "0 processes")
}

func TestWriteSnapshotLogInvalidPath(t *testing.T) {
	err := WriteSnapshotLog("/no/such/dir/process_snapshot.log", snapshot.Snapshot{})
	require.Error(t, err)
}
