package snapshot

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Record captures one OS process at sample time. Executable and Username are
// nullable: kernel threads carry no executable path, and processes owned by
// unresolvable users carry no username.
type Record struct {
	Pid            int32
	Name           string
	Executable     null.String
	CommandLine    []string
	Status         string
	Username       null.String
	CPUPercent     float64
	MemoryPercent  float64
	PhysicalMemory uint64
}

func (r *Record) JoinedCommandLine() string {
	return strings.Join(r.CommandLine, " ")
}

// Snapshot is the ordered process list produced by a single enumeration pass.
// Pipeline stages consume one Snapshot and produce a new one; none mutates its
// input in place.
type Snapshot []Record
