package report

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/procsnap/agent/internal/snapshot"
)

const logTimestampLayout = "2006-01-02 15:04:05"

// WriteSnapshotLog replaces the file at path with a tabular dump of the
// snapshot: a header line carrying timestamp, host id and process count,
// followed by one row per record. The file is truncated on every invocation;
// concurrent runs must use distinct paths.
func WriteSnapshotLog(path string, snap snapshot.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WithMessage(err, "open snapshot log")
	}
	defer file.Close()

	timestamp := time.Now().Format(logTimestampLayout)
	if _, err := fmt.Fprintf(file, "%s - %s - %d processes\n", timestamp, hostId(), len(snap)); err != nil {
		return errors.WithMessage(err, "write snapshot log header")
	}

	writer := tabwriter.NewWriter(file, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "PID\tName\tUser\tCPU%\tMem%\tPhys Mem(MB)\tExe\tCmdline")
	fmt.Fprintln(writer, "---\t----\t----\t----\t----\t------------\t---\t-------")

	for _, record := range snap {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			record.Pid,
			record.Name,
			valueOrPlaceholder(record.Username.ValueOrZero()),
			record.CPUPercent,
			record.MemoryPercent,
			float64(record.PhysicalMemory)/bytesPerMegabyte,
			valueOrPlaceholder(record.Executable.ValueOrZero()),
			valueOrPlaceholder(record.JoinedCommandLine()))
	}

	if err := writer.Flush(); err != nil {
		return errors.WithMessage(err, "flush snapshot log")
	}
	return file.Close()
}
