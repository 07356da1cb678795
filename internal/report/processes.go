package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/procsnap/agent/internal/snapshot"
)

const (
	bytesPerMegabyte = 1 << 20
	borderWidth      = 80

	// Command lines longer than this are shown as "..." plus their tail.
	maxCommandLineWidth = 80

	placeholder = "N/A"
)

// errWriter funnels report writes through a sticky error so a failing stream
// surfaces from the first write that broke it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// RenderProcesses writes the bordered PROCESSES report, one numbered block per
// record. Absent optional fields render as the placeholder.
func RenderProcesses(w io.Writer, snap snapshot.Snapshot) error {
	writer := &errWriter{w: w}

	if len(snap) == 0 {
		writer.printf("\nNo processes\n")
		return writer.err
	}

	border := strings.Repeat("=", borderWidth)
	writer.printf("\n%s\nPROCESSES\n%s\n", border, border)

	for index, record := range snap {
		writer.printf("\n[Process %d]\n", index+1)
		writer.printf("  Name:             %s\n", record.Name)
		writer.printf("  PID:              %d\n", record.Pid)
		writer.printf("  Executable:       %s\n", valueOrPlaceholder(record.Executable.ValueOrZero()))
		writer.printf("  Command Line:     %s\n", formatCommandLine(record.JoinedCommandLine()))
		writer.printf("  Username:         %s\n", valueOrPlaceholder(record.Username.ValueOrZero()))
		writer.printf("  CPU:              %6.2f%%\n", record.CPUPercent)
		writer.printf("  Memory:           %6.2f%%\n", record.MemoryPercent)
		writer.printf("  Physical Memory:  %6.2f MB\n", float64(record.PhysicalMemory)/bytesPerMegabyte)
	}

	return writer.err
}

// formatCommandLine truncates on runes, not bytes, so a multi-byte character
// is never split at the cut point.
func formatCommandLine(commandLine string) string {
	if commandLine == "" {
		return placeholder
	}

	runes := []rune(commandLine)
	if len(runes) > maxCommandLineWidth {
		return "..." + string(runes[len(runes)-(maxCommandLineWidth-3):])
	}
	return commandLine
}

func valueOrPlaceholder(value string) string {
	if value == "" {
		return placeholder
	}
	return value
}
