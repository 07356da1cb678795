package stages

import (
	"io"

	"go.uber.org/zap"

	internalErrors "github.com/procsnap/agent/internal/errors"
	"github.com/procsnap/agent/internal/report"
	"github.com/procsnap/agent/internal/snapshot"
)

// SnapshotLogger is a pass-through stage that writes the final snapshot to the
// log file and renders the human-readable report. It exists for its side
// effects; the snapshot leaves it unchanged.
type SnapshotLogger struct {
	logger       *zap.Logger
	logPath      string
	reportWriter io.Writer
}

func NewSnapshotLogger(rootLogger *zap.Logger, logPath string, reportWriter io.Writer) *SnapshotLogger {
	return &SnapshotLogger{
		logger:       rootLogger.Named("snapshot-logger"),
		logPath:      logPath,
		reportWriter: reportWriter,
	}
}

func (l *SnapshotLogger) Name() string {
	return "snapshot-logger"
}

func (l *SnapshotLogger) Apply(snap snapshot.Snapshot) (snapshot.Snapshot, error) {
	if err := report.WriteSnapshotLog(l.logPath, snap); err != nil {
		return nil, internalErrors.WrappedErrWriteSnapshotLog(err)
	}

	if err := report.RenderProcesses(l.reportWriter, snap); err != nil {
		return nil, internalErrors.WrappedErrRenderReport(err)
	}

	l.logger.Info("Logged process snapshot",
		zap.Int("count", len(snap)),
		zap.String("path", l.logPath))
	return snap, nil
}
