package stages

import (
	"go.uber.org/zap"

	"github.com/procsnap/agent/internal/snapshot"
)

const DefaultMaxProcesses = 10

// Cap truncates a snapshot to at most maxCount records, order preserved.
type Cap struct {
	logger   *zap.Logger
	maxCount int
}

func NewCap(rootLogger *zap.Logger, maxCount int) *Cap {
	return &Cap{
		logger:   rootLogger.Named("cap"),
		maxCount: maxCount,
	}
}

func (c *Cap) Name() string {
	return "cap"
}

func (c *Cap) Apply(snap snapshot.Snapshot) (snapshot.Snapshot, error) {
	if len(snap) <= c.maxCount {
		c.logger.Info("Returning all processes",
			zap.Int("count", len(snap)),
			zap.Int("limit", c.maxCount))
		return snap, nil
	}

	limited := make(snapshot.Snapshot, c.maxCount)
	copy(limited, snap[:c.maxCount])

	c.logger.Info("Limited process list",
		zap.Int("from", len(snap)),
		zap.Int("to", c.maxCount))
	return limited, nil
}
