package stages

import (
	"context"

	"go.uber.org/zap"

	"github.com/procsnap/agent/internal/errkind"
	"github.com/procsnap/agent/internal/snapshot"
)

// SuppressErrors decorates a source so recoverable enumeration failures
// degrade into an empty snapshot instead of aborting the run. An accumulated
// per-process multierror counts as recoverable only when every member is;
// anything outside the given set propagates unchanged.
func SuppressErrors(source Source, suppressSet errkind.Set, rootLogger *zap.Logger) Source {
	logger := rootLogger.Named("suppress-errors")

	return func(ctx context.Context) (snapshot.Snapshot, error) {
		snap, err := source(ctx)
		if err == nil {
			return snap, nil
		}

		kinds := errkind.KindsOf(err)
		if !suppressSet.ContainsAll(kinds) {
			return nil, err
		}

		logger.Warn("Suppressed error",
			zap.Strings("kinds", kindNames(kinds)),
			zap.String("error", err.Error()))
		return snapshot.Snapshot{}, nil
	}
}

func kindNames(kinds []errkind.Kind) []string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.String())
	}
	return names
}
