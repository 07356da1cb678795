package stages

import (
	"context"

	"github.com/procsnap/agent/internal/snapshot"
)

// Source produces the raw snapshot a pipeline run starts from.
type Source func(ctx context.Context) (snapshot.Snapshot, error)

// Stage transforms one snapshot into another. Implementations must not mutate
// their input; the same records may be returned, but never reordered or
// rewritten in place.
type Stage interface {
	Name() string
	Apply(snap snapshot.Snapshot) (snapshot.Snapshot, error)
}
