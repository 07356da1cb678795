package stages

import (
	"sort"

	"go.uber.org/zap"

	"github.com/procsnap/agent/internal/snapshot"
)

const (
	DefaultSortField      = "cpu_percent"
	DefaultSortDescending = true
)

// Sort orders a snapshot by one record field. The field accessor is resolved
// once at construction; sorting is stable, so ties keep their input order.
type Sort struct {
	logger     *zap.Logger
	field      string
	descending bool
	key        snapshot.KeyFunc
}

func NewSort(rootLogger *zap.Logger, field string, descending bool) *Sort {
	key, known := snapshot.FieldKey(field)
	stage := NewSortWithKey(rootLogger, field, descending, key)
	if !known {
		stage.logger.Warn("Unknown sort field, all records will compare equal",
			zap.String("field", field))
	}
	return stage
}

// NewSortWithKey sorts by an arbitrary key extractor instead of a named
// record field.
func NewSortWithKey(rootLogger *zap.Logger, field string, descending bool, key snapshot.KeyFunc) *Sort {
	return &Sort{
		logger:     rootLogger.Named("sort"),
		field:      field,
		descending: descending,
		key:        key,
	}
}

func (s *Sort) Name() string {
	return "sort"
}

func (s *Sort) Apply(snap snapshot.Snapshot) (snapshot.Snapshot, error) {
	keys := make([]snapshot.Key, len(snap))
	for i := range snap {
		keys[i] = s.key(&snap[i])
	}

	// Keys of mixed kinds cannot be ordered; keep the input order rather than
	// failing the whole run.
	for i := 1; i < len(keys); i++ {
		if keys[i].Kind != keys[0].Kind {
			s.logger.Warn("Could not sort by field",
				zap.String("field", s.field),
				zap.String("reason", "mixed key types"))
			return append(snapshot.Snapshot(nil), snap...), nil
		}
	}

	indexes := make([]int, len(snap))
	for i := range indexes {
		indexes[i] = i
	}

	sort.SliceStable(indexes, func(a, b int) bool {
		if s.descending {
			return keys[indexes[b]].Less(keys[indexes[a]])
		}
		return keys[indexes[a]].Less(keys[indexes[b]])
	})

	sorted := make(snapshot.Snapshot, len(snap))
	for i, index := range indexes {
		sorted[i] = snap[index]
	}

	s.logger.Info("Sorted processes",
		zap.Int("count", len(sorted)),
		zap.String("field", s.field),
		zap.String("direction", s.direction()))
	return sorted, nil
}

func (s *Sort) direction() string {
	if s.descending {
		return "descending"
	}
	return "ascending"
}
