package pipeline

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/procsnap/agent/internal/collect"
	"github.com/procsnap/agent/internal/errkind"
	"github.com/procsnap/agent/internal/snapshot"
	"github.com/procsnap/agent/internal/stages"
)

// Pipeline runs one snapshot: it invokes the source, then applies its stages
// in order, each consuming the previous stage's snapshot. Stage order is a
// contract: suppression wraps the source so it sees the rawest failures;
// filtering precedes sorting so excluded records are never compared; sorting
// precedes capping so the cap keeps the highest-ranked records; logging runs
// last so the log reflects exactly the final view.
type Pipeline struct {
	logger  *zap.Logger
	source  stages.Source
	stages  []stages.Stage
	running *atomic.Bool
}

func New(rootLogger *zap.Logger, config *Config, reportWriter io.Writer) (*Pipeline, error) {
	if valid, err := config.Valid(); !valid {
		return nil, errors.WithMessage(err, "validate pipeline config")
	}

	collector := collect.NewCollector(rootLogger, config.SampleWindow, config.SkipSelf)

	suppressSet := errkind.DefaultSuppressSet()
	suppressSet.Add(errkind.Zombie)
	source := stages.SuppressErrors(collector.Collect, suppressSet, rootLogger)

	userFilter, err := stages.NewUserFilter(rootLogger)
	if err != nil {
		return nil, errors.WithMessage(err, "new user filter")
	}

	pipeline := NewFromSource(rootLogger, source)
	pipeline.AddStages(
		userFilter,
		stages.NewSort(rootLogger, config.SortField, config.SortDescending),
		stages.NewCap(rootLogger, config.MaxProcesses),
		stages.NewSnapshotLogger(rootLogger, config.LogPath, reportWriter),
	)
	return pipeline, nil
}

// NewFromSource builds a pipeline around an arbitrary source with no stages
// attached, for callers that assemble their own stage list.
func NewFromSource(rootLogger *zap.Logger, source stages.Source) *Pipeline {
	return &Pipeline{
		logger:  rootLogger.Named("snapshot-pipeline"),
		source:  source,
		stages:  make([]stages.Stage, 0),
		running: atomic.NewBool(false),
	}
}

func (p *Pipeline) AddStages(stageList ...stages.Stage) {
	p.stages = append(p.stages, stageList...)
}

func (p *Pipeline) Running() bool {
	return p.running.Load()
}

func (p *Pipeline) Run(ctx context.Context) (snapshot.Snapshot, error) {
	p.running.Store(true)
	defer p.running.Store(false)

	snap, err := p.source(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "collect process snapshot")
	}

	for _, stage := range p.stages {
		p.logger.Debug("Apply stage", zap.String("stage", stage.Name()))

		snap, err = stage.Apply(snap)
		if err != nil {
			return nil, errors.WithMessagef(err, "apply stage '%s'", stage.Name())
		}
	}

	return snap, nil
}
