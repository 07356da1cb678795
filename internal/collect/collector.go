package collect

import (
	"context"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	psUtilCpu "github.com/shirou/gopsutil/cpu"
	psUtil "github.com/shirou/gopsutil/process"
	"go.uber.org/zap"
	"gopkg.in/guregu/null.v3"

	"github.com/procsnap/agent/internal/snapshot"
)

const DefaultSampleWindow = 2 * time.Second

// Collector enumerates OS processes and measures their CPU usage over a
// sampling window. CPU percent needs two reads per process instance: the
// first pass stores each instance's CPU times, the second reads the delta
// accumulated across the window. The delta state lives on the process
// instance, so the first-pass instances must be retained until the second
// read.
type Collector struct {
	logger       *zap.Logger
	sampleWindow time.Duration
	skipSelf     bool
}

func NewCollector(rootLogger *zap.Logger, sampleWindow time.Duration, skipSelf bool) *Collector {
	return &Collector{
		logger:       rootLogger.Named("process-collector"),
		sampleWindow: sampleWindow,
		skipSelf:     skipSelf,
	}
}

func (c *Collector) Collect(ctx context.Context) (snapshot.Snapshot, error) {
	liveProcesses, err := psUtil.Processes()
	if err != nil {
		return nil, errors.WithMessage(err, "get live process list")
	}

	// Prime each instance's CPU counter so the post-window read yields a
	// delta over the window rather than a lifetime average.
	primed := make(map[int32]*psUtil.Process, len(liveProcesses))
	for _, liveProcess := range liveProcesses {
		_, _ = liveProcess.Percent(0)
		primed[liveProcess.Pid] = liveProcess
	}

	if err := c.waitSampleWindow(ctx); err != nil {
		return nil, err
	}

	// Re-list so processes that vanished during the window are dropped.
	liveProcesses, err = psUtil.Processes()
	if err != nil {
		return nil, errors.WithMessage(err, "get live process list after sampling")
	}

	physicalCores := c.physicalCoreCount()
	records := make(snapshot.Snapshot, 0, len(liveProcesses))

	var errs error

	for _, liveProcess := range liveProcesses {
		if c.skipSelf && int(liveProcess.Pid) == os.Getpid() { // Do not report own process.
			continue
		}

		record, err := c.readProcess(liveProcess, primed[liveProcess.Pid], physicalCores)
		if err != nil {
			errs = multierror.Append(errs, errors.WithMessagef(err, "read process '%d'", liveProcess.Pid))
			continue
		}

		records = append(records, *record)
	}

	if len(records) == 0 && errs != nil {
		return nil, errs
	}

	if errs != nil {
		c.logger.Debug("Skipped unreadable processes", zap.Error(errs))
	}

	return records, nil
}

// waitSampleWindow blocks for the sampling window so the second enumeration
// pass reads a meaningful CPU delta. The wait aborts early on context
// cancellation.
func (c *Collector) waitSampleWindow(ctx context.Context) error {
	timer := time.NewTimer(c.sampleWindow)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errors.WithMessage(ctx.Err(), "wait for sampling window")
	}
}

func (c *Collector) readProcess(liveProcess, primedProcess *psUtil.Process,
	physicalCores int) (*snapshot.Record, error) {
	name, err := liveProcess.Name()
	if err != nil {
		return nil, errors.WithMessage(err, "get name")
	}

	commandLine, err := liveProcess.CmdlineSlice()
	if err != nil {
		return nil, errors.WithMessage(err, "get command line")
	}

	status, err := liveProcess.Status()
	if err != nil {
		return nil, errors.WithMessage(err, "get status")
	}

	memoryInfo, err := liveProcess.MemoryInfo()
	if err != nil {
		return nil, errors.WithMessage(err, "get memory info")
	}

	memoryPercent, err := liveProcess.MemoryPercent()
	if err != nil {
		return nil, errors.WithMessage(err, "get memory percent")
	}

	// The delta lives on the primed first-pass instance. A process born
	// inside the window has no baseline, so its delta is zero.
	var cpuPercent float64
	if primedProcess != nil {
		cpuPercent, err = primedProcess.Percent(0)
		if err != nil {
			return nil, errors.WithMessage(err, "get cpu percent")
		}
	}

	record := &snapshot.Record{
		Pid:           liveProcess.Pid,
		Name:          name,
		CommandLine:   commandLine,
		Status:        status,
		MemoryPercent: float64(memoryPercent),
		// Raw percent is per-core; scale it to the whole system.
		CPUPercent: cpuPercent / float64(physicalCores),
	}
	if memoryInfo != nil {
		record.PhysicalMemory = memoryInfo.RSS
	}

	// Executable and username are legitimately absent for kernel threads and
	// foreign-user processes; leave them null instead of failing the record.
	if executable, err := liveProcess.Exe(); err == nil && executable != "" {
		record.Executable = null.StringFrom(executable)
	}
	if username, err := liveProcess.Username(); err == nil && username != "" {
		record.Username = null.StringFrom(username)
	}

	return record, nil
}

func (c *Collector) physicalCoreCount() int {
	count, err := psUtilCpu.Counts(false)
	if err != nil || count <= 0 {
		count, err = psUtilCpu.Counts(true)
	}
	if err != nil || count <= 0 {
		c.logger.Warn("Could not resolve core count, CPU percent left per-core")
		return 1
	}
	return count
}
