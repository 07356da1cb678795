package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/procsnap/agent/internal/logging"
	"github.com/procsnap/agent/internal/pipeline"
)

var options struct {
	LogFile      string        `short:"l" long:"log-file" description:"Snapshot log file path" default:"process_snapshot.log"`
	SortField    string        `short:"s" long:"sort-field" description:"Record field to sort by" default:"cpu_percent"`
	Ascending    bool          `short:"a" long:"ascending" description:"Sort in ascending order"`
	MaxProcesses int           `short:"m" long:"max-processes" description:"Max processes to report" default:"10"`
	SampleWindow time.Duration `short:"w" long:"sample-window" description:"CPU sampling window" default:"2s"`
	IncludeSelf  bool          `long:"include-self" description:"Include this process in the snapshot"`
	Debug        bool          `short:"d" long:"debug" description:"Debug mode"`
}

const exitCodeErr = -1

var logger *zap.Logger

func main() {
	_, err := flags.Parse(&options)
	if err != nil {
		fmt.Printf("Failed to parse arguments: %v\n", err)
		os.Exit(exitCodeErr)
	}

	logger, err = logging.NewLogger("procsnap", options.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(exitCodeErr)
	}
	defer logger.Sync()

	if err := takeSnapshot(); err != nil {
		logger.Fatal("Failed to take process snapshot", zap.Error(err))
	}
}

func takeSnapshot() error {
	banner := strings.Repeat("=", 60)
	fmt.Println(banner)
	fmt.Println("System Resource Process Snapshot")
	fmt.Println(banner)
	fmt.Println("\nScanning for processes...")
	fmt.Println("(This will take a few seconds to measure CPU usage)")

	config := &pipeline.Config{
		LogPath:        options.LogFile,
		SortField:      options.SortField,
		SortDescending: !options.Ascending,
		MaxProcesses:   options.MaxProcesses,
		SampleWindow:   options.SampleWindow,
		SkipSelf:       !options.IncludeSelf,
	}

	snapshotPipeline, err := pipeline.New(logger, config, os.Stdout)
	if err != nil {
		return errors.WithMessage(err, "new snapshot pipeline")
	}

	snap, err := snapshotPipeline.Run(context.Background())
	if err != nil {
		return errors.WithMessage(err, "run snapshot pipeline")
	}

	fmt.Printf("\n%s\n", banner)
	fmt.Printf("Total processes found: %d\n", len(snap))
	fmt.Printf("Process information logged to %s\n", options.LogFile)
	return nil
}
