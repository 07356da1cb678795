package pipeline

import (
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	LogPath        string
	SortField      string
	SortDescending bool
	MaxProcesses   int
	SampleWindow   time.Duration
	SkipSelf       bool
}

func (c *Config) Valid() (bool, error) {
	if c.LogPath == "" {
		return false, errors.New("uninitialized snapshot log path")
	}

	if c.SortField == "" {
		return false, errors.New("uninitialized sort field")
	}

	if c.MaxProcesses <= 0 {
		return false, errors.New("uninitialized max process count")
	}

	if c.SampleWindow <= 0 {
		return false, errors.New("uninitialized sampling window")
	}

	return true, nil
}
