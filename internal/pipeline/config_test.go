package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		LogPath:        "process_snapshot.log",
		SortField:      "cpu_percent",
		SortDescending: true,
		MaxProcesses:   10,
		SampleWindow:   2 * time.Second,
		SkipSelf:       true,
	}
}

func TestConfigValid(t *testing.T) {
	valid, err := validConfig().Valid()
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestConfigInvalid(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty log path":     func(c *Config) { c.LogPath = "" },
		"empty sort field":   func(c *Config) { c.SortField = "" },
		"zero max processes": func(c *Config) { c.MaxProcesses = 0 },
		"negative max":       func(c *Config) { c.MaxProcesses = -1 },
		"zero window":        func(c *Config) { c.SampleWindow = 0 },
	} {
		config := validConfig()
		mutate(config)

		valid, err := config.Valid()
		assert.False(t, valid, name)
		assert.Error(t, err, name)
	}
}
