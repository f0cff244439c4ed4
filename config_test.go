package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("HOUSING_MAX_FRONTIER", "1000")
	t.Setenv("HOUSING_TIME_LIMIT", "90s")
	t.Setenv("HOUSING_VERBOSE", "true")
	t.Setenv("HOUSING_PROGRESS_EVERY", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{
		MaxFrontier:   1000,
		TimeLimit:     90 * time.Second,
		Verbose:       true,
		ProgressEvery: 5,
	}, cfg)
}

func TestLoadConfigRejects(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		t.Setenv("HOUSING_TIME_LIMIT", "soon")
		_, err := LoadConfig()
		require.Error(t, err)
	})
	t.Run("negative frontier", func(t *testing.T) {
		t.Setenv("HOUSING_MAX_FRONTIER", "-1")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "HOUSING_MAX_FRONTIER")
	})
}
