package config

import (
	"embed"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarrensZeppelin/pta/preprocess"
)

//go:embed testdata
var testfsys embed.FS

func parseFile(t *testing.T, name string) (*Config, error) {
	b, err := testfsys.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return Parse(b)
}

func TestParse(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		cfg, err := parseFile(t, "full.yaml")
		require.NoError(t, err)
		assert.Equal(t, &Config{
			MaxSweeps:      40,
			MaxMethodSteps: 200,
			LogLevel:       "trace",
			EntryOnly:      true,
			Markers:        preprocess.Markers{Class: "Probe", Alloc: "site", Test: "check"},
		}, cfg)
		assert.True(t, cfg.Verbose())
	})

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := parseFile(t, "partial.yaml")
		require.NoError(t, err)
		def := NewDefault()
		assert.Equal(t, def.MaxSweeps, cfg.MaxSweeps)
		assert.Equal(t, def.MaxMethodSteps, cfg.MaxMethodSteps)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, preprocess.Markers{Class: "Benchmark", Alloc: "label", Test: "test"}, cfg.Markers)
		assert.False(t, cfg.EntryOnly)
		assert.False(t, cfg.Verbose())
	})

	t.Run("Empty", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, NewDefault(), cfg)
	})

	t.Run("BadLevel", func(t *testing.T) {
		cfg, err := parseFile(t, "bad_level.yaml")
		assert.ErrorContains(t, err, "loud")
		assert.Nil(t, cfg)
	})

	t.Run("BadFormat", func(t *testing.T) {
		cfg, err := parseFile(t, "bad_format.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "full.yaml"), cfg.SourceFile())

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for name, lvl := range levels {
		cfg := NewDefault()
		cfg.LogLevel = name
		assert.Equal(t, lvl, cfg.NewLogger().GetLevel(), name)
	}

	logger := NewDefault().NewLogger()
	require.IsType(t, &log.TextFormatter{}, logger.Formatter)
	assert.True(t, logger.Formatter.(*log.TextFormatter).FullTimestamp)
}
