package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5000, cfg.TrainSamples)
	assert.Equal(t, int64(42), cfg.TrainSeed)
	assert.Empty(t, cfg.RetrainSchedule)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TRAIN_SAMPLES", "1000")
	t.Setenv("TRAIN_SEED", "-7")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 1000, cfg.TrainSamples)
	assert.Equal(t, int64(-7), cfg.TrainSeed)
}

func TestNewConfigRejectsBadValues(t *testing.T) {
	t.Setenv("TRAIN_SAMPLES", "zero")
	_, err := NewConfig()
	assert.Error(t, err)

	t.Setenv("TRAIN_SAMPLES", "0")
	_, err = NewConfig()
	assert.Error(t, err)

	t.Setenv("TRAIN_SAMPLES", "100")
	t.Setenv("TRAIN_SEED", "not-a-number")
	_, err = NewConfig()
	assert.Error(t, err)

	t.Setenv("TRAIN_SEED", "1")
	t.Setenv("ENCRYPTION_KEY", "abcd")
	_, err = NewConfig()
	assert.Error(t, err)

	t.Setenv("ENCRYPTION_KEY", "not-hex!")
	_, err = NewConfig()
	assert.Error(t, err)
}
