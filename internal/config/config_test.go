package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30000, cfg.PollIntervalMS)
	assert.Equal(t, 60, cfg.DueWindowSec)
}

func TestPollIntervalFloor(t *testing.T) {
	cases := []struct {
		ms   int
		want int
	}{
		{30000, 30},
		{5000, 5},
		{4999, 5},
		{1000, 5},
		{0, 5},
		{90000, 90},
	}
	for _, c := range cases {
		cfg := &Config{PollIntervalMS: c.ms}
		assert.Equal(t, c.want, cfg.PollInterval(), "interval %dms", c.ms)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALUE", "42")
	assert.Equal(t, 42, getEnvInt("TEST_INT_VALUE", 7))

	t.Setenv("TEST_INT_VALUE", "not-a-number")
	assert.Equal(t, 7, getEnvInt("TEST_INT_VALUE", 7))

	assert.Equal(t, 7, getEnvInt("TEST_INT_UNSET", 7))
}
