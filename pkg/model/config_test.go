package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.Nil(t, DefaultConfig().Validate(10))
}

func TestConfigValidateRejectsBadTunables(t *testing.T) {
	scenarios := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.TimeStep = 0 }},
		{"negative step", func(c *Config) { c.TimeStep = -2 }},
		{"inverted window", func(c *Config) { c.MinTime = 16; c.MaxTime = 8 }},
		{"negative window", func(c *Config) { c.MinTime = -1 }},
		{"indivisible window", func(c *Config) { c.MinTime = 8; c.MaxTime = 15; c.TimeStep = 2 }},
		{"zero section cap", func(c *Config) { c.InstructorSections = 0 }},
		{"zero multiplier", func(c *Config) { c.TimeMultiplier = 0 }},
		{"negative node limit", func(c *Config) { c.NodeLimit = -1 }},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			config := DefaultConfig()
			scenario.mutate(&config)
			assert.NotNil(t, config.Validate(2))
		})
	}
}

func TestConfigValidateGuardsEncodingOverflow(t *testing.T) {
	// Arrange
	config := DefaultConfig()
	config.TimeMultiplier = 4

	// Act & Assert: five instructor indices cannot fit below multiplier 4
	assert.ErrorIs(t, config.Validate(5), ErrEncodingOverflow)
	assert.Nil(t, config.Validate(4))
}

func TestConfigSlots(t *testing.T) {
	// Arrange
	config := Config{MinTime: 8, MaxTime: 16, TimeStep: 2, InstructorSections: 1, TimeMultiplier: 100}

	// Assert
	assert.Equal(t, 5, config.SlotsPerRoom())
	assert.Equal(t, []int{8, 10, 12, 14, 16}, config.StartTimes())
}
