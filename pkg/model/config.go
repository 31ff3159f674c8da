package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEncodingOverflow means the instructor/time composite encoding could
	// alias two different (instructor, time) pairs with the configured
	// multiplier.
	ErrEncodingOverflow = errors.New("instructor-time encoding overflow")
	// ErrInfeasible means the search space was exhausted: no timetable
	// satisfies the hard constraints with the given input.
	ErrInfeasible = errors.New("no feasible schedule exists with the given input")
)

// NoInstructorsError is a build-time configuration error: a course's
// department has no instructor at all, so its instructor domain is empty
// before search even starts.
type NoInstructorsError struct {
	Department string
}

func (err NoInstructorsError) Error() string {
	return fmt.Sprintf("department %v has courses but no instructors", err.Department)
}

// Config carries the tunables of the scheduling model. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	// MinTime and MaxTime bound the start-time grid, stepped by TimeStep.
	// Every section occupies exactly one slot of TimeStep length.
	MinTime  int `mapstructure:"min_time"`
	MaxTime  int `mapstructure:"max_time"`
	TimeStep int `mapstructure:"time_step"`

	// InstructorSections caps how many sections one instructor may teach.
	InstructorSections int `mapstructure:"instructor_sections"`

	// TimeMultiplier is the base of the instructor+multiplier*time composite
	// used for the no-double-booking distinctness constraint. It must exceed
	// the number of instructors.
	TimeMultiplier int `mapstructure:"time_multiplier"`

	// NodeLimit caps the number of search nodes explored; 0 means no limit.
	NodeLimit int `mapstructure:"node_limit"`
}

func DefaultConfig() Config {
	return Config{
		MinTime:            8,
		MaxTime:            16,
		TimeStep:           1,
		InstructorSections: 3,
		TimeMultiplier:     100,
		NodeLimit:          0,
	}
}

// SlotsPerRoom returns how many non-overlapping sections a single room can
// host on the start-time grid.
func (c Config) SlotsPerRoom() int {
	return (c.MaxTime-c.MinTime)/c.TimeStep + 1
}

// StartTimes returns the start-time grid in ascending order.
func (c Config) StartTimes() []int {
	times := make([]int, 0, c.SlotsPerRoom())
	for t := c.MinTime; t <= c.MaxTime; t += c.TimeStep {
		times = append(times, t)
	}
	return times
}

// Validate rejects unusable tunables before any model is built. The
// instructor count participates because the encoding guard depends on it.
func (c Config) Validate(instructors int) error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %d", c.TimeStep)
	}
	if c.MinTime < 0 || c.MaxTime < c.MinTime {
		return fmt.Errorf("time window [%d, %d] is invalid", c.MinTime, c.MaxTime)
	}
	if (c.MaxTime-c.MinTime)%c.TimeStep != 0 {
		return fmt.Errorf("time window [%d, %d] is not divisible by step %d", c.MinTime, c.MaxTime, c.TimeStep)
	}
	if c.InstructorSections < 1 {
		return fmt.Errorf("instructor section cap must be at least 1, got %d", c.InstructorSections)
	}
	if c.TimeMultiplier < 1 {
		return fmt.Errorf("time multiplier must be positive, got %d", c.TimeMultiplier)
	}
	if instructors > c.TimeMultiplier {
		return fmt.Errorf("%w: %d instructors exceed multiplier %d", ErrEncodingOverflow, instructors, c.TimeMultiplier)
	}
	if c.NodeLimit < 0 {
		return fmt.Errorf("node limit must be non-negative, got %d", c.NodeLimit)
	}
	return nil
}
