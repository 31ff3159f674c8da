package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursetab/coursetab/pkg/fd"
)

// Assignment is one report row: a course section resolved to an instructor,
// a time slot and a room.
type Assignment struct {
	Course     Course
	Instructor string
	TimeStart  int
	TimeEnd    int
	Room       string
}

func (a Assignment) String() string {
	return fmt.Sprintf("%v: %v, %d-%d, %v", a.Course, a.Instructor, a.TimeStart, a.TimeEnd, a.Room)
}

type Scheduler interface {
	// Build returns one feasible timetable, one row per course section in
	// input order, or ErrInfeasible when none exists. Configuration errors
	// (NoInstructorsError, ErrEncodingOverflow, bad tunables) are reported
	// before any search runs.
	Build(ctx context.Context, input Input) ([]Assignment, error)

	// Verify re-checks a timetable against every hard rule of the input.
	Verify(assignments []Assignment, input Input) bool
}

type cspScheduler struct {
	config Config
	nodes  int
}

func NewScheduler(config Config) Scheduler {
	return &cspScheduler{config: config}
}

func (scheduler *cspScheduler) Build(ctx context.Context, input Input) ([]Assignment, error) {
	if err := scheduler.config.Validate(len(input.Instructors)); err != nil {
		return nil, err
	}

	// More instructors than sections: somebody would stay idle no matter
	// what, so the all-instructors-busy rule cannot hold
	if len(input.Instructors) > len(input.Courses) {
		return nil, fmt.Errorf("%w: %d instructors for %d sections", ErrInfeasible, len(input.Instructors), len(input.Courses))
	}

	store, variables, err := buildStore(input, scheduler.config)
	if err != nil {
		return nil, err
	}

	solver := fd.NewSolver(store,
		fd.WithBrancher(newBrancher(variables, input)),
		fd.WithNodeLimit(scheduler.config.NodeLimit),
	)

	solution, err := solver.Solve(ctx)
	scheduler.nodes = solver.Nodes()
	if errors.Is(err, fd.ErrNoSolution) {
		return nil, ErrInfeasible
	}
	if err != nil {
		return nil, err
	}

	assignments := make([]Assignment, len(input.Courses))
	for i, course := range input.Courses {
		assignments[i] = Assignment{
			Course:     course,
			Instructor: input.Instructors[solution.Value(variables.instructors[i])].Name,
			TimeStart:  solution.Value(variables.starts[i]),
			TimeEnd:    solution.Value(variables.ends[i]),
			Room:       input.Rooms[solution.Value(variables.rooms[i])],
		}
	}
	return assignments, nil
}

// Nodes returns the number of search nodes the last Build explored.
func (scheduler *cspScheduler) Nodes() int { return scheduler.nodes }

func (scheduler *cspScheduler) Verify(assignments []Assignment, input Input) bool {
	return verify(assignments, input, scheduler.config)
}
