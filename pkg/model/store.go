package model

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/coursetab/coursetab/pkg/fd"
)

// storeVariables groups the decision variables by role, indexed by course.
type storeVariables struct {
	rooms       []*fd.Variable
	starts      []*fd.Variable
	ends        []*fd.Variable
	instructors []*fd.Variable
	composites  []*fd.Variable
}

// buildStore constructs the constraint store: four decision variables per
// course plus the composite instructor-time variables, and every hard
// constraint registered over them. Configuration errors (a department
// without instructors, an unusable encoding) surface here, before search.
func buildStore(input Input, config Config) (*fd.Model, *storeVariables, error) {
	if len(input.Courses) == 0 {
		return nil, nil, fmt.Errorf("no courses to schedule")
	}
	if len(input.Rooms) == 0 {
		return nil, nil, fmt.Errorf("no rooms available")
	}

	model := fd.NewModel()
	variables := &storeVariables{}
	startTimes := config.StartTimes()
	endTimes := lo.Map(startTimes, func(t int, _ int) int { return t + config.TimeStep })

	for i, course := range input.Courses {
		// Department restriction: the instructor domain only ever holds
		// department-matching indices, computed once from the instructor list
		candidates := departmentInstructors(input.Instructors, course.Department)
		if len(candidates) == 0 {
			return nil, nil, NoInstructorsError{Department: course.Department}
		}

		room := model.IntVar(0, len(input.Rooms)-1, fmt.Sprintf("room[%d]", i))
		start := model.IntVarValues(startTimes, fmt.Sprintf("start[%d]", i))
		end := model.IntVarValues(endTimes, fmt.Sprintf("end[%d]", i))
		instructor := model.IntVarValues(candidates, fmt.Sprintf("instructor[%d]", i))
		composite := model.IntVar(0, len(input.Instructors)-1+config.TimeMultiplier*config.MaxTime,
			fmt.Sprintf("slot[%d]", i))

		variables.rooms = append(variables.rooms, room)
		variables.starts = append(variables.starts, start)
		variables.ends = append(variables.ends, end)
		variables.instructors = append(variables.instructors, instructor)
		variables.composites = append(variables.composites, composite)
	}

	if err := registerConstraints(model, variables, input, config); err != nil {
		return nil, nil, err
	}
	return model, variables, nil
}

func registerConstraints(model *fd.Model, variables *storeVariables, input Input, config Config) error {
	// Per-room section-count bound: a room cannot host more sections than it
	// has slots. Redundant with the cumulative constraint below, but it
	// prunes room choices long before any time is fixed.
	for room := range input.Rooms {
		count, err := fd.NewCountAtMost(variables.rooms, room, config.SlotsPerRoom())
		if err != nil {
			return err
		}
		model.AddConstraint(count)
	}

	for i := range input.Courses {
		// Every section occupies exactly one fixed-length slot
		model.AddConstraint(fd.NewOffset(variables.starts[i], variables.ends[i], config.TimeStep))

		// Composite channeling for the no-double-booked-instructor check
		composite, err := fd.NewComposite(variables.composites[i], variables.instructors[i], variables.starts[i], config.TimeMultiplier)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodingOverflow, err)
		}
		model.AddConstraint(composite)
	}

	// Per-instructor section cap
	for instructor := range input.Instructors {
		count, err := fd.NewCountAtMost(variables.instructors, instructor, config.InstructorSections)
		if err != nil {
			return err
		}
		model.AddConstraint(count)
	}

	// No instructor teaches two sections starting at the same time
	distinct, err := fd.NewAllDifferent(variables.composites)
	if err != nil {
		return err
	}
	model.AddConstraint(distinct)

	// Every instructor teaches at least one section
	busy, err := fd.NewDistinctValues(variables.instructors, len(input.Instructors))
	if err != nil {
		return err
	}
	model.AddConstraint(busy)

	// No room hosts two overlapping sections
	cumulative, err := fd.NewCumulative(variables.rooms, variables.starts, config.TimeStep)
	if err != nil {
		return err
	}
	model.AddConstraint(cumulative)

	return nil
}

// departmentInstructors returns the indices of the instructors belonging to
// the given department, in instructor-list order.
func departmentInstructors(instructors []Instructor, department string) []int {
	candidates := make([]int, 0)
	for index, instructor := range instructors {
		if instructor.Department == department {
			candidates = append(candidates, index)
		}
	}
	return candidates
}
