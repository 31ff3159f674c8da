package model

import (
	"github.com/samber/lo"
)

// verify re-derives every hard rule from the input and checks the timetable
// against them, independently of the constraint store that produced it.
func verify(assignments []Assignment, input Input, config Config) bool {
	if len(assignments) != len(input.Courses) {
		return false
	}

	instructorsByName := lo.KeyBy(input.Instructors, func(instructor Instructor) string { return instructor.Name })
	sectionCounts := make(map[string]int)
	instructorBusy := make(map[[2]any]bool) // (instructor, start)
	roomBusy := make(map[string][][2]int)   // room -> occupied [start, end) intervals

	for i, assignment := range assignments {
		// Rows must come back in the original course order
		if assignment.Course != input.Courses[i] {
			return false
		}

		// Every section occupies exactly one fixed-length slot on the grid
		if assignment.TimeEnd-assignment.TimeStart != config.TimeStep ||
			assignment.TimeStart < config.MinTime ||
			assignment.TimeStart > config.MaxTime ||
			(assignment.TimeStart-config.MinTime)%config.TimeStep != 0 {
			return false
		}

		// Instructor exists, teaches within their own department and is not
		// double-booked at this start time
		instructor, ok := instructorsByName[assignment.Instructor]
		if !ok || instructor.Department != assignment.Course.Department {
			return false
		}
		busyKey := [2]any{assignment.Instructor, assignment.TimeStart}
		if instructorBusy[busyKey] {
			return false
		}
		instructorBusy[busyKey] = true
		sectionCounts[assignment.Instructor]++

		// Room exists and hosts no overlapping sections
		if !lo.Contains(input.Rooms, assignment.Room) {
			return false
		}
		for _, interval := range roomBusy[assignment.Room] {
			if assignment.TimeStart < interval[1] && interval[0] < assignment.TimeEnd {
				return false
			}
		}
		roomBusy[assignment.Room] = append(roomBusy[assignment.Room], [2]int{assignment.TimeStart, assignment.TimeEnd})
	}

	// Per-instructor cap, and nobody idle
	for _, count := range sectionCounts {
		if count > config.InstructorSections {
			return false
		}
	}
	return len(sectionCounts) == len(input.Instructors)
}
