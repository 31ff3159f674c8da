package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// CourseRef identifies a course section-agnostically, the way instructor
// preferences refer to courses.
type CourseRef struct {
	Department string
	Name       string
}

// RawCourse is a course offering as it appears in the input file: a single
// record carrying the number of sections to schedule.
type RawCourse struct {
	Department string
	Name       string
	Sections   int
}

type RawInput struct {
	Courses     []RawCourse
	Instructors []Instructor
	Rooms       []string
}

// Course is one scheduled section. An offering with N sections expands into
// N Course records numbered 1..N.
type Course struct {
	Department string
	Name       string
	Section    int
}

func (c Course) Ref() CourseRef {
	return CourseRef{Department: c.Department, Name: c.Name}
}

func (c Course) String() string {
	return fmt.Sprintf("%v %v #%d", c.Department, c.Name, c.Section)
}

type Instructor struct {
	Name        string
	Department  string
	Preferences []CourseRef
}

// Input is the fully expanded scheduling problem: one Course per section,
// in input order. All records are immutable once loaded.
type Input struct {
	Courses     []Course
	Instructors []Instructor
	Rooms       []string
}

func InputFromJson(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Input{}, err
	}

	var rawInput RawInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return Input{}, err
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawInput) (Input, error) {
	input := Input{
		Instructors: rawInput.Instructors,
		Rooms:       rawInput.Rooms,
	}

	seen := make(map[CourseRef]bool)
	for _, rawCourse := range rawInput.Courses {
		if rawCourse.Department == "" || rawCourse.Name == "" {
			return Input{}, fmt.Errorf("course %q/%q: department and name must be non-empty", rawCourse.Department, rawCourse.Name)
		}
		if rawCourse.Sections < 1 {
			return Input{}, fmt.Errorf("course %v %v: sections must be at least 1, got %d", rawCourse.Department, rawCourse.Name, rawCourse.Sections)
		}

		ref := CourseRef{Department: rawCourse.Department, Name: rawCourse.Name}
		if seen[ref] {
			return Input{}, fmt.Errorf("duplicate course %v %v", ref.Department, ref.Name)
		}
		seen[ref] = true

		// Expand the offering into one independent record per section
		for section := 1; section <= rawCourse.Sections; section++ {
			input.Courses = append(input.Courses, Course{
				Department: rawCourse.Department,
				Name:       rawCourse.Name,
				Section:    section,
			})
		}
	}

	instructorNames := lo.Map(rawInput.Instructors, func(instructor Instructor, _ int) string { return instructor.Name })
	if duplicates := lo.FindDuplicates(instructorNames); len(duplicates) > 0 {
		return Input{}, fmt.Errorf("duplicate instructors: %v", duplicates)
	}
	for _, instructor := range rawInput.Instructors {
		if instructor.Name == "" || instructor.Department == "" {
			return Input{}, fmt.Errorf("instructor %q/%q: name and department must be non-empty", instructor.Name, instructor.Department)
		}
	}

	if duplicates := lo.FindDuplicates(rawInput.Rooms); len(duplicates) > 0 {
		return Input{}, fmt.Errorf("duplicate rooms: %v", duplicates)
	}

	return input, nil
}
