package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/samber/lo"

	"github.com/coursetab/coursetab/pkg/model"
)

// Benchmark harness: generates random scheduling instances of growing size,
// solves each one and writes a CSV with timing and search effort.

type result struct {
	departments int
	sections    int
	rooms       int
	elapsed     time.Duration
	nodes       int
	outcome     string
}

func main() {
	outPtr := flag.String("out", "benchmark.csv", "Path to the CSV output file")
	seedPtr := flag.Int64("seed", 1, "Seed for the instance generator")
	runsPtr := flag.Int("runs", 3, "Instances generated per size")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seedPtr))
	config := model.DefaultConfig()

	sizes := []struct {
		departments, instructorsPerDepartment, offerings, rooms int
	}{
		{1, 2, 3, 2},
		{2, 3, 6, 3},
		{3, 4, 10, 4},
		{4, 5, 16, 6},
	}

	results := make([]result, 0, len(sizes)*(*runsPtr))
	for _, size := range sizes {
		for run := 0; run < *runsPtr; run++ {
			input := generate(rng, size.departments, size.instructorsPerDepartment, size.offerings, size.rooms)
			scheduler := model.NewScheduler(config)

			started := time.Now()
			assignments, err := scheduler.Build(context.Background(), input)
			elapsed := time.Since(started)

			outcome := "solved"
			if err != nil {
				outcome = "infeasible"
			} else if !scheduler.Verify(assignments, input) {
				outcome = "invalid"
			}

			nodes := 0
			if counter, ok := scheduler.(interface{ Nodes() int }); ok {
				nodes = counter.Nodes()
			}

			results = append(results, result{
				departments: size.departments,
				sections:    len(input.Courses),
				rooms:       size.rooms,
				elapsed:     elapsed,
				nodes:       nodes,
				outcome:     outcome,
			})
			fmt.Printf("departments=%d sections=%d rooms=%d -> %v in %v (%d nodes)\n",
				size.departments, len(input.Courses), size.rooms, outcome, elapsed, nodes)
		}
	}

	if err := writeCsv(*outPtr, results); err != nil {
		log.Fatalf("cannot write results: %v", err)
	}
}

// generate builds a random instance. Section counts and preferences are
// drawn from the seeded rng, so a fixed seed reproduces the whole suite.
func generate(rng *rand.Rand, departments, instructorsPerDepartment, offerings, rooms int) model.Input {
	raw := model.RawInput{}

	departmentNames := lo.Times(departments, func(index int) string { return fmt.Sprintf("D%02d", index) })
	for _, department := range departmentNames {
		for i := 0; i < instructorsPerDepartment; i++ {
			raw.Instructors = append(raw.Instructors, model.Instructor{
				Name:       fmt.Sprintf("%v-instructor-%d", department, i),
				Department: department,
			})
		}
	}

	for i := 0; i < offerings; i++ {
		department := departmentNames[rng.Intn(departments)]
		course := model.RawCourse{
			Department: department,
			Name:       fmt.Sprintf("course-%03d", i),
			Sections:   rng.Intn(3) + 1,
		}
		raw.Courses = append(raw.Courses, course)

		// Roughly half the offerings get a fan among the department's staff
		if rng.Intn(2) == 0 {
			index := rng.Intn(len(raw.Instructors))
			if raw.Instructors[index].Department == department {
				raw.Instructors[index].Preferences = append(raw.Instructors[index].Preferences,
					model.CourseRef{Department: department, Name: course.Name})
			}
		}
	}

	raw.Rooms = lo.Times(rooms, func(index int) string { return fmt.Sprintf("R%02d", index) })

	input, err := model.ProcessRawInput(raw)
	if err != nil {
		log.Fatalf("generated an invalid instance: %v", err)
	}
	return input
}

func writeCsv(path string, results []result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"departments", "sections", "rooms", "elapsed_ms", "nodes", "outcome"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			fmt.Sprint(r.departments),
			fmt.Sprint(r.sections),
			fmt.Sprint(r.rooms),
			fmt.Sprint(r.elapsed.Milliseconds()),
			fmt.Sprint(r.nodes),
			r.outcome,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
