package model

import (
	"github.com/samber/lo"

	"github.com/coursetab/coursetab/pkg/fd"
)

// brancher implements the search's branching strategy: rooms first, then
// start times, then end times, then instructors. Within each group the
// variable with the smallest remaining domain is split first (fail-first),
// and candidate values are tried smallest-first except for instructors,
// which follow the preference heuristic.
type brancher struct {
	variables   *storeVariables
	courses     []Course
	instructors []Instructor
}

func newBrancher(variables *storeVariables, input Input) *brancher {
	return &brancher{
		variables:   variables,
		courses:     input.Courses,
		instructors: input.Instructors,
	}
}

func (b *brancher) Next(st *fd.State) (int, []int, bool) {
	groups := [][]*fd.Variable{b.variables.rooms, b.variables.starts, b.variables.ends, b.variables.instructors}
	for index, group := range groups {
		course, ok := pickFailFirst(st, group)
		if !ok {
			continue
		}
		variable := group[course]
		values := st.Domain(variable.ID()).Values()
		if index == len(groups)-1 { // instructor group follows the heuristic
			values = instructorOrder(b.courses[course], values, b.instructors)
		}
		return variable.ID(), values, true
	}

	// Composite variables are normally fixed by propagation once instructor
	// and start are, but a stray undecided variable still needs a branch
	for _, variable := range b.variables.composites {
		if domain := st.Domain(variable.ID()); !domain.IsSingleton() {
			return variable.ID(), domain.Values(), true
		}
	}
	return 0, nil, false
}

// pickFailFirst returns the group index of the undecided variable with the
// fewest candidates. Ties break on course order, which keeps the search
// deterministic.
func pickFailFirst(st *fd.State, group []*fd.Variable) (int, bool) {
	best, bestCount := -1, 0
	for index, variable := range group {
		domain := st.Domain(variable.ID())
		if domain.IsSingleton() {
			continue
		}
		if count := domain.Count(); best == -1 || count < bestCount {
			best, bestCount = index, count
		}
	}
	return best, best != -1
}

// instructorOrder ranks the candidate instructor indices for a course. It is
// a pure function of the course, the remaining candidates and the instructor
// list, so the search can call it at every branch point.
//
// Two preference tiers are evaluated over the candidates in ascending order;
// the first match is tried first and the remaining candidates keep their
// ascending order:
//  1. an instructor who explicitly lists this course among their preferences;
//  2. an instructor with no outstanding preferred course in this department
//     that alphabetically precedes this one, i.e. nobody-wants-it sections
//     go to instructors whose own wishlist is already behind them.
//
// If neither tier matches, the smallest candidate is tried first as-is.
func instructorOrder(course Course, candidates []int, instructors []Instructor) []int {
	chosen, ok := lo.Find(candidates, func(candidate int) bool {
		return lo.Contains(instructors[candidate].Preferences, course.Ref())
	})
	if !ok {
		chosen, ok = lo.Find(candidates, func(candidate int) bool {
			return !lo.SomeBy(instructors[candidate].Preferences, func(preference CourseRef) bool {
				return preference.Department == course.Department && preference.Name < course.Name
			})
		})
	}
	if !ok {
		return candidates
	}

	ordered := make([]int, 0, len(candidates))
	ordered = append(ordered, chosen)
	for _, candidate := range candidates {
		if candidate != chosen {
			ordered = append(ordered, candidate)
		}
	}
	return ordered
}
