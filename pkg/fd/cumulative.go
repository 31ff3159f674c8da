package fd

import "fmt"

// Cumulative schedules unit-demand tasks on unit-capacity resources: task i
// runs in [start_i, start_i+duration) on the resource chosen by resource_i,
// and two tasks on the same resource must not overlap in time.
//
// Propagation is pairwise:
//   - tasks pinned to the same resource prune each other's start windows
//     (disjunctive filtering);
//   - tasks whose time windows force an overlap prune each other's resource
//     domains.
type Cumulative struct {
	resources []*Variable
	starts    []*Variable
	duration  int
}

func NewCumulative(resources, starts []*Variable, duration int) (*Cumulative, error) {
	if len(resources) == 0 || len(resources) != len(starts) {
		return nil, fmt.Errorf("fd: Cumulative needs matching resource/start variables, got %d/%d", len(resources), len(starts))
	}
	if duration <= 0 {
		return nil, fmt.Errorf("fd: Cumulative duration must be positive, got %d", duration)
	}
	return &Cumulative{resources: resources, starts: starts, duration: duration}, nil
}

func (c *Cumulative) Variables() []*Variable {
	variables := make([]*Variable, 0, 2*len(c.resources))
	variables = append(variables, c.resources...)
	variables = append(variables, c.starts...)
	return variables
}

func (c *Cumulative) String() string {
	return fmt.Sprintf("cumulative over %d unit tasks, duration %d", len(c.resources), c.duration)
}

func (c *Cumulative) Propagate(st *State) (Outcome, error) {
	outcome := Unchanged

	for i := range c.resources {
		for j := i + 1; j < len(c.resources); j++ {
			result, err := c.propagatePair(st, i, j)
			if err != nil {
				return Infeasible, err
			}
			if result == Pruned {
				outcome = Pruned
			}
		}
	}
	return outcome, nil
}

func (c *Cumulative) propagatePair(st *State, i, j int) (Outcome, error) {
	resI, resJ := st.Domain(c.resources[i].id), st.Domain(c.resources[j].id)
	startI, startJ := st.Domain(c.starts[i].id), st.Domain(c.starts[j].id)

	sameResource := resI.IsSingleton() && resJ.IsSingleton() && resI.Value() == resJ.Value()
	mustOverlap := c.mustOverlap(startI, startJ)

	if sameResource && mustOverlap {
		return Infeasible, fmt.Errorf("%v: tasks %v and %v overlap on resource %d",
			c, c.starts[i].name, c.starts[j].name, resI.Value())
	}

	outcome := Unchanged

	// Same resource: a pinned start blocks the other task's window
	if sameResource {
		for _, pair := range [][2]int{{i, j}, {j, i}} {
			pinned, other := st.Domain(c.starts[pair[0]].id), st.Domain(c.starts[pair[1]].id)
			if !pinned.IsSingleton() {
				continue
			}
			blocked := other.RemoveRange(pinned.Value()-c.duration+1, pinned.Value()+c.duration-1)
			if blocked.Empty() {
				return Infeasible, fmt.Errorf("%v: no start left for %v next to %v", c, c.starts[pair[1]].name, c.starts[pair[0]].name)
			}
			if !blocked.Equal(other) {
				st.SetDomain(c.starts[pair[1]].id, blocked)
				outcome = Pruned
			}
		}
		return outcome, nil
	}

	// Forced time overlap: the tasks cannot share a resource
	if mustOverlap {
		for _, pair := range [][2]int{{i, j}, {j, i}} {
			pinned, other := st.Domain(c.resources[pair[0]].id), st.Domain(c.resources[pair[1]].id)
			if !pinned.IsSingleton() || !other.Has(pinned.Value()) {
				continue
			}
			pruned := other.Remove(pinned.Value())
			if pruned.Empty() {
				return Infeasible, fmt.Errorf("%v: no resource left for %v", c, c.resources[pair[1]].name)
			}
			st.SetDomain(c.resources[pair[1]].id, pruned)
			outcome = Pruned
		}
	}
	return outcome, nil
}

// mustOverlap reports whether every pair of start choices collides, using
// interval bounds: the latest possible start of one task still lands inside
// the other task's earliest run, and vice versa.
func (c *Cumulative) mustOverlap(a, b Domain) bool {
	return a.Max() < b.Min()+c.duration && b.Max() < a.Min()+c.duration
}
