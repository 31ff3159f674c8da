package fd

import (
	"fmt"

	"github.com/samber/lo"
)

// CountAtMost caps how many variables may be fixed to a given value.
type CountAtMost struct {
	variables []*Variable
	value     int
	max       int
}

func NewCountAtMost(variables []*Variable, value, max int) (*CountAtMost, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("fd: CountAtMost requires at least one variable")
	}
	if max < 0 {
		return nil, fmt.Errorf("fd: CountAtMost bound must be non-negative, got %d", max)
	}
	return &CountAtMost{variables: variables, value: value, max: max}, nil
}

func (c *CountAtMost) Variables() []*Variable {
	return c.variables
}

func (c *CountAtMost) String() string {
	return fmt.Sprintf("count(%d) <= %d over %d variables", c.value, c.max, len(c.variables))
}

func (c *CountAtMost) Propagate(st *State) (Outcome, error) {
	fixed := lo.CountBy(c.variables, func(variable *Variable) bool {
		domain := st.Domain(variable.id)
		return domain.IsSingleton() && domain.Value() == c.value
	})
	if fixed > c.max {
		return Infeasible, fmt.Errorf("%v: %d variables already fixed to %d", c, fixed, c.value)
	}
	if fixed < c.max {
		return Unchanged, nil
	}

	// Cap reached: the value is no longer available to undecided variables
	outcome := Unchanged
	for _, variable := range c.variables {
		domain := st.Domain(variable.id)
		if domain.IsSingleton() || !domain.Has(c.value) {
			continue
		}
		pruned := domain.Remove(c.value)
		if pruned.Empty() {
			return Infeasible, fmt.Errorf("%v: domain of %v emptied", c, variable.name)
		}
		st.SetDomain(variable.id, pruned)
		outcome = Pruned
	}
	return outcome, nil
}

// DistinctValues forces its variables to collectively take exactly n
// distinct values.
type DistinctValues struct {
	variables []*Variable
	n         int
}

func NewDistinctValues(variables []*Variable, n int) (*DistinctValues, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("fd: DistinctValues requires at least one variable")
	}
	if n < 1 || n > len(variables) {
		return nil, fmt.Errorf("fd: DistinctValues needs 1 <= n <= %d, got %d", len(variables), n)
	}
	return &DistinctValues{variables: variables, n: n}, nil
}

func (c *DistinctValues) Variables() []*Variable {
	return c.variables
}

func (c *DistinctValues) String() string {
	return fmt.Sprintf("distinct values over %d variables = %d", len(c.variables), c.n)
}

func (c *DistinctValues) Propagate(st *State) (Outcome, error) {
	reachable := make(map[int]int) // value -> number of domains containing it
	fixed := make(map[int]bool)
	for _, variable := range c.variables {
		domain := st.Domain(variable.id)
		domain.Iterate(func(v int) { reachable[v]++ })
		if domain.IsSingleton() {
			fixed[domain.Value()] = true
		}
	}

	if len(reachable) < c.n {
		return Infeasible, fmt.Errorf("%v: only %d values reachable", c, len(reachable))
	}
	if len(fixed) > c.n {
		return Infeasible, fmt.Errorf("%v: %d values already taken", c, len(fixed))
	}

	outcome := Unchanged

	// The fixed values already exhaust the allowed count: undecided variables
	// must reuse one of them
	if len(fixed) == c.n {
		for _, variable := range c.variables {
			domain := st.Domain(variable.id)
			if domain.IsSingleton() {
				continue
			}
			pruned := domain
			domain.Iterate(func(v int) {
				if !fixed[v] {
					pruned = pruned.Remove(v)
				}
			})
			if pruned.Empty() {
				return Infeasible, fmt.Errorf("%v: domain of %v emptied", c, variable.name)
			}
			if !pruned.Equal(domain) {
				st.SetDomain(variable.id, pruned)
				outcome = Pruned
			}
		}
	}

	// Every reachable value is needed: a value only one variable can still
	// take forces that variable
	if len(reachable) == c.n {
		for value, holders := range reachable {
			if holders != 1 || fixed[value] {
				continue
			}
			for _, variable := range c.variables {
				domain := st.Domain(variable.id)
				if domain.IsSingleton() || !domain.Has(value) {
					continue
				}
				st.SetDomain(variable.id, domain.Fix(value))
				outcome = Pruned
				break
			}
		}
	}

	return outcome, nil
}
