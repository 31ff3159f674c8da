package fd

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// AllDifferent forces its variables to take pairwise distinct values.
//
// Propagation is forward checking (a fixed value is removed from every other
// domain) plus a feasibility test: a complete matching between variables and
// candidate values must exist, otherwise the branch is dead. The matching
// catches pigeonhole failures long before forward checking would.
type AllDifferent struct {
	variables []*Variable
}

func NewAllDifferent(variables []*Variable) (*AllDifferent, error) {
	if len(variables) == 0 {
		return nil, fmt.Errorf("fd: AllDifferent requires at least one variable")
	}
	return &AllDifferent{variables: variables}, nil
}

func (c *AllDifferent) Variables() []*Variable {
	return c.variables
}

func (c *AllDifferent) String() string {
	return fmt.Sprintf("alldifferent(%v)", lo.Map(c.variables, func(v *Variable, _ int) string { return v.name }))
}

func (c *AllDifferent) Propagate(st *State) (Outcome, error) {
	outcome := Unchanged

	// Forward checking: remove every fixed value from the other domains
	for _, fixed := range c.variables {
		domain := st.Domain(fixed.id)
		if !domain.IsSingleton() {
			continue
		}
		value := domain.Value()

		for _, other := range c.variables {
			if other.id == fixed.id {
				continue
			}
			otherDom := st.Domain(other.id)
			if otherDom.IsSingleton() {
				if otherDom.Value() == value {
					return Infeasible, fmt.Errorf("%v: %v and %v both fixed to %d", c, fixed.name, other.name, value)
				}
				continue
			}
			if otherDom.Has(value) {
				pruned := otherDom.Remove(value)
				if pruned.Empty() {
					return Infeasible, fmt.Errorf("%v: domain of %v emptied", c, other.name)
				}
				st.SetDomain(other.id, pruned)
				outcome = Pruned
			}
		}
	}

	if !c.matchable(st) {
		return Infeasible, fmt.Errorf("%v: no complete variable-value matching", c)
	}
	return outcome, nil
}

// matchable reports whether every variable can be matched to its own value.
func (c *AllDifferent) matchable(st *State) bool {
	valueSet := make(map[int]bool)
	for _, variable := range c.variables {
		st.Domain(variable.id).Iterate(func(v int) { valueSet[v] = true })
	}
	if len(valueSet) < len(c.variables) {
		return false
	}

	values := lo.Keys(valueSet)
	neighbours := func(variableAny any, valueAny any) (bool, error) {
		variable := variableAny.(*Variable)
		value := valueAny.(int)
		return st.Domain(variable.id).Has(value), nil
	}

	variablesAny := lo.Map(c.variables, func(variable *Variable, _ int) any { return variable })
	valuesAny := lo.Map(values, func(value int, _ int) any { return value })

	graph, err := bipartitegraph.NewBipartiteGraph(variablesAny, valuesAny, neighbours)
	if err != nil {
		return false
	}
	return len(graph.LargestMatching()) == len(c.variables)
}
