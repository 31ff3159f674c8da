package fd

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoSolution is returned once the search space is exhausted without
	// reaching a complete consistent assignment.
	ErrNoSolution = errors.New("fd: no solution")
	// ErrBudgetExhausted is returned when the node limit is reached before
	// the search concludes either way.
	ErrBudgetExhausted = errors.New("fd: search budget exhausted")
)

// Brancher picks the next variable to split and the order in which to try
// its candidate values. Returning ok=false means no branching decision
// remains. Implementations must not mutate the state.
type Brancher interface {
	Next(st *State) (id int, values []int, ok bool)
}

// minDomainBrancher is the fallback strategy: the undecided variable with
// the fewest candidates, values in ascending order.
type minDomainBrancher struct{}

func (minDomainBrancher) Next(st *State) (int, []int, bool) {
	best, bestCount := -1, 0
	for id := range st.domains {
		domain := st.Domain(id)
		if domain.IsSingleton() {
			continue
		}
		if count := domain.Count(); best == -1 || count < bestCount {
			best, bestCount = id, count
		}
	}
	if best == -1 {
		return 0, nil, false
	}
	return best, st.Domain(best).Values(), true
}

// Solution is a complete assignment of every model variable.
type Solution struct {
	values []int
}

// Value returns the assigned value of the given variable.
func (s *Solution) Value(variable *Variable) int {
	return s.values[variable.id]
}

type Option func(*Solver)

// WithBrancher replaces the default fail-first brancher.
func WithBrancher(brancher Brancher) Option {
	return func(s *Solver) { s.brancher = brancher }
}

// WithNodeLimit caps the number of search nodes explored; 0 means no limit.
func WithNodeLimit(limit int) Option {
	return func(s *Solver) { s.nodeLimit = limit }
}

// Solver runs a single-threaded depth-first search over variable
// assignments, interleaving fixpoint propagation with branching, and stops
// at the first complete consistent assignment.
type Solver struct {
	model     *Model
	brancher  Brancher
	nodeLimit int
	nodes     int
}

func NewSolver(model *Model, options ...Option) *Solver {
	solver := &Solver{
		model:    model,
		brancher: minDomainBrancher{},
	}
	for _, option := range options {
		option(solver)
	}
	return solver
}

// Nodes returns the number of search nodes explored by the last Solve call.
func (s *Solver) Nodes() int { return s.nodes }

// node is one frame of the search stack: a domain snapshot plus the branch
// decision taken at it, with candidates still to try.
type node struct {
	st     *State
	id     int
	values []int
	next   int
}

// Solve returns the first solution, ErrNoSolution on exhaustion, or
// ErrBudgetExhausted / the context error when a cutoff fires first.
func (s *Solver) Solve(ctx context.Context) (*Solution, error) {
	s.nodes = 0

	root := s.model.rootState()
	stack := []*node{}

	current, open := root, true
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
			return nil, ErrBudgetExhausted
		}

		if open {
			s.nodes++
			if s.propagate(current) {
				if current.Assigned() {
					return s.solution(current), nil
				}

				id, values, ok := s.brancher.Next(current)
				if !ok {
					// Nothing left to branch on yet domains are not all
					// singleton: the model has an unbranchable variable
					return nil, fmt.Errorf("fd: brancher stalled with undecided variables")
				}
				stack = append(stack, &node{st: current, id: id, values: values})
			}
		}

		// Descend into the next untried candidate of the deepest node,
		// backtracking past exhausted ones
		open = false
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next >= len(top.values) {
				stack = stack[:len(stack)-1] // branch exhausted, discard snapshot
				continue
			}
			value := top.values[top.next]
			top.next++

			child := top.st.Clone()
			child.SetDomain(top.id, child.Domain(top.id).Fix(value))
			current, open = child, true
			break
		}
		if !open {
			return nil, ErrNoSolution
		}
	}
}

// propagate runs every constraint to fixpoint. It reports false when some
// constraint found the node infeasible; the conflict error a constraint
// returns describes a recoverable dead branch, so it is not surfaced here.
func (s *Solver) propagate(st *State) bool {
	for {
		pruned := false
		for _, constraint := range s.model.constraints {
			outcome, _ := constraint.Propagate(st)
			switch outcome {
			case Infeasible:
				return false
			case Pruned:
				pruned = true
			}
		}
		if !pruned {
			return true
		}
	}
}

func (s *Solver) solution(st *State) *Solution {
	values := make([]int, len(st.domains))
	for id, domain := range st.domains {
		values[id] = domain.Value()
	}
	return &Solution{values: values}
}
