package fd

import "fmt"

// Outcome is the result of one propagation pass.
type Outcome int

const (
	// Unchanged means the constraint is at fixpoint for the current domains.
	Unchanged Outcome = iota
	// Pruned means at least one domain shrank; the store must re-run until
	// every constraint reports Unchanged.
	Pruned
	// Infeasible means a domain emptied or the constraint is provably
	// violated; the current branch must be abandoned.
	Infeasible
)

// Constraint prunes candidate values that cannot appear in any solution of
// the current branch. Propagate must never widen a domain and must be safe
// to call repeatedly; it reports Infeasible together with a descriptive
// error when the branch is dead.
type Constraint interface {
	Variables() []*Variable
	String() string
	Propagate(st *State) (Outcome, error)
}

// Offset enforces y = x + c with bidirectional arc consistency.
type Offset struct {
	x, y   *Variable
	offset int
}

func NewOffset(x, y *Variable, offset int) *Offset {
	return &Offset{x: x, y: y, offset: offset}
}

func (c *Offset) Variables() []*Variable {
	return []*Variable{c.x, c.y}
}

func (c *Offset) String() string {
	return fmt.Sprintf("%v = %v + %d", c.y.name, c.x.name, c.offset)
}

func (c *Offset) Propagate(st *State) (Outcome, error) {
	xDom, yDom := st.Domain(c.x.id), st.Domain(c.y.id)

	// Forward: y must be the image of x shifted by offset
	newY := yDom
	yDom.Iterate(func(v int) {
		if !xDom.Has(v - c.offset) {
			newY = newY.Remove(v)
		}
	})
	if newY.Empty() {
		return Infeasible, fmt.Errorf("%v: no value of %v supports %v", c, c.x.name, c.y.name)
	}

	// Backward: x must be the pruned image shifted back
	newX := xDom
	xDom.Iterate(func(v int) {
		if !newY.Has(v + c.offset) {
			newX = newX.Remove(v)
		}
	})
	if newX.Empty() {
		return Infeasible, fmt.Errorf("%v: no value of %v supports %v", c, c.y.name, c.x.name)
	}

	outcome := Unchanged
	if !newX.Equal(xDom) {
		st.SetDomain(c.x.id, newX)
		outcome = Pruned
	}
	if !newY.Equal(yDom) {
		st.SetDomain(c.y.id, newY)
		outcome = Pruned
	}
	return outcome, nil
}

// Composite enforces z = x + mult*y. Since x is restricted to [0, mult),
// every z value decodes back to exactly one (x, y) pair, so propagation is
// arc consistent in both directions.
type Composite struct {
	z, x, y *Variable
	mult    int
}

// NewComposite returns an error when the domain of x can reach mult, since
// two different (x, y) pairs could then alias to the same composite value.
func NewComposite(z, x, y *Variable, mult int) (*Composite, error) {
	if mult <= 0 {
		return nil, fmt.Errorf("fd: composite multiplier must be positive, got %d", mult)
	}
	if x.domain.Max() >= mult {
		return nil, fmt.Errorf("fd: composite encoding overflow: %v can reach %d with multiplier %d", x.name, x.domain.Max(), mult)
	}
	return &Composite{z: z, x: x, y: y, mult: mult}, nil
}

func (c *Composite) Variables() []*Variable {
	return []*Variable{c.z, c.x, c.y}
}

func (c *Composite) String() string {
	return fmt.Sprintf("%v = %v + %d*%v", c.z.name, c.x.name, c.mult, c.y.name)
}

func (c *Composite) Propagate(st *State) (Outcome, error) {
	zDom, xDom, yDom := st.Domain(c.z.id), st.Domain(c.x.id), st.Domain(c.y.id)

	newZ := zDom
	zDom.Iterate(func(v int) {
		if !xDom.Has(v%c.mult) || !yDom.Has(v/c.mult) {
			newZ = newZ.Remove(v)
		}
	})
	if newZ.Empty() {
		return Infeasible, fmt.Errorf("%v: no (x, y) pair supports any composite value", c)
	}

	newX := xDom
	xDom.Iterate(func(v int) {
		supported := false
		yDom.Iterate(func(w int) {
			if newZ.Has(v + c.mult*w) {
				supported = true
			}
		})
		if !supported {
			newX = newX.Remove(v)
		}
	})
	if newX.Empty() {
		return Infeasible, fmt.Errorf("%v: domain of %v emptied", c, c.x.name)
	}

	newY := yDom
	yDom.Iterate(func(w int) {
		supported := false
		newX.Iterate(func(v int) {
			if newZ.Has(v + c.mult*w) {
				supported = true
			}
		})
		if !supported {
			newY = newY.Remove(w)
		}
	})
	if newY.Empty() {
		return Infeasible, fmt.Errorf("%v: domain of %v emptied", c, c.y.name)
	}

	outcome := Unchanged
	for _, update := range []struct {
		id       int
		old, new Domain
	}{
		{c.z.id, zDom, newZ},
		{c.x.id, xDom, newX},
		{c.y.id, yDom, newY},
	} {
		if !update.new.Equal(update.old) {
			st.SetDomain(update.id, update.new)
			outcome = Pruned
		}
	}
	return outcome, nil
}
