package fd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestOffsetPropagatesBothWays(t *testing.T) {
	// Arrange
	model := NewModel()
	x := model.IntVarValues([]int{8, 10, 12}, "x")
	y := model.IntVarValues([]int{9, 10, 11}, "y")
	constraint := NewOffset(x, y, 1)
	st := model.rootState()

	// Act
	outcome, err := constraint.Propagate(st)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Pruned, outcome)
	assert.Empty(t, cmp.Diff([]int{8, 10}, st.Domain(x.ID()).Values()))
	assert.Empty(t, cmp.Diff([]int{9, 11}, st.Domain(y.ID()).Values()))
}

func TestOffsetInfeasible(t *testing.T) {
	// Arrange
	model := NewModel()
	x := model.IntVarValues([]int{1, 2}, "x")
	y := model.IntVarValues([]int{10}, "y")
	constraint := NewOffset(x, y, 1)

	// Act
	outcome, err := constraint.Propagate(model.rootState())

	// Assert
	assert.Equal(t, Infeasible, outcome)
	assert.NotNil(t, err)
}

func TestOffsetAtFixpointReportsUnchanged(t *testing.T) {
	// Arrange
	model := NewModel()
	x := model.IntVarValues([]int{3, 4}, "x")
	y := model.IntVarValues([]int{5, 6}, "y")
	constraint := NewOffset(x, y, 2)

	// Act
	outcome, err := constraint.Propagate(model.rootState())

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Unchanged, outcome)
}

func TestCompositeRejectsOverflowingEncoding(t *testing.T) {
	// Arrange
	model := NewModel()
	z := model.IntVar(0, 1000, "z")
	x := model.IntVar(0, 100, "x") // reaches the multiplier
	y := model.IntVar(0, 9, "y")

	// Act
	_, err := NewComposite(z, x, y, 100)

	// Assert
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "overflow")
}

func TestCompositeChannelsAssignments(t *testing.T) {
	// Arrange
	model := NewModel()
	z := model.IntVar(0, 1000, "z")
	x := model.IntVarValues([]int{2, 3}, "x")
	y := model.IntVarValues([]int{8}, "y")
	constraint, err := NewComposite(z, x, y, 100)
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Empty(t, cmp.Diff([]int{802, 803}, st.Domain(z.ID()).Values()))
}

func TestCompositeDecodesBackward(t *testing.T) {
	// Arrange
	model := NewModel()
	z := model.IntVar(0, 1000, "z")
	x := model.IntVar(0, 9, "x")
	y := model.IntVar(0, 9, "y")
	constraint, err := NewComposite(z, x, y, 100)
	assert.Nil(t, err)
	st := model.rootState()
	st.SetDomain(z.ID(), NewDomainValues([]int{305}))

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Equal(t, 5, st.Domain(x.ID()).Value())
	assert.Equal(t, 3, st.Domain(y.ID()).Value())
}

func TestAllDifferentForwardChecks(t *testing.T) {
	// Arrange
	model := NewModel()
	a := model.IntVarValues([]int{1}, "a")
	b := model.IntVar(1, 3, "b")
	c := model.IntVar(1, 3, "c")
	constraint, err := NewAllDifferent([]*Variable{a, b, c})
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Empty(t, cmp.Diff([]int{2, 3}, st.Domain(b.ID()).Values()))
	assert.Empty(t, cmp.Diff([]int{2, 3}, st.Domain(c.ID()).Values()))
}

func TestAllDifferentDetectsPigeonhole(t *testing.T) {
	// Arrange: three variables, two values
	model := NewModel()
	a := model.IntVar(1, 2, "a")
	b := model.IntVar(1, 2, "b")
	c := model.IntVar(1, 2, "c")
	constraint, err := NewAllDifferent([]*Variable{a, b, c})
	assert.Nil(t, err)

	// Act
	outcome, propErr := constraint.Propagate(model.rootState())

	// Assert
	assert.Equal(t, Infeasible, outcome)
	assert.NotNil(t, propErr)
}

func TestAllDifferentDetectsDuplicateSingletons(t *testing.T) {
	// Arrange
	model := NewModel()
	a := model.IntVarValues([]int{7}, "a")
	b := model.IntVarValues([]int{7}, "b")
	constraint, err := NewAllDifferent([]*Variable{a, b})
	assert.Nil(t, err)

	// Act
	outcome, propErr := constraint.Propagate(model.rootState())

	// Assert
	assert.Equal(t, Infeasible, outcome)
	assert.NotNil(t, propErr)
}

func TestCountAtMostPrunesWhenCapReached(t *testing.T) {
	// Arrange: two variables already fixed to 0, cap 2
	model := NewModel()
	a := model.IntVarValues([]int{0}, "a")
	b := model.IntVarValues([]int{0}, "b")
	c := model.IntVar(0, 2, "c")
	constraint, err := NewCountAtMost([]*Variable{a, b, c}, 0, 2)
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Empty(t, cmp.Diff([]int{1, 2}, st.Domain(c.ID()).Values()))
}

func TestCountAtMostInfeasibleOverCap(t *testing.T) {
	// Arrange
	model := NewModel()
	a := model.IntVarValues([]int{0}, "a")
	b := model.IntVarValues([]int{0}, "b")
	constraint, err := NewCountAtMost([]*Variable{a, b}, 0, 1)
	assert.Nil(t, err)

	// Act
	outcome, propErr := constraint.Propagate(model.rootState())

	// Assert
	assert.Equal(t, Infeasible, outcome)
	assert.NotNil(t, propErr)
}

func TestCountAtMostBelowCapIsUnchanged(t *testing.T) {
	// Arrange
	model := NewModel()
	a := model.IntVar(0, 2, "a")
	b := model.IntVar(0, 2, "b")
	constraint, err := NewCountAtMost([]*Variable{a, b}, 0, 1)
	assert.Nil(t, err)

	// Act
	outcome, propErr := constraint.Propagate(model.rootState())

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Unchanged, outcome)
}

func TestDistinctValuesForcesSingleHolder(t *testing.T) {
	// Arrange: both values must be used and only b can take 1
	model := NewModel()
	a := model.IntVarValues([]int{0}, "a")
	b := model.IntVarValues([]int{0, 1}, "b")
	constraint, err := NewDistinctValues([]*Variable{a, b}, 2)
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Equal(t, 1, st.Domain(b.ID()).Value())
}

func TestDistinctValuesInfeasibleWithTooFewValues(t *testing.T) {
	// Arrange
	model := NewModel()
	a := model.IntVarValues([]int{4}, "a")
	b := model.IntVarValues([]int{4}, "b")
	constraint, err := NewDistinctValues([]*Variable{a, b}, 2)
	assert.Nil(t, err)

	// Act
	outcome, propErr := constraint.Propagate(model.rootState())

	// Assert
	assert.Equal(t, Infeasible, outcome)
	assert.NotNil(t, propErr)
}

func TestDistinctValuesCapsNewValues(t *testing.T) {
	// Arrange: one distinct value allowed, a fixed to 2
	model := NewModel()
	a := model.IntVarValues([]int{2}, "a")
	b := model.IntVarValues([]int{1, 2, 3}, "b")
	constraint, err := NewDistinctValues([]*Variable{a, b}, 1)
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Equal(t, 2, st.Domain(b.ID()).Value())
}

func TestCumulativePrunesSharedResourceWindow(t *testing.T) {
	// Arrange: both tasks on resource 0, first pinned at 10, duration 2
	model := NewModel()
	resourceA := model.IntVarValues([]int{0}, "resourceA")
	resourceB := model.IntVarValues([]int{0}, "resourceB")
	startA := model.IntVarValues([]int{10}, "startA")
	startB := model.IntVarValues([]int{8, 9, 10, 11, 12}, "startB")
	constraint, err := NewCumulative([]*Variable{resourceA, resourceB}, []*Variable{startA, startB}, 2)
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Empty(t, cmp.Diff([]int{8, 12}, st.Domain(startB.ID()).Values()))
}

func TestCumulativeSeparatesForcedOverlaps(t *testing.T) {
	// Arrange: identical single start, so the tasks must use different rooms
	model := NewModel()
	resourceA := model.IntVarValues([]int{0}, "resourceA")
	resourceB := model.IntVar(0, 1, "resourceB")
	startA := model.IntVarValues([]int{10}, "startA")
	startB := model.IntVarValues([]int{10}, "startB")
	constraint, err := NewCumulative([]*Variable{resourceA, resourceB}, []*Variable{startA, startB}, 1)
	assert.Nil(t, err)
	st := model.rootState()

	// Act
	outcome, propErr := constraint.Propagate(st)

	// Assert
	assert.Nil(t, propErr)
	assert.Equal(t, Pruned, outcome)
	assert.Equal(t, 1, st.Domain(resourceB.ID()).Value())
}

func TestCumulativeInfeasibleOnForcedCollision(t *testing.T) {
	// Arrange
	model := NewModel()
	resourceA := model.IntVarValues([]int{0}, "resourceA")
	resourceB := model.IntVarValues([]int{0}, "resourceB")
	startA := model.IntVarValues([]int{10}, "startA")
	startB := model.IntVarValues([]int{10}, "startB")
	constraint, err := NewCumulative([]*Variable{resourceA, resourceB}, []*Variable{startA, startB}, 1)
	assert.Nil(t, err)

	// Act
	outcome, propErr := constraint.Propagate(model.rootState())

	// Assert
	assert.Equal(t, Infeasible, outcome)
	assert.NotNil(t, propErr)
}
