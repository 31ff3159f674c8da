package fd

// Variable is a decision variable with a finite integer domain. The domain
// stored here is the build-time one; during search the current domain lives
// in a State owned by the solver.
type Variable struct {
	id     int
	name   string
	domain Domain
}

func (v *Variable) ID() int { return v.id }

func (v *Variable) Name() string { return v.name }

// Model holds the decision variables and the constraint store registered
// over them. Construction is one-shot: variables and constraints are added
// before search and never change afterwards.
type Model struct {
	variables   []*Variable
	constraints []Constraint
}

func NewModel() *Model {
	return &Model{}
}

// IntVar adds a variable with domain {lo, ..., hi}.
func (m *Model) IntVar(lo, hi int, name string) *Variable {
	return m.addVariable(NewDomain(lo, hi), name)
}

// IntVarValues adds a variable whose domain holds exactly the given values.
func (m *Model) IntVarValues(values []int, name string) *Variable {
	return m.addVariable(NewDomainValues(values), name)
}

func (m *Model) addVariable(domain Domain, name string) *Variable {
	variable := &Variable{
		id:     len(m.variables),
		name:   name,
		domain: domain,
	}
	m.variables = append(m.variables, variable)
	return variable
}

func (m *Model) AddConstraint(constraint Constraint) {
	m.constraints = append(m.constraints, constraint)
}

func (m *Model) Variables() []*Variable { return m.variables }

func (m *Model) Constraints() []Constraint { return m.constraints }

// rootState snapshots the build-time domains into the search root.
func (m *Model) rootState() *State {
	domains := make([]Domain, len(m.variables))
	for i, variable := range m.variables {
		domains[i] = variable.domain
	}
	return &State{domains: domains}
}

// State is one search node's view of all variable domains. Each node owns
// its State exclusively; branching clones it so a failed branch can be
// discarded without touching the parent.
type State struct {
	domains []Domain
}

// Domain returns the current domain of the variable with the given id.
func (s *State) Domain(id int) Domain {
	return s.domains[id]
}

func (s *State) SetDomain(id int, domain Domain) {
	s.domains[id] = domain
}

// Assigned reports whether every variable is down to a single value.
func (s *State) Assigned() bool {
	for _, domain := range s.domains {
		if !domain.IsSingleton() {
			return false
		}
	}
	return true
}

// Clone returns an independent copy. Domains are immutable, so a shallow
// slice copy is enough.
func (s *State) Clone() *State {
	domains := make([]Domain, len(s.domains))
	copy(domains, s.domains)
	return &State{domains: domains}
}
