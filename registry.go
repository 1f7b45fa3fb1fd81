package kiln

// Registry is the immutable, ordered set of descriptors a scope tree resolves
// against. It is created once and shared by pointer by every scope.
type Registry struct {
	descriptors []Descriptor
	index       map[string]int
}

// NewRegistry validates and copies the descriptors. When several descriptors
// share a service type, the first one wins.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make([]Descriptor, len(descriptors)),
		index:       make(map[string]int, len(descriptors)),
	}

	copy(r.descriptors, descriptors)

	for i, d := range r.descriptors {
		if err := d.validate(); err != nil {
			return nil, err
		}

		if _, exists := r.index[d.ServiceType.Key()]; !exists {
			r.index[d.ServiceType.Key()] = i
		}
	}

	return r, nil
}

// Len returns the number of descriptors, including shadowed duplicates.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Descriptors returns a copy of the descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)

	return out
}

// Has reports whether id can be satisfied by a descriptor, either directly or
// through its generic definition. It never constructs anything.
func (r *Registry) Has(id TypeID) bool {
	_, _, ok := r.lookup(id)

	return ok
}

// lookup finds the descriptor for id. For a closed generic without an exact
// registration it falls back to the generic definition and returns the
// concrete type arguments to bind.
func (r *Registry) lookup(id TypeID) (Descriptor, []TypeID, bool) {
	if id.IsZero() {
		return Descriptor{}, nil, false
	}

	if i, ok := r.index[id.Key()]; ok {
		return r.descriptors[i], nil, true
	}

	if !id.IsClosedGeneric() {
		return Descriptor{}, nil, false
	}

	if i, ok := r.index[id.Definition().Key()]; ok {
		return r.descriptors[i], id.Args(), true
	}

	return Descriptor{}, nil, false
}

// Graph returns the static dependency graph of the registry. Only
// implementation descriptors declare edges: every parameter of every
// constructor becomes a dependency of the service type.
func (r *Registry) Graph() *DependencyGraph {
	g := NewDependencyGraph()

	for i, d := range r.descriptors {
		if r.index[d.ServiceType.Key()] != i {
			continue
		}

		g.AddNodeWithParams(d.ServiceType.Key(), implementationParams(d.Implementation))
	}

	return g
}

// Validate reports statically declared dependency cycles. Lazy parameters do
// not count as edges since they are resolved after construction.
func (r *Registry) Validate() error {
	_, err := r.Graph().TopologicalSortEagerOnly()

	return err
}

// implementationParams flattens the parameters of every constructor.
func implementationParams(impl *Implementation) []Param {
	if impl == nil {
		return nil
	}

	var params []Param
	for _, c := range impl.Constructors {
		params = append(params, c.Params...)
	}

	return params
}
