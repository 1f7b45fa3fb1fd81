package kiln

// ServiceInfo describes one effective registration of a registry.
type ServiceInfo struct {
	Type         TypeID
	Lifetime     Lifetime
	Source       string // "instance", "factory", "implementation" or "open"
	Generic      bool   // registered under a generic definition
	Dependencies []string
}

// ServiceQuery defines criteria for querying a registry.
type ServiceQuery struct {
	// Lifetime filters by lifetime. nil matches all lifetimes.
	Lifetime *Lifetime

	// Source filters by implementation source. Empty string matches all.
	Source string

	// Generic filters by whether the registration is a generic definition.
	// nil matches both.
	Generic *bool
}

// Query returns the effective registrations matching the query criteria, in
// registration order. Descriptors shadowed by an earlier registration of the
// same type are not reported.
//
// Example:
//
//	scoped := kiln.Scoped
//	infos := reg.Query(kiln.ServiceQuery{Lifetime: &scoped})
func (r *Registry) Query(query ServiceQuery) []ServiceInfo {
	var results []ServiceInfo

	for i, d := range r.descriptors {
		if r.index[d.ServiceType.Key()] != i {
			continue
		}

		if query.Lifetime != nil && d.Lifetime != *query.Lifetime {
			continue
		}

		if query.Source != "" && d.source() != query.Source {
			continue
		}

		generic := d.ServiceType.IsDefinition()
		if query.Generic != nil && generic != *query.Generic {
			continue
		}

		var deps []string
		for _, p := range implementationParams(d.Implementation) {
			deps = append(deps, p.Type.String())
		}

		results = append(results, ServiceInfo{
			Type:         d.ServiceType,
			Lifetime:     d.Lifetime,
			Source:       d.source(),
			Generic:      generic,
			Dependencies: deps,
		})
	}

	return results
}

// Inspect returns the effective registration for id. Closed generics report
// the definition they resolve through.
func (r *Registry) Inspect(id TypeID) (ServiceInfo, bool) {
	d, _, ok := r.lookup(id)
	if !ok {
		return ServiceInfo{Type: id}, false
	}

	for _, info := range r.Query(ServiceQuery{}) {
		if info.Type.Equal(d.ServiceType) {
			return info, true
		}
	}

	return ServiceInfo{Type: id}, false
}

// QueryTypes returns the service types matching the query criteria.
func (r *Registry) QueryTypes(query ServiceQuery) []TypeID {
	results := r.Query(query)
	types := make([]TypeID, len(results))
	for i, info := range results {
		types[i] = info.Type
	}
	return types
}
