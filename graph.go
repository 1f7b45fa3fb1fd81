package kiln

import (
	"slices"

	"github.com/xraph/go-utils/di"
)

// DependencyGraph is the static view of which service types a registry's
// implementations declare as constructor parameters. Keys are TypeID keys.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // registration order
}

type node struct {
	name string
	deps []di.Dep
}

// NewDependencyGraph creates an empty dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node whose dependencies are all eager.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	g.AddNodeWithDeps(name, di.DepsFromNames(dependencies))
}

// AddNodeWithDeps adds a node with full dependency specs.
func (g *DependencyGraph) AddNodeWithDeps(name string, deps []di.Dep) {
	if _, exists := g.nodes[name]; !exists {
		g.order = append(g.order, name)
	}

	g.nodes[name] = &node{name: name, deps: deps}
}

// AddNodeWithParams adds a node from constructor parameters.
func (g *DependencyGraph) AddNodeWithParams(name string, params []Param) {
	deps := make([]di.Dep, len(params))
	for i, p := range params {
		deps[i] = p.dep()
	}

	g.AddNodeWithDeps(name, deps)
}

// GetDependencies returns the dependency names for a node.
func (g *DependencyGraph) GetDependencies(name string) []string {
	if n, ok := g.nodes[name]; ok {
		return di.DepNames(n.deps)
	}

	return nil
}

// GetDeps returns the full dependency specs for a node.
func (g *DependencyGraph) GetDeps(name string) []di.Dep {
	if n, ok := g.nodes[name]; ok {
		return n.deps
	}

	return nil
}

// GetEagerDependencies returns the dependencies that must be constructed
// before the node itself.
func (g *DependencyGraph) GetEagerDependencies(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}

	var eager []string
	for _, dep := range n.deps {
		if !dep.Mode.IsLazy() {
			eager = append(eager, dep.Name)
		}
	}

	return eager
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(name string) bool {
	_, ok := g.nodes[name]

	return ok
}

// TopologicalSort returns nodes in dependency order, dependencies first.
// Independent nodes keep registration order.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	return g.sort(func(di.Dep) bool { return true })
}

// TopologicalSortEagerOnly sorts considering only eager dependencies.
func (g *DependencyGraph) TopologicalSortEagerOnly() ([]string, error) {
	return g.sort(func(dep di.Dep) bool { return !dep.Mode.IsLazy() })
}

func (g *DependencyGraph) sort(follow func(di.Dep) bool) ([]string, error) {
	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, follow, visited, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs a DFS; path holds the nodes currently on the stack so a
// cycle can be reported in full.
func (g *DependencyGraph) visit(name string, follow func(di.Dep) bool, visited map[string]bool, path []string, result *[]string) error {
	if visited[name] {
		return nil
	}

	if i := slices.Index(path, name); i >= 0 {
		cycle := append(slices.Clone(path[i:]), name)

		return ErrCircularDependency(cycle)
	}

	n := g.nodes[name]
	if n == nil {
		// Not produced by an implementation descriptor.
		return nil
	}

	path = append(path, name)

	for _, dep := range n.deps {
		if !follow(dep) {
			continue
		}

		if err := g.visit(dep.Name, follow, visited, path, result); err != nil {
			return err
		}
	}

	visited[name] = true
	*result = append(*result, name)

	return nil
}
