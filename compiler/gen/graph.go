package gen

import (
	"slices"

	"github.com/syssam/modelgen/compiler/load"
)

// EntityRef references an entity by name. References are stored as read from
// the data model and are never validated while the model is built; use
// Graph.Lookup to resolve one when the target is needed.
type EntityRef string

// Name returns the referenced entity name.
func (r EntityRef) Name() string { return string(r) }

// String implements fmt.Stringer.
func (r EntityRef) String() string { return string(r) }

// IsZero reports if the reference is empty.
func (r EntityRef) IsZero() bool { return r == "" }

// Resolve looks the referenced entity up in g.
func (r EntityRef) Resolve(g *Graph) (*Entity, error) { return g.Lookup(r) }

// Graph holds the entities of one data model document.
type Graph struct {
	path     string
	entities []*Entity
	nodes    map[string]*Entity
}

// NewGraph creates a graph from the loaded entity definitions. Entities keep
// the given order.
func NewGraph(defs ...*load.Entity) *Graph {
	g := &Graph{
		entities: make([]*Entity, 0, len(defs)),
		nodes:    make(map[string]*Entity, len(defs)),
	}
	for _, def := range defs {
		e := NewEntity(def)
		g.entities = append(g.entities, e)
		if _, ok := g.nodes[e.Name()]; !ok {
			g.nodes[e.Name()] = e
		}
	}
	return g
}

// ReadGraph reads the data model at the given path and builds its graph.
// Read and decode failures are returned as *SchemaError.
func ReadGraph(path string) (*Graph, error) {
	return readGraph(path, load.ReadFile)
}

func readGraph(path string, read func(string) (*load.Model, error)) (*Graph, error) {
	m, err := read(path)
	if err != nil {
		return nil, NewSchemaError(path, err)
	}
	g := NewGraph(m.Entities...)
	g.path = m.Path
	return g, nil
}

// Path returns the path of the contents document the graph was read from.
func (g *Graph) Path() string { return g.path }

// Entities returns the entities in document order.
func (g *Graph) Entities() []*Entity { return slices.Clone(g.entities) }

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.entities) }

// Entity returns the entity with the given name. If the document declares the
// name more than once, the first entity is returned.
func (g *Graph) Entity(name string) (*Entity, bool) {
	e, ok := g.nodes[name]
	return e, ok
}

// Lookup resolves the given reference.
func (g *Graph) Lookup(ref EntityRef) (*Entity, error) {
	if e, ok := g.nodes[ref.Name()]; ok {
		return e, nil
	}
	return nil, NewReferenceError("", ref.Name(), "", "entity not found")
}

// DestinationOf resolves the destination entity of a relationship of e.
func (g *Graph) DestinationOf(e *Entity, r *Relationship) (*Entity, error) {
	if d, ok := g.nodes[r.Destination().Name()]; ok {
		return d, nil
	}
	return nil, NewReferenceError(e.Name(), r.Destination().Name(), r.Name(), "destination entity not found")
}

// Ancestors returns the inheritance chain of e, from its parent up to the
// root entity.
func (g *Graph) Ancestors(e *Entity) ([]*Entity, error) {
	var (
		chain []*Entity
		seen  = map[string]bool{e.Name(): true}
	)
	for cur := e; cur.HasParent(); {
		parent, ok := g.nodes[cur.Parent().Name()]
		if !ok {
			return nil, NewReferenceError(cur.Name(), cur.Parent().Name(), "", "parent entity not found")
		}
		if seen[parent.Name()] {
			return nil, NewReferenceError(cur.Name(), parent.Name(), "", "inheritance cycle")
		}
		seen[parent.Name()] = true
		chain = append(chain, parent)
		cur = parent
	}
	return chain, nil
}

// Children returns the entities whose parent is e, in document order.
func (g *Graph) Children(e *Entity) []*Entity {
	var children []*Entity
	for _, c := range g.entities {
		if c.Parent().Name() == e.Name() {
			children = append(children, c)
		}
	}
	return children
}
