package gen

import (
	"cmp"
	"slices"

	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/schema/field"
)

// Type name markers appended to optional output types.
const (
	// NullableMarker marks an optional type.
	NullableMarker = "?"
	// UnwrappedMarker marks an optional type that is populated by a default
	// value after initialization, and may be used as if always present.
	UnwrappedMarker = "!"
	// OrderedSetType is the output type of ordered to-many relationships.
	OrderedSetType = "NSOrderedSet"
)

// The following types and their exported methods are used by the
// templates. All of them are immutable once constructed.
type (
	// Entity represents one entity of the data model, its attributes
	// and its relationships.
	Entity struct {
		def           load.Entity
		parent        EntityRef
		attributes    []*Attribute
		relationships []*Relationship
	}

	// Attribute holds a typed attribute of an entity and its resolved
	// output type.
	Attribute struct {
		def          load.Attribute
		typ          field.Type
		resolved     field.Type
		fullTypeName string
	}

	// Relationship holds a reference from one entity to another and its
	// resolved output type.
	Relationship struct {
		def          load.Relationship
		destination  EntityRef
		inverse      EntityRef
		fullTypeName string
	}
)

// NewEntity creates an entity from its loaded definition. Attributes and
// relationships are resolved and sorted by name. The definition is copied,
// later changes to it do not affect the entity.
func NewEntity(def *load.Entity) *Entity {
	e := &Entity{
		def: load.Entity{
			Name:                 def.Name,
			RepresentedClassName: def.RepresentedClassName,
			ParentEntity:         def.ParentEntity,
			Abstract:             def.Abstract,
		},
		parent:        EntityRef(def.ParentEntity),
		attributes:    make([]*Attribute, 0, len(def.Attributes)),
		relationships: make([]*Relationship, 0, len(def.Relationships)),
	}
	for _, a := range def.Attributes {
		e.attributes = append(e.attributes, NewAttribute(a))
	}
	for _, r := range def.Relationships {
		e.relationships = append(e.relationships, NewRelationship(r))
	}
	slices.SortStableFunc(e.attributes, func(a, b *Attribute) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	slices.SortStableFunc(e.relationships, func(a, b *Relationship) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	return e
}

// NewAttribute creates an attribute from its loaded definition and resolves
// its full type name.
func NewAttribute(def *load.Attribute) *Attribute {
	a := &Attribute{
		def: *def,
		typ: field.Parse(def.AttributeType),
	}
	a.resolved = def.Representation.Resolve(a.typ)
	name := a.resolved.TypeName()
	// Scalar kinds have no null state, optionality does not change them.
	if def.Optional && !a.resolved.IsScalar() {
		if def.Default {
			name += UnwrappedMarker
		} else {
			name += NullableMarker
		}
	}
	a.fullTypeName = name
	return a
}

// NewRelationship creates a relationship from its loaded definition and
// resolves its full type name.
func NewRelationship(def *load.Relationship) *Relationship {
	r := &Relationship{
		def:         *def,
		destination: EntityRef(def.DestinationEntity),
		inverse:     EntityRef(def.InverseEntity),
	}
	switch {
	case def.ToMany && def.Ordered:
		r.fullTypeName = OrderedSetType
	case def.ToMany:
		r.fullTypeName = "Set<" + def.DestinationEntity + ">"
	case def.Optional:
		r.fullTypeName = def.DestinationEntity + NullableMarker
	default:
		r.fullTypeName = def.DestinationEntity
	}
	return r
}

// =============================================================================
// Entity methods
// =============================================================================

// Name returns the entity name.
func (e *Entity) Name() string { return e.def.Name }

// RepresentedClassName returns the name of the class generated for the entity.
func (e *Entity) RepresentedClassName() string { return e.def.RepresentedClassName }

// Parent returns the reference to the parent entity. It is zero if the
// entity has no parent.
func (e *Entity) Parent() EntityRef { return e.parent }

// HasParent reports if the entity inherits from another entity.
func (e *Entity) HasParent() bool { return !e.parent.IsZero() }

// Abstract reports if the entity is declared abstract.
func (e *Entity) Abstract() bool { return e.def.Abstract }

// Attributes returns the attributes of the entity sorted by name.
func (e *Entity) Attributes() []*Attribute { return slices.Clone(e.attributes) }

// Relationships returns the relationships of the entity sorted by name.
func (e *Entity) Relationships() []*Relationship { return slices.Clone(e.relationships) }

// Attribute returns the attribute with the given name.
func (e *Entity) Attribute(name string) (*Attribute, bool) {
	for _, a := range e.attributes {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Relationship returns the relationship with the given name.
func (e *Entity) Relationship(name string) (*Relationship, bool) {
	for _, r := range e.relationships {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// =============================================================================
// Attribute methods
// =============================================================================

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.def.Name }

// Type returns the declared kind of the attribute.
func (a *Attribute) Type() field.Type { return a.typ }

// ResolvedType returns the kind the attribute is rendered as, after applying
// its representation.
func (a *Attribute) ResolvedType() field.Type { return a.resolved }

// TypeName returns the canonical name of the resolved kind, without markers.
func (a *Attribute) TypeName() string { return a.resolved.TypeName() }

// FullTypeName returns the output type of the attribute.
func (a *Attribute) FullTypeName() string { return a.fullTypeName }

// Optional reports if the attribute is optional in the schema.
func (a *Attribute) Optional() bool { return a.def.Optional }

// HasDefaultValue reports if the schema declares a default value.
func (a *Attribute) HasDefaultValue() bool { return a.def.Default }

// DefaultValue returns the raw default value string of the schema.
func (a *Attribute) DefaultValue() string { return a.def.DefaultValue }

// Representation returns the explicit scalar preference of the attribute.
func (a *Attribute) Representation() field.Representation { return a.def.Representation }

// IsScalar reports if the attribute is rendered as a scalar value type.
func (a *Attribute) IsScalar() bool { return a.resolved.IsScalar() }

// Nullable reports if the full type name carries a nullable marker.
func (a *Attribute) Nullable() bool { return a.def.Optional && !a.resolved.IsScalar() }

// =============================================================================
// Relationship methods
// =============================================================================

// Name returns the relationship name.
func (r *Relationship) Name() string { return r.def.Name }

// Destination returns the reference to the destination entity.
func (r *Relationship) Destination() EntityRef { return r.destination }

// FullTypeName returns the output type of the relationship.
func (r *Relationship) FullTypeName() string { return r.fullTypeName }

// Optional reports if the relationship is optional in the schema.
func (r *Relationship) Optional() bool { return r.def.Optional }

// ToMany reports if the relationship is a to-many relationship.
func (r *Relationship) ToMany() bool { return r.def.ToMany }

// ToOne reports if the relationship is a to-one relationship.
func (r *Relationship) ToOne() bool { return !r.def.ToMany }

// Ordered reports if the relationship is ordered.
func (r *Relationship) Ordered() bool { return r.def.Ordered }

// InverseName returns the name of the inverse relationship, if any.
func (r *Relationship) InverseName() string { return r.def.InverseName }

// Inverse returns the reference to the entity owning the inverse
// relationship. It is zero if there is none.
func (r *Relationship) Inverse() EntityRef { return r.inverse }

// DeletionRule returns the deletion rule of the relationship.
func (r *Relationship) DeletionRule() string { return r.def.DeletionRule }
