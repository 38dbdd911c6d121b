package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/schema/field"
)

func TestNewAttribute(t *testing.T) {
	tests := []struct {
		name     string
		def      load.Attribute
		expected string
	}{
		{
			name:     "optional scalar has no marker",
			def:      load.Attribute{Name: "age", AttributeType: "Integer 32", Optional: true},
			expected: "Int32",
		},
		{
			name:     "optional boxed by explicit preference",
			def:      load.Attribute{Name: "age", AttributeType: "Integer 32", Optional: true, Representation: field.RepresentationBoxed},
			expected: "NSNumber?",
		},
		{
			name:     "optional boxed with default",
			def:      load.Attribute{Name: "age", AttributeType: "Integer 32", Optional: true, Default: true, Representation: field.RepresentationBoxed},
			expected: "NSNumber!",
		},
		{
			name:     "required boxed",
			def:      load.Attribute{Name: "age", AttributeType: "Integer 32", Representation: field.RepresentationBoxed},
			expected: "NSNumber",
		},
		{
			name:     "optional string",
			def:      load.Attribute{Name: "title", AttributeType: "String", Optional: true},
			expected: "String?",
		},
		{
			name:     "optional string with default",
			def:      load.Attribute{Name: "title", AttributeType: "String", Optional: true, Default: true, DefaultValue: "x"},
			expected: "String!",
		},
		{
			name:     "date forced scalar",
			def:      load.Attribute{Name: "at", AttributeType: "Date", Optional: true, Representation: field.RepresentationScalar},
			expected: "TimeInterval",
		},
		{
			name:     "date forced boxed",
			def:      load.Attribute{Name: "at", AttributeType: "Date", Optional: true, Representation: field.RepresentationBoxed},
			expected: "NSDate?",
		},
		{
			name:     "scalar preference on non scalar kind",
			def:      load.Attribute{Name: "blob", AttributeType: "Binary", Representation: field.RepresentationScalar},
			expected: "NSData",
		},
		{
			name:     "unknown kind follows boxed rules",
			def:      load.Attribute{Name: "ref", AttributeType: "ObjectID", Optional: true},
			expected: "Any?",
		},
		{
			name:     "required unknown kind",
			def:      load.Attribute{Name: "ref", AttributeType: ""},
			expected: "Any",
		},
		{
			name:     "boolean boxed",
			def:      load.Attribute{Name: "on", AttributeType: "Boolean", Optional: true, Default: true, Representation: field.RepresentationBoxed},
			expected: "NSNumber!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttribute(&tt.def)
			assert.Equal(t, tt.expected, a.FullTypeName())
			assert.Equal(t, tt.def.Name, a.Name())
			assert.Equal(t, tt.def.Optional, a.Optional())
			assert.Equal(t, tt.def.Default, a.HasDefaultValue())
		})
	}
}

func TestAttributeAccessors(t *testing.T) {
	require := require.New(t)
	def := &load.Attribute{
		Name:           "weight",
		AttributeType:  "Float",
		Optional:       true,
		Default:        true,
		DefaultValue:   "0",
		Representation: field.RepresentationBoxed,
	}
	a := NewAttribute(def)
	require.Equal(field.TypeFloat, a.Type())
	require.Equal(field.TypeNumber, a.ResolvedType())
	require.Equal("NSNumber", a.TypeName())
	require.Equal("NSNumber!", a.FullTypeName())
	require.Equal("0", a.DefaultValue())
	require.Equal(field.RepresentationBoxed, a.Representation())
	require.False(a.IsScalar())
	require.True(a.Nullable())

	// Later changes to the definition are not observed.
	def.Optional = false
	def.AttributeType = "String"
	require.Equal("NSNumber!", a.FullTypeName())
	require.True(a.Optional())
	require.Equal(field.TypeFloat, a.Type())
}

func TestNewRelationship(t *testing.T) {
	tests := []struct {
		name     string
		def      load.Relationship
		expected string
	}{
		{
			name:     "to-many unordered",
			def:      load.Relationship{Name: "pets", DestinationEntity: "Pet", ToMany: true},
			expected: "Set<Pet>",
		},
		{
			name:     "to-many ordered",
			def:      load.Relationship{Name: "pets", DestinationEntity: "Pet", ToMany: true, Ordered: true},
			expected: "NSOrderedSet",
		},
		{
			name:     "optional to-many ignores optionality",
			def:      load.Relationship{Name: "pets", DestinationEntity: "Pet", ToMany: true, Optional: true},
			expected: "Set<Pet>",
		},
		{
			name:     "optional ordered to-many",
			def:      load.Relationship{Name: "pets", DestinationEntity: "Pet", ToMany: true, Ordered: true, Optional: true},
			expected: "NSOrderedSet",
		},
		{
			name:     "optional to-one",
			def:      load.Relationship{Name: "owner", DestinationEntity: "Person", Optional: true},
			expected: "Person?",
		},
		{
			name:     "required to-one",
			def:      load.Relationship{Name: "owner", DestinationEntity: "Person"},
			expected: "Person",
		},
		{
			name:     "ordered flag on to-one is ignored",
			def:      load.Relationship{Name: "owner", DestinationEntity: "Person", Ordered: true},
			expected: "Person",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRelationship(&tt.def)
			assert.Equal(t, tt.expected, r.FullTypeName())
			assert.Equal(t, EntityRef(tt.def.DestinationEntity), r.Destination())
			assert.Equal(t, tt.def.ToMany, r.ToMany())
			assert.Equal(t, !tt.def.ToMany, r.ToOne())
		})
	}
}

func TestNewEntity(t *testing.T) {
	def := &load.Entity{
		Name:                 "Person",
		RepresentedClassName: "PersonMO",
		ParentEntity:         "Being",
		Attributes: []*load.Attribute{
			{Name: "z", AttributeType: "String"},
			{Name: "a", AttributeType: "Integer 16"},
			{Name: "m", AttributeType: "Boolean"},
		},
		Relationships: []*load.Relationship{
			{Name: "pets", DestinationEntity: "Pet", ToMany: true},
			{Name: "car", DestinationEntity: "Car", Optional: true},
		},
	}
	e := NewEntity(def)
	assert.Equal(t, "Person", e.Name())
	assert.Equal(t, "PersonMO", e.RepresentedClassName())
	assert.Equal(t, EntityRef("Being"), e.Parent())
	assert.True(t, e.HasParent())
	assert.False(t, e.Abstract())

	var names []string
	for _, a := range e.Attributes() {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"a", "m", "z"}, names)

	names = names[:0]
	for _, r := range e.Relationships() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"car", "pets"}, names)

	a, ok := e.Attribute("m")
	require.True(t, ok)
	assert.Equal(t, "Bool", a.FullTypeName())
	_, ok = e.Attribute("missing")
	assert.False(t, ok)

	r, ok := e.Relationship("car")
	require.True(t, ok)
	assert.Equal(t, "Car?", r.FullTypeName())
	_, ok = e.Relationship("missing")
	assert.False(t, ok)

	t.Run("collections are copies", func(t *testing.T) {
		attrs := e.Attributes()
		attrs[0] = nil
		assert.NotNil(t, e.Attributes()[0])

		def.Attributes = append(def.Attributes, &load.Attribute{Name: "b", AttributeType: "String"})
		assert.Len(t, e.Attributes(), 3)
	})

	t.Run("duplicate names keep document order", func(t *testing.T) {
		e := NewEntity(&load.Entity{
			Name:                 "Dup",
			RepresentedClassName: "Dup",
			Attributes: []*load.Attribute{
				{Name: "x", AttributeType: "String"},
				{Name: "a", AttributeType: "String"},
				{Name: "x", AttributeType: "Integer 64"},
			},
		})
		attrs := e.Attributes()
		require.Len(t, attrs, 3)
		assert.Equal(t, "a", attrs[0].Name())
		assert.Equal(t, "String", attrs[1].FullTypeName())
		assert.Equal(t, "Int64", attrs[2].FullTypeName())
	})

	t.Run("no parent", func(t *testing.T) {
		e := NewEntity(&load.Entity{Name: "Root", RepresentedClassName: "Root"})
		assert.False(t, e.HasParent())
		assert.True(t, e.Parent().IsZero())
		assert.Empty(t, e.Attributes())
		assert.Empty(t, e.Relationships())
	})
}

func TestPersonScenario(t *testing.T) {
	g, err := ReadGraph("../load/testdata/person.xml")
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())

	person := g.Entities()[0]
	age, ok := person.Attribute("age")
	require.True(t, ok)
	assert.Equal(t, "Int32", age.FullTypeName())

	pets, ok := person.Relationship("pets")
	require.True(t, ok)
	assert.Equal(t, "Set<Pet>", pets.FullTypeName())
	assert.Equal(t, "owner", pets.InverseName())
	assert.Equal(t, EntityRef("Pet"), pets.Inverse())
	assert.Equal(t, "Nullify", pets.DeletionRule())
	assert.False(t, pets.Ordered())
	assert.False(t, pets.Optional())
}

func TestZooFullTypeNames(t *testing.T) {
	g, err := ReadGraph("../load/testdata/zoo.xml")
	require.NoError(t, err)

	expected := map[string]map[string]string{
		"Zoo": {
			"area":    "Double",
			"founded": "NSDate?",
			"name":    "String",
			"animals": "Set<Animal>",
			"keepers": "NSOrderedSet",
		},
		"Animal": {
			"birthday": "TimeInterval",
			"species":  "String!",
			"weight":   "NSNumber!",
			"zoo":      "Zoo",
		},
		"Lion": {
			"id":         "UUID",
			"maneLength": "Int16",
			"photo":      "NSData?",
			"rival":      "Lion?",
		},
		"Keeper": {
			"badge":    "Any?",
			"salary":   "NSDecimalNumber!",
			"settings": "NSObject?",
			"website":  "URL?",
			"zoo":      "Zoo?",
		},
	}
	for _, e := range g.Entities() {
		t.Run(e.Name(), func(t *testing.T) {
			want, ok := expected[e.Name()]
			require.True(t, ok)
			got := make(map[string]string)
			for _, a := range e.Attributes() {
				got[a.Name()] = a.FullTypeName()
			}
			for _, r := range e.Relationships() {
				got[r.Name()] = r.FullTypeName()
			}
			assert.Equal(t, want, got)
		})
	}
}
