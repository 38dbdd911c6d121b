package field

import "strings"

// A Type is the primitive kind of an entity attribute.
//
// The zero value is TypeUndefined, the fallback for schema type strings that
// are not recognized.
type Type uint8

// List of attribute kinds.
const (
	TypeUndefined Type = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeDecimal
	TypeDouble
	TypeFloat
	TypeString
	TypeBoolean
	TypeDate
	TypeBinaryData
	TypeTransformable
	TypeUUID
	TypeURI
	// TypeTimeInterval and TypeNumber are derived kinds. They are produced by
	// ToScalar and ToNonScalar, never by Parse.
	TypeTimeInterval
	TypeNumber
	endTypes
)

// typeInfo holds the static properties of one attribute kind.
type typeInfo struct {
	name     string // kind name, e.g. "binaryData"
	typeName string // canonical output type
	scalar   bool   // representable as a non-nullable value type
	toScalar Type
	toBoxed  Type
}

var typeInfos = [endTypes]typeInfo{
	TypeUndefined:     {"undefined", "Any", false, TypeUndefined, TypeUndefined},
	TypeInt16:         {"int16", "Int16", true, TypeInt16, TypeNumber},
	TypeInt32:         {"int32", "Int32", true, TypeInt32, TypeNumber},
	TypeInt64:         {"int64", "Int64", true, TypeInt64, TypeNumber},
	TypeDecimal:       {"decimal", "NSDecimalNumber", false, TypeDecimal, TypeDecimal},
	TypeDouble:        {"double", "Double", true, TypeDouble, TypeNumber},
	TypeFloat:         {"float", "Float", true, TypeFloat, TypeNumber},
	TypeString:        {"string", "String", false, TypeString, TypeString},
	TypeBoolean:       {"boolean", "Bool", true, TypeBoolean, TypeNumber},
	TypeDate:          {"date", "NSDate", false, TypeTimeInterval, TypeDate},
	TypeBinaryData:    {"binaryData", "NSData", false, TypeBinaryData, TypeBinaryData},
	TypeTransformable: {"transformable", "NSObject", false, TypeTransformable, TypeTransformable},
	TypeUUID:          {"uuid", "UUID", false, TypeUUID, TypeUUID},
	TypeURI:           {"uri", "URL", false, TypeURI, TypeURI},
	TypeTimeInterval:  {"timeInterval", "TimeInterval", true, TypeTimeInterval, TypeTimeInterval},
	TypeNumber:        {"number", "NSNumber", false, TypeNumber, TypeNumber},
}

// rawTypes maps the lower-cased attributeType strings of the schema document
// to their kind.
var rawTypes = map[string]Type{
	"integer 16":    TypeInt16,
	"integer 32":    TypeInt32,
	"integer 64":    TypeInt64,
	"decimal":       TypeDecimal,
	"double":        TypeDouble,
	"float":         TypeFloat,
	"string":        TypeString,
	"boolean":       TypeBoolean,
	"date":          TypeDate,
	"binary":        TypeBinaryData,
	"uuid":          TypeUUID,
	"uri":           TypeURI,
	"transformable": TypeTransformable,
}

// Parse returns the kind named by the given schema type string. The match is
// case-insensitive, and unknown strings resolve to TypeUndefined.
func Parse(raw string) Type {
	if t, ok := rawTypes[strings.ToLower(raw)]; ok {
		return t
	}
	return TypeUndefined
}

// info returns the table entry of t. Out of range values are treated as
// TypeUndefined.
func (t Type) info() typeInfo {
	if t >= endTypes {
		return typeInfos[TypeUndefined]
	}
	return typeInfos[t]
}

// Valid reports if the given type is a known kind other than TypeUndefined.
func (t Type) Valid() bool {
	return t > TypeUndefined && t < endTypes
}

// String returns the kind name.
func (t Type) String() string {
	return t.info().name
}

// TypeName returns the canonical output type name of the kind.
func (t Type) TypeName() string {
	return t.info().typeName
}

// IsScalar reports if the kind is rendered as a value type that has no
// null state.
func (t Type) IsScalar() bool {
	return t.info().scalar
}

// ToScalar returns the scalar form of the kind. Dates become time intervals;
// every other kind maps to itself.
func (t Type) ToScalar() Type {
	return t.info().toScalar
}

// ToNonScalar returns the boxed (object) form of the kind. Integer, floating
// point and boolean kinds become TypeNumber; every other kind maps to itself.
func (t Type) ToNonScalar() Type {
	return t.info().toBoxed
}

// Types returns all kinds, including the derived and undefined ones.
func Types() []Type {
	types := make([]Type, 0, endTypes)
	for t := TypeUndefined; t < endTypes; t++ {
		types = append(types, t)
	}
	return types
}

// Representation selects the form an attribute is rendered with. It mirrors
// the optional usesScalarValueType flag of the schema document.
type Representation uint8

// Representation values.
const (
	// RepresentationDefault keeps the declared kind.
	RepresentationDefault Representation = iota
	// RepresentationScalar forces the scalar form.
	RepresentationScalar
	// RepresentationBoxed forces the boxed form.
	RepresentationBoxed
)

// ParseRepresentation maps the usesScalarValueType attribute to a
// Representation. A nil value means the attribute is absent.
func ParseRepresentation(v *string) Representation {
	switch {
	case v == nil:
		return RepresentationDefault
	case *v == "YES":
		return RepresentationScalar
	default:
		return RepresentationBoxed
	}
}

// Resolve returns the kind t is rendered as under r.
func (r Representation) Resolve(t Type) Type {
	switch r {
	case RepresentationScalar:
		return t.ToScalar()
	case RepresentationBoxed:
		return t.ToNonScalar()
	default:
		return t
	}
}

// String returns the textual representation of r.
func (r Representation) String() string {
	switch r {
	case RepresentationScalar:
		return "scalar"
	case RepresentationBoxed:
		return "boxed"
	default:
		return "default"
	}
}
