// Package field resolves the primitive attribute kinds of a data model.
//
// Schema documents name attribute types with strings such as "Integer 32" or
// "Date". Parse maps them to a Type, and each Type carries a fixed set of
// properties used by the code generator:
//
//	t := field.Parse("Integer 32")
//	t.TypeName()    // "Int32"
//	t.IsScalar()    // true
//	t.ToNonScalar() // field.TypeNumber
//
// # Scalar and boxed forms
//
// Scalar kinds (integers, floating point, booleans and time intervals) are
// rendered as value types without a null state. Every kind also has a scalar
// form and a boxed form:
//
//	field.TypeDate.ToScalar()     // field.TypeTimeInterval
//	field.TypeBoolean.ToNonScalar() // field.TypeNumber
//
// A Representation records whether an attribute explicitly asked for one of
// the two forms:
//
//	field.RepresentationBoxed.Resolve(field.TypeInt16) // field.TypeNumber
//
// All lookups are total: unknown strings parse to TypeUndefined, which renders
// as "Any".
package field
