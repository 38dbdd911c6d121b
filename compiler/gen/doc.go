// Package gen resolves Core Data data models into an entity graph and
// generates source files for every entity from user templates.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	contents document (.xcdatamodel)
//	        ↓
//	   compiler/load (decoded elements)
//	        ↓
//	   Graph (resolved entities, attributes, relationships)
//	        ↓
//	   TemplateWriter + Renderer
//	        ↓
//	   generated files (one per entity and template)
//
// # Key Types
//
//   - Graph: the entities of one data model, in document order
//   - Entity: an entity with its attributes and relationships sorted by name
//   - Attribute: an attribute and its resolved output type name
//   - Relationship: a relationship and its resolved output type name
//   - EntityRef: an entity name, resolved against a Graph on demand
//   - Config: the generation configuration, loaded from JSON or YAML
//
// # Type Names
//
// Attribute types come from the static table of the schema/field package.
// Optional non-scalar attributes get a "?" marker, or "!" when the model
// declares a default value. Scalar kinds never get a marker. To-many
// relationships render as NSOrderedSet when ordered and Set<Destination>
// otherwise; optional to-one relationships as Destination?.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: missing or malformed configuration keys
//   - SchemaError: the data model could not be read or decoded
//   - ReferenceError: an entity reference has no target
//   - GenerationError: a render, mkdir, format or write failure
//
// Example error handling:
//
//	if err := gen.Generate(ctx, cfg); err != nil {
//		var cerr *gen.ConfigError
//		if errors.As(err, &cerr) {
//			log.Fatalf("bad configuration key %s", cerr.Option)
//		}
//		log.Fatal(err)
//	}
package gen
