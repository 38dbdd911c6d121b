package load

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAttribute is matched by every MissingAttributeError.
var ErrMissingAttribute = errors.New("load: missing mandatory attribute")

// MissingAttributeError is returned when an element of the data model lacks
// one of its identity attributes.
type MissingAttributeError struct {
	// Entity holds the name of the owning entity. Empty for entity elements.
	Entity string
	// Element is the tag of the offending element: "entity", "attribute"
	// or "relationship".
	Element string
	// Name of the offending element, if it has one.
	Name string
	// Index is the zero-based position of the element among its siblings
	// of the same tag.
	Index int
	// Attribute is the missing attribute.
	Attribute string
}

// Error implements the error interface.
func (e *MissingAttributeError) Error() string {
	var b strings.Builder
	b.WriteString("load: ")
	if e.Entity != "" {
		fmt.Fprintf(&b, "entity %q: ", e.Entity)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, "%s %q", e.Element, e.Name)
	} else {
		fmt.Fprintf(&b, "%s #%d", e.Element, e.Index+1)
	}
	fmt.Fprintf(&b, ": missing mandatory attribute %q", e.Attribute)
	return b.String()
}

// Is reports whether the target matches ErrMissingAttribute.
func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingAttribute
}
