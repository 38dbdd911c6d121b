package load

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/syssam/modelgen/schema/field"
)

// Model represents a data model document that was read from disk.
type Model struct {
	// Path of the contents file the model was read from. Empty when the
	// model was parsed from a reader.
	Path string `json:"path,omitempty"`
	// Entities in document order.
	Entities []*Entity `json:"entities,omitempty"`
}

// Entity represents an entity element of the data model.
type Entity struct {
	Name                 string          `json:"name"`
	RepresentedClassName string          `json:"represented_class_name"`
	ParentEntity         string          `json:"parent_entity,omitempty"`
	Abstract             bool            `json:"abstract,omitempty"`
	Attributes           []*Attribute    `json:"attributes,omitempty"`
	Relationships        []*Relationship `json:"relationships,omitempty"`
}

// Attribute represents an attribute element of an entity.
type Attribute struct {
	Name string `json:"name"`
	// AttributeType holds the raw schema type, e.g. "Integer 32".
	AttributeType  string               `json:"attribute_type"`
	Optional       bool                 `json:"optional,omitempty"`
	Default        bool                 `json:"default,omitempty"`
	DefaultValue   string               `json:"default_value,omitempty"`
	Representation field.Representation `json:"representation,omitempty"`
}

// Relationship represents a relationship element of an entity.
type Relationship struct {
	Name              string `json:"name"`
	DestinationEntity string `json:"destination_entity"`
	Optional          bool   `json:"optional,omitempty"`
	ToMany            bool   `json:"to_many,omitempty"`
	Ordered           bool   `json:"ordered,omitempty"`
	InverseName       string `json:"inverse_name,omitempty"`
	InverseEntity     string `json:"inverse_entity,omitempty"`
	DeletionRule      string `json:"deletion_rule,omitempty"`
}

// Elements of the contents document. Attributes are decoded as pointers to
// tell absent attributes from empty ones.
type (
	xmlModel struct {
		Entities []xmlEntity `xml:"entity"`
	}
	xmlEntity struct {
		Name                 *string           `xml:"name,attr"`
		RepresentedClassName *string           `xml:"representedClassName,attr"`
		ParentEntity         *string           `xml:"parentEntity,attr"`
		IsAbstract           *string           `xml:"isAbstract,attr"`
		Attributes           []xmlAttribute    `xml:"attribute"`
		Relationships        []xmlRelationship `xml:"relationship"`
	}
	xmlAttribute struct {
		Name                *string `xml:"name,attr"`
		AttributeType       *string `xml:"attributeType,attr"`
		Optional            *string `xml:"optional,attr"`
		DefaultValueString  *string `xml:"defaultValueString,attr"`
		UsesScalarValueType *string `xml:"usesScalarValueType,attr"`
	}
	xmlRelationship struct {
		Name              *string `xml:"name,attr"`
		DestinationEntity *string `xml:"destinationEntity,attr"`
		Optional          *string `xml:"optional,attr"`
		ToMany            *string `xml:"toMany,attr"`
		Ordered           *string `xml:"ordered,attr"`
		InverseName       *string `xml:"inverseName,attr"`
		InverseEntity     *string `xml:"inverseEntity,attr"`
		DeletionRule      *string `xml:"deletionRule,attr"`
	}
)

// ReadFile reads the data model at the given path. The path may point to the
// contents document itself, to an .xcdatamodel directory or to a versioned
// .xcdatamodeld bundle.
func ReadFile(path string) (*Model, error) {
	contents, err := ContentsPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(contents)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, err
	}
	m.Path = contents
	return m, nil
}

// Parse decodes a data model document. Only the entity children of the root
// element, and their attribute and relationship children, are read.
func Parse(r io.Reader) (*Model, error) {
	var doc xmlModel
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("load: decode data model: %w", err)
	}
	if err := trailing(dec); err != nil {
		return nil, fmt.Errorf("load: decode data model: %w", err)
	}
	m := &Model{Entities: make([]*Entity, 0, len(doc.Entities))}
	for i := range doc.Entities {
		e, err := newEntity(i, &doc.Entities[i])
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, e)
	}
	return m, nil
}

// trailing consumes the rest of the document after the root element. Only
// whitespace, comments and processing instructions may follow it.
func trailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(tok)) > 0 {
				return fmt.Errorf("unexpected text %q after root element", bytes.TrimSpace(tok))
			}
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root element", tok.Name.Local)
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}

func newEntity(idx int, x *xmlEntity) (*Entity, error) {
	if x.Name == nil {
		return nil, &MissingAttributeError{Element: "entity", Index: idx, Attribute: "name"}
	}
	if x.RepresentedClassName == nil {
		return nil, &MissingAttributeError{Element: "entity", Name: *x.Name, Index: idx, Attribute: "representedClassName"}
	}
	e := &Entity{
		Name:                 *x.Name,
		RepresentedClassName: *x.RepresentedClassName,
		ParentEntity:         value(x.ParentEntity),
		Abstract:             yes(x.IsAbstract),
		Attributes:           make([]*Attribute, 0, len(x.Attributes)),
		Relationships:        make([]*Relationship, 0, len(x.Relationships)),
	}
	for i, xa := range x.Attributes {
		if xa.Name == nil {
			return nil, &MissingAttributeError{Entity: e.Name, Element: "attribute", Index: i, Attribute: "name"}
		}
		if xa.AttributeType == nil {
			return nil, &MissingAttributeError{Entity: e.Name, Element: "attribute", Name: *xa.Name, Index: i, Attribute: "attributeType"}
		}
		e.Attributes = append(e.Attributes, &Attribute{
			Name:           *xa.Name,
			AttributeType:  *xa.AttributeType,
			Optional:       yes(xa.Optional),
			Default:        xa.DefaultValueString != nil,
			DefaultValue:   value(xa.DefaultValueString),
			Representation: field.ParseRepresentation(xa.UsesScalarValueType),
		})
	}
	for i, xr := range x.Relationships {
		if xr.Name == nil {
			return nil, &MissingAttributeError{Entity: e.Name, Element: "relationship", Index: i, Attribute: "name"}
		}
		if xr.DestinationEntity == nil {
			return nil, &MissingAttributeError{Entity: e.Name, Element: "relationship", Name: *xr.Name, Index: i, Attribute: "destinationEntity"}
		}
		e.Relationships = append(e.Relationships, &Relationship{
			Name:              *xr.Name,
			DestinationEntity: *xr.DestinationEntity,
			Optional:          yes(xr.Optional),
			ToMany:            yes(xr.ToMany),
			Ordered:           yes(xr.Ordered),
			InverseName:       value(xr.InverseName),
			InverseEntity:     value(xr.InverseEntity),
			DeletionRule:      value(xr.DeletionRule),
		})
	}
	return e, nil
}

// yes reports if a boolean schema attribute is set. The document encodes
// true as "YES"; anything else, including absence, is false.
func yes(v *string) bool {
	return v != nil && *v == "YES"
}

func value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
