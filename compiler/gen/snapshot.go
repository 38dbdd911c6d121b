package gen

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Snapshot encoding formats.
const (
	FormatYAML    = "yaml"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Formats lists the supported snapshot formats.
var Formats = []string{FormatYAML, FormatJSON, FormatMsgpack}

type (
	// Snapshot is a serializable view of a resolved graph.
	Snapshot struct {
		Path     string            `json:"path,omitempty" yaml:"path,omitempty" msgpack:"path,omitempty"`
		Entities []*EntitySnapshot `json:"entities" yaml:"entities" msgpack:"entities"`
	}

	// EntitySnapshot is the serializable view of an entity.
	EntitySnapshot struct {
		Name          string                  `json:"name" yaml:"name" msgpack:"name"`
		Class         string                  `json:"class" yaml:"class" msgpack:"class"`
		Parent        string                  `json:"parent,omitempty" yaml:"parent,omitempty" msgpack:"parent,omitempty"`
		Abstract      bool                    `json:"abstract,omitempty" yaml:"abstract,omitempty" msgpack:"abstract,omitempty"`
		Attributes    []*AttributeSnapshot    `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
		Relationships []*RelationshipSnapshot `json:"relationships,omitempty" yaml:"relationships,omitempty" msgpack:"relationships,omitempty"`
	}

	// AttributeSnapshot is the serializable view of an attribute.
	AttributeSnapshot struct {
		Name           string  `json:"name" yaml:"name" msgpack:"name"`
		Type           string  `json:"type" yaml:"type" msgpack:"type"`
		FullTypeName   string  `json:"fullTypeName" yaml:"fullTypeName" msgpack:"fullTypeName"`
		Optional       bool    `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
		Scalar         bool    `json:"scalar,omitempty" yaml:"scalar,omitempty" msgpack:"scalar,omitempty"`
		Representation string  `json:"representation" yaml:"representation" msgpack:"representation"`
		DefaultValue   *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" msgpack:"defaultValue,omitempty"`
	}

	// RelationshipSnapshot is the serializable view of a relationship.
	RelationshipSnapshot struct {
		Name         string `json:"name" yaml:"name" msgpack:"name"`
		Destination  string `json:"destination" yaml:"destination" msgpack:"destination"`
		FullTypeName string `json:"fullTypeName" yaml:"fullTypeName" msgpack:"fullTypeName"`
		Optional     bool   `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
		ToMany       bool   `json:"toMany,omitempty" yaml:"toMany,omitempty" msgpack:"toMany,omitempty"`
		Ordered      bool   `json:"ordered,omitempty" yaml:"ordered,omitempty" msgpack:"ordered,omitempty"`
		Inverse      string `json:"inverse,omitempty" yaml:"inverse,omitempty" msgpack:"inverse,omitempty"`
		DeletionRule string `json:"deletionRule,omitempty" yaml:"deletionRule,omitempty" msgpack:"deletionRule,omitempty"`
	}
)

// NewSnapshot creates the snapshot of g.
func NewSnapshot(g *Graph) *Snapshot {
	s := &Snapshot{
		Path:     g.Path(),
		Entities: make([]*EntitySnapshot, 0, g.Len()),
	}
	for _, e := range g.entities {
		es := &EntitySnapshot{
			Name:     e.Name(),
			Class:    e.RepresentedClassName(),
			Parent:   e.Parent().Name(),
			Abstract: e.Abstract(),
		}
		for _, a := range e.attributes {
			as := &AttributeSnapshot{
				Name:           a.Name(),
				Type:           a.Type().String(),
				FullTypeName:   a.FullTypeName(),
				Optional:       a.Optional(),
				Scalar:         a.IsScalar(),
				Representation: a.Representation().String(),
			}
			if a.HasDefaultValue() {
				v := a.DefaultValue()
				as.DefaultValue = &v
			}
			es.Attributes = append(es.Attributes, as)
		}
		for _, r := range e.relationships {
			rs := &RelationshipSnapshot{
				Name:         r.Name(),
				Destination:  r.Destination().Name(),
				FullTypeName: r.FullTypeName(),
				Optional:     r.Optional(),
				ToMany:       r.ToMany(),
				Ordered:      r.Ordered(),
				DeletionRule: r.DeletionRule(),
			}
			if r.InverseName() != "" {
				rs.Inverse = r.Inverse().Name() + "." + r.InverseName()
			}
			es.Relationships = append(es.Relationships, rs)
		}
		s.Entities = append(s.Entities, es)
	}
	return s
}

// Encode writes the snapshot to w in the given format.
func (s *Snapshot) Encode(w io.Writer, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("modelgen: unknown snapshot format %q", format)
	}
}

// DecodeSnapshot reads a snapshot in the given format from r.
func DecodeSnapshot(r io.Reader, format string) (*Snapshot, error) {
	s := &Snapshot{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(s)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(s)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(s)
	default:
		err = fmt.Errorf("modelgen: unknown snapshot format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
