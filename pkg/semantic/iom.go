// Package semantic validates a parsed program against the static semantic
// rules SS-1 through SS-14 and lowers it into the Isomorph Object Model
// (IOM), the resolved representation renderers consume.
package semantic

import (
	"github.com/isomorph-labs/isomorph/pkg/parser"
)

// IOM is the analyzer's output model. It is rebuilt in full on every
// Analyze call and is immutable once returned.
type IOM struct {
	Diagrams []*Diagram
}

// Diagram is one resolved diagram. Entities is the sole owner of Entity
// records; relations refer to entities by name, never by pointer, because a
// relation may be declared before or after its endpoints.
type Diagram struct {
	Name string
	Kind parser.DiagramKind

	// Entities keyed by name, with EntityNames preserving declaration
	// order for deterministic iteration.
	Entities    map[string]*Entity
	EntityNames []string

	// Relations in declaration order, including relations with unresolved
	// endpoints.
	Relations []*Relation

	Packages []*Package
	Notes    []*Note
}

// EntitiesInOrder returns the diagram's entities in declaration order.
func (d *Diagram) EntitiesInOrder() []*Entity {
	out := make([]*Entity, 0, len(d.EntityNames))
	for _, name := range d.EntityNames {
		out = append(out, d.Entities[name])
	}
	return out
}

// Position is a resolved canvas position from a layout annotation.
type Position struct {
	X float64
	Y float64
}

// Entity is a resolved entity with its members.
type Entity struct {
	Name       string
	Kind       parser.EntityKind
	Stereotype string

	// IsAbstract is true for the explicit modifier or implicitly for
	// interfaces.
	IsAbstract bool
	IsFinal    bool

	Extends    []string
	Implements []string

	Fields     []*Field
	Methods    []*Method
	EnumValues []string

	Position *Position
	Styles   map[string]string
	Note     string
}

// Field is a resolved field.
type Field struct {
	Name       string
	Type       string
	Visibility parser.Visibility
	Static     bool
	Default    string
	HasDefault bool
}

// Param is a resolved method parameter.
type Param struct {
	Name string
	Type string
}

// Method is a resolved method.
type Method struct {
	Name       string
	Visibility parser.Visibility
	Static     bool
	Abstract   bool
	Params     []Param
	Returns    string // empty for void
}

// Relation is a resolved relation. From and To are entity names looked up
// on demand against the owning diagram's entity map.
type Relation struct {
	From     string
	To       string
	Kind     parser.RelationKind
	Line     parser.LineStyle
	Label    string
	FromMult string
	ToMult   string
	Styles   map[string]string
}

// Package mirrors the lexical package nesting of the source.
type Package struct {
	Name     string
	Entities []string // names of entities declared directly inside
	Packages []*Package
}

// Note is a diagram note, optionally attached to an entity.
type Note struct {
	Text string
	On   string // empty for free-standing notes
}
