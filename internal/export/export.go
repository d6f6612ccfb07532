// Package export serializes the analyzed model to YAML or JSON. Output is
// deterministic: entities appear in declaration order and maps are emitted
// with sorted keys.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

// Format selects the serialization format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected yaml or json)", s)
	}
}

// Document is the serialized shape of an analyzed model.
type Document struct {
	Diagrams []DiagramDoc `yaml:"diagrams" json:"diagrams"`
}

// DiagramDoc is one diagram in the export document.
type DiagramDoc struct {
	Name      string        `yaml:"name" json:"name"`
	Kind      string        `yaml:"kind" json:"kind"`
	Entities  []EntityDoc   `yaml:"entities,omitempty" json:"entities,omitempty"`
	Relations []RelationDoc `yaml:"relations,omitempty" json:"relations,omitempty"`
	Packages  []PackageDoc  `yaml:"packages,omitempty" json:"packages,omitempty"`
	Notes     []NoteDoc     `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// EntityDoc is one entity in the export document.
type EntityDoc struct {
	Name       string      `yaml:"name" json:"name"`
	Kind       string      `yaml:"kind" json:"kind"`
	Stereotype string      `yaml:"stereotype,omitempty" json:"stereotype,omitempty"`
	Abstract   bool        `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Final      bool        `yaml:"final,omitempty" json:"final,omitempty"`
	Extends    []string    `yaml:"extends,omitempty" json:"extends,omitempty"`
	Implements []string    `yaml:"implements,omitempty" json:"implements,omitempty"`
	Fields     []FieldDoc  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods    []MethodDoc `yaml:"methods,omitempty" json:"methods,omitempty"`
	EnumValues []string    `yaml:"values,omitempty" json:"values,omitempty"`
	Position   *PosDoc     `yaml:"position,omitempty" json:"position,omitempty"`
	Styles     []StyleDoc  `yaml:"styles,omitempty" json:"styles,omitempty"`
	Note       string      `yaml:"note,omitempty" json:"note,omitempty"`
}

// FieldDoc is one field in the export document.
type FieldDoc struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	Visibility string `yaml:"visibility" json:"visibility"`
	Static     bool   `yaml:"static,omitempty" json:"static,omitempty"`
	Default    string `yaml:"default,omitempty" json:"default,omitempty"`
}

// MethodDoc is one method in the export document.
type MethodDoc struct {
	Name       string     `yaml:"name" json:"name"`
	Visibility string     `yaml:"visibility" json:"visibility"`
	Static     bool       `yaml:"static,omitempty" json:"static,omitempty"`
	Abstract   bool       `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Params     []ParamDoc `yaml:"params,omitempty" json:"params,omitempty"`
	Returns    string     `yaml:"returns,omitempty" json:"returns,omitempty"`
}

// ParamDoc is one method parameter.
type ParamDoc struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// RelationDoc is one relation in the export document.
type RelationDoc struct {
	From     string     `yaml:"from" json:"from"`
	To       string     `yaml:"to" json:"to"`
	Kind     string     `yaml:"kind" json:"kind"`
	Line     string     `yaml:"line" json:"line"`
	Label    string     `yaml:"label,omitempty" json:"label,omitempty"`
	FromMult string     `yaml:"fromMult,omitempty" json:"fromMult,omitempty"`
	ToMult   string     `yaml:"toMult,omitempty" json:"toMult,omitempty"`
	Styles   []StyleDoc `yaml:"styles,omitempty" json:"styles,omitempty"`
}

// PackageDoc mirrors the source's package nesting.
type PackageDoc struct {
	Name     string       `yaml:"name" json:"name"`
	Entities []string     `yaml:"entities,omitempty" json:"entities,omitempty"`
	Packages []PackageDoc `yaml:"packages,omitempty" json:"packages,omitempty"`
}

// NoteDoc is one note.
type NoteDoc struct {
	Text string `yaml:"text" json:"text"`
	On   string `yaml:"on,omitempty" json:"on,omitempty"`
}

// PosDoc is a resolved layout position.
type PosDoc struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// StyleDoc is one style property. Styles export as a sorted key/value list
// rather than a map so output ordering is stable.
type StyleDoc struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Write serializes the model to w in the given format.
func Write(w io.Writer, iom *semantic.IOM, format Format) error {
	doc := Build(iom)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Marshal serializes the model to a byte slice.
func Marshal(iom *semantic.IOM, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, iom, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build lowers the model into its export document.
func Build(iom *semantic.IOM) *Document {
	doc := &Document{}
	if iom == nil {
		return doc
	}
	for _, d := range iom.Diagrams {
		doc.Diagrams = append(doc.Diagrams, buildDiagram(d))
	}
	return doc
}

func buildDiagram(d *semantic.Diagram) DiagramDoc {
	out := DiagramDoc{
		Name: d.Name,
		Kind: string(d.Kind),
	}
	for _, e := range d.EntitiesInOrder() {
		out.Entities = append(out.Entities, buildEntity(e))
	}
	for _, r := range d.Relations {
		out.Relations = append(out.Relations, RelationDoc{
			From:     r.From,
			To:       r.To,
			Kind:     string(r.Kind),
			Line:     string(r.Line),
			Label:    r.Label,
			FromMult: r.FromMult,
			ToMult:   r.ToMult,
			Styles:   buildStyles(r.Styles),
		})
	}
	for _, p := range d.Packages {
		out.Packages = append(out.Packages, buildPackage(p))
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteDoc{Text: n.Text, On: n.On})
	}
	return out
}

func buildEntity(e *semantic.Entity) EntityDoc {
	out := EntityDoc{
		Name:       e.Name,
		Kind:       string(e.Kind),
		Stereotype: e.Stereotype,
		Abstract:   e.IsAbstract,
		Final:      e.IsFinal,
		Extends:    e.Extends,
		Implements: e.Implements,
		EnumValues: e.EnumValues,
		Styles:     buildStyles(e.Styles),
		Note:       e.Note,
	}
	for _, f := range e.Fields {
		fd := FieldDoc{
			Name:       f.Name,
			Type:       f.Type,
			Visibility: string(f.Visibility),
			Static:     f.Static,
		}
		if f.HasDefault {
			fd.Default = f.Default
		}
		out.Fields = append(out.Fields, fd)
	}
	for _, m := range e.Methods {
		md := MethodDoc{
			Name:       m.Name,
			Visibility: string(m.Visibility),
			Static:     m.Static,
			Abstract:   m.Abstract,
			Returns:    m.Returns,
		}
		for _, p := range m.Params {
			md.Params = append(md.Params, ParamDoc{Name: p.Name, Type: p.Type})
		}
		out.Methods = append(out.Methods, md)
	}
	if e.Position != nil {
		out.Position = &PosDoc{X: e.Position.X, Y: e.Position.Y}
	}
	return out
}

func buildPackage(p *semantic.Package) PackageDoc {
	out := PackageDoc{Name: p.Name, Entities: p.Entities}
	for _, child := range p.Packages {
		out.Packages = append(out.Packages, buildPackage(child))
	}
	return out
}

func buildStyles(styles map[string]string) []StyleDoc {
	if len(styles) == 0 {
		return nil
	}
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]StyleDoc, 0, len(keys))
	for _, k := range keys {
		out = append(out, StyleDoc{Key: k, Value: styles[k]})
	}
	return out
}
