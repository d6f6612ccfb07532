package parser_test

import (
	"testing"

	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseClean parses source and requires it to be error-free.
func parseClean(t *testing.T, src string) *parser.Program {
	t.Helper()
	res := parser.Parse(src)
	require.Empty(t, res.LexErrors)
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Program)
	return res.Program
}

func TestParseClassDiagram(t *testing.T) {
	src := `
diagram Shop : class {
    abstract class Product <<entity>> extends Sellable implements Comparable, Printable {
        + name: string
        - price: float = 0.0
        # tags: List<string>
        ~ sku: string
        + static of(name: string, price: float): Product
        describe(): string
    }
}
`
	program := parseClean(t, src)
	require.Len(t, program.Diagrams, 1)

	d := program.Diagrams[0]
	assert.Equal(t, "Shop", d.Name)
	assert.Equal(t, parser.DiagramClass, d.Kind)
	require.Len(t, d.Body, 1)

	e, ok := d.Body[0].(*parser.EntityDecl)
	require.True(t, ok)
	assert.Equal(t, "Product", e.Name)
	assert.Equal(t, parser.KindClass, e.Kind)
	assert.Equal(t, "entity", e.Stereotype)
	assert.True(t, e.IsAbstract())
	assert.False(t, e.IsFinal())
	assert.Equal(t, []string{"Sellable"}, e.Extends)
	assert.Equal(t, []string{"Comparable", "Printable"}, e.Implements)
	require.Len(t, e.Members, 6)

	name := e.Members[0].(*parser.FieldDecl)
	assert.Equal(t, parser.VisPublic, name.Visibility)
	assert.Equal(t, "string", parser.TypeString(name.Type))
	assert.False(t, name.HasDefault)

	price := e.Members[1].(*parser.FieldDecl)
	assert.Equal(t, parser.VisPrivate, price.Visibility)
	assert.True(t, price.HasDefault)
	assert.Equal(t, "0.0", price.Default)

	tags := e.Members[2].(*parser.FieldDecl)
	assert.Equal(t, parser.VisProtected, tags.Visibility)
	assert.Equal(t, "List<string>", parser.TypeString(tags.Type))

	sku := e.Members[3].(*parser.FieldDecl)
	assert.Equal(t, parser.VisPackage, sku.Visibility)

	of := e.Members[4].(*parser.MethodDecl)
	assert.True(t, of.Static)
	require.Len(t, of.Params, 2)
	assert.Equal(t, "name", of.Params[0].Name)
	assert.Equal(t, "Product", parser.TypeString(of.Returns))

	describe := e.Members[5].(*parser.MethodDecl)
	assert.Equal(t, parser.VisPublic, describe.Visibility)
	assert.Empty(t, describe.Params)
	assert.Equal(t, "string", parser.TypeString(describe.Returns))
}

func TestNullableWrapsWholeGeneric(t *testing.T) {
	src := `
diagram D : class {
    class C {
        cache: Map<string, List<int>>?
    }
}
`
	program := parseClean(t, src)
	e := program.Diagrams[0].Body[0].(*parser.EntityDecl)
	f := e.Members[0].(*parser.FieldDecl)

	n, ok := f.Type.(*parser.NullableType)
	require.True(t, ok, "postfix ? must wrap the whole type")
	g, ok := n.Inner.(*parser.GenericType)
	require.True(t, ok)
	assert.Equal(t, "Map", g.Base)
	require.Len(t, g.Args, 2)

	assert.Equal(t, "Map<string, List<int>>?", parser.TypeString(f.Type))
}

func TestParseRelations(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		kind     parser.RelationKind
		line     parser.LineStyle
		reversed bool
	}{
		{"inheritance", "A --|> B", parser.RelInheritance, parser.LineSolid, false},
		{"inheritance reversed", "A <|-- B", parser.RelInheritance, parser.LineSolid, true},
		{"implementation", "A ..|> B", parser.RelImplementation, parser.LineDashed, false},
		{"dependency reversed", "A <.. B", parser.RelDependency, parser.LineDashed, true},
		{"aggregation reversed", "A o-- B", parser.RelAggregation, parser.LineSolid, true},
		{"composition", "A --* B", parser.RelComposition, parser.LineSolid, false},
		{"association", "A --> B", parser.RelAssociation, parser.LineSolid, false},
		{"cross", "A --x B", parser.RelCross, parser.LineSolid, false},
		{"link", "A -- B", parser.RelLink, parser.LineSolid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parseClean(t, "diagram D : class {\n"+tt.src+"\n}")
			r, ok := program.Diagrams[0].Body[0].(*parser.RelationDecl)
			require.True(t, ok)
			// Endpoints stay as written even for reversed operators.
			assert.Equal(t, "A", r.From)
			assert.Equal(t, "B", r.To)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.line, r.Line)
			assert.Equal(t, tt.reversed, r.Reversed)
		})
	}
}

func TestRelationAttrBlock(t *testing.T) {
	src := `
diagram D : class {
    Order --> Item [label="contains", fromMult="1", toMult="0..*", color="#aabbcc"]
}
`
	program := parseClean(t, src)
	r := program.Diagrams[0].Body[0].(*parser.RelationDecl)
	assert.Equal(t, "contains", r.Label)
	assert.Equal(t, "1", r.FromMult)
	assert.Equal(t, "0..*", r.ToMult)
	assert.Equal(t, map[string]string{"color": "#aabbcc"}, r.Styles)
}

func TestParseNoteStyleAndLayout(t *testing.T) {
	src := `
diagram D : class {
    class A {}
    note "free floating"
    note "pinned" on A
    style A { fill: #ff0099 border: solid }
    @A at (10.5, -3)
}
`
	program := parseClean(t, src)
	body := program.Diagrams[0].Body
	require.Len(t, body, 5)

	free := body[1].(*parser.NoteDecl)
	assert.Equal(t, "free floating", free.Text)
	assert.Empty(t, free.On)

	pinned := body[2].(*parser.NoteDecl)
	assert.Equal(t, "A", pinned.On)

	style := body[3].(*parser.StyleDecl)
	assert.Equal(t, "A", style.Target)
	assert.Equal(t, map[string]string{"fill": "#ff0099", "border": "solid"}, style.Props)

	layout := body[4].(*parser.LayoutAnnotation)
	assert.Equal(t, "A", layout.Entity)
	assert.Equal(t, 10.5, layout.X)
	assert.Equal(t, -3.0, layout.Y)
}

func TestPackageNesting(t *testing.T) {
	src := `
diagram D : class {
    package outer {
        package inner {
            class Deep {}
        }
        class Shallow {}
    }
}
`
	program := parseClean(t, src)
	outer := program.Diagrams[0].Body[0].(*parser.PackageDecl)
	assert.Equal(t, "outer", outer.Name)
	require.Len(t, outer.Body, 2)

	inner := outer.Body[0].(*parser.PackageDecl)
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, "Deep", inner.Body[0].(*parser.EntityDecl).Name)
	assert.Equal(t, "Shallow", outer.Body[1].(*parser.EntityDecl).Name)
}

func TestImports(t *testing.T) {
	src := `
import "common/base.isx"
diagram D : flow {}
`
	program := parseClean(t, src)
	require.Len(t, program.Imports, 1)
	assert.Equal(t, "common/base.isx", program.Imports[0].Path)
}

func TestEnumBody(t *testing.T) {
	src := `
diagram D : class {
    enum Status {
        ACTIVE
        SUSPENDED
        CLOSED
    }
}
`
	program := parseClean(t, src)
	e := program.Diagrams[0].Body[0].(*parser.EntityDecl)
	assert.Equal(t, parser.KindEnum, e.Kind)
	require.Len(t, e.Members, 3)
	assert.Equal(t, "ACTIVE", e.Members[0].(*parser.EnumValueDecl).Name)
}

func TestUnknownDiagramKind(t *testing.T) {
	res := parser.Parse("diagram D : mindmap {}")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), `unknown diagram kind "mindmap"`)
	require.Len(t, res.Program.Diagrams, 1)
	assert.Equal(t, parser.DiagramUnknown, res.Program.Diagrams[0].Kind)
}

func TestTopLevelRecovery(t *testing.T) {
	// A stray token at top level is skipped; the following diagram parses.
	res := parser.Parse("} diagram D : class { class A {} }")
	require.Len(t, res.Errors, 1)
	require.Len(t, res.Program.Diagrams, 1)
	assert.Equal(t, "D", res.Program.Diagrams[0].Name)
}

func TestBodyRecovery(t *testing.T) {
	// An unparseable body item is skipped one token at a time while the
	// surrounding declarations survive.
	src := `
diagram D : class {
    class A {}
    ???
    class B {}
}
`
	res := parser.Parse(src)
	require.NotEmpty(t, res.Errors)

	var names []string
	for _, item := range res.Program.Diagrams[0].Body {
		if e, ok := item.(*parser.EntityDecl); ok {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestExpectDoesNotConsumeOnMismatch(t *testing.T) {
	// The missing ':' before the diagram kind reports one error, then the
	// kind token is still available for the next production.
	res := parser.Parse("diagram D class { }")
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Error(), "unexpected token")
	require.Len(t, res.Program.Diagrams, 1)
	assert.Equal(t, parser.DiagramClass, res.Program.Diagrams[0].Kind)
}

func TestSpans(t *testing.T) {
	src := `diagram D : class { class A {} }`
	program := parseClean(t, src)
	e := program.Diagrams[0].Body[0].(*parser.EntityDecl)
	span := e.GetSpan()
	assert.Equal(t, token.Position{Line: 1, Column: 21, Offset: 20}, span.Start)
	assert.Equal(t, 30, span.End.Offset)
}
