package parser

import "github.com/isomorph-labs/isomorph/pkg/token"

// TokenType is an alias for token.TokenType.
type TokenType = token.TokenType

// Token is an alias for token.Token.
type Token = token.Token

// Position is an alias for token.Position.
type Position = token.Position

// Span is an alias for token.Span.
type Span = token.Span

// BodyItem is anything that can appear directly inside a diagram or package
// body. The variant set is closed; consumers switch exhaustively over it.
type BodyItem interface {
	bodyItemNode()
	GetSpan() Span
}

// Member is anything that can appear inside an entity body.
type Member interface {
	memberNode()
	GetSpan() Span
}

// TypeExpr is a recursive type expression: a plain name, a generic
// application, or a nullable wrapping.
type TypeExpr interface {
	typeExprNode()
	GetSpan() Span
}

// NodeInfo provides the source span common to all AST nodes.
// Embed this in node types; the span covers exactly the source text the
// node was derived from.
type NodeInfo struct {
	Span Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() Span {
	return n.Span
}

// ---------- Root ----------

// Program is the AST root.
type Program struct {
	NodeInfo
	Imports  []*ImportDecl
	Diagrams []*DiagramDecl
}

// ImportDecl represents an import "path" declaration.
type ImportDecl struct {
	NodeInfo
	Path string
}

// DiagramKind identifies what kind of diagram a declaration describes.
type DiagramKind string

// Diagram kinds.
const (
	DiagramClass      DiagramKind = "class"
	DiagramUseCase    DiagramKind = "usecase"
	DiagramSequence   DiagramKind = "sequence"
	DiagramComponent  DiagramKind = "component"
	DiagramFlow       DiagramKind = "flow"
	DiagramDeployment DiagramKind = "deployment"
	DiagramUnknown    DiagramKind = ""
)

// DiagramDecl represents a diagram Name : kind { ... } declaration.
type DiagramDecl struct {
	NodeInfo
	Name string
	Kind DiagramKind
	Body []BodyItem
}

// ---------- Body items ----------

// PackageDecl represents a package Name { ... } declaration. Packages nest
// recursively; the body tree mirrors lexical nesting and is acyclic by
// construction.
type PackageDecl struct {
	NodeInfo
	Name string
	Body []BodyItem
}

func (*PackageDecl) bodyItemNode() {}

// EntityKind identifies what kind of entity a declaration introduces.
type EntityKind string

// Entity kinds.
const (
	KindClass     EntityKind = "class"
	KindInterface EntityKind = "interface"
	KindEnum      EntityKind = "enum"
	KindActor     EntityKind = "actor"
	KindUseCase   EntityKind = "usecase"
	KindComponent EntityKind = "component"
	KindNode      EntityKind = "node"
)

// EntityDecl represents an entity declaration with its members.
type EntityDecl struct {
	NodeInfo
	Modifiers  []string // "abstract", "final"
	Kind       EntityKind
	Name       string
	Stereotype string // without << >> delimiters; empty if absent
	Extends    []string
	Implements []string
	Members    []Member
}

func (*EntityDecl) bodyItemNode() {}

// IsAbstract returns true if the declaration carries the abstract modifier.
func (e *EntityDecl) IsAbstract() bool { return e.hasModifier("abstract") }

// IsFinal returns true if the declaration carries the final modifier.
func (e *EntityDecl) IsFinal() bool { return e.hasModifier("final") }

func (e *EntityDecl) hasModifier(m string) bool {
	for _, mod := range e.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// RelationKind is the semantic taxonomy the 13 operator forms map into.
// Forward and reversed operators map to the same kind; endpoints are never
// swapped structurally.
type RelationKind string

// Relation kinds.
const (
	RelInheritance    RelationKind = "inheritance"    // --|>  <|--
	RelImplementation RelationKind = "implementation" // ..|>  <|..
	RelDependency     RelationKind = "dependency"     // ..>  <..
	RelAggregation    RelationKind = "aggregation"    // --o  o--
	RelComposition    RelationKind = "composition"    // --*  *--
	RelAssociation    RelationKind = "association"    // -->
	RelLink           RelationKind = "link"           // --
	RelCross          RelationKind = "cross"          // --x
)

// LineStyle distinguishes solid from dashed relation rendering.
type LineStyle string

// Line styles.
const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
)

// RelationDecl represents a relation between two named entities.
// From and To are entity names, not resolved references: either endpoint may
// be declared later in the source, or never.
type RelationDecl struct {
	NodeInfo
	From     string
	To       string
	Operator TokenType    // the literal operator token
	Kind     RelationKind // taxonomy the operator maps into
	Line     LineStyle
	Reversed bool   // operator was one of the reversed forms
	Label    string // [label="..."]
	FromMult string // [fromMult="..."]
	ToMult   string // [toMult="..."]
	Styles   map[string]string
}

func (*RelationDecl) bodyItemNode() {}

// NoteDecl represents a note "text" [on Entity] declaration.
type NoteDecl struct {
	NodeInfo
	Text string
	On   string // target entity name; empty for free-standing notes
}

func (*NoteDecl) bodyItemNode() {}

// StyleDecl represents a style Entity { key: value ... } declaration.
type StyleDecl struct {
	NodeInfo
	Target string
	Props  map[string]string
}

func (*StyleDecl) bodyItemNode() {}

// LayoutAnnotation represents an @Entity at (x, y) declaration.
type LayoutAnnotation struct {
	NodeInfo
	Entity string
	X      float64
	Y      float64
}

func (*LayoutAnnotation) bodyItemNode() {}

// ---------- Members ----------

// Visibility is a member's resolved access level.
type Visibility string

// Visibility levels. The empty/absent symbol defaults to public.
const (
	VisPublic    Visibility = "public"
	VisPrivate   Visibility = "private"
	VisProtected Visibility = "protected"
	VisPackage   Visibility = "package"
)

// FieldDecl represents a field with its type and optional default value.
type FieldDecl struct {
	NodeInfo
	Visibility Visibility
	Static     bool
	Name       string
	Type       TypeExpr
	Default    string // literal text; empty if absent
	HasDefault bool
}

func (*FieldDecl) memberNode() {}

// ParamDecl represents a method parameter.
type ParamDecl struct {
	NodeInfo
	Name string
	Type TypeExpr
}

// MethodDecl represents a method with parameters and optional return type.
type MethodDecl struct {
	NodeInfo
	Visibility Visibility
	Static     bool
	Abstract   bool
	Name       string
	Params     []*ParamDecl
	Returns    TypeExpr // nil for void
}

func (*MethodDecl) memberNode() {}

// EnumValueDecl represents a bare enum value.
type EnumValueDecl struct {
	NodeInfo
	Name string
}

func (*EnumValueDecl) memberNode() {}

// ---------- Type expressions ----------

// SimpleType is a plain type name.
type SimpleType struct {
	NodeInfo
	Name string
}

func (*SimpleType) typeExprNode() {}

// GenericType is a generic application like Map<string, List<int>>.
type GenericType struct {
	NodeInfo
	Base string
	Args []TypeExpr
}

func (*GenericType) typeExprNode() {}

// NullableType wraps another type with a postfix ?. The suffix wraps the
// whole base type, so List<string>? is Nullable(Generic(List, string)).
type NullableType struct {
	NodeInfo
	Inner TypeExpr
}

func (*NullableType) typeExprNode() {}

// TypeString renders a type expression exactly as written in source:
// SimpleType -> name, GenericType -> base<arg, arg>, NullableType -> inner?.
func TypeString(t TypeExpr) string {
	switch v := t.(type) {
	case *SimpleType:
		return v.Name
	case *GenericType:
		s := v.Base + "<"
		for i, a := range v.Args {
			if i > 0 {
				s += ", "
			}
			s += TypeString(a)
		}
		return s + ">"
	case *NullableType:
		return TypeString(v.Inner) + "?"
	default:
		return ""
	}
}

// relationKindFor maps a relation operator token to its kind, line style,
// and whether it is a reversed form.
func relationKindFor(t TokenType) (RelationKind, LineStyle, bool) {
	switch t {
	case token.EXTENDS_ARROW:
		return RelInheritance, LineSolid, false
	case token.EXTENDS_ARROW_R:
		return RelInheritance, LineSolid, true
	case token.IMPLEMENTS_ARROW:
		return RelImplementation, LineDashed, false
	case token.IMPLEMENTS_ARROW_R:
		return RelImplementation, LineDashed, true
	case token.DEPENDS_ARROW:
		return RelDependency, LineDashed, false
	case token.DEPENDS_ARROW_R:
		return RelDependency, LineDashed, true
	case token.AGGREGATE_ARROW:
		return RelAggregation, LineSolid, false
	case token.AGGREGATE_ARROW_R:
		return RelAggregation, LineSolid, true
	case token.COMPOSE_ARROW:
		return RelComposition, LineSolid, false
	case token.COMPOSE_ARROW_R:
		return RelComposition, LineSolid, true
	case token.ASSOC_ARROW:
		return RelAssociation, LineSolid, false
	case token.CROSS_ARROW:
		return RelCross, LineSolid, false
	default:
		return RelLink, LineSolid, false
	}
}
