package semantic

import (
	"fmt"

	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/token"
)

// Severity of a semantic finding.
type Severity int

// Severity levels, most severe first.
const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Rule identifiers SS-1 through SS-14.
const (
	RuleDuplicateEntity    = "SS-1"
	RuleDuplicateMember    = "SS-2"
	RuleUnresolvedRelation = "SS-3"
	RuleEmptyEnum          = "SS-4"
	RuleInterfaceDefault   = "SS-5"
	RuleCircularExtends    = "SS-6"
	RuleUnknownStyleTarget = "SS-7"
	RuleDuplicateEnumValue = "SS-8"
	RuleKindNotAllowed     = "SS-9"
	RuleUnknownLayout      = "SS-10"
	RuleModifierConflict   = "SS-11"
	RuleDuplicateParam     = "SS-12"
	RuleUnresolvedExtends  = "SS-13"
	RuleUnresolvedImpls    = "SS-14"
)

// RuleInfo provides metadata about a rule for documentation and tooling.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Severity    Severity
}

// Rules lists every static semantic rule in identifier order.
var Rules = []RuleInfo{
	{RuleDuplicateEntity, "entity.duplicate", "Entity name declared more than once within a diagram; the first declaration is kept.", SeverityError},
	{RuleDuplicateMember, "member.duplicate", "Field or method name declared more than once within an entity; fields and methods share one namespace.", SeverityError},
	{RuleUnresolvedRelation, "relation.unresolved", "Relation endpoint does not resolve to a declared entity.", SeverityError},
	{RuleEmptyEnum, "enum.empty", "Enum declared with zero values.", SeverityError},
	{RuleInterfaceDefault, "interface.default-value", "Interface field carries a default value.", SeverityError},
	{RuleCircularExtends, "inheritance.cycle", "Circular inheritance along extends edges; reported once per cyclic component.", SeverityError},
	{RuleUnknownStyleTarget, "style.unknown-target", "Style declaration targets an undeclared entity.", SeverityError},
	{RuleDuplicateEnumValue, "enum.duplicate-value", "Enum value name repeated within one enum.", SeverityError},
	{RuleKindNotAllowed, "diagram.kind-not-allowed", "Entity kind is not legal inside this diagram kind.", SeverityError},
	{RuleUnknownLayout, "layout.unknown-target", "Layout annotation targets an undeclared entity.", SeverityError},
	{RuleModifierConflict, "entity.modifier-conflict", "Entity is marked both abstract and final.", SeverityError},
	{RuleDuplicateParam, "method.duplicate-param", "Parameter name repeated within one method's parameter list.", SeverityError},
	{RuleUnresolvedExtends, "extends.unresolved", "Name in an extends clause does not resolve to a declared entity; each unresolved name reports separately.", SeverityError},
	{RuleUnresolvedImpls, "implements.unresolved", "Name in an implements clause does not resolve to a declared entity; each unresolved name reports separately.", SeverityError},
}

// RuleByID returns the metadata for a rule identifier.
func RuleByID(id string) (RuleInfo, bool) {
	for _, r := range Rules {
		if r.ID == id {
			return r, true
		}
	}
	return RuleInfo{}, false
}

// Error is a semantic finding tagged with the rule it violates.
type Error struct {
	Rule    string
	Message string
	Entity  string // entity the finding concerns, when applicable
	Pos     token.Position
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.Rule, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// entityKindTable is the fixed legality table for SS-9: which entity kinds
// may appear inside which diagram kind. A missing diagram kind means no
// restriction (flow diagrams admit any kind, unknown kinds degrade to
// unrestricted).
var entityKindTable = map[parser.DiagramKind]map[parser.EntityKind]bool{
	parser.DiagramClass: {
		parser.KindClass:     true,
		parser.KindInterface: true,
		parser.KindEnum:      true,
	},
	parser.DiagramUseCase: {
		parser.KindActor:   true,
		parser.KindUseCase: true,
	},
	parser.DiagramDeployment: {
		parser.KindComponent: true,
		parser.KindNode:      true,
	},
	parser.DiagramComponent: {
		parser.KindComponent: true,
		parser.KindInterface: true,
	},
	parser.DiagramSequence: {
		parser.KindActor:     true,
		parser.KindClass:     true,
		parser.KindComponent: true,
	},
}

// kindAllowed reports whether an entity kind is legal in a diagram kind.
func kindAllowed(d parser.DiagramKind, e parser.EntityKind) bool {
	allowed, ok := entityKindTable[d]
	if !ok {
		return true
	}
	return allowed[e]
}
