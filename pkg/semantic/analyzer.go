package semantic

import (
	"fmt"

	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/token"
)

// Result holds the analyzer's output: the resolved model plus every
// semantic finding, in deterministic order.
type Result struct {
	IOM    *IOM
	Errors []*Error
}

// Analyzer lowers a parsed program into the IOM while checking the static
// semantic rules. Each diagram is analyzed independently; entity names are
// scoped to their diagram, not the program.
type Analyzer struct {
	errors []*Error
}

// Analyze runs semantic analysis over a parsed program. It never fails
// outright: rule violations accumulate as findings and the model is built
// best-effort around them.
func Analyze(program *parser.Program) *Result {
	a := &Analyzer{}
	iom := &IOM{}
	if program != nil {
		for _, d := range program.Diagrams {
			iom.Diagrams = append(iom.Diagrams, a.analyzeDiagram(d))
		}
	}
	return &Result{IOM: iom, Errors: a.errors}
}

func (a *Analyzer) errorf(rule, entity string, pos token.Position, format string, args ...any) {
	a.errors = append(a.errors, &Error{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Entity:  entity,
		Pos:     pos,
	})
}

// diagramScope accumulates the declarations of one diagram across its
// nested packages so the whole-diagram checks can run after collection.
type diagramScope struct {
	diagram *Diagram

	relations []*parser.RelationDecl
	styles    []*parser.StyleDecl
	layouts   []*parser.LayoutAnnotation

	// Notes whose target was not yet declared when the note was seen.
	// They get a second attachment attempt once collection finishes.
	deferredNotes []*parser.NoteDecl
}

func (a *Analyzer) analyzeDiagram(decl *parser.DiagramDecl) *Diagram {
	scope := &diagramScope{
		diagram: &Diagram{
			Name:     decl.Name,
			Kind:     decl.Kind,
			Entities: map[string]*Entity{},
		},
	}

	// Pass 1: collect entities, packages, and notes; park relations,
	// styles, and layouts for the later passes.
	a.collectBody(scope, decl.Body, nil)

	// Pass 1.5: notes declared before their target entity.
	for _, n := range scope.deferredNotes {
		if e, ok := scope.diagram.Entities[n.On]; ok {
			e.Note = n.Text
		}
	}

	// Pass 2: relations resolve by name against the completed entity set.
	for _, r := range scope.relations {
		a.resolveRelation(scope, r)
	}

	a.checkDiagram(scope, decl)
	return scope.diagram
}

// collectBody walks one body-item list. pkg is the package the items are
// lexically inside, nil at diagram top level.
func (a *Analyzer) collectBody(scope *diagramScope, items []parser.BodyItem, pkg *Package) {
	for _, item := range items {
		switch it := item.(type) {
		case *parser.EntityDecl:
			a.collectEntity(scope, it, pkg)
		case *parser.PackageDecl:
			child := &Package{Name: it.Name}
			if pkg == nil {
				scope.diagram.Packages = append(scope.diagram.Packages, child)
			} else {
				pkg.Packages = append(pkg.Packages, child)
			}
			a.collectBody(scope, it.Body, child)
		case *parser.RelationDecl:
			scope.relations = append(scope.relations, it)
		case *parser.NoteDecl:
			a.collectNote(scope, it)
		case *parser.StyleDecl:
			scope.styles = append(scope.styles, it)
		case *parser.LayoutAnnotation:
			scope.layouts = append(scope.layouts, it)
		}
	}
}

// collectEntity builds an IOM entity from its declaration. The first
// declaration of a name is canonical; later ones report and are dropped.
func (a *Analyzer) collectEntity(scope *diagramScope, decl *parser.EntityDecl, pkg *Package) {
	d := scope.diagram

	if _, exists := d.Entities[decl.Name]; exists {
		a.errorf(RuleDuplicateEntity, decl.Name, decl.Span.Start,
			"entity %q is already declared in diagram %q", decl.Name, d.Name)
		return
	}

	e := &Entity{
		Name:       decl.Name,
		Kind:       decl.Kind,
		Stereotype: decl.Stereotype,
		IsAbstract: decl.IsAbstract() || decl.Kind == parser.KindInterface,
		IsFinal:    decl.IsFinal(),
		Extends:    decl.Extends,
		Implements: decl.Implements,
		Styles:     map[string]string{},
	}

	if decl.IsAbstract() && decl.IsFinal() {
		a.errorf(RuleModifierConflict, decl.Name, decl.Span.Start,
			"entity %q cannot be both abstract and final", decl.Name)
	}

	a.collectMembers(e, decl)

	d.Entities[decl.Name] = e
	d.EntityNames = append(d.EntityNames, decl.Name)
	if pkg != nil {
		pkg.Entities = append(pkg.Entities, decl.Name)
	}
}

// collectMembers lowers the member list, checking the member-level rules.
// Fields and methods share one name namespace; enum values have their own.
func (a *Analyzer) collectMembers(e *Entity, decl *parser.EntityDecl) {
	members := map[string]bool{}
	enumSeen := map[string]bool{}

	for _, m := range decl.Members {
		switch mm := m.(type) {
		case *parser.FieldDecl:
			if members[mm.Name] {
				a.errorf(RuleDuplicateMember, e.Name, mm.Span.Start,
					"member %q is already declared in entity %q", mm.Name, e.Name)
				continue
			}
			members[mm.Name] = true
			if e.Kind == parser.KindInterface && mm.HasDefault {
				a.errorf(RuleInterfaceDefault, e.Name, mm.Span.Start,
					"interface field %q cannot have a default value", mm.Name)
			}
			e.Fields = append(e.Fields, &Field{
				Name:       mm.Name,
				Type:       parser.TypeString(mm.Type),
				Visibility: mm.Visibility,
				Static:     mm.Static,
				Default:    mm.Default,
				HasDefault: mm.HasDefault,
			})
		case *parser.MethodDecl:
			if members[mm.Name] {
				a.errorf(RuleDuplicateMember, e.Name, mm.Span.Start,
					"member %q is already declared in entity %q", mm.Name, e.Name)
				continue
			}
			members[mm.Name] = true
			method := &Method{
				Name:       mm.Name,
				Visibility: mm.Visibility,
				Static:     mm.Static,
				Abstract:   mm.Abstract,
			}
			paramSeen := map[string]bool{}
			for _, p := range mm.Params {
				if paramSeen[p.Name] {
					a.errorf(RuleDuplicateParam, e.Name, p.Span.Start,
						"parameter %q is repeated in method %q", p.Name, mm.Name)
				}
				paramSeen[p.Name] = true
				method.Params = append(method.Params, Param{
					Name: p.Name,
					Type: parser.TypeString(p.Type),
				})
			}
			if mm.Returns != nil {
				method.Returns = parser.TypeString(mm.Returns)
			}
			e.Methods = append(e.Methods, method)
		case *parser.EnumValueDecl:
			if enumSeen[mm.Name] {
				a.errorf(RuleDuplicateEnumValue, e.Name, mm.Span.Start,
					"enum value %q is repeated in %q", mm.Name, e.Name)
				continue
			}
			enumSeen[mm.Name] = true
			e.EnumValues = append(e.EnumValues, mm.Name)
		}
	}

	if decl.Kind == parser.KindEnum && len(e.EnumValues) == 0 {
		a.errorf(RuleEmptyEnum, e.Name, decl.Span.Start,
			"enum %q has no values", e.Name)
	}
}

// collectNote attaches a targeted note immediately when the target is
// already declared, defers it otherwise, and always records the note on the
// diagram in declaration order.
func (a *Analyzer) collectNote(scope *diagramScope, n *parser.NoteDecl) {
	scope.diagram.Notes = append(scope.diagram.Notes, &Note{Text: n.Text, On: n.On})
	if n.On == "" {
		return
	}
	if e, ok := scope.diagram.Entities[n.On]; ok {
		e.Note = n.Text
		return
	}
	scope.deferredNotes = append(scope.deferredNotes, n)
}

// resolveRelation checks both endpoints and appends the relation. A
// relation with an unresolved endpoint still lands in the model so
// downstream tooling sees the declared shape.
func (a *Analyzer) resolveRelation(scope *diagramScope, r *parser.RelationDecl) {
	d := scope.diagram
	if _, ok := d.Entities[r.From]; !ok {
		a.errorf(RuleUnresolvedRelation, r.From, r.Span.Start,
			"relation endpoint %q is not a declared entity", r.From)
	}
	if _, ok := d.Entities[r.To]; !ok {
		a.errorf(RuleUnresolvedRelation, r.To, r.Span.Start,
			"relation endpoint %q is not a declared entity", r.To)
	}
	d.Relations = append(d.Relations, &Relation{
		From:     r.From,
		To:       r.To,
		Kind:     r.Kind,
		Line:     r.Line,
		Label:    r.Label,
		FromMult: r.FromMult,
		ToMult:   r.ToMult,
		Styles:   r.Styles,
	})
}

// checkDiagram runs the whole-diagram rules after collection and relation
// resolution, in a fixed order so findings are deterministic.
func (a *Analyzer) checkDiagram(scope *diagramScope, decl *parser.DiagramDecl) {
	d := scope.diagram

	spans := entitySpans(decl)

	for _, name := range d.EntityNames {
		e := d.Entities[name]
		pos := spans[name]

		if !kindAllowed(d.Kind, e.Kind) {
			a.errorf(RuleKindNotAllowed, name, pos,
				"%s %q is not allowed in a %s diagram", e.Kind, name, d.Kind)
		}
		for _, parent := range e.Extends {
			if _, ok := d.Entities[parent]; !ok {
				a.errorf(RuleUnresolvedExtends, name, pos,
					"entity %q extends undeclared %q", name, parent)
			}
		}
		for _, iface := range e.Implements {
			if _, ok := d.Entities[iface]; !ok {
				a.errorf(RuleUnresolvedImpls, name, pos,
					"entity %q implements undeclared %q", name, iface)
			}
		}
	}

	a.checkInheritanceCycles(d, spans)

	for _, s := range scope.styles {
		e, ok := d.Entities[s.Target]
		if !ok {
			a.errorf(RuleUnknownStyleTarget, s.Target, s.Span.Start,
				"style targets undeclared entity %q", s.Target)
			continue
		}
		for k, v := range s.Props {
			e.Styles[k] = v
		}
	}

	for _, l := range scope.layouts {
		e, ok := d.Entities[l.Entity]
		if !ok {
			a.errorf(RuleUnknownLayout, l.Entity, l.Span.Start,
				"layout annotation targets undeclared entity %q", l.Entity)
			continue
		}
		e.Position = &Position{X: l.X, Y: l.Y}
	}
}

// checkInheritanceCycles detects cycles along resolved extends edges. Each
// cyclic component reports exactly once, at the first entity (in declaration
// order) from which the cycle is reachable.
func (a *Analyzer) checkInheritanceCycles(d *Diagram, spans map[string]token.Position) {
	reported := map[string]bool{}
	done := map[string]bool{}

	var visit func(name string, stack map[string]bool, path []string) bool
	visit = func(name string, stack map[string]bool, path []string) bool {
		if stack[name] {
			// Back edge: everything from the first occurrence of name in
			// the path is on the cycle.
			if !cycleReported(reported, path, name) {
				markCycle(reported, path, name)
				a.errorf(RuleCircularExtends, name, spans[name],
					"circular inheritance involving %q", name)
			}
			return true
		}
		if done[name] {
			return false
		}
		stack[name] = true
		e := d.Entities[name]
		for _, parent := range e.Extends {
			if _, ok := d.Entities[parent]; !ok {
				continue
			}
			visit(parent, stack, append(path, name))
		}
		delete(stack, name)
		done[name] = true
		return false
	}

	for _, name := range d.EntityNames {
		if !done[name] {
			visit(name, map[string]bool{}, nil)
		}
	}
}

// cycleReported reports whether any node on the detected cycle has already
// produced a finding.
func cycleReported(reported map[string]bool, path []string, entry string) bool {
	if reported[entry] {
		return true
	}
	for i := len(path) - 1; i >= 0; i-- {
		if reported[path[i]] {
			return true
		}
		if path[i] == entry {
			break
		}
	}
	return false
}

// markCycle marks every node on the detected cycle as reported.
func markCycle(reported map[string]bool, path []string, entry string) {
	reported[entry] = true
	for i := len(path) - 1; i >= 0; i-- {
		reported[path[i]] = true
		if path[i] == entry {
			break
		}
	}
}

// entitySpans maps each first-declared entity name to its declaration
// position for error reporting.
func entitySpans(decl *parser.DiagramDecl) map[string]token.Position {
	spans := map[string]token.Position{}
	var walk func(items []parser.BodyItem)
	walk = func(items []parser.BodyItem) {
		for _, item := range items {
			switch it := item.(type) {
			case *parser.EntityDecl:
				if _, ok := spans[it.Name]; !ok {
					spans[it.Name] = it.Span.Start
				}
			case *parser.PackageDecl:
				walk(it.Body)
			}
		}
	}
	walk(decl.Body)
	return spans
}
