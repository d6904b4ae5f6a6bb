/*
 * Val - The value-oriented programming language
 *
 * Copyright Hylo Project Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sema

import (
	"math/big"

	"github.com/hylo-lang/val/ast"
)

// Candidate is one resolution of a name component.
type Candidate struct {
	Reference DeclReference
	Type      Type
	// Diagnostics render the candidate non-viable when non-empty.
	Diagnostics []Diagnostic
}

// CandidateSet separates all found candidates from the viable ones.
type CandidateSet struct {
	Elements []Candidate
	// Viable indexes the elements which carry no diagnostic.
	Viable []int
}

func (s *CandidateSet) add(candidate Candidate) {
	if len(candidate.Diagnostics) == 0 {
		s.Viable = append(s.Viable, len(s.Elements))
	}
	s.Elements = append(s.Elements, candidate)
}

func (s *CandidateSet) IsEmpty() bool {
	return len(s.Elements) == 0
}

// ViableElements returns the viable candidates.
func (s *CandidateSet) ViableElements() []Candidate {
	result := make([]Candidate, 0, len(s.Viable))
	for _, index := range s.Viable {
		result = append(result, s.Elements[index])
	}
	return result
}

// resolutionFlags tune component resolution.
type resolutionFlags struct {
	// keepImplicitArguments opens unbound generic parameters of the
	// referenced declaration as fresh variables.
	keepImplicitArguments bool
	// instantiateTypes skolemizes parameters introduced in scopes
	// enclosing the use site and opens all others as variables.
	instantiateTypes bool
	// usedAsCallee rewrites a metatype component to a lookup of `init`.
	usedAsCallee bool
	// usedAsSubscriptCallee rewrites a non-metatype component to a
	// lookup of `[]`.
	usedAsSubscriptCallee bool
}

// NameResolutionResultKind

type NameResolutionResultKind int

const (
	// NameResolutionDone: nominal-only resolution completed.
	NameResolutionDone NameResolutionResultKind = iota
	// NameResolutionInexecutable: the caller must supply a type for a
	// non-nominal head.
	NameResolutionInexecutable
	// NameResolutionFailed: an error occurred; a diagnostic has been
	// reported.
	NameResolutionFailed
)

// ResolvedComponent is one resolved component of a name expression.
type ResolvedComponent struct {
	Expr       *ast.NameExpr
	Candidates CandidateSet
}

// NameResolutionResult is the outcome of resolving a name expression.
type NameResolutionResult struct {
	Kind NameResolutionResultKind
	// ResolvedPrefix holds the components resolved so far, outermost
	// domain first.
	ResolvedPrefix []ResolvedComponent
	// UnresolvedSuffix holds the components still to resolve,
	// innermost first, when Kind is inexecutable.
	UnresolvedSuffix []*ast.NameExpr
}

// nameComponents splits a name expression into its reversed component
// list. The returned prefix is the non-nominal head (an arbitrary
// expression or the implicit receiver), if any.
func nameComponents(expr *ast.NameExpr) (components []*ast.NameExpr, prefix ast.Expression, implicit bool) {
	current := expr
	for {
		components = append([]*ast.NameExpr{current}, components...)
		switch current.DomainKind {
		case ast.NameDomainNone:
			return components, nil, false
		case ast.NameDomainImplicit:
			return components, nil, true
		case ast.NameDomainExplicit:
			domain, ok := current.Domain.(*ast.NameExpr)
			if !ok {
				return components, current.Domain, false
			}
			current = domain
		}
	}
}

// resolveName resolves a name expression as a reversed linked list of
// components. A non-nominal prefix makes the result inexecutable: the
// caller supplies the type of that prefix and resumes with
// resolveComponents.
func (c *Checker) resolveName(
	expr *ast.NameExpr,
	useScope ast.ScopeID,
	flags resolutionFlags,
) NameResolutionResult {
	components, prefix, implicit := nameComponents(expr)

	if prefix != nil || implicit {
		return NameResolutionResult{
			Kind:             NameResolutionInexecutable,
			UnresolvedSuffix: components,
		}
	}

	return c.resolveComponents(components, nil, useScope, flags)
}

// resolveComponents resolves the remaining nominal components
// left-to-right, starting from an optional parent type.
func (c *Checker) resolveComponents(
	components []*ast.NameExpr,
	parent Type,
	useScope ast.ScopeID,
	flags resolutionFlags,
) NameResolutionResult {
	var resolved []ResolvedComponent

	for i, component := range components {
		isLast := i == len(components)-1
		componentFlags := flags
		if !isLast {
			// only the final component takes the caller's purpose
			componentFlags.usedAsCallee = false
			componentFlags.usedAsSubscriptCallee = false
		}

		candidates := c.resolveComponent(component, parent, useScope, componentFlags)
		if candidates.IsEmpty() {
			c.report(&UndefinedNameError{
				Name:       component.Identifier.Identifier,
				Candidates: c.visibleNames(parent, useScope),
				Range:      ast.NewRangeFromPositioned(&component.Identifier),
			})
			return NameResolutionResult{Kind: NameResolutionFailed}
		}

		resolved = append(resolved, ResolvedComponent{
			Expr:       component,
			Candidates: candidates,
		})

		if !isLast {
			viable := candidates.ViableElements()
			if len(viable) != 1 {
				sites := make([]ast.Range, 0, len(viable))
				for _, candidate := range viable {
					if candidate.Reference.Decl != nil {
						sites = append(sites, ast.NewRangeFromPositioned(candidate.Reference.Decl))
					}
				}
				c.report(&AmbiguousUseError{
					Name:  component.Identifier.Identifier,
					Sites: sites,
					Range: ast.NewRangeFromPositioned(&component.Identifier),
				})
				return NameResolutionResult{Kind: NameResolutionFailed}
			}
			parent = viable[0].Type
		}
	}

	return NameResolutionResult{
		Kind:           NameResolutionDone,
		ResolvedPrefix: resolved,
	}
}

// evaluateStaticArguments realizes the static argument list of a
// component. Each argument must realize to a type or be a compile-time
// value.
func (c *Checker) evaluateStaticArguments(
	arguments []ast.TypeArgument,
	useScope ast.ScopeID,
) []CompileTimeValue {
	values := make([]CompileTimeValue, 0, len(arguments))
	for _, argument := range arguments {
		switch {
		case argument.Type != nil:
			values = append(values, TypeValue{
				Type: c.realizeTypeExpr(argument.Type, useScope),
			})
		case argument.Value != nil:
			if literal, ok := argument.Value.(*ast.IntegerLiteralExpr); ok {
				if value, ok := new(big.Int).SetString(literal.Value, 0); ok {
					values = append(values, IntegerValue{Value: value})
					continue
				}
			}
			values = append(values, SymbolicValue{Expr: argument.Value})
		}
	}
	return values
}

// resolveComponent resolves one component against its parent.
func (c *Checker) resolveComponent(
	component *ast.NameExpr,
	parent Type,
	useScope ast.ScopeID,
	flags resolutionFlags,
) CandidateSet {
	var set CandidateSet

	name := component.Identifier.Identifier
	arguments := c.evaluateStaticArguments(component.Arguments, useScope)

	// intrinsic aliases and the built-in module, without AST lookup
	if parent == nil {
		if candidate, ok := c.resolveIntrinsic(component, name, arguments, useScope); ok {
			set.add(candidate)
			return set
		}
	}
	if builtinModule, ok := parent.(*BuiltinType); ok && builtinModule.Kind == BuiltinKindModule {
		if t, ok := BuiltinTypeNamed(name); ok {
			set.add(Candidate{
				Reference: DeclReference{Kind: DeclReferenceBuiltinType, BuiltinName: name},
				Type:      &MetatypeType{Instance: t},
			})
			return set
		}
		if t, ok := BuiltinFunctionNamed(name); ok {
			set.add(Candidate{
				Reference: DeclReference{Kind: DeclReferenceBuiltinFunction, BuiltinName: name},
				Type:      t,
			})
			return set
		}
		return set
	}

	// The callee sugar of resolution (a metatype callee resolves to
	// `init`, a subscript callee on a non-metatype to `[]`) is applied
	// when candidates are turned into call choices; see callChoices.
	referenceKind := DeclReferenceDirect
	lookupName := name
	lookupParent := parent
	if parent != nil {
		referenceKind = DeclReferenceMember
	}
	if flags.usedAsSubscriptCallee && parent != nil {
		if _, isMetatype := parent.(*MetatypeType); !isMetatype {
			lookupName = SubscriptIdentifier
		}
	}

	if lookupParent == nil {
		for _, match := range c.lookupUnqualified(lookupName, useScope) {
			set.add(c.buildCandidate(match, referenceKind, parent, arguments, useScope, flags))
		}
		return set
	}

	return c.resolveMemberCandidates(lookupName, lookupParent, referenceKind, arguments, useScope, flags)
}

// resolveMemberCandidates resolves a member by name against a parent
// type, without a name expression node.
func (c *Checker) resolveMemberCandidates(
	name string,
	parent Type,
	referenceKind DeclReferenceKind,
	arguments []CompileTimeValue,
	useScope ast.ScopeID,
	flags resolutionFlags,
) CandidateSet {
	var set CandidateSet
	for _, match := range c.lookupMember(parent, name, useScope) {
		set.add(c.buildCandidate(match, referenceKind, parent, arguments, useScope, flags))
	}
	return set
}

// resolveIntrinsic handles `Any`, `Never`, `Self`, `Sum<...>`,
// `Metatype<...>`, and the `Builtin` module.
func (c *Checker) resolveIntrinsic(
	component *ast.NameExpr,
	name string,
	arguments []CompileTimeValue,
	useScope ast.ScopeID,
) (Candidate, bool) {
	compilerKnown := func(instance Type) Candidate {
		return Candidate{
			Reference: DeclReference{Kind: DeclReferenceCompilerKnown},
			Type:      &MetatypeType{Instance: instance},
		}
	}

	switch name {
	case "Any":
		return compilerKnown(TheAnyType), true

	case "Never":
		return compilerKnown(TheNeverType), true

	case SelfTypeIdentifier:
		if self, ok := c.selfTypeIn(useScope); ok {
			return compilerKnown(self), true
		}
		return Candidate{}, false

	case "Sum":
		var elements []Type
		diagnostics := []Diagnostic(nil)
		for _, argument := range arguments {
			if typeValue, ok := argument.(TypeValue); ok {
				elements = append(elements, typeValue.Type)
			} else {
				diagnostics = append(diagnostics, &ValueInSumTypePositionError{
					Range: ast.NewRangeFromPositioned(component),
				})
			}
		}
		if len(diagnostics) == 0 && len(elements) < 2 {
			diagnostics = append(diagnostics, &InvalidSumArityError{
				Count: len(elements),
				Range: ast.NewRangeFromPositioned(component),
			})
		}
		for _, diagnostic := range diagnostics {
			c.report(diagnostic)
		}
		candidate := compilerKnown(&SumType{Elements: elements})
		candidate.Diagnostics = diagnostics
		return candidate, true

	case "Metatype":
		if len(arguments) == 1 {
			if typeValue, ok := arguments[0].(TypeValue); ok {
				return compilerKnown(&MetatypeType{Instance: typeValue.Type}), true
			}
		}
		return Candidate{}, false

	case "Builtin":
		if c.Config.BuiltinModuleVisible {
			return Candidate{
				Reference: DeclReference{Kind: DeclReferenceBuiltinModule},
				Type:      TheBuiltinModuleType,
			}, true
		}
	}

	return Candidate{}, false
}

// selfTypeIn returns the type `Self` denotes in the given scope.
func (c *Checker) selfTypeIn(useScope ast.ScopeID) (Type, bool) {
	for scope := useScope; scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		switch introducer := c.Scopes.Introducer(scope).(type) {
		case *ast.ProductTypeDecl:
			return &ProductType{Decl: introducer}, true
		case *ast.TraitDecl:
			if introducer.SelfParameter != nil {
				return &GenericParameterType{Decl: introducer.SelfParameter}, true
			}
		}
	}
	return nil, false
}

func typeAsMetatype(t Type) (*MetatypeType, bool) {
	metatype, ok := t.(*MetatypeType)
	return metatype, ok
}

// buildCandidate realizes a match's type, strips parameter conventions,
// replaces property subscripts by their output, associates generic
// arguments, specializes, and instantiates.
func (c *Checker) buildCandidate(
	match ast.Declaration,
	referenceKind DeclReferenceKind,
	parent Type,
	arguments []CompileTimeValue,
	useScope ast.ScopeID,
	flags resolutionFlags,
) Candidate {
	t := c.realize(match)

	var diagnostics []Diagnostic
	if t.Flags().HasError() {
		diagnostics = append(diagnostics, &NoViableCandidateError{
			Name:  declarationName(match),
			Range: ast.NewRangeFromPositioned(match),
		})
	}

	// strip the parameter convention of parameter references
	if parameterType, ok := t.(*ParameterType); ok {
		t = parameterType.Bare
	}

	// a property subscript resolves to its output
	if subscriptType, ok := t.(*SubscriptType); ok && subscriptType.IsProperty {
		t = subscriptType.Output
	}

	// associate generic arguments
	reference := DeclReference{Kind: referenceKind, Decl: match}
	parameters := declarationGenericParameters(match)
	if len(parameters) > 0 {
		bound := &GenericArguments{}
		specializations := Specializations{}

		// explicit arguments first
		for i, parameter := range parameters {
			if i < len(arguments) {
				bound.Set(parameter, arguments[i])
				specializations[parameter] = arguments[i]
			}
		}

		// then the parent's bound-generic arguments
		if parentBound, ok := boundArgumentsOf(parent); ok {
			parentBound.Foreach(func(parameter *ast.GenericParameterDecl, value CompileTimeValue) {
				if !bound.Contains(parameter) {
					bound.Set(parameter, value)
					specializations[parameter] = value
				}
			})
		}

		// open the rest as fresh variables
		if flags.keepImplicitArguments {
			for _, parameter := range parameters {
				if !bound.Contains(parameter) {
					variable := c.freshVariable(variableContextOverload)
					value := TypeValue{Type: variable}
					bound.Set(parameter, value)
					specializations[parameter] = value
				}
			}
		}

		t = Specialize(t, specializations)
		reference.Arguments = bound

		// a parameterized type name denotes the bound generic
		if metatype, ok := t.(*MetatypeType); ok && bound.Len() > 0 {
			switch metatype.Instance.(type) {
			case *ProductType, *TraitType, *TypeAliasType:
				t = &MetatypeType{
					Instance: &BoundGenericType{
						Base:      metatype.Instance,
						Arguments: bound,
					},
				}
			}
		}
	} else if parentBound, ok := boundArgumentsOf(parent); ok {
		// members of a bound generic see the parent's arguments
		specializations := Specializations{}
		parentBound.Foreach(func(parameter *ast.GenericParameterDecl, value CompileTimeValue) {
			specializations[parameter] = value
		})
		t = Specialize(t, specializations)
	}

	if flags.instantiateTypes {
		t = c.instantiate(t, useScope)
	}

	return Candidate{
		Reference:   reference,
		Type:        t,
		Diagnostics: diagnostics,
	}
}

// instantiate prepares a type for unification at a use site: generic
// parameters introduced in scopes enclosing the use site are fixed as
// skolems; all others are opened as fresh variables.
func (c *Checker) instantiate(t Type, useScope ast.ScopeID) Type {
	opened := map[*ast.GenericParameterDecl]Type{}

	return TransformType(t, func(t Type) (Type, bool) {
		parameter, ok := t.(*GenericParameterType)
		if !ok {
			return nil, false
		}

		introducing := c.Scopes.ContainingScope(parameter.Decl.ID())
		if c.Scopes.Contains(introducing, useScope) {
			return &SkolemType{Base: parameter}, true
		}

		if existing, ok := opened[parameter.Decl]; ok {
			return existing, true
		}
		variable := c.freshVariable(variableContextOverload)
		opened[parameter.Decl] = variable
		return variable, true
	})
}

func boundArgumentsOf(parent Type) (*GenericArguments, bool) {
	switch parent := parent.(type) {
	case *BoundGenericType:
		return parent.Arguments, true
	case *MetatypeType:
		return boundArgumentsOf(parent.Instance)
	}
	return nil, false
}

func declarationGenericParameters(decl ast.Declaration) []*ast.GenericParameterDecl {
	switch decl := decl.(type) {
	case *ast.ProductTypeDecl:
		if decl.GenericClause != nil {
			return decl.GenericClause.Parameters
		}
	case *ast.TypeAliasDecl:
		if decl.GenericClause != nil {
			return decl.GenericClause.Parameters
		}
	case *ast.FunctionDecl:
		if decl.GenericClause != nil {
			return decl.GenericClause.Parameters
		}
	case *ast.InitializerDecl:
		if decl.GenericClause != nil {
			return decl.GenericClause.Parameters
		}
	case *ast.MethodBundleDecl:
		if decl.GenericClause != nil {
			return decl.GenericClause.Parameters
		}
	case *ast.SubscriptDecl:
		if decl.GenericClause != nil {
			return decl.GenericClause.Parameters
		}
	}
	return nil
}

func declarationName(decl ast.Declaration) string {
	if identifier := decl.DeclarationIdentifier(); identifier != nil {
		return identifier.Identifier
	}
	return decl.DeclarationKind().Name()
}

// lookupUnqualified walks the scope chain from innermost outward. A
// non-overloadable match short-circuits; overloadable matches
// accumulate across scopes. Imported modules are consulted last, and
// only within the containing translation unit.
func (c *Checker) lookupUnqualified(name string, useScope ast.ScopeID) []ast.Declaration {
	key := lookupTableKey{name: name, scope: useScope}
	if cached, ok := c.lookupTables[key]; ok {
		return cached
	}

	var matches []ast.Declaration

	for scope := useScope; scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		for _, decl := range c.declarationsVisibleIn(scope) {
			if declarationName(decl) != name {
				continue
			}
			// operator declarations live in the operator namespace
			if _, isOperator := decl.(*ast.OperatorDecl); isOperator {
				continue
			}
			if !decl.DeclarationKind().IsOverloadable() {
				if len(matches) == 0 {
					matches = append(matches, decl)
					c.lookupTables[key] = matches
					return matches
				}
				continue
			}
			matches = append(matches, decl)
		}
	}

	// imported modules, last
	if unit := c.Scopes.TranslationUnitOf(c.scopeNode(useScope)); unit != nil {
		for _, module := range c.Elaboration.Imports(unit.ID()) {
			if module.Identifier.Identifier == name {
				matches = append(matches, module)
			}
			matches = append(matches, c.moduleTopLevel(module, name, len(matches) > 0)...)
		}
	}

	// the core library needs no import
	if core := c.Config.CoreLibrary; core != nil {
		matches = append(matches, c.moduleTopLevel(core, name, len(matches) > 0)...)
	}

	c.lookupTables[key] = matches
	return matches
}

// declarationsVisibleIn returns the declarations listed in a scope,
// including the parameters and generic parameters of its introducer.
func (c *Checker) declarationsVisibleIn(scope ast.ScopeID) []ast.Declaration {
	return c.Scopes.DeclarationsIn(scope)
}

func (c *Checker) moduleTopLevel(
	module *ast.ModuleDecl,
	name string,
	haveOverloads bool,
) []ast.Declaration {
	var matches []ast.Declaration
	for _, unit := range module.Sources {
		for _, decl := range unit.Decls {
			if declarationName(decl) != name {
				continue
			}
			if !decl.DeclarationKind().IsOverloadable() && haveOverloads {
				continue
			}
			matches = append(matches, decl)
		}
	}
	return matches
}

// scopeNode returns the id of the node introducing the given scope.
func (c *Checker) scopeNode(scope ast.ScopeID) ast.NodeID {
	introducer := c.Scopes.Introducer(scope)
	if introducer == nil {
		return ast.NodeIDInvalid
	}
	return introducer.ID()
}

// lookupMember consults, in order: declarations directly in the type's
// scope, extensions visible in the use scope, and inherited conformance
// requirements. Results are memoized per (type, scope).
func (c *Checker) lookupMember(t Type, name string, useScope ast.ScopeID) []ast.Declaration {
	if metatype, ok := t.(*MetatypeType); ok {
		t = metatype.Instance
	}
	if bound, ok := t.(*BoundGenericType); ok {
		t = bound.Base
	}

	canonical := c.Relations.Canonical(t)
	key := memberTableKey{typeKey: TypeKey(canonical), scope: useScope}
	table, ok := c.memberTables[key]
	if !ok {
		table = c.buildMemberTable(canonical, useScope)
		c.memberTables[key] = table
	}
	return table[name]
}

func (c *Checker) buildMemberTable(
	t Type,
	useScope ast.ScopeID,
) map[string][]ast.Declaration {
	table := map[string][]ast.Declaration{}

	// declarations directly in the type's scope
	switch t := t.(type) {
	case *ProductType:
		for _, member := range t.Decl.Members {
			c.addMemberDecl(table, member)
		}
	case *TraitType:
		for _, member := range t.Decl.Members {
			c.addMemberDecl(table, member)
		}
	case *GenericParameterType:
		// members come from the parameter's trait bounds
		for _, trait := range c.traitBoundsOf(t.Decl) {
			for _, member := range trait.Decl.Members {
				c.addMemberDecl(table, member)
			}
		}
	case *ModuleType:
		for _, unit := range t.Decl.Sources {
			for _, decl := range unit.Decls {
				c.addMemberDecl(table, decl)
			}
		}
	case *NamespaceType:
		for _, member := range t.Decl.Members {
			c.addMemberDecl(table, member)
		}
	}

	// extensions visible in the use scope
	for _, extension := range c.visibleExtensions(t, useScope) {
		if _, onStack := c.extensionsOnStack[extension.ID()]; onStack {
			continue
		}
		c.extensionsOnStack[extension.ID()] = struct{}{}
		for _, member := range extensionMembers(extension) {
			c.addMemberDecl(table, member)
		}
		delete(c.extensionsOnStack, extension.ID())
	}

	// inherited conformance requirements
	for _, trait := range c.Relations.ConformedTraits(t, useScope, c.Scopes) {
		for _, member := range trait.Decl.Members {
			c.addMemberDecl(table, member)
		}
	}

	return table
}

func (c *Checker) addMemberDecl(table map[string][]ast.Declaration, decl ast.Declaration) {
	switch decl := decl.(type) {
	case *ast.BindingDecl:
		for _, name := range ast.Names(decl.Pattern) {
			table[name.Identifier.Identifier] = append(
				table[name.Identifier.Identifier],
				name,
			)
		}
		return

	case *ast.InitializerDecl:
		table[InitializerIdentifier] = append(table[InitializerIdentifier], decl)
		return

	case *ast.SubscriptDecl:
		if decl.Identifier.Identifier == "" {
			table[SubscriptIdentifier] = append(table[SubscriptIdentifier], decl)
		} else {
			table[decl.Identifier.Identifier] = append(
				table[decl.Identifier.Identifier],
				decl,
			)
		}
		return

	case *ast.OperatorDecl:
		return
	}

	name := declarationName(decl)
	if name == "" {
		return
	}
	table[name] = append(table[name], decl)
}

// traitBoundsOf returns the traits a generic parameter is constrained
// to conform to, per its annotations.
func (c *Checker) traitBoundsOf(parameter *ast.GenericParameterDecl) []*TraitType {
	var bounds []*TraitType
	scope := c.Scopes.ContainingScope(parameter.ID())
	for _, annotation := range parameter.Annotations {
		realized := c.realizeTypeExpr(annotation, scope)
		if trait, ok := realized.(*TraitType); ok {
			bounds = append(bounds, trait)
			bounds = append(bounds, c.Relations.RefinementClosure(trait.Decl)...)
		}
	}
	return bounds
}

// visibleExtensions returns the extension and conformance declarations
// whose subject is the given type, visible from the use scope.
func (c *Checker) visibleExtensions(t Type, useScope ast.ScopeID) []ast.Declaration {
	var result []ast.Declaration

	consider := func(decl ast.Declaration, subjectExpr ast.TypeExpr) {
		if _, onStack := c.extensionsOnStack[decl.ID()]; onStack {
			return
		}
		c.extensionsOnStack[decl.ID()] = struct{}{}
		subject := c.realizeTypeExpr(subjectExpr, c.Scopes.ContainingScope(decl.ID()))
		delete(c.extensionsOnStack, decl.ID())

		if subject.Flags().HasError() {
			return
		}
		if c.Relations.AreEquivalent(subject, t) {
			result = append(result, decl)
		}
	}

	forEachModule := func(module *ast.ModuleDecl) {
		for _, unit := range module.Sources {
			for _, decl := range unit.Decls {
				switch decl := decl.(type) {
				case *ast.ExtensionDecl:
					consider(decl, decl.Subject)
				case *ast.ConformanceDecl:
					consider(decl, decl.Subject)
				}
			}
		}
	}

	if module := c.Scopes.ModuleOf(c.scopeNode(useScope)); module != nil {
		forEachModule(module)
		if unit := c.Scopes.TranslationUnitOf(c.scopeNode(useScope)); unit != nil {
			for _, imported := range c.Elaboration.Imports(unit.ID()) {
				forEachModule(imported)
			}
		}
	}
	if core := c.Config.CoreLibrary; core != nil {
		forEachModule(core)
	}

	return result
}

func extensionMembers(decl ast.Declaration) []ast.Declaration {
	switch decl := decl.(type) {
	case *ast.ExtensionDecl:
		return decl.Members
	case *ast.ConformanceDecl:
		return decl.Members
	}
	return nil
}

// visibleNames collects the names visible at a use site, for
// did-you-mean suggestions.
func (c *Checker) visibleNames(parent Type, useScope ast.ScopeID) []string {
	seen := map[string]struct{}{}
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if parent != nil {
		canonical := c.Relations.Canonical(parent)
		if metatype, ok := canonical.(*MetatypeType); ok {
			canonical = metatype.Instance
		}
		table := c.buildMemberTable(canonical, useScope)
		for name := range table { //nolint:maprange
			add(name)
		}
		return names
	}

	for scope := useScope; scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		for _, decl := range c.Scopes.DeclarationsIn(scope) {
			add(declarationName(decl))
		}
	}
	return names
}
