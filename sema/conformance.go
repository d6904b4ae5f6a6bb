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
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/hylo-lang/val/ast"
	"github.com/hylo-lang/val/common/orderedmap"
)

// conformsTo decides whether a model conforms to a trait in the given
// scope, consulting the relations store, generic parameter bounds, and,
// on a miss, extension discovery.
func (c *Checker) conformsTo(model Type, trait *TraitType, useScope ast.ScopeID) bool {
	model = c.Relations.Canonical(model)

	if model.Flags().HasError() {
		return true
	}

	switch model := model.(type) {
	case *SkolemType:
		return c.conformsTo(model.Base, trait, useScope)

	case *GenericParameterType:
		for _, bound := range c.traitBoundsOf(model.Decl) {
			if bound.Equal(trait) {
				return true
			}
		}
		// the Self parameter of a trait conforms to the trait itself
		// and everything it refines
		scope := c.Scopes.ContainingScope(model.Decl.ID())
		if owner, ok := c.Scopes.Introducer(scope).(*ast.TraitDecl); ok {
			if owner == trait.Decl {
				return true
			}
			for _, refined := range c.Relations.RefinementClosure(owner) {
				if refined.Equal(trait) {
					return true
				}
			}
		}
		return false

	case *ExistentialType:
		for _, element := range model.Traits {
			elementTrait, ok := element.(*TraitType)
			if !ok {
				continue
			}
			if elementTrait.Equal(trait) {
				return true
			}
			for _, refined := range c.Relations.RefinementClosure(elementTrait.Decl) {
				if refined.Equal(trait) {
					return true
				}
			}
		}
		return false
	}

	for _, conformed := range c.Relations.ConformedTraits(model, useScope, c.Scopes) {
		if conformed.Equal(trait) {
			return true
		}
	}

	// extension discovery: conformance sources may not be checked yet
	if c.discoverConformanceSources(model) {
		for _, conformed := range c.Relations.ConformedTraits(model, useScope, c.Scopes) {
			if conformed.Equal(trait) {
				return true
			}
		}
	}

	return false
}

// discoverConformanceSources prepares the declarations which may
// register conformances of the given model. It returns true if any
// source was newly prepared.
func (c *Checker) discoverConformanceSources(model Type) bool {
	progressed := false

	prepareIfPending := func(decl ast.Declaration) {
		switch c.Elaboration.DeclRequest(decl.ID()) {
		case DeclRequestUnseen, DeclRequestRealized:
			c.check(decl)
			progressed = true
		}
	}

	forEachModule := func(module *ast.ModuleDecl) {
		for _, unit := range module.Sources {
			for _, decl := range unit.Decls {
				switch decl := decl.(type) {
				case *ast.ProductTypeDecl:
					if len(decl.Conformances) > 0 &&
						c.Relations.AreEquivalent(&ProductType{Decl: decl}, model) {

						prepareIfPending(decl)
					}
				case *ast.ConformanceDecl:
					if _, onStack := c.extensionsOnStack[decl.ID()]; onStack {
						continue
					}
					c.extensionsOnStack[decl.ID()] = struct{}{}
					useScope := c.Scopes.ContainingScope(decl.ID())
					subject := c.realizeTypeExpr(decl.Subject, useScope)
					delete(c.extensionsOnStack, decl.ID())
					if !subject.Flags().HasError() &&
						c.Relations.AreEquivalent(subject, model) {

						prepareIfPending(decl)
					}
				}
			}
		}
	}

	for _, module := range c.Program.Modules {
		forEachModule(module)
	}
	if core := c.Config.CoreLibrary; core != nil {
		forEachModule(core)
	}

	return progressed
}

// requirement is one classified member of a trait.
type requirement struct {
	decl ast.Declaration
	// variant is set for method variant requirements.
	variant *ast.MethodVariantDecl
	// hasDefault marks requirements which need no implementation.
	hasDefault bool
}

// checkDeclaredConformances checks and registers the conformances a
// declaration claims for its model.
func (c *Checker) checkDeclaredConformances(
	source ast.Declaration,
	model Type,
	conformances []*ast.NameTypeExpr,
) {
	useScope := c.Scopes.ContainingScope(source.ID())

	for _, traitExpr := range conformances {
		realized := c.realizeTypeExpr(traitExpr, useScope)
		if realized.Flags().HasError() {
			continue
		}

		trait, ok := realized.(*TraitType)
		if !ok {
			if bound, isBound := realized.(*BoundGenericType); isBound {
				trait, ok = bound.Base.(*TraitType)
			}
			if !ok {
				c.report(&NotATraitError{
					Type:  realized,
					Range: ast.NewRangeFromPositioned(traitExpr),
				})
				continue
			}
		}

		c.checkConformance(source, model, trait, ast.NewRangeFromPositioned(traitExpr))

		// refined traits are conformed to transitively
		for _, refined := range c.Relations.RefinementClosure(trait.Decl) {
			c.checkConformance(source, model, refined, ast.NewRangeFromPositioned(traitExpr))
		}
	}
}

// checkConformance matches each trait requirement against the model's
// candidates, synthesizing implementations where allowed, and registers
// the conformance on success.
func (c *Checker) checkConformance(
	source ast.Declaration,
	model Type,
	trait *TraitType,
	site ast.Range,
) {
	c.check(trait.Decl)

	requirements := c.traitRequirements(trait)
	implementations := &orderedmap.OrderedMap[ast.NodeID, Implementation]{}
	satisfied := bitset.New(uint(len(requirements)))
	var notes []Note

	specializations := Specializations{}
	if trait.Decl.SelfParameter != nil {
		specializations[trait.Decl.SelfParameter] = TypeValue{Type: model}
	}

	useScope := c.Scopes.ContainingScope(source.ID())
	builtinKind := c.classifyBuiltinTrait(trait)

	for index, req := range requirements {
		if req.hasDefault {
			satisfied.Set(uint(index))
			continue
		}

		implementation, note := c.satisfyRequirement(
			model,
			req,
			specializations,
			useScope,
			builtinKind,
		)
		if implementation != nil {
			requirementID := req.decl.ID()
			if req.variant != nil {
				requirementID = req.variant.ID()
			}
			implementations.Set(requirementID, *implementation)
			satisfied.Set(uint(index))

			if implementation.IsSynthesized {
				c.recordSynthesis(source, model, implementation.Synthesized)
			}
		} else {
			notes = append(notes, note)
		}
	}

	if satisfied.Count() != uint(len(requirements)) {
		c.report(&DoesNotConformError{
			Model: model,
			Trait: trait,
			Notes: notes,
			Range: site,
		})
		return
	}

	// Movable synthesis also hooks up destruction of the moved-from
	// value
	if builtinKind == builtinTraitMovable && anySynthesized(implementations) {
		c.recordSynthesis(source, model, SynthesizedDeinitialize)
	}

	conformance := &Conformance{
		Model:           model,
		Trait:           trait,
		Source:          source,
		Scope:           c.expositionScope(source),
		Implementations: implementations,
		Site:            site,
	}

	if existing, ok := c.Relations.Register(conformance); !ok {
		c.report(&RedundantConformanceError{
			Model:        model,
			Trait:        trait,
			PreviousSite: existing.Site,
			Range:        site,
		})
		return
	}

	// member tables may have been built before this conformance and
	// would miss its inherited requirements
	c.memberTables = map[memberTableKey]map[string][]ast.Declaration{}
}

func anySynthesized(implementations *orderedmap.OrderedMap[ast.NodeID, Implementation]) bool {
	synthesized := false
	implementations.Foreach(func(_ ast.NodeID, implementation Implementation) {
		if implementation.IsSynthesized {
			synthesized = true
		}
	})
	return synthesized
}

// expositionScope returns the scope in which a conformance is visible.
// File-level conformances are promoted to module-wide visibility.
func (c *Checker) expositionScope(source ast.Declaration) ast.ScopeID {
	scope := c.Scopes.ContainingScope(source.ID())
	if _, isUnit := c.Scopes.Introducer(scope).(*ast.TranslationUnit); isUnit {
		if module := c.Scopes.ModuleOf(source.ID()); module != nil {
			if moduleScope, ok := c.Scopes.ScopeIntroducedBy(module.ID()); ok {
				return moduleScope
			}
		}
	}
	return scope
}

func (c *Checker) recordSynthesis(
	source ast.Declaration,
	model Type,
	kind SynthesizedKind,
) {
	module := c.Scopes.ModuleOf(source.ID())
	if module == nil {
		return
	}
	c.Elaboration.AddSynthesizedDecl(module, SynthesizedDecl{
		Kind:    kind,
		ForType: model,
		Scope:   c.Scopes.ContainingScope(source.ID()),
	})
}

// traitRequirements classifies the members of a trait.
func (c *Checker) traitRequirements(trait *TraitType) []requirement {
	var requirements []requirement

	for _, member := range trait.Decl.Members {
		switch member := member.(type) {
		case *ast.FunctionDecl:
			requirements = append(requirements, requirement{
				decl:       member,
				hasDefault: member.Body != nil,
			})

		case *ast.InitializerDecl:
			requirements = append(requirements, requirement{
				decl:       member,
				hasDefault: member.Body != nil,
			})

		case *ast.MethodBundleDecl:
			for _, variant := range member.Variants {
				requirements = append(requirements, requirement{
					decl:       member,
					variant:    variant,
					hasDefault: variant.Body != nil,
				})
			}

		case *ast.SubscriptDecl:
			requirements = append(requirements, requirement{
				decl: member,
				hasDefault: len(member.Variants) > 0 &&
					member.Variants[0].Body != nil,
			})

		case *ast.AssociatedTypeDecl:
			requirements = append(requirements, requirement{
				decl:       member,
				hasDefault: member.Default != nil,
			})

		case *ast.AssociatedValueDecl:
			requirements = append(requirements, requirement{
				decl:       member,
				hasDefault: member.Default != nil,
			})

		case *ast.BindingDecl:
			requirements = append(requirements, requirement{
				decl:       member,
				hasDefault: member.Initializer != nil,
			})
		}
	}

	return requirements
}

// satisfyRequirement finds a candidate implementing one requirement, or
// synthesizes one for the built-in traits. On failure it returns a note
// describing the unsatisfied requirement.
func (c *Checker) satisfyRequirement(
	model Type,
	req requirement,
	specializations Specializations,
	useScope ast.ScopeID,
	builtinKind builtinTraitKind,
) (*Implementation, Note) {
	name := declarationName(req.decl)
	requiredType := c.Relations.Canonical(
		Specialize(c.realize(req.decl), specializations),
	)

	note := Note{
		Message: fmt.Sprintf(
			"requirement `%s` of type `%s` is not implemented",
			name,
			requiredType,
		),
		Range: ast.NewRangeFromPositioned(req.decl),
	}

	// match candidates by canonical equality of specialized types
	var matches []ast.Declaration
	for _, candidate := range c.lookupMember(model, name, useScope) {
		if candidate == req.decl {
			continue
		}
		candidateType := c.Relations.Canonical(c.realize(candidate))

		if req.variant != nil {
			// a bundle requirement matches one candidate per variant,
			// by effect
			bundle, ok := candidateType.(*MethodBundleType)
			if !ok || !bundle.Variants.Contains(req.variant.Effect) {
				continue
			}
			requiredBundle, ok := requiredType.(*MethodBundleType)
			if !ok {
				continue
			}
			specializedCandidate := c.Relations.Canonical(
				Specialize(candidateType, specializations),
			)
			if bundleVariantMatches(specializedCandidate, requiredBundle, req.variant.Effect) {
				matches = append(matches, candidate)
			}
			continue
		}

		switch req.decl.(type) {
		case *ast.AssociatedTypeDecl, *ast.AssociatedValueDecl:
			// a same-named member satisfies the association
			matches = append(matches, candidate)

		default:
			if c.Relations.AreEquivalent(candidateType, requiredType) {
				matches = append(matches, candidate)
			}
		}
	}

	if len(matches) > 1 {
		// deterministic tie-breaker: prefer a candidate declared in a
		// scope closer to the use site
		matches = c.closestCandidates(matches, useScope)
	}

	switch len(matches) {
	case 1:
		return &Implementation{Decl: matches[0]}, Note{}

	case 0:
		if kind, ok := synthesizedKindFor(builtinKind, req); ok {
			return &Implementation{
				Synthesized:   kind,
				IsSynthesized: true,
			}, Note{}
		}
		return nil, note

	default:
		return nil, Note{
			Message: fmt.Sprintf(
				"multiple candidates implement requirement `%s`",
				name,
			),
			Range: ast.NewRangeFromPositioned(req.decl),
		}
	}
}

// closestCandidates keeps the candidates declared in the scope closest
// to the use site.
func (c *Checker) closestCandidates(
	candidates []ast.Declaration,
	useScope ast.ScopeID,
) []ast.Declaration {
	bestDistance := -1
	var best []ast.Declaration

	for _, candidate := range candidates {
		distance := c.scopeDistance(candidate, useScope)
		switch {
		case bestDistance == -1 || distance < bestDistance:
			bestDistance = distance
			best = []ast.Declaration{candidate}
		case distance == bestDistance:
			best = append(best, candidate)
		}
	}

	return best
}

// scopeDistance counts the scopes between the use site and the
// innermost scope containing both the use site and the candidate.
func (c *Checker) scopeDistance(candidate ast.Declaration, useScope ast.ScopeID) int {
	candidateScope := c.Scopes.ContainingScope(candidate.ID())

	distance := 0
	for scope := useScope; scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		if c.Scopes.Contains(scope, candidateScope) {
			return distance
		}
		distance++
	}
	return distance
}

// bundleVariantMatches checks a candidate bundle against a required
// bundle for one variant effect.
func bundleVariantMatches(candidate Type, required *MethodBundleType, effect ast.AccessEffect) bool {
	bundle, ok := candidate.(*MethodBundleType)
	if !ok {
		return false
	}
	candidateVariant, ok := bundle.VariantType(effect)
	if !ok {
		return false
	}
	requiredVariant, ok := required.VariantType(effect)
	if !ok {
		return false
	}
	return candidateVariant.Equal(requiredVariant)
}

// synthesizedKindFor determines which implementation the checker may
// synthesize for a requirement of a built-in trait. For Movable, the
// variant effect selects move initialization (`set`) or move
// assignment (`inout`).
func synthesizedKindFor(kind builtinTraitKind, req requirement) (SynthesizedKind, bool) {
	switch kind {
	case builtinTraitMovable:
		if req.variant == nil {
			return SynthesizedMoveInitialization, true
		}
		switch req.variant.Effect {
		case ast.AccessEffectSet:
			return SynthesizedMoveInitialization, true
		case ast.AccessEffectInout:
			return SynthesizedMoveAssignment, true
		}
		return SynthesizedMoveInitialization, true

	case builtinTraitCopyable:
		return SynthesizedCopy, true

	case builtinTraitDestructible:
		return SynthesizedDeinitialize, true
	}

	return 0, false
}
