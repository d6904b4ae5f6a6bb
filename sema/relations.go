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
	"sync"

	"github.com/hylo-lang/val/ast"
	"github.com/hylo-lang/val/common/orderedmap"
)

// SynthesizedKind identifies an implementation the checker synthesizes
// for a built-in trait requirement.
type SynthesizedKind int

const (
	SynthesizedMoveInitialization SynthesizedKind = iota
	SynthesizedMoveAssignment
	SynthesizedCopy
	SynthesizedDeinitialize
)

func (k SynthesizedKind) Name() string {
	switch k {
	case SynthesizedMoveInitialization:
		return "move initialization"
	case SynthesizedMoveAssignment:
		return "move assignment"
	case SynthesizedCopy:
		return "copy"
	case SynthesizedDeinitialize:
		return "deinitialization"
	}
	return "unknown"
}

// Implementation is the satisfaction of one conformance requirement:
// either a concrete declaration, or a synthesized implementation.
type Implementation struct {
	Decl          ast.Declaration
	Synthesized   SynthesizedKind
	IsSynthesized bool
}

// Conformance is registered evidence that a model satisfies a trait.
type Conformance struct {
	// Model is the conforming type.
	Model Type
	// Trait is the trait conformed to.
	Trait *TraitType
	// Arguments are the generic arguments of the trait, if it is generic.
	Arguments *GenericArguments
	// Conditions are the constraints under which the conformance holds.
	Conditions []GenericConstraint
	// Source is the declaration which establishes the conformance.
	Source ast.Declaration
	// Scope is the exposition scope in which the conformance is visible.
	Scope ast.ScopeID
	// Implementations maps each requirement to its implementation.
	Implementations *orderedmap.OrderedMap[ast.NodeID, Implementation]
	// Site is the source range of the conformance declaration.
	Site ast.Range
}

// TypeKey returns a stable key identifying a type up to canonical
// equivalence. Callers must pass a canonical type.
func TypeKey(t Type) string {
	return t.String()
}

// Relations is the store of type relations: canonicalization,
// equivalence, registered conformances, and the trait refinement closure.
type Relations struct {
	// cacheMu guards canonicalCache, which is also written by
	// read-only queries issued through SharedRelations.
	cacheMu        sync.Mutex
	canonicalCache map[Type]Type
	// conformances is keyed by the canonical model key.
	conformances map[string][]*Conformance
	// refinements maps a trait declaration to the traits it directly refines.
	refinements map[*ast.TraitDecl][]*TraitType
	// refinementClosure memoizes the transitive refinement closure.
	refinementClosure map[*ast.TraitDecl][]*TraitType
}

func NewRelations() *Relations {
	return &Relations{
		canonicalCache:    map[Type]Type{},
		conformances:      map[string][]*Conformance{},
		refinements:       map[*ast.TraitDecl][]*TraitType{},
		refinementClosure: map[*ast.TraitDecl][]*TraitType{},
	}
}

// Canonical returns the canonical form of the given type: aliases
// expanded, sum elements deduplicated, bound-generic arguments in
// parameter declaration order. Canonicalization is idempotent.
func (r *Relations) Canonical(t Type) Type {
	if t == nil {
		return nil
	}
	if t.Flags().IsCanonical() {
		return t
	}
	r.cacheMu.Lock()
	cached, ok := r.canonicalCache[t]
	r.cacheMu.Unlock()
	if ok {
		return cached
	}

	canonical := TransformType(t, func(t Type) (Type, bool) {
		switch t := t.(type) {
		case *TypeAliasType:
			return r.Canonical(t.Aliased), true

		case *SumType:
			var elements []Type
			for _, element := range t.Elements {
				element = r.Canonical(element)
				duplicate := false
				for _, existing := range elements {
					if existing.Equal(element) {
						duplicate = true
						break
					}
				}
				if !duplicate {
					elements = append(elements, element)
				}
			}
			if len(elements) == 1 {
				return elements[0], true
			}
			return &SumType{Elements: elements}, true

		case *BoundGenericType:
			base := r.Canonical(t.Base)
			arguments := &GenericArguments{}
			// normalize to the declaration order of the base's parameters
			for _, parameter := range genericParametersOf(base) {
				if value, ok := t.Arguments.Get(parameter); ok {
					if typeValue, isType := value.(TypeValue); isType {
						value = TypeValue{Type: r.Canonical(typeValue.Type)}
					}
					arguments.Set(parameter, value)
				}
			}
			// keep arguments whose parameter is foreign to the base,
			// in insertion order, so no information is dropped
			t.Arguments.Foreach(func(parameter *ast.GenericParameterDecl, value CompileTimeValue) {
				if !arguments.Contains(parameter) {
					if typeValue, isType := value.(TypeValue); isType {
						value = TypeValue{Type: r.Canonical(typeValue.Type)}
					}
					arguments.Set(parameter, value)
				}
			})
			return &BoundGenericType{Base: base, Arguments: arguments}, true
		}
		return nil, false
	})

	r.cacheMu.Lock()
	r.canonicalCache[t] = canonical
	r.cacheMu.Unlock()
	return canonical
}

// genericParametersOf returns the declared generic parameters of a
// nominal type, in declaration order.
func genericParametersOf(t Type) []*ast.GenericParameterDecl {
	switch t := t.(type) {
	case *ProductType:
		if t.Decl.GenericClause != nil {
			return t.Decl.GenericClause.Parameters
		}
	case *TypeAliasType:
		if t.Decl.GenericClause != nil {
			return t.Decl.GenericClause.Parameters
		}
	case *TraitType:
		return []*ast.GenericParameterDecl{t.Decl.SelfParameter}
	}
	return nil
}

// AreEquivalent returns true if both types are semantically equal
// modulo alias expansion and argument normalization.
func (r *Relations) AreEquivalent(a, b Type) bool {
	return r.Canonical(a).Equal(r.Canonical(b))
}

// RegisterRefinement records that the given trait directly refines another.
func (r *Relations) RegisterRefinement(trait *ast.TraitDecl, refined *TraitType) {
	for _, existing := range r.refinements[trait] {
		if existing.Equal(refined) {
			return
		}
	}
	r.refinements[trait] = append(r.refinements[trait], refined)
	delete(r.refinementClosure, trait)
}

// RefinementClosure returns all traits transitively refined by the given
// trait, in breadth-first order, excluding the trait itself.
func (r *Relations) RefinementClosure(trait *ast.TraitDecl) []*TraitType {
	r.cacheMu.Lock()
	closure, ok := r.refinementClosure[trait]
	r.cacheMu.Unlock()
	if ok {
		return closure
	}

	closure = nil
	seen := map[*ast.TraitDecl]bool{trait: true}
	worklist := append([]*TraitType(nil), r.refinements[trait]...)
	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]
		if seen[next.Decl] {
			continue
		}
		seen[next.Decl] = true
		closure = append(closure, next)
		worklist = append(worklist, r.refinements[next.Decl]...)
	}

	r.cacheMu.Lock()
	r.refinementClosure[trait] = closure
	r.cacheMu.Unlock()
	return closure
}

// Register inserts a conformance. For any (model, trait) pair, at most
// one conformance may be registered per exposition scope; on violation
// the existing conformance is returned and nothing is inserted.
func (r *Relations) Register(conformance *Conformance) (existing *Conformance, ok bool) {
	model := r.Canonical(conformance.Model)
	key := TypeKey(model)
	for _, registered := range r.conformances[key] {
		if registered.Trait.Equal(conformance.Trait) &&
			registered.Scope == conformance.Scope {

			return registered, false
		}
	}
	r.conformances[key] = append(r.conformances[key], conformance)
	return nil, true
}

// ConformanceTo returns the conformance of the given model to the given
// trait visible in the given scope, if any.
func (r *Relations) ConformanceTo(
	model Type,
	trait *TraitType,
	useScope ast.ScopeID,
	scopes *ast.ScopeTree,
) (*Conformance, bool) {
	model = r.Canonical(model)
	for _, registered := range r.conformances[TypeKey(model)] {
		if !registered.Trait.Equal(trait) {
			continue
		}
		if scopes == nil ||
			registered.Scope == ast.ScopeIDInvalid ||
			scopes.Contains(registered.Scope, useScope) {

			return registered, true
		}
	}
	return nil, false
}

// ConformedTraits returns all traits the given model conforms to in the
// given scope: the registered conformances plus the refinement closure
// of each conformed trait.
func (r *Relations) ConformedTraits(
	model Type,
	useScope ast.ScopeID,
	scopes *ast.ScopeTree,
) []*TraitType {
	model = r.Canonical(model)

	var traits []*TraitType
	add := func(trait *TraitType) {
		for _, existing := range traits {
			if existing.Equal(trait) {
				return
			}
		}
		traits = append(traits, trait)
	}

	for _, registered := range r.conformances[TypeKey(model)] {
		if scopes != nil &&
			registered.Scope != ast.ScopeIDInvalid &&
			!scopes.Contains(registered.Scope, useScope) {

			continue
		}
		add(registered.Trait)
		for _, refined := range r.RefinementClosure(registered.Trait.Decl) {
			add(refined)
		}
	}

	return traits
}

// AllConformances returns every registered conformance of the given model.
func (r *Relations) AllConformances(model Type) []*Conformance {
	model = r.Canonical(model)
	return r.conformances[TypeKey(model)]
}

func (c *Conformance) String() string {
	return fmt.Sprintf("%s: %s", c.Model, c.Trait)
}

// SharedRelations is a lock-protected wrapper around a completed
// checker's relations store, so downstream IR generation can query
// canonical types and conformances from multiple workers.
type SharedRelations struct {
	mu        sync.RWMutex
	relations *Relations
}

func NewSharedRelations(relations *Relations) *SharedRelations {
	return &SharedRelations{relations: relations}
}

// Read calls f with the store under a read lock.
// f must not retain or mutate the store.
func (s *SharedRelations) Read(f func(*Relations)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f(s.relations)
}

// Modify calls f with the store under a write lock.
func (s *SharedRelations) Modify(f func(*Relations)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.relations)
}
