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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylo-lang/val/ast"
)

// TestTransitiveConformance checks that declaring `T: B` where `B: A`
// registers conformances to both B and A.
func TestTransitiveConformance(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	traitA := b.trait("A", nil)
	traitB := b.trait("B", []*ast.NameTypeExpr{b.nameType("A")})

	model := b.productType("T")
	model.Conformances = []*ast.NameTypeExpr{b.nameType("B")}

	b.module("main", traitA, traitB, model)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	modelType := &ProductType{Decl: model}
	useScope := checker.Scopes.ContainingScope(model.ID())

	conformed := checker.Relations.ConformedTraits(modelType, useScope, checker.Scopes)
	names := map[string]bool{}
	for _, trait := range conformed {
		names[trait.Decl.Identifier.Identifier] = true
	}
	assert.True(t, names["A"], "expected conformance to A, got %v", names)
	assert.True(t, names["B"], "expected conformance to B, got %v", names)
}

// TestTraitMemberLookupThroughConformance checks that a member declared
// by a refined trait is found on a conforming type.
func TestTraitMemberLookupThroughConformance(t *testing.T) {

	t.Parallel()

	b := newBuilder()

	requirementBody := b.blockBody()
	requirement := b.function("describe", nil, nil, requirementBody)
	traitA := b.trait("A", nil, requirement)
	traitB := b.trait("B", []*ast.NameTypeExpr{b.nameType("A")})

	model := b.productType("T")
	model.Conformances = []*ast.NameTypeExpr{b.nameType("B")}

	b.module("main", traitA, traitB, model)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	useScope := checker.Scopes.ContainingScope(model.ID())
	members := checker.lookupMember(&ProductType{Decl: model}, "describe", useScope)
	require.Len(t, members, 1)
	assert.Equal(t, ast.Declaration(requirement), members[0])
}

// TestMovableSynthesis checks that declaring an empty product type
// movable synthesizes move initialization, move assignment, and the
// destruction hookup.
func TestMovableSynthesis(t *testing.T) {

	t.Parallel()

	b := newBuilder()

	// the Movable trait requires a move bundle with set and inout
	// variants
	setVariant := ast.Register(b.program, &ast.MethodVariantDecl{
		NodeMeta: b.meta(),
		Effect:   ast.AccessEffectSet,
	})
	inoutVariant := ast.Register(b.program, &ast.MethodVariantDecl{
		NodeMeta: b.meta(),
		Effect:   ast.AccessEffectInout,
	})
	moveBundle := ast.Register(b.program, &ast.MethodBundleDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident("take_value"),
		Variants:   []*ast.MethodVariantDecl{setVariant, inoutVariant},
	})
	movable := b.trait("Movable", nil, moveBundle)

	model := b.productType("P")
	model.Conformances = []*ast.NameTypeExpr{b.nameType("Movable")}

	module := b.module("main", movable, model)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	synthesized := checker.Elaboration.SynthesizedDecls(module)
	require.Len(t, synthesized, 3)

	kinds := map[SynthesizedKind]int{}
	for _, decl := range synthesized {
		kinds[decl.Kind]++
		assert.True(t, decl.ForType.Equal(&ProductType{Decl: model}))
	}
	assert.Equal(t, 1, kinds[SynthesizedMoveInitialization])
	assert.Equal(t, 1, kinds[SynthesizedMoveAssignment])
	assert.Equal(t, 1, kinds[SynthesizedDeinitialize])
}

// TestRedundantConformance checks that registering the same conformance
// twice in one exposition scope is reported, citing both sites.
func TestRedundantConformance(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	trait := b.trait("Drawable", nil)

	model := b.productType("T")
	model.Conformances = []*ast.NameTypeExpr{
		b.nameType("Drawable"),
		b.nameType("Drawable"),
	}

	b.module("main", trait, model)

	checker := b.checkProgram(t, nil)

	var redundant *RedundantConformanceError
	for _, diagnostic := range checker.Diagnostics() {
		if candidate, ok := diagnostic.(*RedundantConformanceError); ok {
			redundant = candidate
			break
		}
	}
	require.NotNil(t, redundant)
	assert.NotEqual(t, redundant.PreviousSite, redundant.Range)
	assert.Len(t, redundant.DiagnosticNotes(), 1)
}

// TestUnsatisfiedRequirement checks that a missing requirement fails
// the conformance with a note naming the requirement.
func TestUnsatisfiedRequirement(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")

	requirement := b.function("describe", nil, b.nameType("Point"), nil)
	trait := b.trait("Describable", nil, requirement)

	model := b.productType("T")
	model.Conformances = []*ast.NameTypeExpr{b.nameType("Describable")}

	b.module("main", point, trait, model)

	checker := b.checkProgram(t, nil)

	var failure *DoesNotConformError
	for _, diagnostic := range checker.Diagnostics() {
		if candidate, ok := diagnostic.(*DoesNotConformError); ok {
			failure = candidate
			break
		}
	}
	require.NotNil(t, failure)
	require.NotEmpty(t, failure.Notes)
	assert.Contains(t, failure.Notes[0].Message, "describe")
}

// TestSatisfiedRequirement checks that a member with the required
// realized type satisfies the conformance.
func TestSatisfiedRequirement(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")

	requirement := b.function("describe", nil, b.nameType("Point"), nil)
	trait := b.trait("Describable", nil, requirement)

	implementation := b.function("describe", nil, b.nameType("Point"), b.blockBody(
		b.returnStmt(b.call(b.nameExpr("Point"))),
	))
	model := b.productType("T", implementation)
	model.Conformances = []*ast.NameTypeExpr{b.nameType("Describable")}

	b.module("main", point, trait, model)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	modelType := &ProductType{Decl: model}
	useScope := checker.Scopes.ContainingScope(model.ID())
	conformance, ok := checker.Relations.ConformanceTo(
		modelType,
		&TraitType{Decl: trait},
		useScope,
		checker.Scopes,
	)
	require.True(t, ok)

	recorded, ok := conformance.Implementations.Get(requirement.ID())
	require.True(t, ok)
	assert.Equal(t, ast.Declaration(implementation), recorded.Decl)
	assert.False(t, recorded.IsSynthesized)
}
