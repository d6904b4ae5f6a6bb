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

// TestOverloadByLabels checks that argument labels select between
// same-named overloads.
func TestOverloadByLabels(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")

	labelledX := b.function(
		"f",
		[]*ast.ParameterDecl{
			b.parameter("x", "x", ast.AccessEffectLet, b.nameType("Int")),
		},
		nil,
		b.blockBody(),
	)
	labelledY := b.function(
		"f",
		[]*ast.ParameterDecl{
			b.parameter("y", "y", ast.AccessEffectLet, b.nameType("Int")),
		},
		nil,
		b.blockBody(),
	)

	callee := b.nameExpr("f")
	call := b.call(callee, b.arg("x", b.intLit("1")))

	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(b.exprStmt(call)),
	)

	b.module("main", intType, labelledX, labelledY, caller)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	reference, ok := checker.Elaboration.ReferredDecl(callee.ID())
	require.True(t, ok)
	assert.Equal(t, ast.Declaration(labelledX), reference.Decl)
	_ = labelledY
}

// TestGenericBoundExpression checks that `Box<Int>` denotes the
// metatype of the bound generic type.
func TestGenericBoundExpression(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	parameter := b.genericParameter("T")
	box := b.genericProductType("Box", []*ast.GenericParameterDecl{parameter})

	expr := b.nameExpr("Box", b.typeArg(b.nameType("Int")))
	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(b.exprStmt(expr)),
	)

	b.module("main", intType, box, caller)

	checker := b.checkProgram(t, nil)

	exprType, ok := checker.Elaboration.ExprType(expr.ID())
	require.True(t, ok)

	metatype, ok := exprType.(*MetatypeType)
	require.True(t, ok)

	bound, ok := metatype.Instance.(*BoundGenericType)
	require.True(t, ok)
	assert.True(t, bound.Base.Equal(&ProductType{Decl: box}))

	argument, ok := bound.Arguments.Get(parameter)
	require.True(t, ok)
	assert.True(t, argument.Equal(TypeValue{Type: &ProductType{Decl: intType}}))
}

// TestNeverBranchAcceptsDivergingBody checks that a body of type Never
// is accepted against any return type, through the higher-penalty
// branch of the return disjunction.
func TestNeverBranchAcceptsDivergingBody(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")

	fatalError := b.function(
		"fatal_error",
		nil,
		b.nameType("Never"),
		b.blockBody(),
	)

	body := b.call(b.nameExpr("fatal_error"))
	diverging := b.function(
		"f",
		nil,
		b.nameType("Int"),
		b.exprBody(body),
	)

	b.module("main", intType, fatalError, diverging)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	bodyType, ok := checker.Elaboration.ExprType(body.ID())
	require.True(t, ok)
	assert.True(t, bodyType.Equal(TheNeverType))
}

func TestUnannotatedBindingInfersFromInitializer(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	point := b.productType("Point")

	makePoint := b.function(
		"make_point",
		nil,
		b.nameType("Point"),
		nil,
	)

	binding := b.binding(
		ast.BindingIntroducerLet,
		"p",
		nil,
		b.call(b.nameExpr("make_point")),
	)
	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(b.declStmt(binding)),
	)

	b.module("main", intType, point, makePoint, caller)

	checker := b.checkProgram(t, nil)

	names := ast.Names(binding.Pattern)
	require.Len(t, names, 1)

	bound, ok := checker.Elaboration.DeclType(names[0].ID())
	require.True(t, ok)
	assert.True(t, bound.Equal(&ProductType{Decl: point}))
}

func TestBindingWithoutAnnotationOrInitializer(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	binding := b.binding(ast.BindingIntroducerLet, "x", nil, nil)
	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(b.declStmt(binding)),
	)
	b.module("main", caller)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeNotEnoughContext)
}

func TestUndefinedNameSuggestsClosest(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")

	expr := b.nameExpr("Pont")
	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(b.exprStmt(expr)),
	)
	b.module("main", point, caller)

	checker := b.checkProgram(t, nil)

	var undefined *UndefinedNameError
	for _, diagnostic := range checker.Diagnostics() {
		if candidate, ok := diagnostic.(*UndefinedNameError); ok {
			undefined = candidate
			break
		}
	}
	require.NotNil(t, undefined)
	assert.Contains(t, undefined.SecondaryMessage(), "Point")
}

func TestAnnotatedBindingChecksInitializerBySubtyping(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")
	other := b.productType("Other")

	makeOther := b.function("make_other", nil, b.nameType("Other"), nil)

	binding := b.binding(
		ast.BindingIntroducerLet,
		"p",
		b.nameType("Point"),
		b.call(b.nameExpr("make_other")),
	)
	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(b.declStmt(binding)),
	)

	b.module("main", point, other, makeOther, caller)

	checker := b.checkProgram(t, nil)

	codes := diagnosticCodes(checker)
	hasMismatch := false
	for _, code := range codes {
		if code == DiagnosticCodeNotASubtype || code == DiagnosticCodeTypeMismatch {
			hasMismatch = true
		}
	}
	assert.True(t, hasMismatch, "expected a type error, got %v", codes)
}

func TestUnusedResultWarning(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")
	makePoint := b.function("make_point", nil, b.nameType("Point"), nil)

	statement := b.exprStmt(b.call(b.nameExpr("make_point")))
	caller := b.function("main", nil, nil, b.blockBody(statement))

	b.module("main", point, makePoint, caller)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeUnusedResult)
}
