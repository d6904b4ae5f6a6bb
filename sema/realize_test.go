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

func TestRealizeProductType(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Point")
	b.module("main", product)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	realized, ok := checker.Elaboration.DeclType(product.ID())
	require.True(t, ok)
	assert.True(t, realized.Equal(&MetatypeType{
		Instance: &ProductType{Decl: product},
	}))
}

func TestRealizeCircularAlias(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	x := b.typeAlias("X", b.nameType("Y"))
	y := b.typeAlias("Y", b.nameType("X"))
	b.module("main", x, y)

	checker := b.checkProgram(t, nil)

	circularCount := 0
	for _, diagnostic := range checker.Diagnostics() {
		if diagnostic.Code() == DiagnosticCodeCircularDependency {
			circularCount++
		}
	}
	assert.Equal(t, 1, circularCount)

	xType, ok := checker.Elaboration.DeclType(x.ID())
	require.True(t, ok)
	assert.True(t, xType.Flags().HasError())

	yType, ok := checker.Elaboration.DeclType(y.ID())
	require.True(t, ok)
	assert.True(t, yType.Flags().HasError())
}

func TestRealizeFunctionSignature(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")
	function := b.function(
		"origin",
		[]*ast.ParameterDecl{
			b.parameter("at", "p", ast.AccessEffectLet, b.nameType("Point")),
		},
		b.nameType("Point"),
		nil,
	)
	b.module("main", point, function)

	checker := b.checkProgram(t, nil)

	realized, ok := checker.Elaboration.DeclType(function.ID())
	require.True(t, ok)

	lambda, ok := realized.(*LambdaType)
	require.True(t, ok)
	require.Len(t, lambda.Inputs, 1)
	assert.Equal(t, "at", lambda.Inputs[0].Label)
	assert.True(t, lambda.Inputs[0].Type.Equal(&ParameterType{
		Convention: ast.AccessEffectLet,
		Bare:       &ProductType{Decl: point},
	}))
	assert.True(t, lambda.Output.Equal(&ProductType{Decl: point}))
}

func TestRealizeFunctionRequiresParameterAnnotation(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	function := b.function(
		"f",
		[]*ast.ParameterDecl{
			b.parameter("", "x", ast.AccessEffectLet, nil),
		},
		nil,
		b.blockBody(),
	)
	b.module("main", function)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeNotEnoughContext)
}

func TestRealizeDuplicateParameterNames(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")
	function := b.function(
		"f",
		[]*ast.ParameterDecl{
			b.parameter("", "x", ast.AccessEffectLet, b.nameType("Point")),
			b.parameter("", "x", ast.AccessEffectLet, b.nameType("Point")),
		},
		nil,
		b.blockBody(),
	)
	b.module("main", point, function)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeDuplicateParameterName)
}

func TestRealizeGenericTypeParameter(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	drawable := b.trait("Drawable", nil)
	parameter := b.genericParameter("T", b.nameType("Drawable"))
	box := b.genericProductType("Box", []*ast.GenericParameterDecl{parameter})
	b.module("main", drawable, box)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	realized, ok := checker.Elaboration.DeclType(parameter.ID())
	require.True(t, ok)
	assert.True(t, realized.Equal(&MetatypeType{
		Instance: &GenericParameterType{Decl: parameter},
	}))
}

func TestRealizeGenericValueParameter(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	parameter := b.genericParameter("n", b.nameType("Int"))
	array := b.genericProductType("Array", []*ast.GenericParameterDecl{parameter})
	b.module("main", intType, array)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	// a non-trait annotation introduces a value parameter with the
	// annotation's type
	realized, ok := checker.Elaboration.DeclType(parameter.ID())
	require.True(t, ok)
	assert.True(t, realized.Equal(&ProductType{Decl: intType}))
}

func TestRealizeValueParameterRejectsMultipleAnnotations(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	boolType := b.productType("Bool")
	parameter := b.genericParameter("n", b.nameType("Int"), b.nameType("Bool"))
	array := b.genericProductType("Array", []*ast.GenericParameterDecl{parameter})
	b.module("main", intType, boolType, array)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeTooManyAnnotations)
}

func TestRealizeMemberwiseInitializer(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	stored := b.binding(ast.BindingIntroducerVar, "x", b.nameType("Int"), nil)
	initializer := ast.Register(b.program, &ast.InitializerDecl{
		NodeMeta: ast.NodeMeta{Range: ast.Range{}},
		Kind:     ast.InitializerKindMemberwise,
	})
	point := b.productType("Point", stored, initializer)
	b.module("main", intType, point)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	realized, ok := checker.Elaboration.DeclType(initializer.ID())
	require.True(t, ok)

	lambda, ok := realized.(*LambdaType)
	require.True(t, ok)
	require.Len(t, lambda.Inputs, 1)
	assert.Equal(t, "x", lambda.Inputs[0].Label)
	assert.True(t, lambda.Inputs[0].Type.Equal(&ParameterType{
		Convention: ast.AccessEffectSink,
		Bare:       &ProductType{Decl: intType},
	}))
	assert.True(t, lambda.Output.Equal(VoidType))

	// the receiver is initialized in place
	environment, ok := lambda.Environment.(*TupleType)
	require.True(t, ok)
	require.Len(t, environment.Elements, 1)
	assert.Equal(t, SelfIdentifier, environment.Elements[0].Label)
	assert.True(t, environment.Elements[0].Type.Equal(&RemoteType{
		Effect:  ast.AccessEffectSet,
		Operand: &ProductType{Decl: point},
	}))
}

func TestRealizeExtensionOfBuiltinRejected(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	subject := ast.Register(b.program, &ast.NameTypeExpr{
		NodeMeta:   b.meta(),
		Domain:     b.nameType("Builtin"),
		Identifier: b.ident("i64"),
	})
	extension := ast.Register(b.program, &ast.ExtensionDecl{
		NodeMeta: b.meta(),
		Subject:  subject,
	})
	b.module("main", extension)

	checker := b.checkProgram(t, &Config{BuiltinModuleVisible: true})
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeInvalidExtensionSubject)
}

func TestRealizationIsIdempotent(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	point := b.productType("Point")
	function := b.function(
		"f",
		[]*ast.ParameterDecl{
			b.parameter("", "p", ast.AccessEffectLet, b.nameType("Point")),
		},
		b.nameType("Point"),
		nil,
	)
	b.module("main", point, function)

	checker := b.checkProgram(t, nil)

	first := checker.realize(function)
	countAfterFirst := len(checker.Diagnostics())

	second := checker.realize(function)
	countAfterSecond := len(checker.Diagnostics())

	assert.True(t, first.Equal(second))
	assert.Equal(t, countAfterFirst, countAfterSecond)
}
