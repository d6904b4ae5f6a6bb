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

// TestImplicitCaptureOfLocal checks that a lambda using an enclosing
// local captures it with a `let` effect, and with `inout` when used
// mutably.
func TestImplicitCaptureOfLocal(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")

	outerBinding := b.binding(
		ast.BindingIntroducerVar,
		"counter",
		b.nameType("Int"),
		nil,
	)

	// [] { counter }
	readingLambdaDecl := ast.Register(b.program, &ast.FunctionDecl{
		NodeMeta:        b.meta(),
		Identifier:      b.ident(""),
		IsInExprContext: true,
		Body:            &ast.FunctionBody{Expr: b.nameExpr("counter")},
	})
	readingLambda := ast.Register(b.program, &ast.LambdaExpr{
		NodeMeta: b.meta(),
		Decl:     readingLambdaDecl,
	})

	// [] { &counter }
	mutation := ast.Register(b.program, &ast.InoutExpr{
		NodeMeta: b.meta(),
		Subject:  b.nameExpr("counter"),
	})
	mutatingLambdaDecl := ast.Register(b.program, &ast.FunctionDecl{
		NodeMeta:        b.meta(),
		Identifier:      b.ident(""),
		IsInExprContext: true,
		Body:            &ast.FunctionBody{Expr: mutation},
	})
	mutatingLambda := ast.Register(b.program, &ast.LambdaExpr{
		NodeMeta: b.meta(),
		Decl:     mutatingLambdaDecl,
	})

	reader := b.binding(ast.BindingIntroducerLet, "reader", nil, readingLambda)
	writer := b.binding(ast.BindingIntroducerLet, "writer", nil, mutatingLambda)

	caller := b.function(
		"main",
		nil,
		nil,
		b.blockBody(
			b.declStmt(outerBinding),
			b.declStmt(reader),
			b.declStmt(writer),
		),
	)

	b.module("main", intType, caller)

	checker := b.checkProgram(t, nil)

	readingCaptures := checker.Elaboration.ImplicitCaptures(readingLambdaDecl.ID())
	require.Len(t, readingCaptures, 1)
	assert.Equal(t, "counter", readingCaptures[0].Name)
	assert.Equal(t, ast.AccessEffectLet, readingCaptures[0].Effect)

	mutatingCaptures := checker.Elaboration.ImplicitCaptures(mutatingLambdaDecl.ID())
	require.Len(t, mutatingCaptures, 1)
	assert.Equal(t, "counter", mutatingCaptures[0].Name)
	assert.Equal(t, ast.AccessEffectInout, mutatingCaptures[0].Effect)
}

// TestDuplicateExplicitCapture checks that duplicate names in a capture
// list are reported.
func TestDuplicateExplicitCapture(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")

	first := b.binding(ast.BindingIntroducerLet, "x", b.nameType("Int"), nil)
	second := b.binding(ast.BindingIntroducerLet, "x", b.nameType("Int"), nil)

	function := ast.Register(b.program, &ast.FunctionDecl{
		NodeMeta:         b.meta(),
		Identifier:       b.ident("f"),
		ExplicitCaptures: []*ast.BindingDecl{first, second},
		Body:             b.blockBody(),
	})

	b.module("main", intType, function)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeDuplicateCapture)
}

// TestExplicitCaptureEffects checks the environment types of explicit
// captures: `let` captures are remote borrows, `sink let` captures own
// their value.
func TestExplicitCaptureEffects(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")

	borrowed := b.binding(ast.BindingIntroducerLet, "a", b.nameType("Int"), nil)
	owned := b.binding(ast.BindingIntroducerSinkLet, "b", b.nameType("Int"), nil)

	function := ast.Register(b.program, &ast.FunctionDecl{
		NodeMeta:         b.meta(),
		Identifier:       b.ident("f"),
		ExplicitCaptures: []*ast.BindingDecl{borrowed, owned},
		Body:             b.blockBody(),
	})

	b.module("main", intType, function)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	realized, ok := checker.Elaboration.DeclType(function.ID())
	require.True(t, ok)

	lambda, ok := realized.(*LambdaType)
	require.True(t, ok)

	environment, ok := lambda.Environment.(*TupleType)
	require.True(t, ok)
	require.Len(t, environment.Elements, 2)

	assert.Equal(t, "a", environment.Elements[0].Label)
	assert.True(t, environment.Elements[0].Type.Equal(&RemoteType{
		Effect:  ast.AccessEffectLet,
		Operand: &ProductType{Decl: intType},
	}))

	assert.Equal(t, "b", environment.Elements[1].Label)
	assert.True(t, environment.Elements[1].Type.Equal(&ProductType{Decl: intType}))
}

// TestMemberUseCapturesSelf checks that a member reference through the
// implicit receiver is rewritten to a capture of `self`.
func TestMemberUseCapturesSelf(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")

	field := b.binding(ast.BindingIntroducerVar, "value", b.nameType("Int"), nil)

	implicitUse := ast.Register(b.program, &ast.NameExpr{
		NodeMeta:   b.meta(),
		DomainKind: ast.NameDomainImplicit,
		Identifier: b.ident("value"),
	})
	method := b.function("read", nil, b.nameType("Int"), b.exprBody(implicitUse))

	counter := b.productType("Counter", field, method)
	b.module("main", intType, counter)

	checker := b.checkProgram(t, nil)

	captures := checker.Elaboration.ImplicitCaptures(method.ID())
	require.Len(t, captures, 1)
	assert.Equal(t, SelfIdentifier, captures[0].Name)
	assert.Equal(t, ast.Declaration(counter), captures[0].Decl)
}
