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

func (b *builder) operator(name, group string) *ast.OperatorDecl {
	return reg(b, &ast.OperatorDecl{
		NodeMeta:        b.meta(),
		Notation:        ast.OperatorNotationInfix,
		Identifier:      b.ident(name),
		PrecedenceGroup: b.ident(group),
	})
}

func (b *builder) operatorName(name string) *ast.NameExpr {
	return reg(b, &ast.NameExpr{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
		Notation:   ast.OperatorNotationInfix,
		IsOperator: true,
	})
}

func (b *builder) sequence(head ast.Expression, tail ...ast.SequenceOperand) *ast.SequenceExpr {
	return reg(b, &ast.SequenceExpr{
		NodeMeta: b.meta(),
		Head:     head,
		Tail:     tail,
	})
}

func TestFoldSequenceHonorsPrecedence(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	plus := b.operator("+", "addition")
	times := b.operator("*", "multiplication")

	one := b.intLit("1")
	two := b.intLit("2")
	three := b.intLit("3")

	plusName := b.operatorName("+")
	timesName := b.operatorName("*")

	// 1 + 2 * 3 must fold as 1 + (2 * 3)
	sequence := b.sequence(
		one,
		ast.SequenceOperand{Operator: plusName, Operand: two},
		ast.SequenceOperand{Operator: timesName, Operand: three},
	)

	b.module("main", plus, times)

	scopes := ast.NewScopeTree(b.program)
	checker, err := NewChecker(b.program, scopes, nil)
	require.NoError(t, err)
	checker.registerOperators(b.program.Modules[0])

	folded, ok := checker.foldSequence(sequence)
	require.True(t, ok)

	require.False(t, folded.IsLeaf())
	assert.Equal(t, plusName, folded.Operator)
	assert.True(t, folded.Left.IsLeaf())
	assert.Equal(t, ast.Expression(one), folded.Left.Expr)

	right := folded.Right
	require.False(t, right.IsLeaf())
	assert.Equal(t, timesName, right.Operator)
	assert.Equal(t, ast.Expression(two), right.Left.Expr)
	assert.Equal(t, ast.Expression(three), right.Right.Expr)
}

func TestFoldSequenceLeftAssociativity(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	minus := b.operator("-", "addition")

	one := b.intLit("1")
	two := b.intLit("2")
	three := b.intLit("3")

	firstMinus := b.operatorName("-")
	secondMinus := b.operatorName("-")

	// 1 - 2 - 3 must fold as (1 - 2) - 3
	sequence := b.sequence(
		one,
		ast.SequenceOperand{Operator: firstMinus, Operand: two},
		ast.SequenceOperand{Operator: secondMinus, Operand: three},
	)

	b.module("main", minus)

	scopes := ast.NewScopeTree(b.program)
	checker, err := NewChecker(b.program, scopes, nil)
	require.NoError(t, err)
	checker.registerOperators(b.program.Modules[0])

	folded, ok := checker.foldSequence(sequence)
	require.True(t, ok)

	require.False(t, folded.IsLeaf())
	assert.Equal(t, secondMinus, folded.Operator)
	assert.True(t, folded.Right.IsLeaf())
	assert.Equal(t, ast.Expression(three), folded.Right.Expr)

	left := folded.Left
	require.False(t, left.IsLeaf())
	assert.Equal(t, firstMinus, left.Operator)
	assert.Equal(t, ast.Expression(one), left.Left.Expr)
	assert.Equal(t, ast.Expression(two), left.Right.Expr)
}

func TestFoldSequenceUndefinedOperator(t *testing.T) {

	t.Parallel()

	b := newBuilder()

	sequence := b.sequence(
		b.intLit("1"),
		ast.SequenceOperand{Operator: b.operatorName("+"), Operand: b.intLit("2")},
	)

	b.module("main")

	scopes := ast.NewScopeTree(b.program)
	checker, err := NewChecker(b.program, scopes, nil)
	require.NoError(t, err)

	_, ok := checker.foldSequence(sequence)
	assert.False(t, ok)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeUndefinedOperator)
}

func TestDuplicateOperatorDeclaration(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	first := b.operator("+", "addition")
	second := b.operator("+", "addition")
	b.module("main", first, second)

	checker := b.checkProgram(t, nil)
	assert.Contains(t, diagnosticCodes(checker), DiagnosticCodeDuplicateOperator)
}

func TestSequenceExpressionIsTyped(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	plus := b.operator("+", "addition")

	addition := ast.Register(b.program, &ast.FunctionDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident("+"),
		IsOperator: true,
		Notation:   ast.OperatorNotationInfix,
		Parameters: []*ast.ParameterDecl{
			b.parameter("", "lhs", ast.AccessEffectLet, b.nameType("Int")),
			b.parameter("", "rhs", ast.AccessEffectLet, b.nameType("Int")),
		},
		Output: b.nameType("Int"),
		Body:   b.blockBody(),
	})

	sequence := b.sequence(
		b.intLit("1"),
		ast.SequenceOperand{Operator: b.operatorName("+"), Operand: b.intLit("2")},
	)
	caller := b.function("main", nil, nil, b.blockBody(b.exprStmt(sequence)))

	b.module("main", intType, plus, addition, caller)

	checker := b.checkProgram(t, nil)

	sequenceType, ok := checker.Elaboration.ExprType(sequence.ID())
	require.True(t, ok)
	assert.True(t, sequenceType.Equal(&ProductType{Decl: intType}))

	folded, ok := checker.Elaboration.FoldedSequenceExpr(sequence.ID())
	require.True(t, ok)
	assert.False(t, folded.IsLeaf())
}
