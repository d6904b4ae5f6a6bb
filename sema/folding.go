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
	"github.com/hylo-lang/val/ast"
)

// Associativity of a precedence group.
type Associativity int

const (
	AssociativityNone Associativity = iota
	AssociativityLeft
	AssociativityRight
)

// PrecedenceGroup is one of the fixed operator precedence groups,
// ordered from loosest to tightest binding.
type PrecedenceGroup int

const (
	PrecedenceGroupAssignment PrecedenceGroup = iota
	PrecedenceGroupDisjunction
	PrecedenceGroupConjunction
	PrecedenceGroupComparison
	PrecedenceGroupFallback
	PrecedenceGroupRange
	PrecedenceGroupAddition
	PrecedenceGroupMultiplication
	PrecedenceGroupShift
)

func (g PrecedenceGroup) Name() string {
	switch g {
	case PrecedenceGroupAssignment:
		return "assignment"
	case PrecedenceGroupDisjunction:
		return "disjunction"
	case PrecedenceGroupConjunction:
		return "conjunction"
	case PrecedenceGroupComparison:
		return "comparison"
	case PrecedenceGroupFallback:
		return "fallback"
	case PrecedenceGroupRange:
		return "range"
	case PrecedenceGroupAddition:
		return "addition"
	case PrecedenceGroupMultiplication:
		return "multiplication"
	case PrecedenceGroupShift:
		return "shift"
	}
	return "unknown"
}

func (g PrecedenceGroup) Associativity() Associativity {
	switch g {
	case PrecedenceGroupAssignment, PrecedenceGroupFallback:
		return AssociativityRight
	case PrecedenceGroupComparison, PrecedenceGroupRange:
		return AssociativityNone
	default:
		return AssociativityLeft
	}
}

// precedenceGroupsByName maps a precedence group's name to its value.
var precedenceGroupsByName = map[string]PrecedenceGroup{
	"assignment":     PrecedenceGroupAssignment,
	"disjunction":    PrecedenceGroupDisjunction,
	"conjunction":    PrecedenceGroupConjunction,
	"comparison":     PrecedenceGroupComparison,
	"fallback":       PrecedenceGroupFallback,
	"range":          PrecedenceGroupRange,
	"addition":       PrecedenceGroupAddition,
	"multiplication": PrecedenceGroupMultiplication,
	"shift":          PrecedenceGroupShift,
}

type operatorKey struct {
	notation ast.OperatorNotation
	name     string
}

// registerOperators collects the operator declarations of a module into
// the checker's operator namespace, reporting duplicates.
func (c *Checker) registerOperators(module *ast.ModuleDecl) {
	for _, unit := range module.Sources {
		for _, decl := range unit.Decls {
			operator, ok := decl.(*ast.OperatorDecl)
			if !ok {
				continue
			}
			key := operatorKey{
				notation: operator.Notation,
				name:     operator.Identifier.Identifier,
			}
			if existing, present := c.operators[key]; present {
				previousPos := existing.Identifier.Pos
				c.report(&DuplicateOperatorError{
					Name:        operator.Identifier.Identifier,
					Notation:    operator.Notation,
					PreviousPos: &previousPos,
					Range:       ast.NewRangeFromPositioned(operator),
				})
				continue
			}
			c.operators[key] = operator
		}
	}
}

// lookupOperator resolves an operator by stem in the operator namespace.
func (c *Checker) lookupOperator(
	name string,
	notation ast.OperatorNotation,
) (*ast.OperatorDecl, bool) {
	operator, ok := c.operators[operatorKey{notation: notation, name: name}]
	return operator, ok
}

// precedenceOf returns the precedence group of the given infix
// operator declaration.
func precedenceOf(operator *ast.OperatorDecl) PrecedenceGroup {
	if group, ok := precedenceGroupsByName[operator.PrecedenceGroup.Identifier]; ok {
		return group
	}
	return PrecedenceGroupAddition
}

// foldSequence folds a flat sequence of infix applications into a
// binary tree honoring precedence and associativity. It returns false,
// with a diagnostic already reported, if an operator is undefined.
func (c *Checker) foldSequence(expr *ast.SequenceExpr) (*FoldedSequenceNode, bool) {
	if folded, ok := c.Elaboration.FoldedSequenceExpr(expr.ID()); ok {
		return folded, folded != nil
	}

	tail := expr.Tail
	groups := make([]PrecedenceGroup, len(tail))
	for i, operand := range tail {
		operator, ok := c.lookupOperator(
			operand.Operator.Identifier.Identifier,
			ast.OperatorNotationInfix,
		)
		if !ok {
			c.report(&UndefinedOperatorError{
				Name:     operand.Operator.Identifier.Identifier,
				Notation: ast.OperatorNotationInfix,
				Range:    ast.NewRangeFromPositioned(operand.Operator),
			})
			c.Elaboration.SetFoldedSequenceExpr(expr.ID(), nil)
			return nil, false
		}
		groups[i] = precedenceOf(operator)
	}

	position := 0
	var fold func(lhs *FoldedSequenceNode, minGroup PrecedenceGroup) *FoldedSequenceNode
	fold = func(lhs *FoldedSequenceNode, minGroup PrecedenceGroup) *FoldedSequenceNode {
		for position < len(tail) {
			group := groups[position]
			if group < minGroup {
				break
			}

			operator := tail[position].Operator
			rhs := &FoldedSequenceNode{Expr: tail[position].Operand}
			position++

			for position < len(tail) {
				nextGroup := groups[position]
				if nextGroup > group ||
					(nextGroup == group && group.Associativity() == AssociativityRight) {

					rhs = fold(rhs, nextGroup)
				} else {
					break
				}
			}

			lhs = &FoldedSequenceNode{
				Operator: operator,
				Left:     lhs,
				Right:    rhs,
			}
		}
		return lhs
	}

	folded := fold(&FoldedSequenceNode{Expr: expr.Head}, PrecedenceGroupAssignment)
	c.Elaboration.SetFoldedSequenceExpr(expr.ID(), folded)
	return folded, true
}
