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

	"github.com/hylo-lang/val/ast"
)

// ConstraintOrigin records why a constraint exists and where.
type ConstraintOrigin struct {
	Description string
	ast.Range
}

// Constraint is one requirement of an inference problem.
type Constraint interface {
	isConstraint()
	Origin() ConstraintOrigin
	String() string
}

// TypeEqualityConstraint requires both types to unify.
type TypeEqualityConstraint struct {
	Left   Type
	Right  Type
	origin ConstraintOrigin
}

func (*TypeEqualityConstraint) isConstraint() {}

func (c *TypeEqualityConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *TypeEqualityConstraint) String() string {
	return fmt.Sprintf("%s == %s", c.Left, c.Right)
}

// SubtypingConstraint requires Sub to be a subtype of Super.
type SubtypingConstraint struct {
	Sub    Type
	Super  Type
	origin ConstraintOrigin
}

func (*SubtypingConstraint) isConstraint() {}

func (c *SubtypingConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *SubtypingConstraint) String() string {
	return fmt.Sprintf("%s <: %s", c.Sub, c.Super)
}

// ParameterConstraint requires the argument to satisfy the parameter
// contract of Parameter, a parameter type with a convention.
type ParameterConstraint struct {
	Argument  Type
	Parameter Type
	origin    ConstraintOrigin
}

func (*ParameterConstraint) isConstraint() {}

func (c *ParameterConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *ParameterConstraint) String() string {
	return fmt.Sprintf("%s ⊢ %s", c.Argument, c.Parameter)
}

// TraitConformanceConstraint requires the model to conform to each of
// the listed traits in the expression's scope.
type TraitConformanceConstraint struct {
	Model  Type
	Traits []Type
	origin ConstraintOrigin
}

func (*TraitConformanceConstraint) isConstraint() {}

func (c *TraitConformanceConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *TraitConformanceConstraint) String() string {
	return fmt.Sprintf("%s : %v", c.Model, c.Traits)
}

// DisjunctionChoice is one alternative of a disjunction.
type DisjunctionChoice struct {
	Constraints []Constraint
	Penalty     int
}

// DisjunctionConstraint requires one of its choices to hold.
// Lower total penalty wins.
type DisjunctionConstraint struct {
	Choices []DisjunctionChoice
	origin  ConstraintOrigin
}

func (*DisjunctionConstraint) isConstraint() {}

func (c *DisjunctionConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *DisjunctionConstraint) String() string {
	return fmt.Sprintf("disjunction(%d choices)", len(c.Choices))
}

// OverloadCandidateChoice is one candidate of an overloaded name, with
// the side-constraints its choice implies.
type OverloadCandidateChoice struct {
	Candidate   Candidate
	Constraints []Constraint
	Penalty     int
}

// OverloadBindingConstraint requires one candidate of an overloaded
// name expression to be chosen.
type OverloadBindingConstraint struct {
	NameExpr   *ast.NameExpr
	Candidates []OverloadCandidateChoice
	origin     ConstraintOrigin
}

func (*OverloadBindingConstraint) isConstraint() {}

func (c *OverloadBindingConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *OverloadBindingConstraint) String() string {
	name := ""
	if c.NameExpr != nil {
		name = c.NameExpr.Identifier.Identifier
	}
	return fmt.Sprintf("overload(`%s`, %d candidates)", name, len(c.Candidates))
}

// MemberArgument is one call argument recorded on a member constraint.
type MemberArgument struct {
	Label string
	Type  Type
}

// MemberConstraint is a deferred membership lookup for a dotted access
// whose receiver type is still a variable. When the receiver becomes
// concrete, the solver refines it into equality and parameter
// constraints via name resolution.
type MemberConstraint struct {
	Receiver Type
	Name     string
	Result   Type
	Expr     *ast.NameExpr
	// IsCall, Arguments, and Output are set when the member is
	// immediately applied.
	IsCall    bool
	Arguments []MemberArgument
	Output    Type
	// IsSubscript marks a subscript application.
	IsSubscript bool
	origin      ConstraintOrigin
}

func (*MemberConstraint) isConstraint() {}

func (c *MemberConstraint) Origin() ConstraintOrigin {
	return c.origin
}

func (c *MemberConstraint) String() string {
	return fmt.Sprintf("%s.%s == %s", c.Receiver, c.Name, c.Result)
}

func originAt(node ast.Node, description string) ConstraintOrigin {
	return ConstraintOrigin{
		Description: description,
		Range:       ast.NewRangeFromPositioned(node),
	}
}
