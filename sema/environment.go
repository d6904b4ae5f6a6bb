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

// GenericEnvironment is the generic context of a declaration: its
// ordered parameter list and the constraints they are subject to.
type GenericEnvironment struct {
	Decl        ast.Declaration
	Parameters  []*ast.GenericParameterDecl
	Constraints []GenericConstraint
}

// IsEmpty returns true if the environment introduces no parameters
// and no constraints.
func (e *GenericEnvironment) IsEmpty() bool {
	return len(e.Parameters) == 0 && len(e.Constraints) == 0
}

// environment returns the generic environment of the given declaration,
// building and caching it on first use.
func (c *Checker) environment(decl ast.Declaration) *GenericEnvironment {
	if environment, ok := c.Elaboration.Environment(decl.ID()); ok {
		return environment
	}

	environment := &GenericEnvironment{Decl: decl}

	// placed before building so cyclic constraint realization terminates
	c.Elaboration.SetEnvironment(decl.ID(), environment)

	var clause *ast.GenericClause
	switch decl := decl.(type) {
	case *ast.ProductTypeDecl:
		clause = decl.GenericClause
	case *ast.TypeAliasDecl:
		clause = decl.GenericClause
	case *ast.FunctionDecl:
		clause = decl.GenericClause
	case *ast.InitializerDecl:
		clause = decl.GenericClause
	case *ast.MethodBundleDecl:
		clause = decl.GenericClause
	case *ast.SubscriptDecl:
		clause = decl.GenericClause
	case *ast.ExtensionDecl:
		clause = decl.GenericClause
	case *ast.ConformanceDecl:
		clause = decl.GenericClause

	case *ast.TraitDecl:
		c.buildTraitEnvironment(decl, environment)
		return environment
	}

	if clause == nil {
		return environment
	}

	useScope, _ := c.Scopes.ScopeIntroducedBy(decl.ID())

	environment.Parameters = clause.Parameters
	for _, parameter := range clause.Parameters {
		c.addSugaredConstraints(parameter, useScope, environment)
	}
	if clause.WhereClause != nil {
		c.addWhereClauseConstraints(clause.WhereClause, useScope, environment)
	}

	return environment
}

// buildTraitEnvironment builds the environment of a trait declaration:
// the implicit `Self` parameter, constrained to conform to the trait
// itself and to every trait it refines.
func (c *Checker) buildTraitEnvironment(decl *ast.TraitDecl, environment *GenericEnvironment) {
	if decl.SelfParameter == nil {
		return
	}

	useScope, _ := c.Scopes.ScopeIntroducedBy(decl.ID())

	selfType := &GenericParameterType{Decl: decl.SelfParameter}
	traits := []Type{&TraitType{Decl: decl}}

	for _, refinement := range decl.Refinements {
		refined := c.realizeTypeExpr(refinement, useScope)
		if trait, ok := refined.(*TraitType); ok {
			traits = append(traits, trait)
			c.Relations.RegisterRefinement(decl, trait)
		} else if !refined.Flags().HasError() {
			c.report(&NotATraitError{
				Type:  refined,
				Range: ast.NewRangeFromPositioned(refinement),
			})
		}
	}

	environment.Parameters = []*ast.GenericParameterDecl{decl.SelfParameter}
	environment.Constraints = append(environment.Constraints, GenericConstraint{
		Kind:   GenericConstraintConformance,
		Left:   selfType,
		Traits: traits,
		Site:   ast.NewRangeFromPositioned(decl),
	})
}

// addSugaredConstraints turns the trait annotations of a generic type
// parameter into a conformance constraint.
func (c *Checker) addSugaredConstraints(
	parameter *ast.GenericParameterDecl,
	useScope ast.ScopeID,
	environment *GenericEnvironment,
) {
	if len(parameter.Annotations) == 0 {
		return
	}

	// a value parameter has a single non-trait annotation; its
	// realization is handled by the parameter's realizer
	first := c.realizeTypeExpr(parameter.Annotations[0], useScope)
	if _, isTrait := first.(*TraitType); !isTrait {
		return
	}

	traits := []Type{first}
	for _, annotation := range parameter.Annotations[1:] {
		realized := c.realizeTypeExpr(annotation, useScope)
		if _, ok := realized.(*TraitType); ok {
			traits = append(traits, realized)
		} else if !realized.Flags().HasError() {
			c.report(&NotATraitError{
				Type:  realized,
				Range: ast.NewRangeFromPositioned(annotation),
			})
		}
	}

	environment.Constraints = append(environment.Constraints, GenericConstraint{
		Kind:   GenericConstraintConformance,
		Left:   &GenericParameterType{Decl: parameter},
		Traits: traits,
		Site:   ast.NewRangeFromPositioned(parameter),
	})
}

// addWhereClauseConstraints realizes the constraints of a where-clause.
func (c *Checker) addWhereClauseConstraints(
	clause *ast.WhereClause,
	useScope ast.ScopeID,
	environment *GenericEnvironment,
) {
	for _, constraint := range clause.Constraints {
		switch constraint := constraint.(type) {
		case *ast.ConformanceConstraint:
			subject := c.realizeTypeExpr(constraint.Subject, useScope)
			var traits []Type
			for _, traitExpr := range constraint.Traits {
				realized := c.realizeTypeExpr(traitExpr, useScope)
				switch realized.(type) {
				case *TraitType, *BoundGenericType:
					traits = append(traits, realized)
				default:
					if !realized.Flags().HasError() {
						c.report(&NotATraitError{
							Type:  realized,
							Range: ast.NewRangeFromPositioned(traitExpr),
						})
					}
				}
			}
			if len(traits) > 0 {
				environment.Constraints = append(environment.Constraints, GenericConstraint{
					Kind:   GenericConstraintConformance,
					Left:   subject,
					Traits: traits,
					Site:   ast.NewRangeFromPositioned(constraint),
				})
			}

		case *ast.EqualityConstraint:
			left := c.realizeTypeExpr(constraint.Left, useScope)
			right := c.realizeTypeExpr(constraint.Right, useScope)
			if !left.Flags().HasGenericTypeParameter() &&
				!right.Flags().HasGenericTypeParameter() {

				c.report(&InvalidEqualityConstraintError{
					Left:  left,
					Right: right,
					Range: ast.NewRangeFromPositioned(constraint),
				})
				continue
			}
			environment.Constraints = append(environment.Constraints, GenericConstraint{
				Kind:  GenericConstraintEquality,
				Left:  left,
				Right: right,
				Site:  ast.NewRangeFromPositioned(constraint),
			})

		case *ast.ValueConstraint:
			environment.Constraints = append(environment.Constraints, GenericConstraint{
				Kind:      GenericConstraintValue,
				Predicate: SymbolicValue{Expr: constraint.Expr},
				Site:      ast.NewRangeFromPositioned(constraint),
			})
		}
	}
}
