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
	"github.com/hylo-lang/val/common"
)

// realizeTypeExpr computes the type denoted by a type expression.
// Failures are reported and produce the error type.
func (c *Checker) realizeTypeExpr(expr ast.TypeExpr, useScope ast.ScopeID) Type {
	if expr == nil {
		return TheErrorType
	}

	switch expr := expr.(type) {
	case *ast.NameTypeExpr:
		return c.realizeNameTypeExpr(expr, useScope)

	case *ast.TupleTypeExpr:
		elements := make([]TupleTypeElement, 0, len(expr.Elements))
		for _, element := range expr.Elements {
			elements = append(elements, TupleTypeElement{
				Label: element.Label,
				Type:  c.realizeTypeExpr(element.Type, useScope),
			})
		}
		return &TupleType{Elements: elements}

	case *ast.LambdaTypeExpr:
		var environment Type
		if expr.Environment != nil {
			environment = c.realizeTypeExpr(expr.Environment, useScope)
		} else {
			environment = VoidType
		}
		inputs := make([]CallableParameter, 0, len(expr.Inputs))
		for _, input := range expr.Inputs {
			inputs = append(inputs, CallableParameter{
				Label: input.Label,
				Type:  c.realizeTypeExpr(input.Type, useScope),
			})
		}
		return &LambdaType{
			ReceiverEffect: expr.ReceiverEffect,
			Environment:    environment,
			Inputs:         inputs,
			Output:         c.realizeTypeExpr(expr.Output, useScope),
		}

	case *ast.SumTypeExpr:
		if len(expr.Elements) < 2 {
			c.report(&InvalidSumArityError{
				Count: len(expr.Elements),
				Range: ast.NewRangeFromPositioned(expr),
			})
			return TheErrorType
		}
		elements := make([]Type, 0, len(expr.Elements))
		for _, element := range expr.Elements {
			elements = append(elements, c.realizeTypeExpr(element, useScope))
		}
		return &SumType{Elements: elements}

	case *ast.ExistentialTypeExpr:
		return c.realizeExistentialTypeExpr(expr, useScope)

	case *ast.ConformanceLensTypeExpr:
		subject := c.realizeTypeExpr(expr.Subject, useScope)
		lens := c.realizeTypeExpr(expr.Lens, useScope)
		switch lens.(type) {
		case *TraitType, *BoundGenericType:
			return &ConformanceLensType{Subject: subject, Lens: lens}
		}
		if !lens.Flags().HasError() {
			c.report(&NotATraitError{
				Type:  lens,
				Range: ast.NewRangeFromPositioned(expr.Lens),
			})
		}
		return TheErrorType

	case *ast.RemoteTypeExpr:
		return &RemoteType{
			Effect:  expr.Effect,
			Operand: c.realizeTypeExpr(expr.Operand, useScope),
		}

	case *ast.ParameterTypeExpr:
		return &ParameterType{
			Convention: expr.Convention,
			Bare:       c.realizeTypeExpr(expr.Bare, useScope),
		}

	case *ast.WildcardTypeExpr:
		return c.freshVariable(variableContextExpression)
	}

	return TheErrorType
}

func (c *Checker) realizeExistentialTypeExpr(
	expr *ast.ExistentialTypeExpr,
	useScope ast.ScopeID,
) Type {
	var traits []Type
	var generic Type

	for _, traitExpr := range expr.Traits {
		realized := c.realizeTypeExpr(traitExpr, useScope)
		switch realized.(type) {
		case *TraitType, *BoundGenericType:
			traits = append(traits, realized)
		case *ErrorType:
			return TheErrorType
		default:
			// `any` over a single generic type is an existential
			// over that type's interface
			if len(expr.Traits) == 1 {
				generic = realized
			} else {
				c.report(&NotATraitError{
					Type:  realized,
					Range: ast.NewRangeFromPositioned(traitExpr),
				})
				return TheErrorType
			}
		}
	}

	existential := &ExistentialType{
		Traits:  traits,
		Generic: generic,
	}

	if expr.WhereClause != nil {
		environment := &GenericEnvironment{}
		c.addWhereClauseConstraints(expr.WhereClause, useScope, environment)
		existential.Constraints = environment.Constraints
	}

	return existential
}

// realizeNameTypeExpr resolves a (possibly qualified, possibly
// parameterized) type name.
func (c *Checker) realizeNameTypeExpr(expr *ast.NameTypeExpr, useScope ast.ScopeID) Type {
	name := expr.Identifier.Identifier
	arguments := c.evaluateStaticArguments(expr.Arguments, useScope)

	var matches []ast.Declaration
	if expr.Domain == nil {
		if t, ok := c.realizeIntrinsicTypeName(expr, name, arguments, useScope); ok {
			return t
		}
		matches = c.lookupUnqualified(name, useScope)
	} else {
		domain := c.realizeTypeExpr(expr.Domain, useScope)
		if domain.Flags().HasError() {
			return TheErrorType
		}
		if builtin, ok := domain.(*BuiltinType); ok && builtin.Kind == BuiltinKindModule {
			if t, ok := BuiltinTypeNamed(name); ok {
				return t
			}
			c.report(&UndefinedNameError{
				Name:  name,
				Range: ast.NewRangeFromPositioned(&expr.Identifier),
			})
			return TheErrorType
		}
		matches = c.lookupMember(domain, name, useScope)
	}

	// keep only matches denoting types
	var typeMatches []ast.Declaration
	sawValue := false
	for _, match := range matches {
		kind := match.DeclarationKind()
		if kind.IsTypeDeclaration() ||
			kind == common.DeclarationKindModule ||
			kind == common.DeclarationKindNamespace {

			typeMatches = append(typeMatches, match)
		} else {
			sawValue = true
		}
	}

	if len(typeMatches) == 0 {
		if sawValue {
			c.report(&ValueInTypePositionError{
				Name:  name,
				Range: ast.NewRangeFromPositioned(&expr.Identifier),
			})
		} else {
			c.report(&UndefinedNameError{
				Name:       name,
				Candidates: c.visibleNames(nil, useScope),
				Range:      ast.NewRangeFromPositioned(&expr.Identifier),
			})
		}
		return TheErrorType
	}

	if len(typeMatches) > 1 {
		sites := make([]ast.Range, 0, len(typeMatches))
		for _, match := range typeMatches {
			sites = append(sites, ast.NewRangeFromPositioned(match))
		}
		c.report(&AmbiguousUseError{
			Name:  name,
			Sites: sites,
			Range: ast.NewRangeFromPositioned(&expr.Identifier),
		})
		return TheErrorType
	}

	match := typeMatches[0]
	realized := c.realize(match)

	var instance Type
	switch realized := realized.(type) {
	case *MetatypeType:
		instance = realized.Instance
	case *ModuleType, *NamespaceType:
		instance = realized
	case *ErrorType:
		return TheErrorType
	default:
		c.report(&ValueInTypePositionError{
			Name:  name,
			Range: ast.NewRangeFromPositioned(&expr.Identifier),
		})
		return TheErrorType
	}

	// bind generic arguments in parameter declaration order
	parameters := declarationGenericParameters(match)
	if len(arguments) > 0 && len(parameters) > 0 {
		bound := &GenericArguments{}
		for i, parameter := range parameters {
			if i < len(arguments) {
				bound.Set(parameter, arguments[i])
			}
		}
		return &BoundGenericType{Base: instance, Arguments: bound}
	}

	return instance
}

// realizeIntrinsicTypeName handles the intrinsic aliases in type
// position, without AST lookup.
func (c *Checker) realizeIntrinsicTypeName(
	expr *ast.NameTypeExpr,
	name string,
	arguments []CompileTimeValue,
	useScope ast.ScopeID,
) (Type, bool) {
	switch name {
	case "Any":
		return TheAnyType, true

	case "Never":
		return TheNeverType, true

	case SelfTypeIdentifier:
		if self, ok := c.selfTypeIn(useScope); ok {
			return self, true
		}
		c.report(&UndefinedNameError{
			Name:  name,
			Range: ast.NewRangeFromPositioned(&expr.Identifier),
		})
		return TheErrorType, true

	case "Sum":
		var elements []Type
		for _, argument := range arguments {
			typeValue, ok := argument.(TypeValue)
			if !ok {
				c.report(&ValueInSumTypePositionError{
					Range: ast.NewRangeFromPositioned(expr),
				})
				return TheErrorType, true
			}
			elements = append(elements, typeValue.Type)
		}
		if len(elements) < 2 {
			c.report(&InvalidSumArityError{
				Count: len(elements),
				Range: ast.NewRangeFromPositioned(expr),
			})
			return TheErrorType, true
		}
		return &SumType{Elements: elements}, true

	case "Metatype":
		if len(arguments) == 1 {
			if typeValue, ok := arguments[0].(TypeValue); ok {
				return &MetatypeType{Instance: typeValue.Type}, true
			}
		}
		return TheErrorType, true

	case "Builtin":
		if c.Config.BuiltinModuleVisible {
			return TheBuiltinModuleType, true
		}
	}

	return nil, false
}
