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

// TransformType rebuilds a type bottom-out: transform is applied to each
// type before its parts are visited; if it returns done, the result
// replaces the whole subtree and its parts are not visited.
func TransformType(t Type, transform func(Type) (result Type, done bool)) Type {
	if t == nil {
		return nil
	}

	if result, done := transform(t); done {
		return result
	}

	recurse := func(part Type) Type {
		return TransformType(part, transform)
	}

	recurseParameters := func(parameters []CallableParameter) []CallableParameter {
		result := make([]CallableParameter, len(parameters))
		for i, parameter := range parameters {
			result[i] = CallableParameter{
				Label: parameter.Label,
				Type:  recurse(parameter.Type),
			}
		}
		return result
	}

	recurseArguments := func(arguments *GenericArguments) *GenericArguments {
		result := &GenericArguments{}
		arguments.Foreach(func(parameter *ast.GenericParameterDecl, value CompileTimeValue) {
			if typeValue, ok := value.(TypeValue); ok {
				value = TypeValue{Type: recurse(typeValue.Type)}
			}
			result.Set(parameter, value)
		})
		return result
	}

	switch t := t.(type) {
	case *ProductType,
		*TraitType,
		*ModuleType,
		*NamespaceType,
		*GenericParameterType,
		*TypeVariable,
		*ErrorType,
		*BuiltinType,
		*NeverType,
		*AnyType:

		return t

	case *TypeAliasType:
		return &TypeAliasType{
			Decl:    t.Decl,
			Aliased: recurse(t.Aliased),
		}

	case *AssociatedType:
		return &AssociatedType{
			Decl:   t.Decl,
			Domain: recurse(t.Domain),
		}

	case *AssociatedValueType:
		return &AssociatedValueType{
			Decl:   t.Decl,
			Domain: recurse(t.Domain),
		}

	case *SkolemType:
		return &SkolemType{
			Base: recurse(t.Base),
		}

	case *BoundGenericType:
		return &BoundGenericType{
			Base:      recurse(t.Base),
			Arguments: recurseArguments(t.Arguments),
		}

	case *MetatypeType:
		return &MetatypeType{
			Instance: recurse(t.Instance),
		}

	case *LambdaType:
		return &LambdaType{
			ReceiverEffect: t.ReceiverEffect,
			Environment:    recurse(t.Environment),
			Inputs:         recurseParameters(t.Inputs),
			Output:         recurse(t.Output),
		}

	case *MethodBundleType:
		return &MethodBundleType{
			Receiver: recurse(t.Receiver),
			Inputs:   recurseParameters(t.Inputs),
			Output:   recurse(t.Output),
			Variants: t.Variants,
		}

	case *SubscriptType:
		return &SubscriptType{
			IsProperty:   t.IsProperty,
			Capabilities: t.Capabilities,
			Environment:  recurse(t.Environment),
			Inputs:       recurseParameters(t.Inputs),
			Output:       recurse(t.Output),
		}

	case *ParameterType:
		return &ParameterType{
			Convention: t.Convention,
			Bare:       recurse(t.Bare),
		}

	case *RemoteType:
		return &RemoteType{
			Effect:  t.Effect,
			Operand: recurse(t.Operand),
		}

	case *TupleType:
		elements := make([]TupleTypeElement, len(t.Elements))
		for i, element := range t.Elements {
			elements[i] = TupleTypeElement{
				Label: element.Label,
				Type:  recurse(element.Type),
			}
		}
		return &TupleType{Elements: elements}

	case *SumType:
		elements := make([]Type, len(t.Elements))
		for i, element := range t.Elements {
			elements[i] = recurse(element)
		}
		return &SumType{Elements: elements}

	case *ExistentialType:
		traits := make([]Type, len(t.Traits))
		for i, trait := range t.Traits {
			traits[i] = recurse(trait)
		}
		return &ExistentialType{
			Traits:      traits,
			Generic:     recurse(t.Generic),
			Constraints: t.Constraints,
		}

	case *ConformanceLensType:
		return &ConformanceLensType{
			Subject: recurse(t.Subject),
			Lens:    recurse(t.Lens),
		}
	}

	panic(newUnreachableError())
}

// Specializations maps generic parameter declarations to the
// compile-time values substituted for them.
type Specializations = map[*ast.GenericParameterDecl]CompileTimeValue

// Specialize substitutes generic arguments for generic parameters
// throughout the given type.
func Specialize(t Type, specializations Specializations) Type {
	if len(specializations) == 0 {
		return t
	}

	return TransformType(t, func(t Type) (Type, bool) {
		switch t := t.(type) {
		case *GenericParameterType:
			value, ok := specializations[t.Decl]
			if !ok {
				return t, true
			}
			if typeValue, ok := value.(TypeValue); ok {
				return typeValue.Type, true
			}
			// a value argument cannot stand in type position
			return TheErrorType, true

		case *AssociatedType:
			domain := Specialize(t.Domain, specializations)
			return &AssociatedType{Decl: t.Decl, Domain: domain}, true

		case *AssociatedValueType:
			domain := Specialize(t.Domain, specializations)
			return &AssociatedValueType{Decl: t.Decl, Domain: domain}, true

		case *SkolemType:
			// skolems are rigid: never substituted through
			return t, true
		}
		return nil, false
	})
}

// SubstituteVariables replaces every type variable by its assignment in
// the given substitution map. Unassigned variables are left in place.
func SubstituteVariables(t Type, substitutions map[uint64]Type) Type {
	if len(substitutions) == 0 {
		return t
	}

	return TransformType(t, func(t Type) (Type, bool) {
		if variable, ok := t.(*TypeVariable); ok {
			if assigned, present := substitutions[variable.raw]; present {
				// assignments may themselves contain variables
				return SubstituteVariables(assigned, substitutions), true
			}
			return t, true
		}
		return nil, false
	})
}
