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

// Context tags of fresh unification variables.
const (
	variableContextExpression uint8 = iota + 1
	variableContextParameter
	variableContextReturn
	variableContextPattern
	variableContextMember
	variableContextOverload
)

// realizeDecl computes the overarching type for one declaration kind.
// Called from realize, which owns the request state machine.
func (c *Checker) realizeDecl(decl ast.Declaration) Type {
	switch decl := decl.(type) {
	case *ast.ModuleDecl:
		return &ModuleType{Decl: decl}

	case *ast.TranslationUnit:
		return VoidType

	case *ast.NamespaceDecl:
		return &NamespaceType{Decl: decl}

	case *ast.ImportDecl:
		for _, module := range c.Program.Modules {
			if module.Identifier.Identifier == decl.Identifier.Identifier {
				return &ModuleType{Decl: module}
			}
		}
		return TheErrorType

	case *ast.ProductTypeDecl:
		return &MetatypeType{Instance: &ProductType{Decl: decl}}

	case *ast.TraitDecl:
		return &MetatypeType{Instance: &TraitType{Decl: decl}}

	case *ast.TypeAliasDecl:
		return c.realizeTypeAlias(decl)

	case *ast.ExtensionDecl:
		return c.realizeExtensionSubject(decl, decl.Subject)

	case *ast.ConformanceDecl:
		return c.realizeExtensionSubject(decl, decl.Subject)

	case *ast.GenericParameterDecl:
		return c.realizeGenericParameter(decl)

	case *ast.AssociatedTypeDecl:
		domain := c.traitSelfType(decl)
		return &MetatypeType{
			Instance: &AssociatedType{Decl: decl, Domain: domain},
		}

	case *ast.AssociatedValueDecl:
		domain := c.traitSelfType(decl)
		return &AssociatedValueType{Decl: decl, Domain: domain}

	case *ast.BindingDecl:
		// binding types come from pattern inference against the
		// optional annotation and the initializer
		return c.inferBindingType(decl)

	case *ast.NamePattern:
		return c.realizeNamePattern(decl)

	case *ast.FunctionDecl:
		return c.realizeFunction(decl)

	case *ast.InitializerDecl:
		return c.realizeInitializer(decl)

	case *ast.MethodBundleDecl:
		return c.realizeMethodBundle(decl)

	case *ast.MethodVariantDecl:
		return c.realizeMethodVariant(decl)

	case *ast.SubscriptDecl:
		return c.realizeSubscript(decl)

	case *ast.SubscriptVariantDecl:
		return c.realizeSubscriptVariant(decl)

	case *ast.ParameterDecl:
		return c.realizeParameter(decl, false)

	case *ast.OperatorDecl:
		return VoidType
	}

	return TheErrorType
}

// traitSelfType returns the `Self` parameter type of the trait
// enclosing the given declaration.
func (c *Checker) traitSelfType(decl ast.Declaration) Type {
	scope := c.Scopes.ContainingScope(decl.ID())
	if trait, ok := c.Scopes.Introducer(scope).(*ast.TraitDecl); ok &&
		trait.SelfParameter != nil {

		return &GenericParameterType{Decl: trait.SelfParameter}
	}
	return TheErrorType
}

func (c *Checker) realizeTypeAlias(decl *ast.TypeAliasDecl) Type {
	useScope, _ := c.Scopes.ScopeIntroducedBy(decl.ID())
	aliased := c.realizeTypeExpr(decl.Aliased, useScope)
	if aliased.Flags().HasError() {
		return TheErrorType
	}
	return &MetatypeType{
		Instance: &TypeAliasType{Decl: decl, Aliased: aliased},
	}
}

// realizeExtensionSubject realizes the subject of a type extending
// declaration as a metatype. Extensions of built-in types are rejected.
func (c *Checker) realizeExtensionSubject(decl ast.Declaration, subjectExpr ast.TypeExpr) Type {
	useScope := c.Scopes.ContainingScope(decl.ID())
	subject := c.realizeTypeExpr(subjectExpr, useScope)

	if _, isBuiltin := subject.(*BuiltinType); isBuiltin {
		c.report(&InvalidExtensionSubjectError{
			Type:  subject,
			Range: ast.NewRangeFromPositioned(subjectExpr),
		})
		return TheErrorType
	}
	if subject.Flags().HasError() {
		return TheErrorType
	}

	return &MetatypeType{Instance: subject}
}

// realizeGenericParameter realizes a generic parameter declaration.
// If the first annotation refers to a trait, the parameter introduces a
// type; otherwise it introduces a value whose type is the annotation's.
// Multiple annotations on a value parameter are rejected.
func (c *Checker) realizeGenericParameter(decl *ast.GenericParameterDecl) Type {
	if len(decl.Annotations) == 0 {
		return &MetatypeType{
			Instance: &GenericParameterType{Decl: decl},
		}
	}

	useScope := c.Scopes.ContainingScope(decl.ID())
	first := c.realizeTypeExpr(decl.Annotations[0], useScope)

	if _, isTrait := first.(*TraitType); isTrait {
		return &MetatypeType{
			Instance: &GenericParameterType{Decl: decl},
		}
	}

	if len(decl.Annotations) > 1 {
		c.report(&TooManyAnnotationsError{
			Name:  decl.Identifier.Identifier,
			Range: ast.NewRangeFromPositioned(decl),
		})
		return TheErrorType
	}

	return first
}

// realizeNamePattern realizes the variable introduced by a name
// pattern, by checking the binding declaration which contains it.
func (c *Checker) realizeNamePattern(pattern *ast.NamePattern) Type {
	if t, ok := c.Elaboration.DeclType(pattern.ID()); ok {
		return t
	}

	scope := c.Scopes.ContainingScope(pattern.ID())
	for _, decl := range c.Scopes.DeclarationsIn(scope) {
		binding, ok := decl.(*ast.BindingDecl)
		if !ok {
			continue
		}
		for _, name := range ast.Names(binding.Pattern) {
			if name == pattern {
				c.realize(binding)
				if t, ok := c.Elaboration.DeclType(pattern.ID()); ok {
					return t
				}
				return TheErrorType
			}
		}
	}

	// parameters of enclosing callables also introduce names; a name
	// pattern without a binding is ill-formed input
	return TheErrorType
}

// realizeParameter realizes a parameter declaration. Outside expression
// contexts the annotation is required; in expression contexts a fresh
// variable with the supplied convention is allocated.
func (c *Checker) realizeParameter(decl *ast.ParameterDecl, inExprContext bool) Type {
	if existing, ok := c.Elaboration.DeclType(decl.ID()); ok {
		return existing
	}

	var t Type
	if decl.Annotation != nil {
		useScope := c.Scopes.ContainingScope(decl.ID())
		bare := c.realizeTypeExpr(decl.Annotation.Bare, useScope)
		t = &ParameterType{
			Convention: decl.Annotation.Convention,
			Bare:       bare,
		}
	} else if inExprContext {
		t = &ParameterType{
			Convention: ast.AccessEffectLet,
			Bare:       c.freshVariable(variableContextParameter),
		}
	} else {
		c.report(&NotEnoughContextError{
			Range: ast.NewRangeFromPositioned(decl),
		})
		t = &ParameterType{
			Convention: ast.AccessEffectLet,
			Bare:       TheErrorType,
		}
	}

	c.Elaboration.SetDeclType(decl.ID(), t)
	c.Elaboration.SetDeclRequest(decl.ID(), DeclRequestRealized)
	return t
}

// realizeParameterList realizes a callable's parameters, reporting
// duplicate parameter names, and returns the callable inputs.
func (c *Checker) realizeParameterList(
	parameters []*ast.ParameterDecl,
	inExprContext bool,
) []CallableParameter {
	inputs := make([]CallableParameter, 0, len(parameters))
	seen := map[string]struct{}{}

	for _, parameter := range parameters {
		name := parameter.Identifier.Identifier
		if _, duplicate := seen[name]; duplicate {
			c.report(&DuplicateParameterNameError{
				Name:  name,
				Range: ast.NewRangeFromPositioned(parameter),
			})
		} else {
			seen[name] = struct{}{}
		}

		inputs = append(inputs, CallableParameter{
			Label: parameter.Label,
			Type:  c.realizeParameter(parameter, inExprContext),
		})
	}

	return inputs
}

// receiverElement builds the `self` element of a member's environment.
func receiverElement(receiver Type, effect ast.AccessEffect) TupleTypeElement {
	return TupleTypeElement{
		Label: SelfIdentifier,
		Type: &RemoteType{
			Effect:  effect,
			Operand: receiver,
		},
	}
}

func (c *Checker) realizeFunction(decl *ast.FunctionDecl) Type {
	inputs := c.realizeParameterList(decl.Parameters, decl.IsInExprContext)

	var environment []TupleTypeElement

	// explicit captures, with duplicate checks
	environment = append(environment, c.checkExplicitCaptures(decl.ExplicitCaptures)...)

	// implicit captures
	implicit := c.collectImplicitCaptures(decl, decl.Body)
	c.Elaboration.SetImplicitCaptures(decl.ID(), implicit)
	for _, capture := range implicit {
		if capture.Name == SelfIdentifier {
			continue
		}
		captureType := c.realize(capture.Decl)
		environment = append(environment, TupleTypeElement{
			Label: capture.Name,
			Type: &RemoteType{
				Effect:  capture.Effect,
				Operand: captureType,
			},
		})
	}

	// receiver
	if !decl.IsStatic && !decl.IsInExprContext {
		if receiver, ok := c.enclosingTypeOf(decl); ok {
			environment = append(
				[]TupleTypeElement{receiverElement(receiver, decl.ReceiverEffect)},
				environment...,
			)
		}
	} else if capturesSelf(implicit) {
		if receiver, ok := c.enclosingTypeOf(decl); ok {
			effect := selfCaptureEffect(implicit)
			environment = append(
				[]TupleTypeElement{receiverElement(receiver, effect)},
				environment...,
			)
		}
	}

	var output Type
	switch {
	case decl.Output != nil:
		useScope, _ := c.Scopes.ScopeIntroducedBy(decl.ID())
		output = c.realizeTypeExpr(decl.Output, useScope)
	case decl.IsInExprContext:
		output = c.freshVariable(variableContextReturn)
	default:
		output = VoidType
	}

	return &LambdaType{
		ReceiverEffect: decl.ReceiverEffect,
		Environment:    &TupleType{Elements: environment},
		Inputs:         inputs,
		Output:         output,
	}
}

func capturesSelf(captures []ImplicitCapture) bool {
	for _, capture := range captures {
		if capture.Name == SelfIdentifier {
			return true
		}
	}
	return false
}

func selfCaptureEffect(captures []ImplicitCapture) ast.AccessEffect {
	for _, capture := range captures {
		if capture.Name == SelfIdentifier {
			return capture.Effect
		}
	}
	return ast.AccessEffectLet
}

func (c *Checker) realizeInitializer(decl *ast.InitializerDecl) Type {
	receiver, _ := c.enclosingTypeOf(decl)
	if receiver == nil {
		receiver = TheErrorType
	}

	var inputs []CallableParameter
	if decl.Kind == ast.InitializerKindMemberwise {
		inputs = c.memberwiseInputs(decl)
	} else {
		inputs = c.realizeParameterList(decl.Parameters, false)
	}

	return &LambdaType{
		Environment: &TupleType{
			Elements: []TupleTypeElement{
				receiverElement(receiver, ast.AccessEffectSet),
			},
		},
		Inputs: inputs,
		Output: VoidType,
	}
}

// memberwiseInputs builds one sink parameter per stored binding of the
// enclosing product type.
func (c *Checker) memberwiseInputs(decl *ast.InitializerDecl) []CallableParameter {
	scope := c.Scopes.ContainingScope(decl.ID())
	product, ok := c.Scopes.Introducer(scope).(*ast.ProductTypeDecl)
	if !ok {
		return nil
	}
	return c.memberwiseInputsOf(product)
}

func (c *Checker) memberwiseInputsOf(product *ast.ProductTypeDecl) []CallableParameter {
	var inputs []CallableParameter
	for _, member := range product.Members {
		binding, ok := member.(*ast.BindingDecl)
		if !ok || binding.IsStatic {
			continue
		}
		for _, name := range ast.Names(binding.Pattern) {
			inputs = append(inputs, CallableParameter{
				Label: name.Identifier.Identifier,
				Type: &ParameterType{
					Convention: ast.AccessEffectSink,
					Bare:       c.realize(name),
				},
			})
		}
	}
	return inputs
}

func (c *Checker) realizeMethodBundle(decl *ast.MethodBundleDecl) Type {
	receiver, _ := c.enclosingTypeOf(decl)
	if receiver == nil {
		receiver = TheErrorType
	}

	inputs := c.realizeParameterList(decl.Parameters, false)

	var output Type = VoidType
	if decl.Output != nil {
		useScope, _ := c.Scopes.ScopeIntroducedBy(decl.ID())
		output = c.realizeTypeExpr(decl.Output, useScope)
	}

	var variants AccessEffectSet
	for _, variant := range decl.Variants {
		variants = variants.Insert(variant.Effect)
	}

	return &MethodBundleType{
		Receiver: receiver,
		Inputs:   inputs,
		Output:   output,
		Variants: variants,
	}
}

// realizeMethodVariant derives a variant's type from its bundle by
// substituting the variant's effect through the receiver position.
func (c *Checker) realizeMethodVariant(decl *ast.MethodVariantDecl) Type {
	scope := c.Scopes.ContainingScope(decl.ID())
	bundleDecl, ok := c.Scopes.Introducer(scope).(*ast.MethodBundleDecl)
	if !ok {
		return TheErrorType
	}

	bundleType, ok := c.realize(bundleDecl).(*MethodBundleType)
	if !ok {
		return TheErrorType
	}

	variant, ok := bundleType.VariantType(decl.Effect)
	if !ok {
		c.report(&MutatingBundleMustReturnError{
			Effect: decl.Effect,
			Range:  ast.NewRangeFromPositioned(decl),
		})
		return TheErrorType
	}
	return variant
}

func (c *Checker) realizeSubscript(decl *ast.SubscriptDecl) Type {
	inputs := c.realizeParameterList(decl.Parameters, false)

	var capabilities AccessEffectSet
	for _, variant := range decl.Variants {
		capabilities = capabilities.Insert(variant.Effect)
	}
	if capabilities.IsEmpty() {
		capabilities = NewAccessEffectSet(ast.AccessEffectLet)
	}

	var output Type
	if decl.Output != nil {
		useScope, _ := c.Scopes.ScopeIntroducedBy(decl.ID())
		output = c.realizeTypeExpr(decl.Output, useScope)
	} else {
		c.report(&NotEnoughContextError{
			Range: ast.NewRangeFromPositioned(decl),
		})
		output = TheErrorType
	}

	var environment *TupleType
	if receiver, ok := c.enclosingTypeOf(decl); ok && !decl.IsStatic {
		environment = &TupleType{
			Elements: []TupleTypeElement{
				receiverElement(receiver, ast.AccessEffectYielded),
			},
		}
	} else {
		environment = VoidType
	}

	return &SubscriptType{
		IsProperty:   decl.IsProperty,
		Capabilities: capabilities,
		Environment:  environment,
		Inputs:       inputs,
		Output:       output,
	}
}

func (c *Checker) realizeSubscriptVariant(decl *ast.SubscriptVariantDecl) Type {
	scope := c.Scopes.ContainingScope(decl.ID())
	subscriptDecl, ok := c.Scopes.Introducer(scope).(*ast.SubscriptDecl)
	if !ok {
		return TheErrorType
	}

	subscriptType, ok := c.realize(subscriptDecl).(*SubscriptType)
	if !ok {
		return TheErrorType
	}

	return &LambdaType{
		ReceiverEffect: decl.Effect,
		Environment:    subscriptType.Environment,
		Inputs:         subscriptType.Inputs,
		Output: &RemoteType{
			Effect:  decl.Effect,
			Operand: subscriptType.Output,
		},
	}
}
