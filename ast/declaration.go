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

package ast

import (
	"github.com/hylo-lang/val/common"
)

// Declaration is implemented by all declaration nodes.
type Declaration interface {
	Node
	isDeclaration()
	DeclarationKind() common.DeclarationKind
	DeclarationIdentifier() *Identifier
}

// ModuleDecl

type ModuleDecl struct {
	NodeMeta
	Identifier Identifier
	Sources    []*TranslationUnit
}

func (*ModuleDecl) isDeclaration() {}

func (*ModuleDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindModule
}

func (d *ModuleDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// TranslationUnit is a single source file of a module.

type TranslationUnit struct {
	NodeMeta
	Module  *ModuleDecl
	Imports []*ImportDecl
	Decls   []Declaration
}

func (*TranslationUnit) isDeclaration() {}

func (*TranslationUnit) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindUnknown
}

func (*TranslationUnit) DeclarationIdentifier() *Identifier {
	return nil
}

// ImportDecl

type ImportDecl struct {
	NodeMeta
	Identifier Identifier
}

func (*ImportDecl) isDeclaration() {}

func (*ImportDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindImport
}

func (d *ImportDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// NamespaceDecl

type NamespaceDecl struct {
	NodeMeta
	Identifier Identifier
	Members    []Declaration
}

func (*NamespaceDecl) isDeclaration() {}

func (*NamespaceDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindNamespace
}

func (d *NamespaceDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// GenericClause

type GenericClause struct {
	Parameters  []*GenericParameterDecl
	WhereClause *WhereClause
}

// WhereClause

type WhereClause struct {
	Constraints []ConstraintExpr
}

// ConstraintExpr is a constraint of a where-clause.
type ConstraintExpr interface {
	Node
	isConstraintExpr()
}

// ConformanceConstraint requires the subject to conform to each
// of the listed traits.
type ConformanceConstraint struct {
	NodeMeta
	Subject *NameTypeExpr
	Traits  []*NameTypeExpr
}

func (*ConformanceConstraint) isConstraintExpr() {}

// EqualityConstraint requires both sides to denote the same type.
type EqualityConstraint struct {
	NodeMeta
	Left  TypeExpr
	Right TypeExpr
}

func (*EqualityConstraint) isConstraintExpr() {}

// ValueConstraint is a boolean predicate over generic value parameters.
type ValueConstraint struct {
	NodeMeta
	Expr Expression
}

func (*ValueConstraint) isConstraintExpr() {}

// ProductTypeDecl

type ProductTypeDecl struct {
	NodeMeta
	Identifier    Identifier
	GenericClause *GenericClause
	Conformances  []*NameTypeExpr
	Members       []Declaration
}

func (*ProductTypeDecl) isDeclaration() {}

func (*ProductTypeDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindProductType
}

func (d *ProductTypeDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// TraitDecl

type TraitDecl struct {
	NodeMeta
	Identifier Identifier
	// Refinements are the traits this trait refines.
	Refinements []*NameTypeExpr
	Members     []Declaration
	// SelfParameter is the implicit `Self` generic parameter.
	SelfParameter *GenericParameterDecl
}

func (*TraitDecl) isDeclaration() {}

func (*TraitDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindTrait
}

func (d *TraitDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// TypeAliasDecl

type TypeAliasDecl struct {
	NodeMeta
	Identifier    Identifier
	GenericClause *GenericClause
	Aliased       TypeExpr
}

func (*TypeAliasDecl) isDeclaration() {}

func (*TypeAliasDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindTypeAlias
}

func (d *TypeAliasDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// ExtensionDecl extends a type with new members.

type ExtensionDecl struct {
	NodeMeta
	Subject       TypeExpr
	GenericClause *GenericClause
	Members       []Declaration
}

func (*ExtensionDecl) isDeclaration() {}

func (*ExtensionDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindExtension
}

func (*ExtensionDecl) DeclarationIdentifier() *Identifier {
	return nil
}

// ConformanceDecl declares the conformance of a type to a set of traits
// and supplies implementations.

type ConformanceDecl struct {
	NodeMeta
	Subject       TypeExpr
	Conformances  []*NameTypeExpr
	GenericClause *GenericClause
	Members       []Declaration
}

func (*ConformanceDecl) isDeclaration() {}

func (*ConformanceDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindConformance
}

func (*ConformanceDecl) DeclarationIdentifier() *Identifier {
	return nil
}

// BindingDecl introduces one or more bindings through a pattern.

type BindingDecl struct {
	NodeMeta
	Pattern     *BindingPattern
	Initializer Expression
	IsStatic    bool
}

func (*BindingDecl) isDeclaration() {}

func (*BindingDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindBinding
}

func (*BindingDecl) DeclarationIdentifier() *Identifier {
	return nil
}

// FunctionBody

type FunctionBody struct {
	// Block is set for a block body.
	Block *BraceStmt
	// Expr is set for a single-expression body.
	Expr Expression
}

// FunctionDecl

type FunctionDecl struct {
	NodeMeta
	Identifier    Identifier
	Notation      OperatorNotation
	IsOperator    bool
	GenericClause *GenericClause
	// ExplicitCaptures is the bracketed capture list.
	ExplicitCaptures []*BindingDecl
	Parameters       []*ParameterDecl
	ReceiverEffect   AccessEffect
	IsStatic         bool
	// IsInExprContext is true for lambda literals.
	IsInExprContext bool
	Output          TypeExpr
	Body            *FunctionBody
}

func (*FunctionDecl) isDeclaration() {}

func (*FunctionDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindFunction
}

func (d *FunctionDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// InitializerDecl

type InitializerKind int

const (
	InitializerKindDesignated InitializerKind = iota
	InitializerKindMemberwise
)

type InitializerDecl struct {
	NodeMeta
	Kind          InitializerKind
	GenericClause *GenericClause
	Parameters    []*ParameterDecl
	Body          *FunctionBody
}

func (*InitializerDecl) isDeclaration() {}

func (d *InitializerDecl) DeclarationKind() common.DeclarationKind {
	if d.Kind == InitializerKindMemberwise {
		return common.DeclarationKindMemberwiseInitializer
	}
	return common.DeclarationKindInitializer
}

func (*InitializerDecl) DeclarationIdentifier() *Identifier {
	return nil
}

// MethodBundleDecl groups method variants under one name.

type MethodBundleDecl struct {
	NodeMeta
	Identifier    Identifier
	GenericClause *GenericClause
	Parameters    []*ParameterDecl
	Output        TypeExpr
	Variants      []*MethodVariantDecl
}

func (*MethodBundleDecl) isDeclaration() {}

func (*MethodBundleDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindMethodBundle
}

func (d *MethodBundleDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// MethodVariantDecl

type MethodVariantDecl struct {
	NodeMeta
	Effect AccessEffect
	Body   *FunctionBody
}

func (*MethodVariantDecl) isDeclaration() {}

func (*MethodVariantDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindMethodVariant
}

func (*MethodVariantDecl) DeclarationIdentifier() *Identifier {
	return nil
}

// SubscriptDecl

type SubscriptDecl struct {
	NodeMeta
	// Identifier is empty for the unnamed subscript `[]`.
	Identifier Identifier
	// IsProperty is true for computed properties, which take no
	// explicit parameter list.
	IsProperty    bool
	GenericClause *GenericClause
	Parameters    []*ParameterDecl
	IsStatic      bool
	Output        TypeExpr
	Variants      []*SubscriptVariantDecl
}

func (*SubscriptDecl) isDeclaration() {}

func (*SubscriptDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindSubscript
}

func (d *SubscriptDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// SubscriptVariantDecl

type SubscriptVariantDecl struct {
	NodeMeta
	Effect AccessEffect
	Body   *FunctionBody
}

func (*SubscriptVariantDecl) isDeclaration() {}

func (*SubscriptVariantDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindSubscriptVariant
}

func (*SubscriptVariantDecl) DeclarationIdentifier() *Identifier {
	return nil
}

// ParameterDecl

type ParameterDecl struct {
	NodeMeta
	// Label is the argument label, or empty for an unlabeled parameter.
	Label      string
	Identifier Identifier
	Annotation *ParameterTypeExpr
	Default    Expression
}

func (*ParameterDecl) isDeclaration() {}

func (*ParameterDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindParameter
}

func (d *ParameterDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// GenericParameterDecl

type GenericParameterDecl struct {
	NodeMeta
	Identifier Identifier
	// Annotations are trait bounds for type parameters,
	// or the single type of a value parameter.
	Annotations []*NameTypeExpr
	Default     TypeExpr
}

func (*GenericParameterDecl) isDeclaration() {}

func (*GenericParameterDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindGenericParameter
}

func (d *GenericParameterDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// AssociatedTypeDecl

type AssociatedTypeDecl struct {
	NodeMeta
	Identifier   Identifier
	Conformances []*NameTypeExpr
	WhereClause  *WhereClause
	Default      TypeExpr
}

func (*AssociatedTypeDecl) isDeclaration() {}

func (*AssociatedTypeDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindAssociatedType
}

func (d *AssociatedTypeDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// AssociatedValueDecl

type AssociatedValueDecl struct {
	NodeMeta
	Identifier  Identifier
	WhereClause *WhereClause
	Default     Expression
}

func (*AssociatedValueDecl) isDeclaration() {}

func (*AssociatedValueDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindAssociatedValue
}

func (d *AssociatedValueDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}

// OperatorDecl introduces an operator into the operator namespace.

type OperatorDecl struct {
	NodeMeta
	Notation   OperatorNotation
	Identifier Identifier
	// PrecedenceGroup names the operator's precedence group.
	// Only meaningful for infix operators.
	PrecedenceGroup Identifier
}

func (*OperatorDecl) isDeclaration() {}

func (*OperatorDecl) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindOperator
}

func (d *OperatorDecl) DeclarationIdentifier() *Identifier {
	return &d.Identifier
}
