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
	"math/big"
	"strings"

	"github.com/hylo-lang/val/ast"
	"github.com/hylo-lang/val/common/orderedmap"
)

// TypeFlags is the set of properties a type caches about itself.
// Flags propagate on construction: the `has` bits are the union of the
// parts' bits, the canonical bit is their intersection.
type TypeFlags uint8

const (
	TypeFlagHasVariable TypeFlags = 1 << iota
	TypeFlagHasError
	TypeFlagHasGenericTypeParameter
	TypeFlagHasGenericValueParameter
	TypeFlagIsCanonical
)

const typeFlagsUnion = TypeFlagHasVariable |
	TypeFlagHasError |
	TypeFlagHasGenericTypeParameter |
	TypeFlagHasGenericValueParameter

func (f TypeFlags) HasVariable() bool {
	return f&TypeFlagHasVariable != 0
}

func (f TypeFlags) HasError() bool {
	return f&TypeFlagHasError != 0
}

func (f TypeFlags) HasGenericTypeParameter() bool {
	return f&TypeFlagHasGenericTypeParameter != 0
}

func (f TypeFlags) HasGenericValueParameter() bool {
	return f&TypeFlagHasGenericValueParameter != 0
}

func (f TypeFlags) IsCanonical() bool {
	return f&TypeFlagIsCanonical != 0
}

// combineFlags merges the flags of a type's parts:
// union of the `has` bits, intersection of the canonical bit.
func combineFlags(flags ...TypeFlags) TypeFlags {
	combined := TypeFlagIsCanonical
	for _, f := range flags {
		combined |= f & typeFlagsUnion
		combined &= ^TypeFlagIsCanonical | (f & TypeFlagIsCanonical)
	}
	return combined
}

func typeFlags(types ...Type) TypeFlags {
	combined := TypeFlagIsCanonical
	for _, t := range types {
		if t == nil {
			continue
		}
		combined = combineFlags(combined, t.Flags())
	}
	return combined
}

// Type is the interned, tagged representation of a Val type.
type Type interface {
	isType()
	Flags() TypeFlags
	Equal(other Type) bool
	String() string
}

// AccessEffectSet is a set of access effects, e.g. the variants of a bundle.
type AccessEffectSet uint8

func NewAccessEffectSet(effects ...ast.AccessEffect) AccessEffectSet {
	var set AccessEffectSet
	for _, effect := range effects {
		set = set.Insert(effect)
	}
	return set
}

func (s AccessEffectSet) Insert(effect ast.AccessEffect) AccessEffectSet {
	return s | 1<<uint(effect)
}

func (s AccessEffectSet) Contains(effect ast.AccessEffect) bool {
	return s&(1<<uint(effect)) != 0
}

func (s AccessEffectSet) IsEmpty() bool {
	return s == 0
}

func (s AccessEffectSet) Len() int {
	count := 0
	s.Foreach(func(ast.AccessEffect) {
		count++
	})
	return count
}

// Foreach visits the effects in declaration order of the enumeration,
// which is a stable order.
func (s AccessEffectSet) Foreach(f func(ast.AccessEffect)) {
	for _, effect := range []ast.AccessEffect{
		ast.AccessEffectLet,
		ast.AccessEffectInout,
		ast.AccessEffectSet,
		ast.AccessEffectSink,
		ast.AccessEffectYielded,
	} {
		if s.Contains(effect) {
			f(effect)
		}
	}
}

func (s AccessEffectSet) String() string {
	var parts []string
	s.Foreach(func(effect ast.AccessEffect) {
		parts = append(parts, effect.Keyword())
	})
	return strings.Join(parts, " ")
}

// CompileTimeValue is a compile-time argument of a bound generic type:
// a type, a concrete value, or a symbolic value.
type CompileTimeValue interface {
	isCompileTimeValue()
	ValueFlags() TypeFlags
	Equal(other CompileTimeValue) bool
	String() string
}

// TypeValue wraps a type used as a compile-time value.
type TypeValue struct {
	Type Type
}

func (TypeValue) isCompileTimeValue() {}

func (v TypeValue) ValueFlags() TypeFlags {
	return v.Type.Flags()
}

func (v TypeValue) Equal(other CompileTimeValue) bool {
	otherValue, ok := other.(TypeValue)
	return ok && v.Type.Equal(otherValue.Type)
}

func (v TypeValue) String() string {
	return v.Type.String()
}

// IntegerValue is a concrete compile-time integer.
type IntegerValue struct {
	Value *big.Int
}

func (IntegerValue) isCompileTimeValue() {}

func (v IntegerValue) ValueFlags() TypeFlags {
	return TypeFlagIsCanonical
}

func (v IntegerValue) Equal(other CompileTimeValue) bool {
	otherValue, ok := other.(IntegerValue)
	return ok && v.Value.Cmp(otherValue.Value) == 0
}

func (v IntegerValue) String() string {
	return v.Value.String()
}

// BooleanValue is a concrete compile-time boolean.
type BooleanValue struct {
	Value bool
}

func (BooleanValue) isCompileTimeValue() {}

func (v BooleanValue) ValueFlags() TypeFlags {
	return TypeFlagIsCanonical
}

func (v BooleanValue) Equal(other CompileTimeValue) bool {
	otherValue, ok := other.(BooleanValue)
	return ok && v.Value == otherValue.Value
}

func (v BooleanValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// SymbolicValue is an unevaluated compile-time expression.
// Equality is by node identity.
type SymbolicValue struct {
	Expr ast.Expression
}

func (SymbolicValue) isCompileTimeValue() {}

func (v SymbolicValue) ValueFlags() TypeFlags {
	return TypeFlagHasGenericValueParameter | TypeFlagIsCanonical
}

func (v SymbolicValue) Equal(other CompileTimeValue) bool {
	otherValue, ok := other.(SymbolicValue)
	return ok && v.Expr.ID() == otherValue.Expr.ID()
}

func (v SymbolicValue) String() string {
	return fmt.Sprintf("<expr %d>", v.Expr.ID())
}

// GenericArguments maps generic parameter declarations to their
// compile-time arguments, in declaration order.
type GenericArguments = orderedmap.OrderedMap[*ast.GenericParameterDecl, CompileTimeValue]

func genericArgumentsFlags(arguments *GenericArguments) TypeFlags {
	flags := TypeFlagIsCanonical
	arguments.Foreach(func(_ *ast.GenericParameterDecl, value CompileTimeValue) {
		flags = combineFlags(flags, value.ValueFlags())
	})
	return flags
}

func genericArgumentsEqual(a, b *GenericArguments) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Foreach(func(parameter *ast.GenericParameterDecl, value CompileTimeValue) {
		otherValue, ok := b.Get(parameter)
		if !ok || !value.Equal(otherValue) {
			equal = false
		}
	})
	return equal
}

func genericArgumentsString(arguments *GenericArguments) string {
	var parts []string
	arguments.Foreach(func(_ *ast.GenericParameterDecl, value CompileTimeValue) {
		parts = append(parts, value.String())
	})
	return strings.Join(parts, ", ")
}

// ProductType is a struct-like nominal type.
type ProductType struct {
	Decl *ast.ProductTypeDecl
}

func (*ProductType) isType() {}

func (*ProductType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *ProductType) Equal(other Type) bool {
	otherType, ok := other.(*ProductType)
	return ok && t.Decl == otherType.Decl
}

func (t *ProductType) String() string {
	return t.Decl.Identifier.Identifier
}

// TraitType is the nominal type of a trait.
type TraitType struct {
	Decl *ast.TraitDecl
}

func (*TraitType) isType() {}

func (*TraitType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *TraitType) Equal(other Type) bool {
	otherType, ok := other.(*TraitType)
	return ok && t.Decl == otherType.Decl
}

func (t *TraitType) String() string {
	return t.Decl.Identifier.Identifier
}

// TypeAliasType is a nominal alias for another type. It is sugar:
// canonicalization resolves it to the aliased type.
type TypeAliasType struct {
	Decl    *ast.TypeAliasDecl
	Aliased Type
}

func (*TypeAliasType) isType() {}

func (t *TypeAliasType) Flags() TypeFlags {
	// never canonical: canonicalization expands the alias
	return t.Aliased.Flags() &^ TypeFlagIsCanonical
}

func (t *TypeAliasType) Equal(other Type) bool {
	otherType, ok := other.(*TypeAliasType)
	return ok && t.Decl == otherType.Decl && t.Aliased.Equal(otherType.Aliased)
}

func (t *TypeAliasType) String() string {
	return t.Decl.Identifier.Identifier
}

// ModuleType is the type of a module name in expressions.
type ModuleType struct {
	Decl *ast.ModuleDecl
}

func (*ModuleType) isType() {}

func (*ModuleType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *ModuleType) Equal(other Type) bool {
	otherType, ok := other.(*ModuleType)
	return ok && t.Decl == otherType.Decl
}

func (t *ModuleType) String() string {
	return t.Decl.Identifier.Identifier
}

// NamespaceType is the type of a namespace name in expressions.
type NamespaceType struct {
	Decl *ast.NamespaceDecl
}

func (*NamespaceType) isType() {}

func (*NamespaceType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *NamespaceType) Equal(other Type) bool {
	otherType, ok := other.(*NamespaceType)
	return ok && t.Decl == otherType.Decl
}

func (t *NamespaceType) String() string {
	return t.Decl.Identifier.Identifier
}

// GenericParameterType is the type introduced by a generic type parameter.
type GenericParameterType struct {
	Decl *ast.GenericParameterDecl
}

func (*GenericParameterType) isType() {}

func (*GenericParameterType) Flags() TypeFlags {
	return TypeFlagHasGenericTypeParameter | TypeFlagIsCanonical
}

func (t *GenericParameterType) Equal(other Type) bool {
	otherType, ok := other.(*GenericParameterType)
	return ok && t.Decl == otherType.Decl
}

func (t *GenericParameterType) String() string {
	return t.Decl.Identifier.Identifier
}

// AssociatedType is the type of an associated type requirement,
// relative to the `Self` parameter of its trait.
type AssociatedType struct {
	Decl   *ast.AssociatedTypeDecl
	Domain Type
}

func (*AssociatedType) isType() {}

func (t *AssociatedType) Flags() TypeFlags {
	return t.Domain.Flags()
}

func (t *AssociatedType) Equal(other Type) bool {
	otherType, ok := other.(*AssociatedType)
	return ok && t.Decl == otherType.Decl && t.Domain.Equal(otherType.Domain)
}

func (t *AssociatedType) String() string {
	return fmt.Sprintf("%s.%s", t.Domain, t.Decl.Identifier.Identifier)
}

// AssociatedValueType is the type of an associated value requirement,
// relative to the `Self` parameter of its trait.
type AssociatedValueType struct {
	Decl   *ast.AssociatedValueDecl
	Domain Type
}

func (*AssociatedValueType) isType() {}

func (t *AssociatedValueType) Flags() TypeFlags {
	return t.Domain.Flags() | TypeFlagHasGenericValueParameter
}

func (t *AssociatedValueType) Equal(other Type) bool {
	otherType, ok := other.(*AssociatedValueType)
	return ok && t.Decl == otherType.Decl && t.Domain.Equal(otherType.Domain)
}

func (t *AssociatedValueType) String() string {
	return fmt.Sprintf("%s.%s", t.Domain, t.Decl.Identifier.Identifier)
}

// SkolemType is a universally-quantified parameter fixed inside its own
// scope: rigid, not unifiable.
type SkolemType struct {
	Base Type
}

func (*SkolemType) isType() {}

func (t *SkolemType) Flags() TypeFlags {
	return t.Base.Flags()
}

func (t *SkolemType) Equal(other Type) bool {
	otherType, ok := other.(*SkolemType)
	return ok && t.Base.Equal(otherType.Base)
}

func (t *SkolemType) String() string {
	return fmt.Sprintf("$%s", t.Base)
}

// TypeVariable is a fresh unification variable: a 56-bit identifier
// and an 8-bit context tag, packed into one word.
type TypeVariable struct {
	raw uint64
}

const typeVariableContextBits = 8

func NewTypeVariable(identifier uint64, context uint8) *TypeVariable {
	return &TypeVariable{
		raw: identifier<<typeVariableContextBits | uint64(context),
	}
}

func (*TypeVariable) isType() {}

func (*TypeVariable) Flags() TypeFlags {
	return TypeFlagHasVariable | TypeFlagIsCanonical
}

func (t *TypeVariable) Identifier() uint64 {
	return t.raw >> typeVariableContextBits
}

func (t *TypeVariable) Context() uint8 {
	return uint8(t.raw)
}

func (t *TypeVariable) Equal(other Type) bool {
	otherType, ok := other.(*TypeVariable)
	return ok && t.raw == otherType.raw
}

func (t *TypeVariable) String() string {
	return fmt.Sprintf("%%%d", t.Identifier())
}

// BoundGenericType is a base type with an ordered assignment of
// compile-time values to its generic parameters.
type BoundGenericType struct {
	Base      Type
	Arguments *GenericArguments
}

func (*BoundGenericType) isType() {}

// Flags never reports a bound generic as canonical: canonicalization
// must still normalize its argument order.
func (t *BoundGenericType) Flags() TypeFlags {
	return combineFlags(t.Base.Flags(), genericArgumentsFlags(t.Arguments)) &^
		TypeFlagIsCanonical
}

func (t *BoundGenericType) Equal(other Type) bool {
	otherType, ok := other.(*BoundGenericType)
	return ok &&
		t.Base.Equal(otherType.Base) &&
		genericArgumentsEqual(t.Arguments, otherType.Arguments)
}

func (t *BoundGenericType) String() string {
	return fmt.Sprintf("%s<%s>", t.Base, genericArgumentsString(t.Arguments))
}

// MetatypeType is the type of a type.
type MetatypeType struct {
	Instance Type
}

func (*MetatypeType) isType() {}

func (t *MetatypeType) Flags() TypeFlags {
	return t.Instance.Flags()
}

func (t *MetatypeType) Equal(other Type) bool {
	otherType, ok := other.(*MetatypeType)
	return ok && t.Instance.Equal(otherType.Instance)
}

func (t *MetatypeType) String() string {
	return fmt.Sprintf("Metatype<%s>", t.Instance)
}

// CallableParameter is one labeled input of a callable type.
// Its type is usually a ParameterType.
type CallableParameter struct {
	Label string
	Type  Type
}

func callableParametersFlags(parameters []CallableParameter) TypeFlags {
	flags := TypeFlagIsCanonical
	for _, parameter := range parameters {
		flags = combineFlags(flags, parameter.Type.Flags())
	}
	return flags
}

func callableParametersEqual(a, b []CallableParameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i, parameter := range a {
		if parameter.Label != b[i].Label ||
			!parameter.Type.Equal(b[i].Type) {

			return false
		}
	}
	return true
}

func callableParametersString(parameters []CallableParameter) string {
	var b strings.Builder
	for i, parameter := range parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		if parameter.Label != "" {
			b.WriteString(parameter.Label)
			b.WriteString(": ")
		}
		b.WriteString(parameter.Type.String())
	}
	return b.String()
}

// LambdaType is the type of a function or lambda.
type LambdaType struct {
	ReceiverEffect ast.AccessEffect
	Environment    Type
	Inputs         []CallableParameter
	Output         Type
}

func (*LambdaType) isType() {}

func (t *LambdaType) Flags() TypeFlags {
	return combineFlags(
		typeFlags(t.Environment, t.Output),
		callableParametersFlags(t.Inputs),
	)
}

func (t *LambdaType) Equal(other Type) bool {
	otherType, ok := other.(*LambdaType)
	if !ok {
		return false
	}
	if t.ReceiverEffect != otherType.ReceiverEffect {
		return false
	}
	if (t.Environment == nil) != (otherType.Environment == nil) {
		return false
	}
	if t.Environment != nil && !t.Environment.Equal(otherType.Environment) {
		return false
	}
	return callableParametersEqual(t.Inputs, otherType.Inputs) &&
		t.Output.Equal(otherType.Output)
}

func (t *LambdaType) String() string {
	var b strings.Builder
	if t.Environment != nil {
		fmt.Fprintf(&b, "[%s]", t.Environment)
	}
	fmt.Fprintf(&b, "(%s)", callableParametersString(t.Inputs))
	if t.ReceiverEffect != ast.AccessEffectLet {
		fmt.Fprintf(&b, " %s", t.ReceiverEffect.Keyword())
	}
	fmt.Fprintf(&b, " -> %s", t.Output)
	return b.String()
}

// MethodBundleType is the type of a method bundle: a receiver and a
// non-empty set of variants keyed by access effect.
type MethodBundleType struct {
	Receiver Type
	Inputs   []CallableParameter
	Output   Type
	Variants AccessEffectSet
}

func (*MethodBundleType) isType() {}

func (t *MethodBundleType) Flags() TypeFlags {
	return combineFlags(
		typeFlags(t.Receiver, t.Output),
		callableParametersFlags(t.Inputs),
	)
}

func (t *MethodBundleType) Equal(other Type) bool {
	otherType, ok := other.(*MethodBundleType)
	return ok &&
		t.Receiver.Equal(otherType.Receiver) &&
		callableParametersEqual(t.Inputs, otherType.Inputs) &&
		t.Output.Equal(otherType.Output) &&
		t.Variants == otherType.Variants
}

func (t *MethodBundleType) String() string {
	return fmt.Sprintf(
		"method [%s] (%s) %s -> %s",
		t.Receiver,
		callableParametersString(t.Inputs),
		t.Variants,
		t.Output,
	)
}

// VariantType returns the lambda type of the bundle's variant with the
// given effect. For inout and set variants the bundle's output must be a
// 2-tuple whose first element equals the receiver type; the variant then
// returns the tuple's second element.
func (t *MethodBundleType) VariantType(effect ast.AccessEffect) (*LambdaType, bool) {
	output := t.Output

	switch effect {
	case ast.AccessEffectInout, ast.AccessEffectSet:
		tuple, ok := output.(*TupleType)
		if !ok {
			return nil, false
		}
		switch {
		case tuple.IsVoid():
			// a mutating variant of a void bundle returns void

		case len(tuple.Elements) == 2 &&
			tuple.Elements[0].Type.Equal(t.Receiver):

			output = tuple.Elements[1].Type

		default:
			return nil, false
		}
	}

	return &LambdaType{
		ReceiverEffect: effect,
		Environment: &TupleType{
			Elements: []TupleTypeElement{
				{
					Label: SelfIdentifier,
					Type: &RemoteType{
						Effect:  effect,
						Operand: t.Receiver,
					},
				},
			},
		},
		Inputs: t.Inputs,
		Output: output,
	}, true
}

// SubscriptType is the type of a subscript or computed property.
type SubscriptType struct {
	IsProperty   bool
	Capabilities AccessEffectSet
	Environment  Type
	Inputs       []CallableParameter
	Output       Type
}

func (*SubscriptType) isType() {}

func (t *SubscriptType) Flags() TypeFlags {
	return combineFlags(
		typeFlags(t.Environment, t.Output),
		callableParametersFlags(t.Inputs),
	)
}

func (t *SubscriptType) Equal(other Type) bool {
	otherType, ok := other.(*SubscriptType)
	if !ok {
		return false
	}
	if t.IsProperty != otherType.IsProperty ||
		t.Capabilities != otherType.Capabilities {

		return false
	}
	if (t.Environment == nil) != (otherType.Environment == nil) {
		return false
	}
	if t.Environment != nil && !t.Environment.Equal(otherType.Environment) {
		return false
	}
	return callableParametersEqual(t.Inputs, otherType.Inputs) &&
		t.Output.Equal(otherType.Output)
}

func (t *SubscriptType) String() string {
	if t.IsProperty {
		return fmt.Sprintf("property %s { %s }", t.Output, t.Capabilities)
	}
	return fmt.Sprintf(
		"subscript (%s): %s { %s }",
		callableParametersString(t.Inputs),
		t.Output,
		t.Capabilities,
	)
}

// ParameterType is a bare type with an access convention,
// the contract of a callable input.
type ParameterType struct {
	Convention ast.AccessEffect
	Bare       Type
}

func (*ParameterType) isType() {}

func (t *ParameterType) Flags() TypeFlags {
	return t.Bare.Flags()
}

func (t *ParameterType) Equal(other Type) bool {
	otherType, ok := other.(*ParameterType)
	return ok &&
		t.Convention == otherType.Convention &&
		t.Bare.Equal(otherType.Bare)
}

func (t *ParameterType) String() string {
	return fmt.Sprintf("%s %s", t.Convention.Keyword(), t.Bare)
}

// RemoteType is a borrow with an access effect.
type RemoteType struct {
	Effect  ast.AccessEffect
	Operand Type
}

func (*RemoteType) isType() {}

func (t *RemoteType) Flags() TypeFlags {
	return t.Operand.Flags()
}

func (t *RemoteType) Equal(other Type) bool {
	otherType, ok := other.(*RemoteType)
	return ok &&
		t.Effect == otherType.Effect &&
		t.Operand.Equal(otherType.Operand)
}

func (t *RemoteType) String() string {
	return fmt.Sprintf("remote %s %s", t.Effect.Keyword(), t.Operand)
}

// TupleTypeElement is one labeled element of a tuple type.
type TupleTypeElement struct {
	Label string
	Type  Type
}

// TupleType

type TupleType struct {
	Elements []TupleTypeElement
}

var VoidType = &TupleType{}

func (*TupleType) isType() {}

func (t *TupleType) Flags() TypeFlags {
	flags := TypeFlagIsCanonical
	for _, element := range t.Elements {
		flags = combineFlags(flags, element.Type.Flags())
	}
	return flags
}

func (t *TupleType) Equal(other Type) bool {
	otherType, ok := other.(*TupleType)
	if !ok || len(t.Elements) != len(otherType.Elements) {
		return false
	}
	for i, element := range t.Elements {
		otherElement := otherType.Elements[i]
		if element.Label != otherElement.Label ||
			!element.Type.Equal(otherElement.Type) {

			return false
		}
	}
	return true
}

func (t *TupleType) String() string {
	if len(t.Elements) == 0 {
		return "Void"
	}
	var b strings.Builder
	b.WriteString("{")
	for i, element := range t.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		if element.Label != "" {
			b.WriteString(element.Label)
			b.WriteString(": ")
		}
		b.WriteString(element.Type.String())
	}
	b.WriteString("}")
	return b.String()
}

// IsVoid returns true if this is the empty tuple.
func (t *TupleType) IsVoid() bool {
	return len(t.Elements) == 0
}

// SumType is an anonymous union of at least two element types.
type SumType struct {
	Elements []Type
}

func (*SumType) isType() {}

// Flags never reports a sum as canonical: canonicalization must still
// deduplicate its elements.
func (t *SumType) Flags() TypeFlags {
	return typeFlags(t.Elements...) &^ TypeFlagIsCanonical
}

// Equal compares sum types as element sets.
func (t *SumType) Equal(other Type) bool {
	otherType, ok := other.(*SumType)
	if !ok || len(t.Elements) != len(otherType.Elements) {
		return false
	}
	for _, element := range t.Elements {
		found := false
		for _, otherElement := range otherType.Elements {
			if element.Equal(otherElement) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (t *SumType) String() string {
	var parts []string
	for _, element := range t.Elements {
		parts = append(parts, element.String())
	}
	return strings.Join(parts, " | ")
}

// GenericConstraint is one constraint of an existential's where-clause
// or of a generic environment.
type GenericConstraint struct {
	Kind GenericConstraintKind
	// Subject of the constraint.
	Left Type
	// Traits for a conformance constraint.
	Traits []Type
	// Right side for an equality constraint.
	Right Type
	// Predicate for a value constraint.
	Predicate CompileTimeValue
	// Site of the constraint's source.
	Site ast.Range
}

type GenericConstraintKind int

const (
	GenericConstraintConformance GenericConstraintKind = iota
	GenericConstraintEquality
	GenericConstraintValue
)

func (c GenericConstraint) Equal(other GenericConstraint) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case GenericConstraintConformance:
		if !c.Left.Equal(other.Left) || len(c.Traits) != len(other.Traits) {
			return false
		}
		for i, trait := range c.Traits {
			if !trait.Equal(other.Traits[i]) {
				return false
			}
		}
		return true
	case GenericConstraintEquality:
		return c.Left.Equal(other.Left) && c.Right.Equal(other.Right)
	case GenericConstraintValue:
		return c.Predicate.Equal(other.Predicate)
	}
	return false
}

// ExistentialType is a type given by an interface: a set of traits, or a
// single generic type, plus where-clause constraints.
type ExistentialType struct {
	// Traits is the interface as a set of trait types.
	// Empty if Generic is set.
	Traits []Type
	// Generic is the interface as a single generic type, or nil.
	Generic     Type
	Constraints []GenericConstraint
}

func (*ExistentialType) isType() {}

func (t *ExistentialType) Flags() TypeFlags {
	flags := typeFlags(t.Traits...)
	if t.Generic != nil {
		flags = combineFlags(flags, t.Generic.Flags())
	}
	return flags
}

func (t *ExistentialType) Equal(other Type) bool {
	otherType, ok := other.(*ExistentialType)
	if !ok {
		return false
	}
	if (t.Generic == nil) != (otherType.Generic == nil) {
		return false
	}
	if t.Generic != nil && !t.Generic.Equal(otherType.Generic) {
		return false
	}
	if len(t.Traits) != len(otherType.Traits) ||
		len(t.Constraints) != len(otherType.Constraints) {

		return false
	}
	for _, trait := range t.Traits {
		found := false
		for _, otherTrait := range otherType.Traits {
			if trait.Equal(otherTrait) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for i, constraint := range t.Constraints {
		if !constraint.Equal(otherType.Constraints[i]) {
			return false
		}
	}
	return true
}

func (t *ExistentialType) String() string {
	if t.Generic != nil {
		return fmt.Sprintf("any %s", t.Generic)
	}
	var parts []string
	for _, trait := range t.Traits {
		parts = append(parts, trait.String())
	}
	return fmt.Sprintf("any %s", strings.Join(parts, " & "))
}

// ConformanceLensType views a subject through one of its traits.
type ConformanceLensType struct {
	Subject Type
	Lens    Type
}

func (*ConformanceLensType) isType() {}

func (t *ConformanceLensType) Flags() TypeFlags {
	return typeFlags(t.Subject, t.Lens)
}

func (t *ConformanceLensType) Equal(other Type) bool {
	otherType, ok := other.(*ConformanceLensType)
	return ok &&
		t.Subject.Equal(otherType.Subject) &&
		t.Lens.Equal(otherType.Lens)
}

func (t *ConformanceLensType) String() string {
	return fmt.Sprintf("%s::%s", t.Subject, t.Lens)
}

// ErrorType is the result of failed realization or checking.
// It can't be expressed in programs, and flows through later uses
// without producing further diagnostics.
type ErrorType struct{}

func (*ErrorType) isType() {}

func (*ErrorType) Flags() TypeFlags {
	return TypeFlagHasError | TypeFlagIsCanonical
}

func (t *ErrorType) Equal(other Type) bool {
	_, ok := other.(*ErrorType)
	return ok
}

func (t *ErrorType) String() string {
	return "<<error>>"
}

// BuiltinKind distinguishes the built-in types.
type BuiltinKind int

const (
	// BuiltinKindModule is the sentinel type of the `Builtin` module name.
	BuiltinKindModule BuiltinKind = iota
	// BuiltinKindPointer is a raw pointer.
	BuiltinKindPointer
	// BuiltinKindWord is a machine word.
	BuiltinKindWord
	// BuiltinKindI1, etc. are fixed-width machine integers.
	BuiltinKindI1
	BuiltinKindI8
	BuiltinKindI32
	BuiltinKindI64
	BuiltinKindFloat64
)

func (k BuiltinKind) Name() string {
	switch k {
	case BuiltinKindModule:
		return "Builtin"
	case BuiltinKindPointer:
		return "Builtin.ptr"
	case BuiltinKindWord:
		return "Builtin.word"
	case BuiltinKindI1:
		return "Builtin.i1"
	case BuiltinKindI8:
		return "Builtin.i8"
	case BuiltinKindI32:
		return "Builtin.i32"
	case BuiltinKindI64:
		return "Builtin.i64"
	case BuiltinKindFloat64:
		return "Builtin.float64"
	}
	return "Builtin.unknown"
}

// BuiltinType is one of the compiler's built-in types.
type BuiltinType struct {
	Kind BuiltinKind
}

func (*BuiltinType) isType() {}

func (*BuiltinType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *BuiltinType) Equal(other Type) bool {
	otherType, ok := other.(*BuiltinType)
	return ok && t.Kind == otherType.Kind
}

func (t *BuiltinType) String() string {
	return t.Kind.Name()
}

// NeverType is the bottom type.
type NeverType struct{}

func (*NeverType) isType() {}

func (*NeverType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *NeverType) Equal(other Type) bool {
	_, ok := other.(*NeverType)
	return ok
}

func (t *NeverType) String() string {
	return "Never"
}

// AnyType is the top type.
type AnyType struct{}

func (*AnyType) isType() {}

func (*AnyType) Flags() TypeFlags {
	return TypeFlagIsCanonical
}

func (t *AnyType) Equal(other Type) bool {
	_, ok := other.(*AnyType)
	return ok
}

func (t *AnyType) String() string {
	return "Any"
}

// Singletons for types without interesting structure.
var (
	TheErrorType = &ErrorType{}
	TheNeverType = &NeverType{}
	TheAnyType   = &AnyType{}

	TheBuiltinModuleType = &BuiltinType{Kind: BuiltinKindModule}
)
