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
	"sort"

	"github.com/hylo-lang/val/ast"
)

// solverStepLimit bounds the solver's work per expression.
const solverStepLimit = 100_000

// Solution is the outcome of solving a constraint system.
type Solution struct {
	substitutions map[uint64]Type
	bindings      map[ast.NodeID]DeclReference
	diagnostics   []Diagnostic
	Score         int
	sound         bool
}

// Substitute replaces every solved variable in the given type.
func (s *Solution) Substitute(t Type) Type {
	return SubstituteVariables(t, s.substitutions)
}

// Binding returns the declaration reference chosen for the given name
// expression.
func (s *Solution) Binding(expr ast.NodeID) (DeclReference, bool) {
	reference, ok := s.bindings[expr]
	return reference, ok
}

// IsSound reports whether the solution carries no error diagnostic.
func (s *Solution) IsSound() bool {
	return s.sound
}

func (s *Solution) Diagnostics() []Diagnostic {
	return s.diagnostics
}

type solverShared struct {
	checker *Checker
	best    int
	hasBest bool
	steps   int
	trace   bool
}

// solver explores one branch of a constraint problem. Forking on a
// disjunction clones the solver; the shared state carries the best
// completed score for pruning.
type solver struct {
	shared        *solverShared
	useScope      ast.ScopeID
	worklist      []Constraint
	stalled       []Constraint
	substitutions map[uint64]Type
	defaults      map[uint64]Type
	bindings      map[ast.NodeID]DeclReference
	diagnostics   []Diagnostic
	score         int
}

func (s *solver) checker() *Checker {
	return s.shared.checker
}

func (s *solver) clone() *solver {
	child := &solver{
		shared:        s.shared,
		useScope:      s.useScope,
		worklist:      append([]Constraint(nil), s.worklist...),
		stalled:       append([]Constraint(nil), s.stalled...),
		substitutions: make(map[uint64]Type, len(s.substitutions)),
		defaults:      s.defaults,
		bindings:      make(map[ast.NodeID]DeclReference, len(s.bindings)),
		diagnostics:   append([]Diagnostic(nil), s.diagnostics...),
		score:         s.score,
	}
	for raw, t := range s.substitutions {
		child.substitutions[raw] = t
	}
	for id, reference := range s.bindings {
		child.bindings[id] = reference
	}
	return child
}

func (s *solver) diagnose(diagnostic Diagnostic) {
	s.diagnostics = append(s.diagnostics, diagnostic)
}

func (s *solver) substitute(t Type) Type {
	return SubstituteVariables(t, s.substitutions)
}

// solve runs the branch to completion and returns every completed
// solution reachable from it.
func (s *solver) solve() []*Solution {
	for {
		s.shared.steps++
		if s.shared.steps > solverStepLimit {
			return []*Solution{s.finish()}
		}

		if len(s.worklist) == 0 {
			if s.resolveStalled() {
				continue
			}
			return []*Solution{s.finish()}
		}

		constraint := s.worklist[0]
		s.worklist = s.worklist[1:]

		s.traceStep(constraint)

		switch constraint := constraint.(type) {
		case *DisjunctionConstraint:
			return s.forkDisjunction(constraint)

		case *OverloadBindingConstraint:
			return s.forkOverload(constraint)

		default:
			if s.apply(constraint) {
				s.requeueStalled()
			}
		}
	}
}

func (s *solver) requeueStalled() {
	if len(s.stalled) == 0 {
		return
	}
	s.worklist = append(s.worklist, s.stalled...)
	s.stalled = nil
}

func (s *solver) postpone(constraint Constraint) {
	s.stalled = append(s.stalled, constraint)
}

// resolveStalled makes progress when only postponed constraints remain:
// first by strengthening one variable-blocked subtyping constraint into
// an equality, then by applying literal defaults.
func (s *solver) resolveStalled() bool {
	// strengthen one variable-blocked subtyping constraint first, so
	// flowing context beats literal defaults
	for i, constraint := range s.stalled {
		subtyping, ok := constraint.(*SubtypingConstraint)
		if !ok {
			continue
		}
		s.stalled = append(s.stalled[:i], s.stalled[i+1:]...)
		s.worklist = append(s.worklist, &TypeEqualityConstraint{
			Left:   subtyping.Sub,
			Right:  subtyping.Super,
			origin: subtyping.origin,
		})
		s.requeueStalled()
		return true
	}

	// then literal defaults, in variable order for determinism
	raws := make([]uint64, 0, len(s.defaults))
	for raw := range s.defaults { //nolint:maprange
		raws = append(raws, raw)
	}
	sort.Slice(raws, func(i, j int) bool { return raws[i] < raws[j] })
	for _, raw := range raws {
		if _, bound := s.substitutions[raw]; !bound {
			def := s.defaults[raw]
			variable := &TypeVariable{raw: raw}
			if s.occurs(variable, def) {
				continue
			}
			s.substitutions[raw] = def
			s.requeueStalled()
			return true
		}
	}

	return false
}

// finish reports the postponed constraints which never became solvable
// and seals the branch into a solution.
func (s *solver) finish() *Solution {
	for _, constraint := range s.stalled {
		s.diagnose(&NotEnoughContextError{
			Range: constraint.Origin().Range,
		})
	}

	sound := true
	for _, diagnostic := range s.diagnostics {
		if diagnostic.Severity() == SeverityError {
			sound = false
			break
		}
	}

	if sound {
		if !s.shared.hasBest || s.score < s.shared.best {
			s.shared.hasBest = true
			s.shared.best = s.score
		}
	}

	return &Solution{
		substitutions: s.substitutions,
		bindings:      s.bindings,
		diagnostics:   s.diagnostics,
		Score:         s.score,
		sound:         sound,
	}
}

func (s *solver) forkDisjunction(constraint *DisjunctionConstraint) []*Solution {
	var results []*Solution
	for _, choice := range constraint.Choices {
		if s.shared.hasBest && s.score+choice.Penalty > s.shared.best {
			continue
		}
		child := s.clone()
		child.score += choice.Penalty
		child.worklist = append(
			append([]Constraint(nil), choice.Constraints...),
			child.worklist...,
		)
		results = append(results, child.solve()...)
	}
	if len(results) == 0 {
		s.diagnose(&NotEnoughContextError{Range: constraint.Origin().Range})
		results = []*Solution{s.finish()}
	}
	return results
}

func (s *solver) forkOverload(constraint *OverloadBindingConstraint) []*Solution {
	var results []*Solution
	for _, choice := range constraint.Candidates {
		if s.shared.hasBest && s.score+choice.Penalty > s.shared.best {
			continue
		}
		child := s.clone()
		child.score += choice.Penalty
		if constraint.NameExpr != nil {
			child.bindings[constraint.NameExpr.ID()] = choice.Candidate.Reference
		}
		child.diagnostics = append(child.diagnostics, choice.Candidate.Diagnostics...)
		child.worklist = append(
			append([]Constraint(nil), choice.Constraints...),
			child.worklist...,
		)
		results = append(results, child.solve()...)
	}
	if len(results) == 0 {
		name := ""
		if constraint.NameExpr != nil {
			name = constraint.NameExpr.Identifier.Identifier
		}
		s.diagnose(&NoViableCandidateError{
			Name:  name,
			Range: constraint.Origin().Range,
		})
		results = []*Solution{s.finish()}
	}
	return results
}

// apply processes one simple constraint. It returns true if a variable
// was bound.
func (s *solver) apply(constraint Constraint) bool {
	switch constraint := constraint.(type) {
	case *TypeEqualityConstraint:
		return s.unify(constraint.Left, constraint.Right, constraint.origin)

	case *SubtypingConstraint:
		return s.applySubtyping(constraint)

	case *ParameterConstraint:
		return s.applyParameter(constraint)

	case *TraitConformanceConstraint:
		return s.applyConformance(constraint)

	case *MemberConstraint:
		return s.applyMember(constraint)
	}

	panic(newUnreachableError())
}

// occurs reports whether the given variable occurs in the type.
func (s *solver) occurs(variable *TypeVariable, t Type) bool {
	found := false
	TransformType(s.substitute(t), func(part Type) (Type, bool) {
		if other, ok := part.(*TypeVariable); ok && other.raw == variable.raw {
			found = true
		}
		if found {
			return part, true
		}
		return nil, false
	})
	return found
}

// unify makes both types equal, binding variables as needed.
// It returns true if a variable was bound.
func (s *solver) unify(left, right Type, origin ConstraintOrigin) bool {
	left = s.substitute(left)
	right = s.substitute(right)

	// errors flow through without further diagnostics
	if left.Flags().HasError() || right.Flags().HasError() {
		return false
	}

	if leftVariable, ok := left.(*TypeVariable); ok {
		if rightVariable, ok := right.(*TypeVariable); ok &&
			leftVariable.raw == rightVariable.raw {

			return false
		}
		if s.occurs(leftVariable, right) {
			s.diagnose(&TypeMismatchError{
				Expected: right,
				Actual:   left,
				Range:    origin.Range,
			})
			return false
		}
		s.substitutions[leftVariable.raw] = right
		return true
	}
	if rightVariable, ok := right.(*TypeVariable); ok {
		if s.occurs(rightVariable, left) {
			s.diagnose(&TypeMismatchError{
				Expected: left,
				Actual:   right,
				Range:    origin.Range,
			})
			return false
		}
		s.substitutions[rightVariable.raw] = left
		return true
	}

	relations := s.checker().Relations
	left = relations.Canonical(left)
	right = relations.Canonical(right)

	progress := false
	mismatch := func() {
		s.diagnose(&TypeMismatchError{
			Expected: right,
			Actual:   left,
			Range:    origin.Range,
		})
	}

	switch left := left.(type) {
	case *LambdaType:
		right, ok := right.(*LambdaType)
		if !ok ||
			len(left.Inputs) != len(right.Inputs) ||
			left.ReceiverEffect != right.ReceiverEffect {

			mismatch()
			return false
		}
		for i, input := range left.Inputs {
			if input.Label != right.Inputs[i].Label {
				mismatch()
				return false
			}
			progress = s.unify(input.Type, right.Inputs[i].Type, origin) || progress
		}
		if left.Environment != nil && right.Environment != nil {
			progress = s.unify(left.Environment, right.Environment, origin) || progress
		}
		progress = s.unify(left.Output, right.Output, origin) || progress
		return progress

	case *TupleType:
		right, ok := right.(*TupleType)
		if !ok || len(left.Elements) != len(right.Elements) {
			mismatch()
			return false
		}
		for i, element := range left.Elements {
			if element.Label != right.Elements[i].Label {
				mismatch()
				return false
			}
			progress = s.unify(element.Type, right.Elements[i].Type, origin) || progress
		}
		return progress

	case *ParameterType:
		right, ok := right.(*ParameterType)
		if !ok || left.Convention != right.Convention {
			mismatch()
			return false
		}
		return s.unify(left.Bare, right.Bare, origin)

	case *RemoteType:
		right, ok := right.(*RemoteType)
		if !ok || left.Effect != right.Effect {
			mismatch()
			return false
		}
		return s.unify(left.Operand, right.Operand, origin)

	case *MetatypeType:
		right, ok := right.(*MetatypeType)
		if !ok {
			mismatch()
			return false
		}
		return s.unify(left.Instance, right.Instance, origin)

	case *BoundGenericType:
		right, ok := right.(*BoundGenericType)
		if !ok || !left.Base.Equal(right.Base) ||
			left.Arguments.Len() != right.Arguments.Len() {

			mismatch()
			return false
		}
		failed := false
		left.Arguments.Foreach(func(parameter *ast.GenericParameterDecl, value CompileTimeValue) {
			otherValue, present := right.Arguments.Get(parameter)
			if !present {
				failed = true
				return
			}
			leftType, leftIsType := value.(TypeValue)
			rightType, rightIsType := otherValue.(TypeValue)
			if leftIsType && rightIsType {
				progress = s.unify(leftType.Type, rightType.Type, origin) || progress
				return
			}
			if !value.Equal(otherValue) {
				failed = true
			}
		})
		if failed {
			mismatch()
			return false
		}
		return progress
	}

	if !left.Equal(right) {
		mismatch()
	}
	return false
}

func (s *solver) applySubtyping(constraint *SubtypingConstraint) bool {
	sub := s.substitute(constraint.Sub)
	super := s.substitute(constraint.Super)

	if sub.Flags().HasError() || super.Flags().HasError() {
		return false
	}

	if sub.Flags().HasVariable() || super.Flags().HasVariable() {
		_, subIsVariable := sub.(*TypeVariable)
		_, superIsVariable := super.(*TypeVariable)
		if subIsVariable || superIsVariable {
			s.postpone(&SubtypingConstraint{
				Sub:    sub,
				Super:  super,
				origin: constraint.origin,
			})
			return false
		}
	}

	if s.isSubtype(sub, super, constraint.origin) {
		return false
	}

	s.diagnose(&NotASubtypeError{
		SubType:   sub,
		SuperType: super,
		Range:     constraint.origin.Range,
	})
	return false
}

// isSubtype decides concrete subtyping by variance rules. Nested
// unification may still bind variables inside composite types.
func (s *solver) isSubtype(sub, super Type, origin ConstraintOrigin) bool {
	relations := s.checker().Relations
	sub = relations.Canonical(sub)
	super = relations.Canonical(super)

	// diverging bodies are admitted through the return disjunction,
	// not a bottom-type subtyping rule
	if _, ok := super.(*AnyType); ok {
		return true
	}

	switch super := super.(type) {
	case *ExistentialType:
		for _, trait := range super.Traits {
			traitType, ok := trait.(*TraitType)
			if !ok {
				continue
			}
			if !s.checker().conformsTo(sub, traitType, s.useScope) {
				return false
			}
		}
		if super.Generic != nil {
			return relations.AreEquivalent(sub, super.Generic)
		}
		return true

	case *SumType:
		// a sum's subtypes are its elements and its element subsets
		if subSum, ok := sub.(*SumType); ok {
			for _, element := range subSum.Elements {
				if !containsEquivalent(relations, super.Elements, element) {
					return false
				}
			}
			return true
		}
		return containsEquivalent(relations, super.Elements, sub)

	case *LambdaType:
		subLambda, ok := sub.(*LambdaType)
		if !ok || len(subLambda.Inputs) != len(super.Inputs) {
			return false
		}
		// contravariant in inputs
		for i, input := range super.Inputs {
			if input.Label != subLambda.Inputs[i].Label {
				return false
			}
			superBare, subBare := bareOf(input.Type), bareOf(subLambda.Inputs[i].Type)
			if !s.isSubtype(superBare, subBare, origin) {
				return false
			}
		}
		// covariant in outputs
		return s.isSubtype(subLambda.Output, super.Output, origin)

	case *TupleType:
		subTuple, ok := sub.(*TupleType)
		if !ok || len(subTuple.Elements) != len(super.Elements) {
			return false
		}
		for i, element := range super.Elements {
			if element.Label != subTuple.Elements[i].Label {
				return false
			}
			if !s.isSubtype(subTuple.Elements[i].Type, element.Type, origin) {
				return false
			}
		}
		return true

	case *MetatypeType:
		subMetatype, ok := sub.(*MetatypeType)
		if !ok {
			return false
		}
		return s.isSubtype(subMetatype.Instance, super.Instance, origin)
	}

	return relations.AreEquivalent(sub, super)
}

func containsEquivalent(relations *Relations, haystack []Type, needle Type) bool {
	for _, element := range haystack {
		if relations.AreEquivalent(element, needle) {
			return true
		}
	}
	return false
}

func bareOf(t Type) Type {
	if parameter, ok := t.(*ParameterType); ok {
		return parameter.Bare
	}
	return t
}

// applyParameter strips the convention and recurses with the
// appropriate direction: mutating conventions require equality,
// the rest subtyping.
func (s *solver) applyParameter(constraint *ParameterConstraint) bool {
	parameter := s.substitute(constraint.Parameter)

	if _, isVariable := parameter.(*TypeVariable); isVariable {
		s.postpone(&ParameterConstraint{
			Argument:  constraint.Argument,
			Parameter: parameter,
			origin:    constraint.origin,
		})
		return false
	}

	parameterType, ok := parameter.(*ParameterType)
	if !ok {
		s.worklist = append(s.worklist, &SubtypingConstraint{
			Sub:    constraint.Argument,
			Super:  parameter,
			origin: constraint.origin,
		})
		return false
	}

	switch parameterType.Convention {
	case ast.AccessEffectInout, ast.AccessEffectSet:
		return s.unify(constraint.Argument, parameterType.Bare, constraint.origin)
	default:
		s.worklist = append(s.worklist, &SubtypingConstraint{
			Sub:    constraint.Argument,
			Super:  parameterType.Bare,
			origin: constraint.origin,
		})
		return false
	}
}

func (s *solver) applyConformance(constraint *TraitConformanceConstraint) bool {
	model := s.substitute(constraint.Model)

	if model.Flags().HasError() {
		return false
	}
	if _, isVariable := model.(*TypeVariable); isVariable {
		s.postpone(&TraitConformanceConstraint{
			Model:  model,
			Traits: constraint.Traits,
			origin: constraint.origin,
		})
		return false
	}

	for _, trait := range constraint.Traits {
		traitType, ok := s.checker().Relations.Canonical(trait).(*TraitType)
		if !ok {
			continue
		}
		if !s.checker().conformsTo(model, traitType, s.useScope) {
			s.diagnose(&DoesNotConformError{
				Model: model,
				Trait: traitType,
				Range: constraint.origin.Range,
			})
		}
	}
	return false
}

// applyMember refines a deferred membership lookup once the receiver is
// concrete.
func (s *solver) applyMember(constraint *MemberConstraint) bool {
	receiver := s.substitute(constraint.Receiver)

	if receiver.Flags().HasError() {
		return s.unify(constraint.Result, TheErrorType, constraint.origin)
	}
	if _, isVariable := receiver.(*TypeVariable); isVariable {
		s.postpone(&MemberConstraint{
			Receiver:    receiver,
			Name:        constraint.Name,
			Result:      constraint.Result,
			Expr:        constraint.Expr,
			IsCall:      constraint.IsCall,
			Arguments:   constraint.Arguments,
			Output:      constraint.Output,
			IsSubscript: constraint.IsSubscript,
			origin:      constraint.origin,
		})
		return false
	}

	checker := s.checker()
	flags := resolutionFlags{
		keepImplicitArguments: true,
		instantiateTypes:      true,
		usedAsCallee:          constraint.IsCall && !constraint.IsSubscript,
		usedAsSubscriptCallee: constraint.IsSubscript,
	}

	var candidates CandidateSet
	if constraint.Expr != nil {
		candidates = checker.resolveComponent(constraint.Expr, receiver, s.useScope, flags)
	} else {
		candidates = checker.resolveMemberCandidates(
			constraint.Name,
			receiver,
			DeclReferenceMember,
			nil,
			s.useScope,
			flags,
		)
	}

	viable := candidates.ViableElements()
	if len(viable) == 0 {
		s.diagnose(&UndefinedNameError{
			Name:       constraint.Name,
			Candidates: checker.visibleNames(receiver, s.useScope),
			Range:      constraint.origin.Range,
		})
		return s.unify(constraint.Result, TheErrorType, constraint.origin)
	}

	var choices []OverloadCandidateChoice
	for _, candidate := range viable {
		choices = append(choices, checker.callChoices(
			candidate,
			constraint.Result,
			constraint.IsCall,
			constraint.Arguments,
			constraint.Output,
			constraint.origin,
			s.useScope,
		)...)
	}

	if len(choices) == 0 {
		s.diagnose(&NoViableCandidateError{
			Name:  constraint.Name,
			Range: constraint.origin.Range,
		})
		return s.unify(constraint.Result, TheErrorType, constraint.origin)
	}

	if len(choices) == 1 {
		if constraint.Expr != nil {
			s.bindings[constraint.Expr.ID()] = choices[0].Candidate.Reference
		}
		s.worklist = append(s.worklist, choices[0].Constraints...)
		return false
	}

	s.worklist = append(s.worklist, &OverloadBindingConstraint{
		NameExpr:   constraint.Expr,
		Candidates: choices,
		origin:     constraint.origin,
	})
	return false
}

// callChoices turns one resolution candidate into overload choices.
// A metatype used as a callee expands into its constructors.
func (c *Checker) callChoices(
	candidate Candidate,
	result Type,
	isCall bool,
	arguments []MemberArgument,
	output Type,
	origin ConstraintOrigin,
	useScope ast.ScopeID,
) []OverloadCandidateChoice {
	if isCall {
		if metatype, ok := candidate.Type.(*MetatypeType); ok {
			return c.constructorChoices(candidate, metatype, result, arguments, output, origin, useScope)
		}
	}

	side := c.candidateConstraints(candidate, result, isCall, arguments, output, origin)
	if side == nil {
		return nil
	}
	return []OverloadCandidateChoice{
		{Candidate: candidate, Constraints: side},
	}
}

// constructorChoices expands a metatype callee into one choice per
// initializer of the instance type. A product type without explicit
// initializers gets its implicit memberwise initializer.
func (c *Checker) constructorChoices(
	candidate Candidate,
	metatype *MetatypeType,
	result Type,
	arguments []MemberArgument,
	output Type,
	origin ConstraintOrigin,
	useScope ast.ScopeID,
) []OverloadCandidateChoice {
	instance := c.Relations.Canonical(metatype.Instance)

	base := instance
	var explicitBound *GenericArguments
	if boundGeneric, ok := instance.(*BoundGenericType); ok {
		base = boundGeneric.Base
		explicitBound = boundGeneric.Arguments
	}

	// open the base's unbound parameters as fresh variables
	parameters := genericParametersOf(base)
	specializations := Specializations{}
	resultArguments := &GenericArguments{}
	for _, parameter := range parameters {
		var value CompileTimeValue
		if explicitBound != nil {
			if existing, ok := explicitBound.Get(parameter); ok {
				value = existing
			}
		}
		if value == nil {
			value = TypeValue{Type: c.freshVariable(variableContextOverload)}
		}
		specializations[parameter] = value
		resultArguments.Set(parameter, value)
	}

	constructed := base
	if resultArguments.Len() > 0 {
		constructed = &BoundGenericType{Base: base, Arguments: resultArguments}
	}

	makeChoice := func(inputs []CallableParameter, reference DeclReference) []OverloadCandidateChoice {
		if len(inputs) != len(arguments) {
			return nil
		}
		constraints := []Constraint{
			&TypeEqualityConstraint{Left: result, Right: candidate.Type, origin: origin},
		}
		for i, input := range inputs {
			if input.Label != "" && input.Label != arguments[i].Label {
				return nil
			}
			constraints = append(constraints, &ParameterConstraint{
				Argument:  arguments[i].Type,
				Parameter: Specialize(input.Type, specializations),
				origin:    origin,
			})
		}
		constraints = append(constraints, &TypeEqualityConstraint{
			Left:   output,
			Right:  constructed,
			origin: origin,
		})
		choiceCandidate := candidate
		choiceCandidate.Reference = reference
		return []OverloadCandidateChoice{
			{Candidate: choiceCandidate, Constraints: constraints},
		}
	}

	var choices []OverloadCandidateChoice

	initializers := c.lookupMember(base, InitializerIdentifier, useScope)
	for _, initializer := range initializers {
		lambda, ok := c.realize(initializer).(*LambdaType)
		if !ok {
			continue
		}
		reference := DeclReference{
			Kind:      DeclReferenceConstructor,
			Decl:      initializer,
			Arguments: resultArguments,
		}
		choices = append(choices, makeChoice(lambda.Inputs, reference)...)
	}

	if len(initializers) == 0 {
		if product, ok := base.(*ProductType); ok {
			reference := DeclReference{
				Kind:      DeclReferenceConstructor,
				Decl:      product.Decl,
				Arguments: resultArguments,
			}
			choices = append(choices, makeChoice(c.memberwiseInputsOf(product.Decl), reference)...)
		}
	}

	return choices
}

// candidateConstraints builds the side-constraints implied by choosing
// a candidate: the result equals the candidate's type and, for calls,
// the arguments satisfy the callable's parameters and the call's
// output equals the callable's output. A nil result excludes the
// candidate.
func (c *Checker) candidateConstraints(
	candidate Candidate,
	result Type,
	isCall bool,
	arguments []MemberArgument,
	output Type,
	origin ConstraintOrigin,
) []Constraint {
	constraints := []Constraint{
		&TypeEqualityConstraint{
			Left:   result,
			Right:  candidate.Type,
			origin: origin,
		},
	}

	if !isCall {
		return constraints
	}

	var inputs []CallableParameter
	var callOutput Type

	switch candidateType := candidate.Type.(type) {
	case *LambdaType:
		inputs = candidateType.Inputs
		callOutput = candidateType.Output

	case *SubscriptType:
		inputs = candidateType.Inputs
		callOutput = candidateType.Output

	case *MethodBundleType:
		variant, ok := candidateType.VariantType(preferredVariant(candidateType.Variants))
		if !ok {
			return nil
		}
		inputs = variant.Inputs
		callOutput = variant.Output

	case *TypeVariable:
		// leave the application to unification
		parameters := make([]CallableParameter, 0, len(arguments))
		for _, argument := range arguments {
			parameters = append(parameters, CallableParameter{
				Label: argument.Label,
				Type: &ParameterType{
					Convention: ast.AccessEffectLet,
					Bare:       argument.Type,
				},
			})
		}
		constraints = append(constraints, &TypeEqualityConstraint{
			Left: candidateType,
			Right: &LambdaType{
				Inputs: parameters,
				Output: output,
			},
			origin: origin,
		})
		return constraints

	default:
		return nil
	}

	if len(inputs) != len(arguments) {
		return nil
	}
	for i, input := range inputs {
		if input.Label != "" && input.Label != arguments[i].Label {
			return nil
		}
		constraints = append(constraints, &ParameterConstraint{
			Argument:  arguments[i].Type,
			Parameter: input.Type,
			origin:    origin,
		})
	}
	constraints = append(constraints, &TypeEqualityConstraint{
		Left:   output,
		Right:  callOutput,
		origin: origin,
	})

	return constraints
}

// preferredVariant picks the variant used when a bundle is applied
// without further context.
func preferredVariant(variants AccessEffectSet) ast.AccessEffect {
	for _, effect := range []ast.AccessEffect{
		ast.AccessEffectLet,
		ast.AccessEffectInout,
		ast.AccessEffectSink,
		ast.AccessEffectSet,
		ast.AccessEffectYielded,
	} {
		if variants.Contains(effect) {
			return effect
		}
	}
	return ast.AccessEffectLet
}

// solveConstraints runs the solver over a generated constraint system
// and returns the best solution. Ties on score are reported as
// ambiguous.
func (c *Checker) solveConstraints(
	constraints []Constraint,
	useScope ast.ScopeID,
	preBindings map[ast.NodeID]DeclReference,
	defaults map[uint64]Type,
	site ast.Range,
) *Solution {
	shared := &solverShared{
		checker: c,
		trace:   c.traceEnabledAt(site),
	}

	root := &solver{
		shared:        shared,
		useScope:      useScope,
		worklist:      constraints,
		substitutions: map[uint64]Type{},
		defaults:      defaults,
		bindings:      map[ast.NodeID]DeclReference{},
	}
	for id, reference := range preBindings {
		root.bindings[id] = reference
	}

	solutions := root.solve()

	best := solutions[0]
	for _, solution := range solutions[1:] {
		if solution.betterThan(best) {
			best = solution
		}
	}

	// report ties between sound solutions with different bindings
	var tiedSites []ast.Range
	tieName := ""
	for _, solution := range solutions {
		if solution == best || !solution.sound || solution.Score != best.Score {
			continue
		}
		if name, differing := bindingsDiffer(c, best, solution); differing {
			tieName = name
			for id, reference := range solution.bindings {
				if other, ok := best.bindings[id]; !ok || other.Decl != reference.Decl {
					if reference.Decl != nil {
						tiedSites = append(tiedSites, ast.NewRangeFromPositioned(reference.Decl))
					}
				}
			}
		}
	}
	if tieName != "" {
		best.diagnostics = append(best.diagnostics, &AmbiguousOverloadError{
			Name:  tieName,
			Sites: tiedSites,
			Range: site,
		})
		best.sound = false
	}

	return best
}

func (s *Solution) betterThan(other *Solution) bool {
	if s.sound != other.sound {
		return s.sound
	}
	return s.Score < other.Score
}

func bindingsDiffer(c *Checker, a, b *Solution) (string, bool) {
	for id, reference := range a.bindings {
		other, ok := b.bindings[id]
		if ok && other.Decl != reference.Decl {
			if expr, isName := c.Program.Node(id).(*ast.NameExpr); isName {
				return expr.Identifier.Identifier, true
			}
			return "", true
		}
	}
	return "", false
}
