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

// shapeMode relates an expression to its expected shape.
type shapeMode int

const (
	shapeFree shapeMode = iota
	shapeEquality
	shapeSubtyping
)

// DeferredQuery consults the final solution and produces additional
// diagnostics or side effects. It returns whether the result is sound.
type DeferredQuery func(*Solution) bool

// inference accumulates the facts, constraints, binding hints, and
// deferred queries of one expression checking problem.
type inference struct {
	checker     *Checker
	useScope    ast.ScopeID
	constraints []Constraint
	facts       map[ast.NodeID]Type
	preBindings map[ast.NodeID]DeclReference
	defaults    map[uint64]Type
	deferred    []DeferredQuery
}

func (c *Checker) newInference(useScope ast.ScopeID) *inference {
	return &inference{
		checker:     c,
		useScope:    useScope,
		facts:       map[ast.NodeID]Type{},
		preBindings: map[ast.NodeID]DeclReference{},
		defaults:    map[uint64]Type{},
	}
}

func (inf *inference) constrain(constraint Constraint) {
	inf.constraints = append(inf.constraints, constraint)
}

// scopeFor returns the scope containing the given node, falling back
// to the inference's root scope for nodes outside the scope tree.
func (inf *inference) scopeFor(node ast.Node) ast.ScopeID {
	if scope := inf.checker.Scopes.ContainingScope(node.ID()); scope != ast.ScopeIDInvalid {
		return scope
	}
	return inf.useScope
}

func (inf *inference) fact(expr ast.Expression, t Type) Type {
	inf.facts[expr.ID()] = t
	return t
}

// checkExpression infers and solves the types of an expression and all
// of its sub-expressions, writing the results into the elaboration.
// It returns the expression's final type.
func (c *Checker) checkExpression(expr ast.Expression, shape Type, mode shapeMode) Type {
	if t, ok := c.Elaboration.ExprType(expr.ID()); ok {
		return t
	}

	inf := c.newInference(c.Scopes.ContainingScope(expr.ID()))
	root := inf.infer(expr)

	if shape != nil && !shape.Flags().HasError() {
		origin := originAt(expr, "expected type")
		switch mode {
		case shapeEquality:
			inf.constrain(&TypeEqualityConstraint{Left: root, Right: shape, origin: origin})
		case shapeSubtyping:
			inf.constrain(&SubtypingConstraint{Sub: root, Super: shape, origin: origin})
		}
	}

	return inf.solveAndCommit(expr, root)
}

// checkSingleExpressionBody checks a single-expression function body:
// the body must be a subtype of the declared return type, or, at a
// penalty, diverge with type Never.
func (c *Checker) checkSingleExpressionBody(expr ast.Expression, returnType Type) {
	if _, ok := c.Elaboration.ExprType(expr.ID()); ok {
		return
	}

	inf := c.newInference(c.Scopes.ContainingScope(expr.ID()))
	root := inf.infer(expr)

	origin := originAt(expr, "single-expression body")
	if returnType != nil && !returnType.Flags().HasError() {
		inf.constrain(&DisjunctionConstraint{
			Choices: []DisjunctionChoice{
				{
					Constraints: []Constraint{
						&SubtypingConstraint{Sub: root, Super: returnType, origin: origin},
					},
					Penalty: 0,
				},
				{
					Constraints: []Constraint{
						&TypeEqualityConstraint{Left: root, Right: TheNeverType, origin: origin},
					},
					Penalty: 1,
				},
			},
			origin: origin,
		})
	}

	inf.solveAndCommit(expr, root)
}

// solveAndCommit runs the solver and writes the solution back into the
// elaboration: expression types, referred declarations, diagnostics.
// Deferred queries run last.
func (inf *inference) solveAndCommit(expr ast.Expression, root Type) Type {
	c := inf.checker

	solution := c.solveConstraints(
		inf.constraints,
		inf.useScope,
		inf.preBindings,
		inf.defaults,
		ast.NewRangeFromPositioned(expr),
	)

	for id, t := range inf.facts { //nolint:maprange
		final := solution.Substitute(t)
		if final.Flags().HasVariable() {
			final = TheErrorType
		}
		c.Elaboration.SetExprType(id, final)

		if c.PositionInfo != nil {
			if node := c.Program.Node(id); node != nil {
				c.PositionInfo.recordOccurrence(node, final)
			}
		}
	}

	for id, reference := range solution.bindings { //nolint:maprange
		c.Elaboration.SetReferredDecl(id, reference)
	}

	c.diagnostics.AddAll(solution.Diagnostics())

	for _, query := range inf.deferred {
		query(solution)
	}

	final := solution.Substitute(root)
	if final.Flags().HasVariable() {
		c.report(&NotEnoughContextError{
			Range: ast.NewRangeFromPositioned(expr),
		})
		final = TheErrorType
	}
	c.Elaboration.SetExprType(expr.ID(), final)
	return final
}

// infer produces the inferred type of an expression, accumulating
// constraints along the way. The returned type may be a fresh variable.
func (inf *inference) infer(expr ast.Expression) Type {
	c := inf.checker

	switch expr := expr.(type) {
	case *ast.NameExpr:
		return inf.fact(expr, inf.inferName(expr, resolutionFlags{
			keepImplicitArguments: true,
			instantiateTypes:      true,
		}, nil))

	case *ast.TupleExpr:
		elements := make([]TupleTypeElement, 0, len(expr.Elements))
		for _, element := range expr.Elements {
			elements = append(elements, TupleTypeElement{
				Label: element.Label,
				Type:  inf.infer(element.Value),
			})
		}
		return inf.fact(expr, &TupleType{Elements: elements})

	case *ast.CallExpr:
		return inf.fact(expr, inf.inferCall(expr, expr.Callee, expr.Arguments, false))

	case *ast.SubscriptCallExpr:
		return inf.fact(expr, inf.inferCall(expr, expr.Callee, expr.Arguments, true))

	case *ast.LambdaExpr:
		return inf.fact(expr, inf.inferLambda(expr))

	case *ast.SequenceExpr:
		folded, ok := c.foldSequence(expr)
		if !ok {
			return inf.fact(expr, TheErrorType)
		}
		return inf.fact(expr, inf.inferFolded(folded))

	case *ast.InoutExpr:
		return inf.fact(expr, inf.infer(expr.Subject))

	case *ast.ConditionalExpr:
		condition := inf.infer(expr.Condition)
		if boolType, ok := c.coreBoolType(); ok {
			inf.constrain(&TypeEqualityConstraint{
				Left:   condition,
				Right:  boolType,
				origin: originAt(expr.Condition, "condition"),
			})
		}
		result := c.freshVariable(variableContextExpression)
		origin := originAt(expr, "conditional")
		inf.constrain(&SubtypingConstraint{
			Sub:    inf.infer(expr.Success),
			Super:  result,
			origin: origin,
		})
		inf.constrain(&SubtypingConstraint{
			Sub:    inf.infer(expr.Failure),
			Super:  result,
			origin: origin,
		})
		return inf.fact(expr, result)

	case *ast.IntegerLiteralExpr:
		variable := c.freshVariable(variableContextExpression)
		if intType, ok := c.coreIntType(); ok {
			inf.defaults[variable.raw] = intType
		} else {
			inf.defaults[variable.raw] = builtinTypesByName["word"]
		}
		return inf.fact(expr, variable)

	case *ast.FloatLiteralExpr:
		variable := c.freshVariable(variableContextExpression)
		inf.defaults[variable.raw] = builtinTypesByName["float64"]
		return inf.fact(expr, variable)

	case *ast.BooleanLiteralExpr:
		if boolType, ok := c.coreBoolType(); ok {
			return inf.fact(expr, boolType)
		}
		return inf.fact(expr, builtinTypesByName["i1"])

	case *ast.StringLiteralExpr:
		if stringType, ok := c.coreTypeNamed("String"); ok {
			return inf.fact(expr, stringType)
		}
		return inf.fact(expr, c.freshVariable(variableContextExpression))
	}

	return TheErrorType
}

// inferName resolves a name expression in value position. When the
// resolution is inexecutable, the caller's inference of the non-nominal
// head supplies the receiver and membership is deferred to the solver.
// The callInfo is non-nil when the name is a callee.
func (inf *inference) inferName(
	expr *ast.NameExpr,
	flags resolutionFlags,
	call *callInfo,
) Type {
	c := inf.checker

	result := c.resolveName(expr, inf.scopeFor(expr), flags)
	switch result.Kind {
	case NameResolutionFailed:
		return TheErrorType

	case NameResolutionInexecutable:
		return inf.inferDeferredMember(expr, result.UnresolvedSuffix, flags, call)
	}

	// record the single-viable prefix components
	prefix := result.ResolvedPrefix
	for _, component := range prefix[:len(prefix)-1] {
		viable := component.Candidates.ViableElements()
		inf.preBindings[component.Expr.ID()] = viable[0].Reference
		inf.facts[component.Expr.ID()] = viable[0].Type
	}

	last := prefix[len(prefix)-1]
	return inf.chooseCandidates(last.Expr, last.Candidates, call)
}

// callInfo carries the context of a name used as a callee.
type callInfo struct {
	arguments   []MemberArgument
	output      Type
	isSubscript bool
}

// chooseCandidates turns a candidate set into facts and constraints:
// a unique viable candidate binds directly, several become an overload
// binding constraint.
func (inf *inference) chooseCandidates(
	expr *ast.NameExpr,
	candidates CandidateSet,
	call *callInfo,
) Type {
	c := inf.checker
	origin := originAt(expr, "name")

	viable := candidates.ViableElements()
	if len(viable) == 0 {
		c.report(&NoViableCandidateError{
			Name:  expr.Identifier.Identifier,
			Range: ast.NewRangeFromPositioned(expr),
		})
		return TheErrorType
	}

	result := c.freshVariable(variableContextOverload)

	var choices []OverloadCandidateChoice
	for _, candidate := range viable {
		if call != nil {
			choices = append(choices, c.callChoices(
				candidate,
				result,
				true,
				call.arguments,
				call.output,
				origin,
				inf.useScope,
			)...)
			continue
		}
		choices = append(choices, OverloadCandidateChoice{
			Candidate: candidate,
			Constraints: []Constraint{
				&TypeEqualityConstraint{
					Left:   result,
					Right:  candidate.Type,
					origin: origin,
				},
			},
		})
	}

	if len(choices) == 0 {
		c.report(&NoViableCandidateError{
			Name:  expr.Identifier.Identifier,
			Range: ast.NewRangeFromPositioned(expr),
		})
		return TheErrorType
	}

	if len(choices) == 1 {
		inf.preBindings[expr.ID()] = choices[0].Candidate.Reference
		inf.constraints = append(inf.constraints, choices[0].Constraints...)
		return result
	}

	inf.constrain(&OverloadBindingConstraint{
		NameExpr:   expr,
		Candidates: choices,
		origin:     origin,
	})
	return result
}

// inferDeferredMember handles a name whose head is a non-nominal
// expression or the implicit receiver: the head's type is inferred (or
// taken from `self`), and each remaining component becomes a deferred
// member constraint.
func (inf *inference) inferDeferredMember(
	expr *ast.NameExpr,
	suffix []*ast.NameExpr,
	flags resolutionFlags,
	call *callInfo,
) Type {
	c := inf.checker

	var receiver Type
	head := suffix[0]
	switch head.DomainKind {
	case ast.NameDomainExplicit:
		receiver = inf.infer(head.Domain)
	case ast.NameDomainImplicit:
		self, ok := c.selfTypeIn(inf.scopeFor(head))
		if !ok {
			c.report(&UndefinedNameError{
				Name:  SelfIdentifier,
				Range: ast.NewRangeFromPositioned(head),
			})
			return TheErrorType
		}
		receiver = self
	default:
		return TheErrorType
	}

	for i, component := range suffix {
		isLast := i == len(suffix)-1
		result := c.freshVariable(variableContextMember)

		member := &MemberConstraint{
			Receiver: receiver,
			Name:     component.Identifier.Identifier,
			Result:   result,
			Expr:     component,
			origin:   originAt(component, "member access"),
		}
		if isLast && call != nil {
			member.IsCall = true
			member.Arguments = call.arguments
			member.Output = call.output
			member.IsSubscript = call.isSubscript
		}
		inf.constrain(member)

		inf.facts[component.ID()] = result
		receiver = result
	}

	return receiver
}

// inferCall infers a function or subscript application.
func (inf *inference) inferCall(
	expr ast.Expression,
	callee ast.Expression,
	arguments []ast.Argument,
	isSubscript bool,
) Type {
	c := inf.checker

	callArguments := make([]MemberArgument, 0, len(arguments))
	for _, argument := range arguments {
		callArguments = append(callArguments, MemberArgument{
			Label: argument.Label,
			Type:  inf.infer(argument.Value),
		})
	}

	output := c.freshVariable(variableContextExpression)
	call := &callInfo{
		arguments:   callArguments,
		output:      output,
		isSubscript: isSubscript,
	}

	if isSubscript {
		// a subscript application is a deferred lookup of `[]` on the
		// callee's type
		receiver := inf.infer(callee)
		result := c.freshVariable(variableContextMember)
		inf.constrain(&MemberConstraint{
			Receiver:    receiver,
			Name:        SubscriptIdentifier,
			Result:      result,
			IsCall:      true,
			IsSubscript: true,
			Arguments:   callArguments,
			Output:      output,
			origin:      originAt(expr, "subscript"),
		})
		return output
	}

	if name, ok := callee.(*ast.NameExpr); ok {
		flags := resolutionFlags{
			keepImplicitArguments: true,
			instantiateTypes:      true,
			usedAsCallee:          true,
		}
		calleeType := inf.inferName(name, flags, call)
		inf.facts[name.ID()] = calleeType
		if calleeType.Flags().HasError() {
			return TheErrorType
		}
		return output
	}

	// non-name callee: its type must be a lambda accepting the
	// arguments
	calleeType := inf.infer(callee)
	origin := originAt(expr, "call")

	parameters := make([]CallableParameter, 0, len(callArguments))
	for _, argument := range callArguments {
		parameters = append(parameters, CallableParameter{
			Label: argument.Label,
			Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       c.freshVariable(variableContextParameter),
			},
		})
	}
	expected := &LambdaType{
		Environment: &TupleType{},
		Inputs:      parameters,
		Output:      output,
	}
	inf.constrain(&TypeEqualityConstraint{
		Left:   calleeType,
		Right:  expected,
		origin: origin,
	})
	for i, argument := range callArguments {
		inf.constrain(&ParameterConstraint{
			Argument:  argument.Type,
			Parameter: parameters[i].Type,
			origin:    origin,
		})
	}

	return output
}

// inferLambda realizes a lambda's declaration in expression context and
// defers the checking of its body until the signature is solved.
func (inf *inference) inferLambda(expr *ast.LambdaExpr) Type {
	c := inf.checker

	decl := expr.Decl
	t := c.realize(decl)

	// a single-expression body participates in the same constraint
	// system, so the lambda's output can be inferred from it
	if lambda, ok := t.(*LambdaType); ok &&
		decl.Body != nil && decl.Body.Expr != nil {

		origin := originAt(decl.Body.Expr, "lambda body")
		bodyType := inf.infer(decl.Body.Expr)
		inf.constrain(&DisjunctionConstraint{
			Choices: []DisjunctionChoice{
				{
					Constraints: []Constraint{
						&SubtypingConstraint{Sub: bodyType, Super: lambda.Output, origin: origin},
					},
					Penalty: 0,
				},
				{
					Constraints: []Constraint{
						&TypeEqualityConstraint{Left: bodyType, Right: TheNeverType, origin: origin},
					},
					Penalty: 1,
				},
			},
			origin: origin,
		})
	}

	inf.deferred = append(inf.deferred, func(solution *Solution) bool {
		lambda, ok := t.(*LambdaType)
		if !ok {
			return false
		}

		for _, parameter := range decl.Parameters {
			if parameterType, ok := c.Elaboration.DeclType(parameter.ID()); ok {
				c.Elaboration.SetDeclType(parameter.ID(), solution.Substitute(parameterType))
			}
		}

		solved := solution.Substitute(lambda).(*LambdaType)
		c.Elaboration.SetDeclType(decl.ID(), solved)

		before := c.diagnostics.ErrorCount()
		c.checkFunctionBody(decl, decl.Body, solved.Output)
		c.Elaboration.SetDeclRequest(decl.ID(), DeclRequestDone)
		return c.diagnostics.ErrorCount() == before
	})

	return t
}

// inferFolded infers a folded operator tree as nested applications.
func (inf *inference) inferFolded(node *FoldedSequenceNode) Type {
	c := inf.checker

	if node.IsLeaf() {
		return inf.infer(node.Expr)
	}

	left := inf.inferFolded(node.Left)
	right := inf.inferFolded(node.Right)

	output := c.freshVariable(variableContextExpression)
	origin := originAt(node.Operator, "operator application")

	// global operator functions first
	stem := node.Operator.Identifier.Identifier
	operatorScope := inf.scopeFor(node.Operator)
	matches := c.lookupUnqualified(stem, operatorScope)
	var choices []OverloadCandidateChoice
	for _, match := range matches {
		function, ok := match.(*ast.FunctionDecl)
		if !ok || !function.IsOperator {
			continue
		}
		candidate := c.buildCandidate(
			match,
			DeclReferenceDirect,
			nil,
			nil,
			operatorScope,
			resolutionFlags{keepImplicitArguments: true, instantiateTypes: true},
		)
		if len(candidate.Diagnostics) > 0 {
			continue
		}
		lambda, ok := candidate.Type.(*LambdaType)
		if !ok || len(lambda.Inputs) != 2 {
			continue
		}
		choices = append(choices, OverloadCandidateChoice{
			Candidate: candidate,
			Constraints: []Constraint{
				&ParameterConstraint{Argument: left, Parameter: lambda.Inputs[0].Type, origin: origin},
				&ParameterConstraint{Argument: right, Parameter: lambda.Inputs[1].Type, origin: origin},
				&TypeEqualityConstraint{Left: output, Right: lambda.Output, origin: origin},
			},
		})
	}

	if len(choices) == 1 {
		inf.preBindings[node.Operator.ID()] = choices[0].Candidate.Reference
		inf.constraints = append(inf.constraints, choices[0].Constraints...)
		return output
	}
	if len(choices) > 1 {
		inf.constrain(&OverloadBindingConstraint{
			NameExpr:   node.Operator,
			Candidates: choices,
			origin:     origin,
		})
		return output
	}

	// fall back to a member operator on the left operand
	result := c.freshVariable(variableContextMember)
	inf.constrain(&MemberConstraint{
		Receiver:  left,
		Name:      stem,
		Result:    result,
		Expr:      node.Operator,
		IsCall:    true,
		Arguments: []MemberArgument{{Type: right}},
		Output:    output,
		origin:    origin,
	})
	return output
}

// coreTypeNamed returns the core library's product type with the given
// name, if present.
func (c *Checker) coreTypeNamed(name string) (Type, bool) {
	module := c.Config.CoreLibrary
	if module == nil {
		return nil, false
	}
	for _, unit := range module.Sources {
		for _, decl := range unit.Decls {
			if product, ok := decl.(*ast.ProductTypeDecl); ok &&
				product.Identifier.Identifier == name {

				return &ProductType{Decl: product}, true
			}
		}
	}
	return nil, false
}

// inferBindingType infers a binding declaration's type from its pattern
// and initializer, assigning the introduced variables their types.
// An annotated binding checks the initializer by subtyping; an
// unannotated one uses equality, preserving literal precision.
func (c *Checker) inferBindingType(decl *ast.BindingDecl) Type {
	pattern := decl.Pattern
	useScope := c.Scopes.ContainingScope(decl.ID())

	var annotation Type
	if pattern.Annotation != nil {
		annotation = c.realizeTypeExpr(pattern.Annotation, useScope)
	}

	var t Type
	switch {
	case decl.Initializer != nil && annotation != nil:
		c.checkExpression(decl.Initializer, annotation, shapeSubtyping)
		t = annotation

	case decl.Initializer != nil:
		t = c.checkExpression(decl.Initializer, nil, shapeFree)

	case annotation != nil:
		t = annotation

	default:
		c.report(&NotEnoughContextError{
			Range: ast.NewRangeFromPositioned(decl),
		})
		t = TheErrorType
	}

	c.assignPatternTypes(pattern.Subpattern, t)
	return t
}

// assignPatternTypes destructures a solved type over a pattern,
// assigning each introduced name its type.
func (c *Checker) assignPatternTypes(pattern ast.Pattern, t Type) {
	switch pattern := pattern.(type) {
	case *ast.NamePattern:
		c.Elaboration.SetDeclType(pattern.ID(), t)
		c.Elaboration.SetDeclRequest(pattern.ID(), DeclRequestDone)

	case *ast.TuplePattern:
		tuple, ok := c.Relations.Canonical(t).(*TupleType)
		if !ok || len(tuple.Elements) != len(pattern.Elements) {
			if !t.Flags().HasError() {
				c.report(&TypeMismatchError{
					Expected: &TupleType{},
					Actual:   t,
					Range:    ast.NewRangeFromPositioned(pattern),
				})
			}
			for _, element := range pattern.Elements {
				c.assignPatternTypes(element.Pattern, TheErrorType)
			}
			return
		}
		for i, element := range pattern.Elements {
			c.assignPatternTypes(element.Pattern, tuple.Elements[i].Type)
		}

	case *ast.BindingPattern:
		c.assignPatternTypes(pattern.Subpattern, t)

	case *ast.WildcardPattern:
		// nothing to assign
	}
}

// checkBindingDecl checks a binding declaration. The heavy lifting
// happens during realization, which infers the binding's type.
func (c *Checker) checkBindingDecl(decl *ast.BindingDecl) {
	c.realize(decl)
}
