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

// Children returns the direct child nodes of the given node, in source order.
func Children(node Node) []Node {
	var children []Node

	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil {
				children = append(children, n)
			}
		}
	}
	addTypeExpr := func(t TypeExpr) {
		if t != nil {
			children = append(children, t)
		}
	}
	addExpr := func(e Expression) {
		if e != nil {
			children = append(children, e)
		}
	}
	addGenericClause := func(clause *GenericClause) {
		if clause == nil {
			return
		}
		for _, parameter := range clause.Parameters {
			add(parameter)
		}
		if clause.WhereClause != nil {
			for _, constraint := range clause.WhereClause.Constraints {
				add(constraint)
			}
		}
	}
	addBody := func(body *FunctionBody) {
		if body == nil {
			return
		}
		if body.Block != nil {
			add(body.Block)
		}
		addExpr(body.Expr)
	}

	switch n := node.(type) {
	case *ModuleDecl:
		for _, source := range n.Sources {
			add(source)
		}

	case *TranslationUnit:
		for _, imp := range n.Imports {
			add(imp)
		}
		for _, decl := range n.Decls {
			add(decl)
		}

	case *ImportDecl:
		// no children

	case *NamespaceDecl:
		for _, member := range n.Members {
			add(member)
		}

	case *ProductTypeDecl:
		addGenericClause(n.GenericClause)
		for _, conformance := range n.Conformances {
			add(conformance)
		}
		for _, member := range n.Members {
			add(member)
		}

	case *TraitDecl:
		if n.SelfParameter != nil {
			add(n.SelfParameter)
		}
		for _, refinement := range n.Refinements {
			add(refinement)
		}
		for _, member := range n.Members {
			add(member)
		}

	case *TypeAliasDecl:
		addGenericClause(n.GenericClause)
		addTypeExpr(n.Aliased)

	case *ExtensionDecl:
		addTypeExpr(n.Subject)
		addGenericClause(n.GenericClause)
		for _, member := range n.Members {
			add(member)
		}

	case *ConformanceDecl:
		addTypeExpr(n.Subject)
		for _, conformance := range n.Conformances {
			add(conformance)
		}
		addGenericClause(n.GenericClause)
		for _, member := range n.Members {
			add(member)
		}

	case *BindingDecl:
		add(n.Pattern)
		addExpr(n.Initializer)

	case *FunctionDecl:
		addGenericClause(n.GenericClause)
		for _, capture := range n.ExplicitCaptures {
			add(capture)
		}
		for _, parameter := range n.Parameters {
			add(parameter)
		}
		addTypeExpr(n.Output)
		addBody(n.Body)

	case *InitializerDecl:
		addGenericClause(n.GenericClause)
		for _, parameter := range n.Parameters {
			add(parameter)
		}
		addBody(n.Body)

	case *MethodBundleDecl:
		addGenericClause(n.GenericClause)
		for _, parameter := range n.Parameters {
			add(parameter)
		}
		addTypeExpr(n.Output)
		for _, variant := range n.Variants {
			add(variant)
		}

	case *MethodVariantDecl:
		addBody(n.Body)

	case *SubscriptDecl:
		addGenericClause(n.GenericClause)
		for _, parameter := range n.Parameters {
			add(parameter)
		}
		addTypeExpr(n.Output)
		for _, variant := range n.Variants {
			add(variant)
		}

	case *SubscriptVariantDecl:
		addBody(n.Body)

	case *ParameterDecl:
		if n.Annotation != nil {
			add(n.Annotation)
		}
		addExpr(n.Default)

	case *GenericParameterDecl:
		for _, annotation := range n.Annotations {
			add(annotation)
		}
		addTypeExpr(n.Default)

	case *AssociatedTypeDecl:
		for _, conformance := range n.Conformances {
			add(conformance)
		}
		if n.WhereClause != nil {
			for _, constraint := range n.WhereClause.Constraints {
				add(constraint)
			}
		}
		addTypeExpr(n.Default)

	case *AssociatedValueDecl:
		if n.WhereClause != nil {
			for _, constraint := range n.WhereClause.Constraints {
				add(constraint)
			}
		}
		addExpr(n.Default)

	case *OperatorDecl:
		// no children

	case *ConformanceConstraint:
		add(n.Subject)
		for _, trait := range n.Traits {
			add(trait)
		}

	case *EqualityConstraint:
		addTypeExpr(n.Left)
		addTypeExpr(n.Right)

	case *ValueConstraint:
		addExpr(n.Expr)

	case *NameExpr:
		addExpr(n.Domain)
		for _, argument := range n.Arguments {
			addTypeExpr(argument.Type)
			addExpr(argument.Value)
		}

	case *TupleExpr:
		for _, element := range n.Elements {
			addExpr(element.Value)
		}

	case *CallExpr:
		addExpr(n.Callee)
		for _, argument := range n.Arguments {
			addExpr(argument.Value)
		}

	case *SubscriptCallExpr:
		addExpr(n.Callee)
		for _, argument := range n.Arguments {
			addExpr(argument.Value)
		}

	case *LambdaExpr:
		add(n.Decl)

	case *SequenceExpr:
		addExpr(n.Head)
		for _, operand := range n.Tail {
			add(operand.Operator)
			addExpr(operand.Operand)
		}

	case *InoutExpr:
		addExpr(n.Subject)

	case *ConditionalExpr:
		addExpr(n.Condition)
		addExpr(n.Success)
		addExpr(n.Failure)

	case *IntegerLiteralExpr,
		*FloatLiteralExpr,
		*BooleanLiteralExpr,
		*StringLiteralExpr:
		// no children

	case *NameTypeExpr:
		addTypeExpr(n.Domain)
		for _, argument := range n.Arguments {
			addTypeExpr(argument.Type)
			addExpr(argument.Value)
		}

	case *TupleTypeExpr:
		for _, element := range n.Elements {
			addTypeExpr(element.Type)
		}

	case *LambdaTypeExpr:
		addTypeExpr(n.Environment)
		for _, input := range n.Inputs {
			add(input.Type)
		}
		addTypeExpr(n.Output)

	case *SumTypeExpr:
		for _, element := range n.Elements {
			addTypeExpr(element)
		}

	case *ExistentialTypeExpr:
		for _, trait := range n.Traits {
			add(trait)
		}
		if n.WhereClause != nil {
			for _, constraint := range n.WhereClause.Constraints {
				add(constraint)
			}
		}

	case *ConformanceLensTypeExpr:
		addTypeExpr(n.Subject)
		addTypeExpr(n.Lens)

	case *RemoteTypeExpr:
		addTypeExpr(n.Operand)

	case *ParameterTypeExpr:
		addTypeExpr(n.Bare)

	case *WildcardTypeExpr:
		// no children

	case *BindingPattern:
		add(n.Subpattern)
		addTypeExpr(n.Annotation)

	case *NamePattern:
		// no children

	case *TuplePattern:
		for _, element := range n.Elements {
			add(element.Pattern)
		}

	case *WildcardPattern:
		// no children

	case *BraceStmt:
		for _, statement := range n.Statements {
			add(statement)
		}

	case *DeclStmt:
		add(n.Decl)

	case *ExprStmt:
		addExpr(n.Expr)

	case *ReturnStmt:
		addExpr(n.Value)

	case *YieldStmt:
		addExpr(n.Value)

	case *AssignStmt:
		addExpr(n.Target)
		addExpr(n.Value)
	}

	return children
}

// Walk visits the given node and all of its descendants in depth-first,
// source order. The walk of a subtree is skipped if visit returns false
// for its root.
func Walk(node Node, visit func(Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}
