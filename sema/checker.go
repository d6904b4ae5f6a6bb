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
	"io"

	"github.com/hylo-lang/val/ast"
)

const SelfIdentifier = "self"
const SelfTypeIdentifier = "Self"
const InitializerIdentifier = "init"
const SubscriptIdentifier = "[]"

// Checker is the semantic front-end: it resolves names, realizes
// declared types, checks declarations and expressions, and registers
// conformances. All of its mutable state is owned by one instance;
// checking is single-threaded.
type Checker struct {
	Program      *ast.Program
	Scopes       *ast.ScopeTree
	Config       *Config
	Elaboration  *Elaboration
	Relations    *Relations
	PositionInfo *PositionInfo

	diagnostics Diagnostics

	nextVariableID uint64
	operators      map[operatorKey]*ast.OperatorDecl
	core           coreLibrary

	// memberTables memoizes member lookup per (type key, scope).
	memberTables map[memberTableKey]map[string][]ast.Declaration
	// lookupTables memoizes unqualified lookup per (name, scope).
	lookupTables map[lookupTableKey][]ast.Declaration
	// extensionsOnStack guards extension discovery against recursion.
	extensionsOnStack map[ast.NodeID]struct{}

	isChecked bool
}

type memberTableKey struct {
	typeKey string
	scope   ast.ScopeID
}

type lookupTableKey struct {
	name  string
	scope ast.ScopeID
}

func NewChecker(
	program *ast.Program,
	scopes *ast.ScopeTree,
	config *Config,
) (*Checker, error) {
	if program == nil {
		return nil, fmt.Errorf("missing program")
	}
	if scopes == nil {
		return nil, fmt.Errorf("missing scope tree")
	}
	if config == nil {
		config = &Config{}
	}
	if config.TraceWriter == nil {
		config.TraceWriter = io.Discard
	}

	checker := &Checker{
		Program:           program,
		Scopes:            scopes,
		Config:            config,
		Elaboration:       NewElaboration(),
		Relations:         NewRelations(),
		operators:         map[operatorKey]*ast.OperatorDecl{},
		memberTables:      map[memberTableKey]map[string][]ast.Declaration{},
		lookupTables:      map[lookupTableKey][]ast.Declaration{},
		extensionsOnStack: map[ast.NodeID]struct{}{},
	}
	if config.PositionInfoEnabled {
		checker.PositionInfo = NewPositionInfo()
	}
	return checker, nil
}

// Diagnostics returns the diagnostics reported so far, in insertion order.
func (c *Checker) Diagnostics() []Diagnostic {
	return c.diagnostics.All()
}

func (c *Checker) report(diagnostic Diagnostic) {
	c.diagnostics.Add(diagnostic)
}

// freshVariable allocates a fresh unification variable with the given
// context tag.
func (c *Checker) freshVariable(context uint8) *TypeVariable {
	c.nextVariableID++
	return NewTypeVariable(c.nextVariableID, context)
}

// Check checks the whole program. It is idempotent.
func (c *Checker) Check() error {
	if !c.isChecked {
		c.discoverCoreLibrary()

		if core := c.Config.CoreLibrary; core != nil {
			c.registerOperators(core)
		}
		for _, module := range c.Program.Modules {
			if module != c.Config.CoreLibrary {
				c.registerOperators(module)
			}
		}

		if core := c.Config.CoreLibrary; core != nil {
			c.checkModule(core)
		}
		for _, module := range c.Program.Modules {
			if module != c.Config.CoreLibrary {
				c.checkModule(module)
			}
		}

		c.isChecked = true
	}

	if c.diagnostics.ErrorCount() > 0 {
		return &CheckerError{Diagnostics: c.diagnostics.All()}
	}
	return nil
}

// CheckerError wraps the diagnostics of a failed check.
type CheckerError struct {
	Diagnostics []Diagnostic
}

func (e *CheckerError) Error() string {
	count := 0
	for _, diagnostic := range e.Diagnostics {
		if diagnostic.Severity() == SeverityError {
			count++
		}
	}
	return fmt.Sprintf("checking failed with %d error(s)", count)
}

func (c *Checker) checkModule(module *ast.ModuleDecl) {
	for _, unit := range module.Sources {
		for _, importDecl := range unit.Imports {
			c.declareImport(unit, importDecl)
		}
	}
	for _, unit := range module.Sources {
		for _, decl := range unit.Decls {
			c.prepare(decl)
		}
	}
}

// declareImport resolves an import declaration to a module of the
// program and records it for the containing translation unit.
func (c *Checker) declareImport(unit *ast.TranslationUnit, decl *ast.ImportDecl) {
	name := decl.Identifier.Identifier
	for _, module := range c.Program.Modules {
		if module.Identifier.Identifier == name {
			c.Elaboration.AddImport(unit.ID(), module)
			return
		}
	}
	if core := c.Config.CoreLibrary; core != nil && core.Identifier.Identifier == name {
		c.Elaboration.AddImport(unit.ID(), core)
		return
	}
	c.report(&UndefinedNameError{
		Name:  name,
		Range: ast.NewRangeFromPositioned(decl),
	})
}

// prepare realizes and checks a declaration, exactly once.
func (c *Checker) prepare(decl ast.Declaration) {
	c.realize(decl)
	c.check(decl)
}

// realize computes the overarching type of a declaration, lazily and
// exactly once. Re-entry while the declaration is already being
// realized is a circular dependency: a diagnostic is reported and the
// declaration is marked done with the error type.
func (c *Checker) realize(decl ast.Declaration) Type {
	id := decl.ID()

	switch c.Elaboration.DeclRequest(id) {
	case DeclRequestRealizing:
		c.reportCircularDependency(decl)
		c.Elaboration.SetDeclRequest(id, DeclRequestDone)
		c.Elaboration.SetDeclType(id, TheErrorType)
		return TheErrorType

	case DeclRequestRealized, DeclRequestChecking, DeclRequestDone:
		if t, ok := c.Elaboration.DeclType(id); ok {
			return t
		}
		return TheErrorType
	}

	c.Elaboration.SetDeclRequest(id, DeclRequestRealizing)

	t := c.realizeDecl(decl)
	if t == nil {
		t = TheErrorType
	}

	// a circular dependency detected during realization has already
	// forced the request to done
	if c.Elaboration.DeclRequest(id) == DeclRequestRealizing {
		c.Elaboration.SetDeclRequest(id, DeclRequestRealized)
		c.Elaboration.SetDeclType(id, t)
	}

	t2, _ := c.Elaboration.DeclType(id)
	return t2
}

func (c *Checker) reportCircularDependency(decl ast.Declaration) {
	name := ""
	if identifier := decl.DeclarationIdentifier(); identifier != nil {
		name = identifier.Identifier
	}
	c.report(&CircularDependencyError{
		Kind:  decl.DeclarationKind(),
		Name:  name,
		Range: ast.NewRangeFromPositioned(decl),
	})
}

// check verifies a declaration is well-typed and records typings for
// its sub-expressions. Re-entry while already checking is a circular
// dependency.
func (c *Checker) check(decl ast.Declaration) {
	id := decl.ID()

	switch c.Elaboration.DeclRequest(id) {
	case DeclRequestUnseen, DeclRequestRealizing:
		c.realize(decl)
		if c.Elaboration.DeclRequest(id) != DeclRequestRealized {
			return
		}

	case DeclRequestChecking:
		c.reportCircularDependency(decl)
		c.Elaboration.SetDeclRequest(id, DeclRequestDone)
		c.Elaboration.SetDeclType(id, TheErrorType)
		return

	case DeclRequestDone:
		return
	}

	c.Elaboration.SetDeclRequest(id, DeclRequestChecking)
	c.checkDecl(decl)

	if c.Elaboration.DeclRequest(id) == DeclRequestChecking {
		c.Elaboration.SetDeclRequest(id, DeclRequestDone)
	}
}

func (c *Checker) checkDecl(decl ast.Declaration) {
	switch decl := decl.(type) {
	case *ast.ProductTypeDecl:
		c.environment(decl)
		c.prepareSignature(decl.GenericClause, nil)
		for _, member := range decl.Members {
			c.prepare(member)
		}
		c.checkDeclaredConformances(decl, &ProductType{Decl: decl}, decl.Conformances)

	case *ast.TraitDecl:
		c.environment(decl)
		if decl.SelfParameter != nil {
			c.prepare(decl.SelfParameter)
		}
		for _, member := range decl.Members {
			c.prepare(member)
		}

	case *ast.NamespaceDecl:
		for _, member := range decl.Members {
			c.prepare(member)
		}

	case *ast.ExtensionDecl:
		c.environment(decl)
		for _, member := range decl.Members {
			c.prepare(member)
		}

	case *ast.ConformanceDecl:
		c.environment(decl)
		for _, member := range decl.Members {
			c.prepare(member)
		}
		useScope := c.Scopes.ContainingScope(decl.ID())
		subject := c.realizeTypeExpr(decl.Subject, useScope)
		if !subject.Flags().HasError() {
			c.checkDeclaredConformances(decl, subject, decl.Conformances)
		}

	case *ast.BindingDecl:
		c.checkBindingDecl(decl)

	case *ast.FunctionDecl:
		c.prepareSignature(decl.GenericClause, decl.Parameters)
		c.checkFunctionBody(decl, decl.Body, c.functionReturnType(decl))

	case *ast.InitializerDecl:
		c.prepareSignature(decl.GenericClause, decl.Parameters)
		if decl.Kind == ast.InitializerKindMemberwise {
			break
		}
		if decl.Body == nil {
			c.report(&DeclarationRequiresBodyError{
				Kind:  decl.DeclarationKind(),
				Range: ast.NewRangeFromPositioned(decl),
			})
			break
		}
		c.checkFunctionBody(decl, decl.Body, VoidType)

	case *ast.MethodBundleDecl:
		c.prepareSignature(decl.GenericClause, decl.Parameters)
		for _, variant := range decl.Variants {
			c.prepare(variant)
		}

	case *ast.MethodVariantDecl:
		c.checkVariantBody(decl, decl.Body)

	case *ast.SubscriptDecl:
		c.prepareSignature(decl.GenericClause, decl.Parameters)
		for _, variant := range decl.Variants {
			c.prepare(variant)
		}

	case *ast.SubscriptVariantDecl:
		c.checkVariantBody(decl, decl.Body)

	case *ast.TypeAliasDecl,
		*ast.GenericParameterDecl,
		*ast.AssociatedTypeDecl,
		*ast.AssociatedValueDecl,
		*ast.OperatorDecl,
		*ast.ImportDecl,
		*ast.ParameterDecl,
		*ast.NamePattern:
		// nothing beyond realization

	case *ast.TranslationUnit:
		for _, sub := range decl.Decls {
			c.prepare(sub)
		}

	case *ast.ModuleDecl:
		c.checkModule(decl)
	}
}

// prepareSignature drives the generic and value parameters of a
// callable declaration to the done state.
func (c *Checker) prepareSignature(
	clause *ast.GenericClause,
	parameters []*ast.ParameterDecl,
) {
	if clause != nil {
		for _, parameter := range clause.Parameters {
			c.prepare(parameter)
		}
	}
	for _, parameter := range parameters {
		c.prepare(parameter)
	}
}

// functionReturnType returns the declared (or inferred) return type of
// a function, from its realized lambda type.
func (c *Checker) functionReturnType(decl *ast.FunctionDecl) Type {
	t := c.realize(decl)
	if lambda, ok := t.(*LambdaType); ok {
		return lambda.Output
	}
	return TheErrorType
}

// checkFunctionBody checks a function body against the declared return
// type. A single-expression body is accepted if it is a subtype of the
// return type, or, at a penalty, if it is Never.
func (c *Checker) checkFunctionBody(
	decl ast.Declaration,
	body *ast.FunctionBody,
	returnType Type,
) {
	if body == nil {
		if function, ok := decl.(*ast.FunctionDecl); !ok || !function.IsInExprContext {
			// requirements inside traits have no body
			if !c.isTraitRequirement(decl) {
				c.report(&DeclarationRequiresBodyError{
					Kind:  decl.DeclarationKind(),
					Range: ast.NewRangeFromPositioned(decl),
				})
			}
		}
		return
	}

	if body.Expr != nil {
		c.checkSingleExpressionBody(body.Expr, returnType)
		return
	}

	if body.Block != nil {
		c.checkBlock(body.Block, returnType)
	}
}

func (c *Checker) checkVariantBody(decl ast.Declaration, body *ast.FunctionBody) {
	t := c.realize(decl)
	returnType := Type(VoidType)
	if lambda, ok := t.(*LambdaType); ok {
		returnType = lambda.Output
	}
	c.checkFunctionBody(decl, body, returnType)
}

// isTraitRequirement returns true if the declaration is a requirement
// of a trait: a direct member, or a variant of a member bundle.
func (c *Checker) isTraitRequirement(decl ast.Declaration) bool {
	for scope := c.Scopes.ContainingScope(decl.ID()); scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		switch c.Scopes.Introducer(scope).(type) {
		case *ast.TraitDecl:
			return true
		case *ast.MethodBundleDecl, *ast.SubscriptDecl:
			continue
		default:
			return false
		}
	}
	return false
}

// checkBlock checks the statements of a block in order.
func (c *Checker) checkBlock(block *ast.BraceStmt, returnType Type) {
	for _, statement := range block.Statements {
		c.checkStatement(statement, returnType)
	}
}

func (c *Checker) checkStatement(statement ast.Statement, returnType Type) {
	switch statement := statement.(type) {
	case *ast.DeclStmt:
		c.prepare(statement.Decl)

	case *ast.ExprStmt:
		t := c.checkExpression(statement.Expr, nil, shapeFree)
		c.reportUnusedResult(statement.Expr, t)

	case *ast.ReturnStmt:
		if statement.Value == nil {
			return
		}
		c.checkExpression(statement.Value, returnType, shapeSubtyping)

	case *ast.YieldStmt:
		if statement.Value == nil {
			return
		}
		c.checkExpression(statement.Value, returnType, shapeSubtyping)

	case *ast.AssignStmt:
		targetType := c.checkExpression(statement.Target, nil, shapeFree)
		if targetType != nil && !targetType.Flags().HasError() {
			c.checkExpression(statement.Value, targetType, shapeSubtyping)
		} else {
			c.checkExpression(statement.Value, nil, shapeFree)
		}

	case *ast.BraceStmt:
		c.checkBlock(statement, returnType)
	}
}

func (c *Checker) reportUnusedResult(expr ast.Expression, t Type) {
	if t == nil || t.Flags().HasError() {
		return
	}
	switch t := t.(type) {
	case *TupleType:
		if t.IsVoid() {
			return
		}
	case *NeverType:
		return
	}
	c.report(&UnusedResultWarning{
		Type:  t,
		Range: ast.NewRangeFromPositioned(expr),
	})
}

// enclosingTypeOf returns the type declared by the innermost type
// declaration enclosing the given declaration, along with whether the
// member is inside an extension or conformance of that type.
func (c *Checker) enclosingTypeOf(decl ast.Declaration) (Type, bool) {
	for scope := c.Scopes.ContainingScope(decl.ID()); scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		switch introducer := c.Scopes.Introducer(scope).(type) {
		case *ast.ProductTypeDecl:
			return &ProductType{Decl: introducer}, true
		case *ast.TraitDecl:
			if introducer.SelfParameter != nil {
				return &GenericParameterType{Decl: introducer.SelfParameter}, true
			}
			return &TraitType{Decl: introducer}, true
		case *ast.ExtensionDecl:
			useScope := c.Scopes.ContainingScope(introducer.ID())
			subject := c.realizeTypeExpr(introducer.Subject, useScope)
			return subject, true
		case *ast.ConformanceDecl:
			useScope := c.Scopes.ContainingScope(introducer.ID())
			subject := c.realizeTypeExpr(introducer.Subject, useScope)
			return subject, true
		}
	}
	return nil, false
}
