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
	"github.com/hylo-lang/val/common/orderedmap"
)

// captureUse is one use of a free name inside a declaration's body.
type captureUse struct {
	decl      ast.Declaration
	isMutable bool
}

// collectImplicitCaptures walks the body of the given function-like
// declaration and collects the names it uses but does not contain:
// its implicit captures, each with the strongest access effect of its
// uses. Member references capture `self`.
func (c *Checker) collectImplicitCaptures(
	decl ast.Declaration,
	body *ast.FunctionBody,
) []ImplicitCapture {
	if body == nil {
		return nil
	}

	useScope, ok := c.Scopes.ScopeIntroducedBy(decl.ID())
	if !ok {
		return nil
	}

	uses := &orderedmap.OrderedMap[string, captureUse]{}
	capturesSelf := false
	selfIsMutable := false

	var visitExpr func(expr ast.Expression, mutable bool)
	record := func(name *ast.NameExpr, mutable bool) {
		// a name with a domain is not a capture candidate itself
		if name.DomainKind != ast.NameDomainNone {
			// a member access through the implicit receiver
			// captures `self` instead
			if name.DomainKind == ast.NameDomainImplicit {
				capturesSelf = true
				selfIsMutable = selfIsMutable || mutable
			}
			return
		}

		target := c.lookupUnqualified(name.Identifier.Identifier, useScope)
		if len(target) == 0 {
			return
		}
		referenced := target[0]

		// uses of the declaration's own locals are not captures
		if c.Scopes.IsContainedIn(referenced.ID(), decl) {
			return
		}

		// globals are not captured
		if c.isGlobal(referenced) {
			return
		}

		// a member of the enclosing type is a use of `self`
		if c.isMemberOfEnclosingType(referenced, decl) {
			capturesSelf = true
			selfIsMutable = selfIsMutable || mutable
			return
		}

		// capture-less functions are not captured
		if function, ok := referenced.(*ast.FunctionDecl); ok {
			if len(function.ExplicitCaptures) == 0 && !function.IsInExprContext {
				return
			}
		}

		stem := name.Identifier.Identifier
		use, present := uses.Get(stem)
		if present {
			use.isMutable = use.isMutable || mutable
			uses.Set(stem, use)
		} else {
			uses.Set(stem, captureUse{
				decl:      referenced,
				isMutable: mutable,
			})
		}
	}

	visitExpr = func(expr ast.Expression, mutable bool) {
		switch expr := expr.(type) {
		case *ast.NameExpr:
			record(expr, mutable)
			if expr.DomainKind == ast.NameDomainExplicit {
				visitExpr(expr.Domain, mutable)
			}

		case *ast.InoutExpr:
			visitExpr(expr.Subject, true)

		case *ast.SubscriptCallExpr:
			// the callee of an inout subscript counts as a mutable use
			visitExpr(expr.Callee, mutable)
			for _, argument := range expr.Arguments {
				visitExpr(argument.Value, false)
			}

		case *ast.LambdaExpr:
			// names used by a nested lambda are free in this body too
			if expr.Decl.Body != nil {
				if expr.Decl.Body.Block != nil {
					c.walkStatements(expr.Decl.Body.Block, func(e ast.Expression) {
						visitExpr(e, false)
					})
				}
				if expr.Decl.Body.Expr != nil {
					visitExpr(expr.Decl.Body.Expr, false)
				}
			}

		default:
			for _, child := range ast.Children(expr) {
				if childExpr, ok := child.(ast.Expression); ok {
					visitExpr(childExpr, mutable)
				}
			}
		}
	}

	if body.Block != nil {
		c.walkStatements(body.Block, func(e ast.Expression) {
			visitExpr(e, false)
		})
	}
	if body.Expr != nil {
		visitExpr(body.Expr, false)
	}

	var captures []ImplicitCapture

	if capturesSelf {
		effect := ast.AccessEffectLet
		if selfIsMutable {
			effect = ast.AccessEffectInout
		}
		if receiver, ok := c.receiverDeclOf(decl); ok {
			captures = append(captures, ImplicitCapture{
				Name:   SelfIdentifier,
				Effect: effect,
				Decl:   receiver,
			})
		}
	}

	uses.Foreach(func(name string, use captureUse) {
		effect := ast.AccessEffectLet
		if use.isMutable {
			effect = ast.AccessEffectInout
		}
		captures = append(captures, ImplicitCapture{
			Name:   name,
			Effect: effect,
			Decl:   use.decl,
		})
	})

	return captures
}

// walkStatements visits every expression directly or indirectly
// contained in the given block, in source order.
func (c *Checker) walkStatements(block *ast.BraceStmt, visit func(ast.Expression)) {
	ast.Walk(block, func(node ast.Node) bool {
		if expr, ok := node.(ast.Expression); ok {
			visit(expr)
			return false
		}
		return true
	})
}

// isGlobal returns true if the given declaration is declared at module,
// translation unit, or namespace scope.
func (c *Checker) isGlobal(decl ast.Declaration) bool {
	scope := c.Scopes.ContainingScope(decl.ID())
	switch c.Scopes.Introducer(scope).(type) {
	case *ast.ModuleDecl, *ast.TranslationUnit, *ast.NamespaceDecl:
		return true
	}
	return false
}

// isMemberOfEnclosingType returns true if the referenced declaration is
// a member of a type enclosing the given declaration.
func (c *Checker) isMemberOfEnclosingType(referenced, context ast.Declaration) bool {
	memberScope := c.Scopes.ContainingScope(referenced.ID())
	switch c.Scopes.Introducer(memberScope).(type) {
	case *ast.ProductTypeDecl, *ast.TraitDecl, *ast.ExtensionDecl, *ast.ConformanceDecl:
		return c.Scopes.Contains(memberScope, c.Scopes.ContainingScope(context.ID()))
	}
	return false
}

// receiverDeclOf returns the type declaration whose `self` the given
// member declaration would capture.
func (c *Checker) receiverDeclOf(decl ast.Declaration) (ast.Declaration, bool) {
	for scope := c.Scopes.ContainingScope(decl.ID()); scope != ast.ScopeIDInvalid; scope = c.Scopes.Parent(scope) {
		switch introducer := c.Scopes.Introducer(scope).(type) {
		case *ast.ProductTypeDecl:
			return introducer, true
		case *ast.TraitDecl:
			return introducer, true
		}
	}
	return nil, false
}

// checkExplicitCaptures realizes a function's explicit capture list,
// reporting duplicate capture names. `let` and `inout` captures become
// remote borrows, `sink let` and `var` captures own their value.
func (c *Checker) checkExplicitCaptures(
	captures []*ast.BindingDecl,
) []TupleTypeElement {
	var elements []TupleTypeElement
	seen := map[string]struct{}{}

	for _, capture := range captures {
		names := ast.Names(capture.Pattern)
		for _, name := range names {
			identifier := name.Identifier.Identifier
			if _, duplicate := seen[identifier]; duplicate {
				c.report(&DuplicateCaptureError{
					Name:  identifier,
					Range: ast.NewRangeFromPositioned(name),
				})
				continue
			}
			seen[identifier] = struct{}{}

			captureType := c.realize(capture)
			effect, isBorrow := capture.Pattern.Introducer.CaptureEffect()
			if isBorrow {
				captureType = &RemoteType{
					Effect:  effect,
					Operand: captureType,
				}
			}

			elements = append(elements, TupleTypeElement{
				Label: identifier,
				Type:  captureType,
			})
		}

	}

	return elements
}
