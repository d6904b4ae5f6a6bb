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

// DeclRequestState is the three-color marker of a declaration's
// realization and checking progress.
type DeclRequestState int

const (
	DeclRequestUnseen DeclRequestState = iota
	DeclRequestRealizing
	DeclRequestRealized
	DeclRequestChecking
	DeclRequestDone
)

func (s DeclRequestState) Name() string {
	switch s {
	case DeclRequestUnseen:
		return "unseen"
	case DeclRequestRealizing:
		return "realizing"
	case DeclRequestRealized:
		return "realized"
	case DeclRequestChecking:
		return "checking"
	case DeclRequestDone:
		return "done"
	}
	return "unknown"
}

// DeclReferenceKind

type DeclReferenceKind int

const (
	DeclReferenceDirect DeclReferenceKind = iota
	DeclReferenceMember
	DeclReferenceConstructor
	DeclReferenceBuiltinFunction
	DeclReferenceBuiltinType
	DeclReferenceBuiltinModule
	DeclReferenceCompilerKnown
)

// DeclReference identifies the declaration a name expression refers to,
// along with its generic argument bindings.
type DeclReference struct {
	Kind      DeclReferenceKind
	Decl      ast.Declaration
	Arguments *GenericArguments
	// BuiltinName is set for references into the built-in module.
	BuiltinName string
}

// ImplicitCapture is one value captured implicitly by a function.
type ImplicitCapture struct {
	Name   string
	Effect ast.AccessEffect
	Decl   ast.Declaration
}

// FoldedSequenceNode is a node of a folded binary-operator tree:
// either a leaf wrapping an operand expression, or an application of an
// infix operator to two subtrees.
type FoldedSequenceNode struct {
	// Expr is set for a leaf.
	Expr ast.Expression
	// Operator, Left, and Right are set for an application.
	Operator *ast.NameExpr
	Left     *FoldedSequenceNode
	Right    *FoldedSequenceNode
}

func (n *FoldedSequenceNode) IsLeaf() bool {
	return n.Expr != nil
}

// SynthesizedDecl describes an implementation synthesized for a
// built-in trait, to be lowered later.
type SynthesizedDecl struct {
	Kind    SynthesizedKind
	ForType Type
	Scope   ast.ScopeID
}

// Elaboration holds all properties the checker computes, keyed by
// stable node identifiers.
type Elaboration struct {
	declRequests        map[ast.NodeID]DeclRequestState
	declTypes           map[ast.NodeID]Type
	exprTypes           map[ast.NodeID]Type
	referredDecls       map[ast.NodeID]DeclReference
	foldedSequenceExprs map[ast.NodeID]*FoldedSequenceNode
	implicitCaptures    map[ast.NodeID][]ImplicitCapture
	environments        map[ast.NodeID]*GenericEnvironment
	synthesizedDecls    map[*ast.ModuleDecl][]SynthesizedDecl
	imports             map[ast.NodeID][]*ast.ModuleDecl
}

func NewElaboration() *Elaboration {
	return &Elaboration{
		declRequests:        map[ast.NodeID]DeclRequestState{},
		declTypes:           map[ast.NodeID]Type{},
		exprTypes:           map[ast.NodeID]Type{},
		referredDecls:       map[ast.NodeID]DeclReference{},
		foldedSequenceExprs: map[ast.NodeID]*FoldedSequenceNode{},
		implicitCaptures:    map[ast.NodeID][]ImplicitCapture{},
		environments:        map[ast.NodeID]*GenericEnvironment{},
		synthesizedDecls:    map[*ast.ModuleDecl][]SynthesizedDecl{},
		imports:             map[ast.NodeID][]*ast.ModuleDecl{},
	}
}

func (e *Elaboration) DeclRequest(decl ast.NodeID) DeclRequestState {
	return e.declRequests[decl]
}

func (e *Elaboration) SetDeclRequest(decl ast.NodeID, state DeclRequestState) {
	e.declRequests[decl] = state
}

func (e *Elaboration) DeclType(decl ast.NodeID) (Type, bool) {
	t, ok := e.declTypes[decl]
	return t, ok
}

func (e *Elaboration) SetDeclType(decl ast.NodeID, t Type) {
	e.declTypes[decl] = t
}

func (e *Elaboration) ExprType(expr ast.NodeID) (Type, bool) {
	t, ok := e.exprTypes[expr]
	return t, ok
}

func (e *Elaboration) SetExprType(expr ast.NodeID, t Type) {
	e.exprTypes[expr] = t
}

func (e *Elaboration) ReferredDecl(expr ast.NodeID) (DeclReference, bool) {
	ref, ok := e.referredDecls[expr]
	return ref, ok
}

func (e *Elaboration) SetReferredDecl(expr ast.NodeID, ref DeclReference) {
	e.referredDecls[expr] = ref
}

func (e *Elaboration) FoldedSequenceExpr(expr ast.NodeID) (*FoldedSequenceNode, bool) {
	folded, ok := e.foldedSequenceExprs[expr]
	return folded, ok
}

func (e *Elaboration) SetFoldedSequenceExpr(expr ast.NodeID, folded *FoldedSequenceNode) {
	e.foldedSequenceExprs[expr] = folded
}

func (e *Elaboration) ImplicitCaptures(decl ast.NodeID) []ImplicitCapture {
	return e.implicitCaptures[decl]
}

func (e *Elaboration) SetImplicitCaptures(decl ast.NodeID, captures []ImplicitCapture) {
	e.implicitCaptures[decl] = captures
}

func (e *Elaboration) Environment(decl ast.NodeID) (*GenericEnvironment, bool) {
	environment, ok := e.environments[decl]
	return environment, ok
}

func (e *Elaboration) SetEnvironment(decl ast.NodeID, environment *GenericEnvironment) {
	e.environments[decl] = environment
}

func (e *Elaboration) SynthesizedDecls(module *ast.ModuleDecl) []SynthesizedDecl {
	return e.synthesizedDecls[module]
}

func (e *Elaboration) AddSynthesizedDecl(module *ast.ModuleDecl, decl SynthesizedDecl) {
	e.synthesizedDecls[module] = append(e.synthesizedDecls[module], decl)
}

func (e *Elaboration) Imports(unit ast.NodeID) []*ast.ModuleDecl {
	return e.imports[unit]
}

func (e *Elaboration) AddImport(unit ast.NodeID, module *ast.ModuleDecl) {
	for _, imported := range e.imports[unit] {
		if imported == module {
			return
		}
	}
	e.imports[unit] = append(e.imports[unit], module)
}
