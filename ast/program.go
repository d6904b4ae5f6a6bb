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

// Program is an arena of AST nodes with stable identifiers.
// Nodes must be registered with Register before they are used;
// registration assigns the node's NodeID.
type Program struct {
	nodes   []Node
	Modules []*ModuleDecl
}

func NewProgram() *Program {
	return &Program{}
}

// Register assigns the next NodeID to the given node and records it
// in the program, returning the node for convenience.
func Register[T Node](p *Program, node T) T {
	node.setID(NodeID(len(p.nodes) + 1))
	p.nodes = append(p.nodes, node)
	return node
}

// Node returns the node with the given identifier, or nil.
func (p *Program) Node(id NodeID) Node {
	if id == NodeIDInvalid || int(id) > len(p.nodes) {
		return nil
	}
	return p.nodes[id-1]
}

// NodeCount returns the number of registered nodes.
func (p *Program) NodeCount() int {
	return len(p.nodes)
}

// AddModule appends a module to the program.
// The module must already be registered.
func (p *Program) AddModule(module *ModuleDecl) {
	p.Modules = append(p.Modules, module)
}

func (m *NodeMeta) setID(id NodeID) {
	m.NodeID = id
}
