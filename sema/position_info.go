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
	"github.com/hylo-lang/val/common/intervalst"
)

// typePosition adapts a source position to the interval search tree.
type typePosition struct {
	ast.Position
}

func (p typePosition) Compare(other intervalst.Position) int {
	otherPosition, ok := other.(typePosition)
	if !ok {
		// the other position is the tree's internal minimum
		return 1
	}
	return p.Position.Compare(otherPosition.Position)
}

// TypeOccurrence records the typed expression covering a source range.
type TypeOccurrence struct {
	Expr ast.NodeID
	Type Type
}

// PositionInfo answers position queries over the checked program, for
// the inference trace and downstream tooling.
type PositionInfo struct {
	occurrences intervalst.IntervalST[TypeOccurrence]
}

func NewPositionInfo() *PositionInfo {
	return &PositionInfo{}
}

func (i *PositionInfo) recordOccurrence(expr ast.Node, t Type) {
	if t == nil {
		return
	}
	start := expr.StartPosition()
	end := expr.EndPosition()
	if start.Compare(end) > 0 {
		return
	}
	i.occurrences.Put(
		intervalst.NewInterval(
			typePosition{start},
			typePosition{end},
		),
		TypeOccurrence{Expr: expr.ID(), Type: t},
	)
}

// TypeAt returns the innermost recorded occurrence covering the given
// position: the one with the smallest covering range.
func (i *PositionInfo) TypeAt(position ast.Position) (TypeOccurrence, bool) {
	entries := i.occurrences.SearchAll(typePosition{position})
	if len(entries) == 0 {
		return TypeOccurrence{}, false
	}

	best := entries[0]
	for _, entry := range entries[1:] {
		if intervalWidth(entry.Interval) < intervalWidth(best.Interval) {
			best = entry
		}
	}
	return best.Value, true
}

// AllOccurrences returns every recorded occurrence.
func (i *PositionInfo) AllOccurrences() []TypeOccurrence {
	return i.occurrences.Values()
}

func intervalWidth(interval intervalst.Interval) int {
	start, startOk := interval.Min.(typePosition)
	end, endOk := interval.Max.(typePosition)
	if !startOk || !endOk {
		return 0
	}
	return end.Offset - start.Offset
}
