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
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/hylo-lang/val/ast"
	"github.com/hylo-lang/val/common"
)

// UnreachableError is an internal error in the checker: an invariant was
// broken. It is never produced for invalid programs.
type UnreachableError struct{}

func (UnreachableError) Error() string {
	return "unreachable"
}

func newUnreachableError() error {
	return UnreachableError{}
}

// Severity

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) Name() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticCode is the stable enumeration of diagnostic kinds.
type DiagnosticCode int

const (
	DiagnosticCodeUnknown DiagnosticCode = iota

	// structural
	DiagnosticCodeCircularDependency
	DiagnosticCodeDeclarationRequiresBody
	DiagnosticCodeDuplicateOperator
	DiagnosticCodeDuplicateParameterName
	DiagnosticCodeDuplicateCapture

	// lookup
	DiagnosticCodeUndefinedName
	DiagnosticCodeAmbiguousUse
	DiagnosticCodeNoViableCandidate
	DiagnosticCodeUndefinedOperator

	// type
	DiagnosticCodeInvalidConformanceTarget
	DiagnosticCodeNotATrait
	DiagnosticCodeDoesNotConform
	DiagnosticCodeRedundantConformance
	DiagnosticCodeInvalidEqualityConstraint
	DiagnosticCodeTooManyAnnotations
	DiagnosticCodeTypeMismatch
	DiagnosticCodeNotASubtype
	DiagnosticCodeInvalidExtensionSubject

	// inference
	DiagnosticCodeNotEnoughContext
	DiagnosticCodeAmbiguousOverload
	DiagnosticCodeUnusedResult

	// semantic
	DiagnosticCodeValueInTypePosition
	DiagnosticCodeValueInSumTypePosition
	DiagnosticCodeInvalidSumArity
	DiagnosticCodeMutatingBundleMustReturn
)

// Note is a secondary message attached to a diagnostic.
type Note struct {
	Message string
	ast.Range
}

// Diagnostic is a structured checker diagnostic. Messages are records,
// not formatted strings; rendering lives elsewhere.
type Diagnostic interface {
	error
	ast.HasPosition
	Severity() Severity
	Code() DiagnosticCode
	isDiagnostic()
}

// HasSecondaryMessage is implemented by diagnostics with an
// additional message displayed at the site.
type HasSecondaryMessage interface {
	SecondaryMessage() string
}

// HasNotes is implemented by diagnostics with attached notes.
type HasNotes interface {
	DiagnosticNotes() []Note
}

// Diagnostics is an insertion-ordered set of diagnostics.
type Diagnostics struct {
	diagnostics []Diagnostic
	seen        map[string]struct{}
}

func (d *Diagnostics) Add(diagnostic Diagnostic) {
	if diagnostic == nil {
		return
	}
	key := fmt.Sprintf(
		"%d@%v-%v:%s",
		diagnostic.Code(),
		diagnostic.StartPosition(),
		diagnostic.EndPosition(),
		diagnostic.Error(),
	)
	if d.seen == nil {
		d.seen = map[string]struct{}{}
	}
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	d.diagnostics = append(d.diagnostics, diagnostic)
}

func (d *Diagnostics) AddAll(diagnostics []Diagnostic) {
	for _, diagnostic := range diagnostics {
		d.Add(diagnostic)
	}
}

func (d *Diagnostics) All() []Diagnostic {
	return d.diagnostics
}

func (d *Diagnostics) Len() int {
	return len(d.diagnostics)
}

func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, diagnostic := range d.diagnostics {
		if diagnostic.Severity() == SeverityError {
			count++
		}
	}
	return count
}

// closestName returns the candidate with the smallest edit distance to
// the given name, if the distance is small enough to be a likely typo.
func closestName(name string, candidates []string) string {
	nameRunes := []rune(name)

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	closest := ""
	closestDistance := len(name)

	for _, candidate := range sorted {
		distance := levenshtein.DistanceForStrings(
			nameRunes,
			[]rune(candidate),
			levenshtein.DefaultOptions,
		)

		// ignore candidates which would require a complete rewrite
		if distance < closestDistance && distance < len(candidate) {
			closest = candidate
			closestDistance = distance
		}
	}

	return closest
}

// CircularDependencyError

type CircularDependencyError struct {
	Kind common.DeclarationKind
	Name string
	ast.Range
}

func (*CircularDependencyError) isDiagnostic() {}

func (*CircularDependencyError) Severity() Severity {
	return SeverityError
}

func (*CircularDependencyError) Code() DiagnosticCode {
	return DiagnosticCodeCircularDependency
}

func (e *CircularDependencyError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("circular dependency in %s", e.Kind.Name())
	}
	return fmt.Sprintf(
		"circular dependency in definition of %s `%s`",
		e.Kind.Name(),
		e.Name,
	)
}

// DeclarationRequiresBodyError

type DeclarationRequiresBodyError struct {
	Kind common.DeclarationKind
	ast.Range
}

func (*DeclarationRequiresBodyError) isDiagnostic() {}

func (*DeclarationRequiresBodyError) Severity() Severity {
	return SeverityError
}

func (*DeclarationRequiresBodyError) Code() DiagnosticCode {
	return DiagnosticCodeDeclarationRequiresBody
}

func (e *DeclarationRequiresBodyError) Error() string {
	return fmt.Sprintf("%s requires a body", e.Kind.Name())
}

// DuplicateOperatorError

type DuplicateOperatorError struct {
	Name        string
	Notation    ast.OperatorNotation
	PreviousPos *ast.Position
	ast.Range
}

func (*DuplicateOperatorError) isDiagnostic() {}

func (*DuplicateOperatorError) Severity() Severity {
	return SeverityError
}

func (*DuplicateOperatorError) Code() DiagnosticCode {
	return DiagnosticCodeDuplicateOperator
}

func (e *DuplicateOperatorError) Error() string {
	return fmt.Sprintf(
		"duplicate %s operator declaration: `%s`",
		e.Notation.Name(),
		e.Name,
	)
}

func (e *DuplicateOperatorError) DiagnosticNotes() []Note {
	if e.PreviousPos == nil {
		return nil
	}
	return []Note{
		{
			Message: "previously declared here",
			Range:   ast.NewRange(*e.PreviousPos, *e.PreviousPos),
		},
	}
}

// DuplicateParameterNameError

type DuplicateParameterNameError struct {
	Name string
	ast.Range
}

func (*DuplicateParameterNameError) isDiagnostic() {}

func (*DuplicateParameterNameError) Severity() Severity {
	return SeverityError
}

func (*DuplicateParameterNameError) Code() DiagnosticCode {
	return DiagnosticCodeDuplicateParameterName
}

func (e *DuplicateParameterNameError) Error() string {
	return fmt.Sprintf("duplicate parameter name: `%s`", e.Name)
}

// DuplicateCaptureError

type DuplicateCaptureError struct {
	Name string
	ast.Range
}

func (*DuplicateCaptureError) isDiagnostic() {}

func (*DuplicateCaptureError) Severity() Severity {
	return SeverityError
}

func (*DuplicateCaptureError) Code() DiagnosticCode {
	return DiagnosticCodeDuplicateCapture
}

func (e *DuplicateCaptureError) Error() string {
	return fmt.Sprintf("duplicate capture name: `%s`", e.Name)
}

// UndefinedNameError

type UndefinedNameError struct {
	Name string
	// Candidates are the names visible at the use site,
	// consulted for a did-you-mean suggestion.
	Candidates []string
	ast.Range
}

func (*UndefinedNameError) isDiagnostic() {}

func (*UndefinedNameError) Severity() Severity {
	return SeverityError
}

func (*UndefinedNameError) Code() DiagnosticCode {
	return DiagnosticCodeUndefinedName
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("undefined name: `%s`", e.Name)
}

func (e *UndefinedNameError) SecondaryMessage() string {
	closest := closestName(e.Name, e.Candidates)
	if closest == "" {
		return "not found in this scope"
	}
	return fmt.Sprintf("did you mean `%s`?", closest)
}

// AmbiguousUseError

type AmbiguousUseError struct {
	Name  string
	Sites []ast.Range
	ast.Range
}

func (*AmbiguousUseError) isDiagnostic() {}

func (*AmbiguousUseError) Severity() Severity {
	return SeverityError
}

func (*AmbiguousUseError) Code() DiagnosticCode {
	return DiagnosticCodeAmbiguousUse
}

func (e *AmbiguousUseError) Error() string {
	return fmt.Sprintf("ambiguous use of `%s`", e.Name)
}

func (e *AmbiguousUseError) DiagnosticNotes() []Note {
	notes := make([]Note, 0, len(e.Sites))
	for _, site := range e.Sites {
		notes = append(notes, Note{
			Message: "candidate declared here",
			Range:   site,
		})
	}
	return notes
}

// NoViableCandidateError

type NoViableCandidateError struct {
	Name string
	ast.Range
}

func (*NoViableCandidateError) isDiagnostic() {}

func (*NoViableCandidateError) Severity() Severity {
	return SeverityError
}

func (*NoViableCandidateError) Code() DiagnosticCode {
	return DiagnosticCodeNoViableCandidate
}

func (e *NoViableCandidateError) Error() string {
	return fmt.Sprintf("no viable candidate for `%s`", e.Name)
}

// UndefinedOperatorError

type UndefinedOperatorError struct {
	Name     string
	Notation ast.OperatorNotation
	ast.Range
}

func (*UndefinedOperatorError) isDiagnostic() {}

func (*UndefinedOperatorError) Severity() Severity {
	return SeverityError
}

func (*UndefinedOperatorError) Code() DiagnosticCode {
	return DiagnosticCodeUndefinedOperator
}

func (e *UndefinedOperatorError) Error() string {
	return fmt.Sprintf(
		"undefined %s operator: `%s`",
		e.Notation.Name(),
		e.Name,
	)
}

// InvalidConformanceTargetError

type InvalidConformanceTargetError struct {
	Type Type
	ast.Range
}

func (*InvalidConformanceTargetError) isDiagnostic() {}

func (*InvalidConformanceTargetError) Severity() Severity {
	return SeverityError
}

func (*InvalidConformanceTargetError) Code() DiagnosticCode {
	return DiagnosticCodeInvalidConformanceTarget
}

func (e *InvalidConformanceTargetError) Error() string {
	return fmt.Sprintf("invalid conformance target: `%s`", e.Type)
}

// NotATraitError

type NotATraitError struct {
	Type Type
	ast.Range
}

func (*NotATraitError) isDiagnostic() {}

func (*NotATraitError) Severity() Severity {
	return SeverityError
}

func (*NotATraitError) Code() DiagnosticCode {
	return DiagnosticCodeNotATrait
}

func (e *NotATraitError) Error() string {
	return fmt.Sprintf("`%s` is not a trait", e.Type)
}

// DoesNotConformError

type DoesNotConformError struct {
	Model Type
	Trait Type
	// Notes describe the unsatisfied requirements.
	Notes []Note
	ast.Range
}

func (*DoesNotConformError) isDiagnostic() {}

func (*DoesNotConformError) Severity() Severity {
	return SeverityError
}

func (*DoesNotConformError) Code() DiagnosticCode {
	return DiagnosticCodeDoesNotConform
}

func (e *DoesNotConformError) Error() string {
	return fmt.Sprintf("`%s` does not conform to `%s`", e.Model, e.Trait)
}

func (e *DoesNotConformError) DiagnosticNotes() []Note {
	return e.Notes
}

// RedundantConformanceError

type RedundantConformanceError struct {
	Model        Type
	Trait        Type
	PreviousSite ast.Range
	ast.Range
}

func (*RedundantConformanceError) isDiagnostic() {}

func (*RedundantConformanceError) Severity() Severity {
	return SeverityError
}

func (*RedundantConformanceError) Code() DiagnosticCode {
	return DiagnosticCodeRedundantConformance
}

func (e *RedundantConformanceError) Error() string {
	return fmt.Sprintf(
		"redundant conformance of `%s` to `%s`",
		e.Model,
		e.Trait,
	)
}

func (e *RedundantConformanceError) DiagnosticNotes() []Note {
	return []Note{
		{
			Message: "conformance already declared here",
			Range:   e.PreviousSite,
		},
	}
}

// InvalidEqualityConstraintError

type InvalidEqualityConstraintError struct {
	Left  Type
	Right Type
	ast.Range
}

func (*InvalidEqualityConstraintError) isDiagnostic() {}

func (*InvalidEqualityConstraintError) Severity() Severity {
	return SeverityError
}

func (*InvalidEqualityConstraintError) Code() DiagnosticCode {
	return DiagnosticCodeInvalidEqualityConstraint
}

func (e *InvalidEqualityConstraintError) Error() string {
	return fmt.Sprintf(
		"invalid equality constraint between `%s` and `%s`",
		e.Left,
		e.Right,
	)
}

// TooManyAnnotationsError

type TooManyAnnotationsError struct {
	Name string
	ast.Range
}

func (*TooManyAnnotationsError) isDiagnostic() {}

func (*TooManyAnnotationsError) Severity() Severity {
	return SeverityError
}

func (*TooManyAnnotationsError) Code() DiagnosticCode {
	return DiagnosticCodeTooManyAnnotations
}

func (e *TooManyAnnotationsError) Error() string {
	return fmt.Sprintf(
		"too many annotations on generic value parameter `%s`",
		e.Name,
	)
}

// TypeMismatchError

type TypeMismatchError struct {
	Expected Type
	Actual   Type
	ast.Range
}

func (*TypeMismatchError) isDiagnostic() {}

func (*TypeMismatchError) Severity() Severity {
	return SeverityError
}

func (*TypeMismatchError) Code() DiagnosticCode {
	return DiagnosticCodeTypeMismatch
}

func (e *TypeMismatchError) Error() string {
	return "mismatched types"
}

func (e *TypeMismatchError) SecondaryMessage() string {
	return fmt.Sprintf("expected `%s`, got `%s`", e.Expected, e.Actual)
}

// NotASubtypeError

type NotASubtypeError struct {
	SubType   Type
	SuperType Type
	ast.Range
}

func (*NotASubtypeError) isDiagnostic() {}

func (*NotASubtypeError) Severity() Severity {
	return SeverityError
}

func (*NotASubtypeError) Code() DiagnosticCode {
	return DiagnosticCodeNotASubtype
}

func (e *NotASubtypeError) Error() string {
	return fmt.Sprintf(
		"`%s` is not a subtype of `%s`",
		e.SubType,
		e.SuperType,
	)
}

// InvalidExtensionSubjectError

type InvalidExtensionSubjectError struct {
	Type Type
	ast.Range
}

func (*InvalidExtensionSubjectError) isDiagnostic() {}

func (*InvalidExtensionSubjectError) Severity() Severity {
	return SeverityError
}

func (*InvalidExtensionSubjectError) Code() DiagnosticCode {
	return DiagnosticCodeInvalidExtensionSubject
}

func (e *InvalidExtensionSubjectError) Error() string {
	return fmt.Sprintf("cannot extend built-in type `%s`", e.Type)
}

// NotEnoughContextError

type NotEnoughContextError struct {
	ast.Range
}

func (*NotEnoughContextError) isDiagnostic() {}

func (*NotEnoughContextError) Severity() Severity {
	return SeverityError
}

func (*NotEnoughContextError) Code() DiagnosticCode {
	return DiagnosticCodeNotEnoughContext
}

func (e *NotEnoughContextError) Error() string {
	return "not enough context to infer type"
}

// AmbiguousOverloadError

type AmbiguousOverloadError struct {
	Name  string
	Sites []ast.Range
	ast.Range
}

func (*AmbiguousOverloadError) isDiagnostic() {}

func (*AmbiguousOverloadError) Severity() Severity {
	return SeverityError
}

func (*AmbiguousOverloadError) Code() DiagnosticCode {
	return DiagnosticCodeAmbiguousOverload
}

func (e *AmbiguousOverloadError) Error() string {
	return fmt.Sprintf("ambiguous use of overloaded name `%s`", e.Name)
}

func (e *AmbiguousOverloadError) DiagnosticNotes() []Note {
	notes := make([]Note, 0, len(e.Sites))
	for _, site := range e.Sites {
		notes = append(notes, Note{
			Message: "candidate here",
			Range:   site,
		})
	}
	return notes
}

// UnusedResultWarning

type UnusedResultWarning struct {
	Type Type
	ast.Range
}

func (*UnusedResultWarning) isDiagnostic() {}

func (*UnusedResultWarning) Severity() Severity {
	return SeverityWarning
}

func (*UnusedResultWarning) Code() DiagnosticCode {
	return DiagnosticCodeUnusedResult
}

func (e *UnusedResultWarning) Error() string {
	return fmt.Sprintf("unused result of type `%s`", e.Type)
}

// ValueInTypePositionError

type ValueInTypePositionError struct {
	Name string
	ast.Range
}

func (*ValueInTypePositionError) isDiagnostic() {}

func (*ValueInTypePositionError) Severity() Severity {
	return SeverityError
}

func (*ValueInTypePositionError) Code() DiagnosticCode {
	return DiagnosticCodeValueInTypePosition
}

func (e *ValueInTypePositionError) Error() string {
	return fmt.Sprintf("`%s` denotes a value and cannot be used as a type", e.Name)
}

// ValueInSumTypePositionError

type ValueInSumTypePositionError struct {
	ast.Range
}

func (*ValueInSumTypePositionError) isDiagnostic() {}

func (*ValueInSumTypePositionError) Severity() Severity {
	return SeverityError
}

func (*ValueInSumTypePositionError) Code() DiagnosticCode {
	return DiagnosticCodeValueInSumTypePosition
}

func (e *ValueInSumTypePositionError) Error() string {
	return "value cannot appear as an element of a sum type"
}

// InvalidSumArityError

type InvalidSumArityError struct {
	Count int
	ast.Range
}

func (*InvalidSumArityError) isDiagnostic() {}

func (*InvalidSumArityError) Severity() Severity {
	return SeverityError
}

func (*InvalidSumArityError) Code() DiagnosticCode {
	return DiagnosticCodeInvalidSumArity
}

func (e *InvalidSumArityError) Error() string {
	return fmt.Sprintf(
		"sum type requires at least 2 elements, got %d",
		e.Count,
	)
}

// MutatingBundleMustReturnError

type MutatingBundleMustReturnError struct {
	Effect ast.AccessEffect
	ast.Range
}

func (*MutatingBundleMustReturnError) isDiagnostic() {}

func (*MutatingBundleMustReturnError) Severity() Severity {
	return SeverityError
}

func (*MutatingBundleMustReturnError) Code() DiagnosticCode {
	return DiagnosticCodeMutatingBundleMustReturn
}

func (e *MutatingBundleMustReturnError) Error() string {
	return fmt.Sprintf(
		"%s variant requires the bundle to return a pair of the receiver and a value",
		e.Effect.Keyword(),
	)
}

// FormatDiagnostic renders a diagnostic to a single plain line, for
// logs and tests. Rich rendering lives in the pretty package.
func FormatDiagnostic(d Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(
		&b,
		"%s: %s: %s",
		d.StartPosition(),
		d.Severity().Name(),
		d.Error(),
	)
	if secondary, ok := d.(HasSecondaryMessage); ok {
		fmt.Fprintf(&b, " (%s)", secondary.SecondaryMessage())
	}
	return b.String()
}
