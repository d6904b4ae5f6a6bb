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

// AccessEffect is the convention with which a receiver or parameter is accessed.
type AccessEffect int

const (
	// AccessEffectLet is an immutable borrow
	AccessEffectLet AccessEffect = iota
	// AccessEffectInout is a mutable borrow
	AccessEffectInout
	// AccessEffectSet initializes the accessed value
	AccessEffectSet
	// AccessEffectSink consumes the accessed value
	AccessEffectSink
	// AccessEffectYielded is a projected access
	AccessEffectYielded
)

func (e AccessEffect) Keyword() string {
	switch e {
	case AccessEffectLet:
		return "let"
	case AccessEffectInout:
		return "inout"
	case AccessEffectSet:
		return "set"
	case AccessEffectSink:
		return "sink"
	case AccessEffectYielded:
		return "yielded"
	}

	return "unknown"
}

func (e AccessEffect) String() string {
	return e.Keyword()
}

// BindingIntroducer is the introducer keyword of a binding pattern.
type BindingIntroducer int

const (
	BindingIntroducerLet BindingIntroducer = iota
	BindingIntroducerVar
	BindingIntroducerSinkLet
	BindingIntroducerInout
)

func (i BindingIntroducer) Keyword() string {
	switch i {
	case BindingIntroducerLet:
		return "let"
	case BindingIntroducerVar:
		return "var"
	case BindingIntroducerSinkLet:
		return "sink let"
	case BindingIntroducerInout:
		return "inout"
	}

	return "unknown"
}

// CaptureEffect returns the access effect with which an explicit capture
// introduced by this binding introducer holds its captured value:
// `let` and `inout` captures are remote borrows, `sink let` and `var`
// captures own their value.
func (i BindingIntroducer) CaptureEffect() (effect AccessEffect, isBorrow bool) {
	switch i {
	case BindingIntroducerLet:
		return AccessEffectLet, true
	case BindingIntroducerInout:
		return AccessEffectInout, true
	case BindingIntroducerSinkLet, BindingIntroducerVar:
		return AccessEffectSink, false
	}

	return AccessEffectLet, true
}

// OperatorNotation is the notation of an operator declaration or
// of an operator name.
type OperatorNotation int

const (
	OperatorNotationInfix OperatorNotation = iota
	OperatorNotationPrefix
	OperatorNotationPostfix
)

func (n OperatorNotation) Name() string {
	switch n {
	case OperatorNotationInfix:
		return "infix"
	case OperatorNotationPrefix:
		return "prefix"
	case OperatorNotationPostfix:
		return "postfix"
	}

	return "unknown"
}
