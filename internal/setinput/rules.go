// Package setinput evaluates the answer rules of the SetInput interaction,
// where the learner submits an unordered set of strings.
package setinput

import (
	"errors"
	"fmt"

	"bitbucket.org/creachadair/stringset"
)

// ErrUnknownRule is returned by Evaluate for a rule type it does not know.
var ErrUnknownRule = errors.New("unknown SetInput rule type")

// RuleInput is the editor-configured argument of a rule.
type RuleInput struct {
	X []string `json:"x" yaml:"x"`
}

// Rule compares the learner's answer with the rule input.
type Rule func(answer []string, input RuleInput) bool

// Rule type names as stored in exploration answer groups.
const (
	RuleEquals           = "Equals"
	RuleIsSubsetOf       = "IsSubsetOf"
	RuleIsSupersetOf     = "IsSupersetOf"
	RuleHasElementsIn    = "HasElementsIn"
	RuleHasElementsNotIn = "HasElementsNotIn"
	RuleOmitsElementsIn  = "OmitsElementsIn"
	RuleIsDisjointFrom   = "IsDisjointFrom"
)

var ruleOrder = []string{
	RuleEquals,
	RuleIsSubsetOf,
	RuleIsSupersetOf,
	RuleHasElementsIn,
	RuleHasElementsNotIn,
	RuleOmitsElementsIn,
	RuleIsDisjointFrom,
}

var rules = map[string]Rule{
	RuleEquals:           Equals,
	RuleIsSubsetOf:       IsSubsetOf,
	RuleIsSupersetOf:     IsSupersetOf,
	RuleHasElementsIn:    HasElementsIn,
	RuleHasElementsNotIn: HasElementsNotIn,
	RuleOmitsElementsIn:  OmitsElementsIn,
	RuleIsDisjointFrom:   IsDisjointFrom,
}

// Equals reports whether both sides hold the same elements. Order and
// duplicates are ignored.
func Equals(answer []string, input RuleInput) bool {
	return stringset.New(answer...).Equals(stringset.New(input.X...))
}

// IsSubsetOf reports whether the answer is a proper subset of x.
func IsSubsetOf(answer []string, input RuleInput) bool {
	a, x := stringset.New(answer...), stringset.New(input.X...)
	return a.IsSubset(x) && a.Len() < x.Len()
}

// IsSupersetOf reports whether the answer is a proper superset of x.
func IsSupersetOf(answer []string, input RuleInput) bool {
	a, x := stringset.New(answer...), stringset.New(input.X...)
	return x.IsSubset(a) && a.Len() > x.Len()
}

// HasElementsIn reports whether the answer shares at least one element with x.
func HasElementsIn(answer []string, input RuleInput) bool {
	return stringset.New(answer...).Intersects(stringset.New(input.X...))
}

// HasElementsNotIn reports whether the answer has an element outside x.
func HasElementsNotIn(answer []string, input RuleInput) bool {
	return !stringset.New(answer...).Diff(stringset.New(input.X...)).Empty()
}

// OmitsElementsIn reports whether some element of x is missing from the answer.
func OmitsElementsIn(answer []string, input RuleInput) bool {
	return !stringset.New(input.X...).Diff(stringset.New(answer...)).Empty()
}

// IsDisjointFrom reports whether the answer and x share no element.
func IsDisjointFrom(answer []string, input RuleInput) bool {
	return !HasElementsIn(answer, input)
}

// Lookup returns the rule registered under ruleType.
func Lookup(ruleType string) (Rule, error) {
	r, ok := rules[ruleType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, ruleType)
	}
	return r, nil
}

// Evaluate runs the named rule against the answer.
func Evaluate(ruleType string, answer []string, input RuleInput) (bool, error) {
	r, err := Lookup(ruleType)
	if err != nil {
		return false, err
	}
	return r(answer, input), nil
}

// RuleTypes lists the supported rule names in display order.
func RuleTypes() []string {
	out := make([]string, len(ruleOrder))
	copy(out, ruleOrder)
	return out
}
