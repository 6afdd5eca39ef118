package setinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ab = RuleInput{X: []string{"a", "b"}}

func TestRules_TruthTables(t *testing.T) {
	tests := []struct {
		rule   string
		answer []string
		input  RuleInput
		want   bool
	}{
		{RuleEquals, []string{"a", "b"}, ab, true},
		{RuleEquals, []string{"b", "a"}, ab, true},
		{RuleEquals, []string{"a"}, ab, false},
		{RuleEquals, []string{"b"}, RuleInput{X: []string{"b", "a"}}, false},
		{RuleEquals, []string{"b", "c"}, RuleInput{X: []string{"c", "d"}}, false},

		{RuleIsSubsetOf, []string{"a"}, ab, true},
		{RuleIsSubsetOf, []string{"b"}, ab, true},
		{RuleIsSubsetOf, []string{}, ab, true},
		{RuleIsSubsetOf, []string{"a", "b"}, ab, false},
		{RuleIsSubsetOf, []string{"c"}, ab, false},
		{RuleIsSubsetOf, []string{"a", "b", "c"}, ab, false},

		{RuleIsSupersetOf, []string{"a", "b", "c"}, ab, true},
		{RuleIsSupersetOf, []string{"a", "b", "ab"}, ab, true},
		{RuleIsSupersetOf, []string{"a", "c"}, ab, false},
		{RuleIsSupersetOf, []string{"a", "b"}, ab, false},
		{RuleIsSupersetOf, []string{"a"}, ab, false},
		{RuleIsSupersetOf, []string{}, ab, false},

		{RuleHasElementsIn, []string{"a", "b", "c"}, ab, true},
		{RuleHasElementsIn, []string{"a", "b"}, ab, true},
		{RuleHasElementsIn, []string{"a"}, ab, true},
		{RuleHasElementsIn, []string{"c"}, ab, false},
		{RuleHasElementsIn, []string{}, ab, false},

		{RuleHasElementsNotIn, []string{"a", "b", "c"}, ab, true},
		{RuleHasElementsNotIn, []string{"c"}, ab, true},
		{RuleHasElementsNotIn, []string{"a", "b"}, ab, false},
		{RuleHasElementsNotIn, []string{"a"}, ab, false},
		{RuleHasElementsNotIn, []string{}, ab, false},

		{RuleOmitsElementsIn, []string{"c", "ab"}, ab, true},
		{RuleOmitsElementsIn, []string{"c"}, ab, true},
		{RuleOmitsElementsIn, []string{"a"}, ab, true},
		{RuleOmitsElementsIn, []string{}, ab, true},
		{RuleOmitsElementsIn, []string{"a", "b", "c"}, ab, false},
		{RuleOmitsElementsIn, []string{"a", "b"}, ab, false},

		{RuleIsDisjointFrom, []string{"c", "ab"}, ab, true},
		{RuleIsDisjointFrom, []string{"c"}, ab, true},
		{RuleIsDisjointFrom, []string{}, ab, true},
		{RuleIsDisjointFrom, []string{"a", "b", "c"}, ab, false},
		{RuleIsDisjointFrom, []string{"a", "b"}, ab, false},
		{RuleIsDisjointFrom, []string{"a"}, ab, false},
	}

	for _, tt := range tests {
		got, err := Evaluate(tt.rule, tt.answer, tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s(%v, %v)", tt.rule, tt.answer, tt.input.X)
	}
}

func TestEquals_DuplicatesIgnored(t *testing.T) {
	assert.True(t, Equals([]string{"a", "a", "b"}, ab))
}

var samples = [][]string{
	{},
	{"a"},
	{"b"},
	{"c"},
	{"a", "b"},
	{"b", "a"},
	{"a", "c"},
	{"a", "b", "c"},
	{"c", "d"},
	{"ab"},
}

func TestEquals_Symmetric(t *testing.T) {
	for _, p := range samples {
		for _, q := range samples {
			assert.Equal(t,
				Equals(p, RuleInput{X: q}),
				Equals(q, RuleInput{X: p}),
				"Equals(%v, %v)", p, q)
		}
	}
}

func TestSubsetSupersetExclusive(t *testing.T) {
	for _, p := range samples {
		for _, q := range samples {
			in := RuleInput{X: q}
			both := IsSubsetOf(p, in) && IsSupersetOf(p, in)
			assert.False(t, both, "subset and superset both hold for %v, %v", p, q)
			if Equals(p, in) {
				assert.False(t, IsSubsetOf(p, in), "equal sets are not proper subsets: %v, %v", p, q)
				assert.False(t, IsSupersetOf(p, in), "equal sets are not proper supersets: %v, %v", p, q)
			}
		}
	}
}

func TestDisjointIsNegationOfHasElementsIn(t *testing.T) {
	for _, p := range samples {
		for _, q := range samples {
			in := RuleInput{X: q}
			assert.Equal(t, !HasElementsIn(p, in), IsDisjointFrom(p, in), "%v, %v", p, q)
		}
	}
}

func TestRules_OrderIndependent(t *testing.T) {
	for _, name := range RuleTypes() {
		r, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t,
			r([]string{"a", "c"}, RuleInput{X: []string{"b", "a"}}),
			r([]string{"c", "a"}, RuleInput{X: []string{"a", "b"}}),
			name)
	}
}

func TestEvaluate_UnknownRule(t *testing.T) {
	_, err := Evaluate("ContainsAtLeastOneOf", []string{"a"}, ab)
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestRuleTypes(t *testing.T) {
	types := RuleTypes()
	assert.Len(t, types, 7)
	assert.Equal(t, RuleEquals, types[0])

	types[0] = "mutated"
	assert.Equal(t, RuleEquals, RuleTypes()[0])
}
