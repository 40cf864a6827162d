package vir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLearnTyparamSubsts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		generic  string
		concrete string
		input    string
		expected string
	}{
		{
			name:     "single parameter",
			generic:  "box$__TYPARAM__T",
			concrete: "box$i32",
			input:    "vec$__TYPARAM__T",
			expected: "vec$i32",
		},
		{
			name:     "two parameters",
			generic:  "pair$__TYPARAM__T$__TYPARAM__U",
			concrete: "pair$i32$bool",
			input:    "left$__TYPARAM__T$right$__TYPARAM__U",
			expected: "left$i32$right$bool",
		},
		{
			name:     "identical names learn nothing",
			generic:  "box$__TYPARAM__T",
			concrete: "box$__TYPARAM__T",
			input:    "box$__TYPARAM__T",
			expected: "box$__TYPARAM__T",
		},
		{
			name:     "concrete fragments are not keys",
			generic:  "pair$i32$__TYPARAM__U",
			concrete: "pair$i64$bool",
			input:    "pair$i32$__TYPARAM__U",
			expected: "pair$i32$bool",
		},
		{
			name:     "fragments without markers never map",
			generic:  "list$node",
			concrete: "list$leaf",
			input:    "list$node",
			expected: "list$node",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			substs := LearnTyparamSubsts(tt.generic, tt.concrete)
			assert.Equal(t, tt.expected, substs.Apply(tt.input))
		})
	}
}

func TestTyparamSubstsIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, LearnTyparamSubsts("box$i32", "box$i32").IsEmpty())
	assert.False(t, LearnTyparamSubsts("box$__TYPARAM__T", "box$i32").IsEmpty())
}

func TestTyparamSubstsFirstLearningWins(t *testing.T) {
	t.Parallel()

	substs := LearnTyparamSubsts(
		"tri$__TYPARAM__T$mid$__TYPARAM__T",
		"tri$i32$mid$bool",
	)
	// The fragment was learned once; later occurrences do not re-map it.
	assert.Equal(t, "box$i32", substs.Apply("box$__TYPARAM__T"))
}
