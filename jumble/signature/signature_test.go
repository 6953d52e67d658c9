package signature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		word string
		want Signature
	}{
		{"dog", "dgo"},
		{"God", "dgo"},
		{"robot", "boort"},
		{"ROBOT", "boort"},
		{"or", "or"},
		{"", ""},
		{"it's", "'ist"},
		{"éa", "aé"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.word))
		})
	}
}

func TestAnagramsShareSignature(t *testing.T) {
	assert.Equal(t, Of("listen"), Of("Silent"))
	assert.Equal(t, Of("orb"), Of("bro"))
	assert.NotEqual(t, Of("orb"), Of("robot"))
	assert.Equal(t, 5, Of("robot").Len())
}

func TestMultiset(t *testing.T) {
	ms := NewMultiset("Robot")

	require.Equal(t, 4, ms.Distinct())
	assert.Equal(t, 5, ms.Len())
	assert.Equal(t, []int{1, 2, 1, 1}, ms.Counts())
	assert.Equal(t, Signature("boort"), ms.Signature())

	letter, count := ms.Letter(1)
	assert.Equal(t, 'o', letter)
	assert.Equal(t, 2, count)

	// Counts hands out a copy
	counts := ms.Counts()
	counts[0] = 9
	assert.Equal(t, []int{1, 2, 1, 1}, ms.Counts())
}

func TestSubsetCount(t *testing.T) {
	tests := []struct {
		word string
		want uint64
	}{
		{"a", 2},
		{"aaab", 8},
		{"abc", 8},
		{"robot", 24},
		{"aaaa", 5},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMultiset(tt.word).SubsetCount())
		})
	}
}

func TestSubsetCountSaturates(t *testing.T) {
	distinct := func(n int) string {
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = rune(0x4E00 + i)
		}
		return string(runes)
	}

	assert.Equal(t, uint64(1)<<63, NewMultiset(distinct(63)).SubsetCount())
	assert.Equal(t, uint64(math.MaxUint64), NewMultiset(distinct(64)).SubsetCount())
	assert.Equal(t, uint64(math.MaxUint64), NewMultiset(distinct(70)+"aaa").SubsetCount())
}

func TestMaterialize(t *testing.T) {
	ms := NewMultiset("start")

	// letters: a r s t with counts 1 1 1 2
	assert.Equal(t, Signature("art"), ms.Materialize([]int{1, 1, 0, 1}, nil))
	assert.Equal(t, Signature("stt"), ms.Materialize([]int{0, 0, 1, 2}, nil))
	assert.Equal(t, Signature(""), ms.Materialize([]int{0, 0, 0, 0}, nil))

	buf := make([]rune, 0, 8)
	assert.Equal(t, Signature("arstt"), ms.Materialize(ms.Counts(), buf))
	assert.Equal(t, Signature("rs"), ms.Materialize([]int{0, 1, 1, 0}, buf))
}

func TestContains(t *testing.T) {
	robot := NewMultiset("robot")

	assert.True(t, robot.Contains(NewMultiset("rob")))
	assert.True(t, robot.Contains(NewMultiset("boot")))
	assert.True(t, robot.Contains(NewMultiset("")))
	assert.True(t, robot.Contains(NewMultiset("root")))
	assert.False(t, robot.Contains(NewMultiset("robbo")))
	assert.False(t, robot.Contains(NewMultiset("bat")))
	assert.False(t, robot.Contains(NewMultiset("robots")))
}
