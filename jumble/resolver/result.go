package resolver

import (
	"slices"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/index"

	roaring "github.com/RoaringBitmap/roaring"
)

// Result is the set of dictionary words reachable from one input word.
// Words are deduplicated by spelling through their WordIDs.
type Result struct {
	input   string
	index   *index.SignatureIndex
	ids     *roaring.Bitmap
	visited uint64
}

func newResult(idx *index.SignatureIndex, input string) *Result {
	return &Result{input: input, index: idx, ids: roaring.New()}
}

// Input is the word exactly as it was passed to Solve.
func (r *Result) Input() string { return r.input }

// Len is the number of distinct words in the result.
func (r *Result) Len() int { return int(r.ids.GetCardinality()) }

// Visited is the number of sub-multisets enumerated, empty selection included.
func (r *Result) Visited() uint64 { return r.visited }

// Contains reports whether word, spelled exactly, is in the result.
func (r *Result) Contains(word string) bool {
	id, ok := r.index.WordID(word)
	return ok && r.ids.Contains(id)
}

// Words returns the result words sorted lexicographically. Callers should not
// attach meaning to the order.
func (r *Result) Words() []string {
	words := make([]string, 0, r.ids.GetCardinality())
	it := r.ids.Iterator()
	for it.HasNext() {
		if w, ok := r.index.Word(it.Next()); ok {
			words = append(words, w)
		}
	}
	slices.Sort(words)
	return words
}
