// Package signature computes canonical letter signatures and the letter
// multisets the resolver enumerates.
//
// A signature is the lowercased word with its runes sorted in ascending code
// point order. Two words share a signature iff they are anagrams of each other.
package signature

import (
	"math"
	"math/bits"
	"slices"
	"strings"
)

// Signature is a canonical, sorted letter sequence. It is used as an index key
// and never mutated.
type Signature string

// Of returns the canonical signature of word. Non-letter runes are kept verbatim
// so that build-time and query-time signatures always agree.
func Of(word string) Signature {
	runes := []rune(strings.ToLower(word))
	slices.Sort(runes)
	return Signature(runes)
}

// Len returns the number of runes in the signature.
func (s Signature) Len() int {
	return len([]rune(s))
}

func (s Signature) String() string { return string(s) }

// Multiset is the letter-count view of a word: distinct runes in ascending
// order and how often each occurs.
type Multiset struct {
	letters []rune
	counts  []int
	total   int
}

// NewMultiset lowercases word and counts each distinct rune.
func NewMultiset(word string) Multiset {
	runes := []rune(strings.ToLower(word))
	slices.Sort(runes)

	ms := Multiset{total: len(runes)}
	for i, r := range runes {
		if i > 0 && r == runes[i-1] {
			ms.counts[len(ms.counts)-1]++
			continue
		}
		ms.letters = append(ms.letters, r)
		ms.counts = append(ms.counts, 1)
	}
	return ms
}

// Len is the total number of letters, counting repeats.
func (m Multiset) Len() int { return m.total }

// Distinct is the number of distinct letters.
func (m Multiset) Distinct() int { return len(m.letters) }

// Letter returns the i-th distinct letter and its count.
func (m Multiset) Letter(i int) (rune, int) { return m.letters[i], m.counts[i] }

// Counts returns a copy of the per-letter counts, aligned with the letters.
func (m Multiset) Counts() []int { return slices.Clone(m.counts) }

// Signature returns the signature of the whole multiset.
func (m Multiset) Signature() Signature {
	return m.Materialize(m.counts, nil)
}

// SubsetCount is the size of the sub-multiset index space: the product over
// distinct letters of (count + 1). The empty selection is included.
// The product saturates at math.MaxUint64.
func (m Multiset) SubsetCount() uint64 {
	n := uint64(1)
	for _, c := range m.counts {
		hi, lo := bits.Mul64(n, uint64(c+1))
		if hi != 0 {
			return math.MaxUint64
		}
		n = lo
	}
	return n
}

// Contains reports whether every letter of other occurs in m at least as often.
func (m Multiset) Contains(other Multiset) bool {
	j := 0
	for i, r := range other.letters {
		for j < len(m.letters) && m.letters[j] < r {
			j++
		}
		if j == len(m.letters) || m.letters[j] != r || m.counts[j] < other.counts[i] {
			return false
		}
	}
	return true
}

// Materialize builds the signature of the sub-multiset selected by choice,
// where choice[i] copies of the i-th distinct letter are taken. Letters are
// emitted in ascending order, so the result is canonical without sorting.
// buf is reused when it has enough capacity.
func (m Multiset) Materialize(choice []int, buf []rune) Signature {
	buf = buf[:0]
	for i, c := range choice {
		for k := 0; k < c; k++ {
			buf = append(buf, m.letters[i])
		}
	}
	return Signature(buf)
}
