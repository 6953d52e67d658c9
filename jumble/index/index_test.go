package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/common"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleWords = []string{"dog", "god", "robot", "orb", "bro", "rob", "or"}

func TestSignatureIndex(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"SampleScenario", testIndexSampleScenario},
		{"LiteralWordIsNotAKey", testIndexLiteralWordIsNotAKey},
		{"TrimsAndSkipsBlankLines", testIndexTrimsAndSkipsBlankLines},
		{"PreservesCaseAndDuplicates", testIndexPreservesCaseAndDuplicates},
		{"WordIDs", testIndexWordIDs},
		{"Walk", testIndexWalk},
		{"LookupReturnsCopy", testIndexLookupReturnsCopy},
		{"ConcurrentReaders", testIndexConcurrentReaders},
		{"Validation", testIndexValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testIndexSampleScenario(t *testing.T) {
	idx := BuildFromLines(sampleWords)

	words, ok := idx.Lookup("dgo")
	require.True(t, ok)
	assert.Equal(t, []string{"dog", "god"}, words)

	words, ok = idx.Lookup("boort")
	require.True(t, ok)
	assert.Equal(t, []string{"robot"}, words)

	words, ok = idx.Lookup("bor")
	require.True(t, ok)
	assert.Equal(t, []string{"orb", "bro", "rob"}, words)

	words, ok = idx.Lookup("or")
	require.True(t, ok)
	assert.Equal(t, []string{"or"}, words)

	assert.Equal(t, 4, idx.Size())
}

func testIndexLiteralWordIsNotAKey(t *testing.T) {
	idx := BuildFromLines(sampleWords)

	for _, word := range []string{"dog", "god", "robot", "orb", "rob"} {
		words, ok := idx.Lookup(signature.Signature(word))
		assert.False(t, ok, "literal word should not be a key: %s", word)
		assert.Nil(t, words)
	}

	// Already-sorted spellings are their own signature
	_, ok := idx.Lookup(signature.Signature("or"))
	assert.True(t, ok)

	_, ok = idx.Lookup("xyz")
	assert.False(t, ok)
	_, ok = idx.Lookup("")
	assert.False(t, ok)
}

func testIndexTrimsAndSkipsBlankLines(t *testing.T) {
	idx, err := Build(strings.NewReader("  dog\t\n\n   \ngod \r\n"))
	require.NoError(t, err)

	words, ok := idx.Lookup("dgo")
	require.True(t, ok)
	assert.Equal(t, []string{"dog", "god"}, words)

	stats := idx.Stats()
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 2, stats.Words)
	assert.Equal(t, 1, stats.Signatures)
	assert.Equal(t, 3, stats.LongestSignature)

	_, ok = idx.Lookup("")
	assert.False(t, ok, "blank lines must not create an empty signature")
}

func testIndexPreservesCaseAndDuplicates(t *testing.T) {
	idx := BuildFromLines([]string{"Dog", "god", "dog", "god", "it's"})

	words, ok := idx.Lookup("dgo")
	require.True(t, ok)
	assert.Equal(t, []string{"Dog", "god", "dog", "god"}, words)

	words, ok = idx.Lookup("'ist")
	require.True(t, ok)
	assert.Equal(t, []string{"it's"}, words)

	stats := idx.Stats()
	assert.Equal(t, 5, stats.Words)
	assert.Equal(t, 4, stats.DistinctWords)
}

func testIndexWordIDs(t *testing.T) {
	idx := BuildFromLines([]string{"dog", "god", "dog", "Dog"})

	dog, ok := idx.WordID("dog")
	require.True(t, ok)
	god, ok := idx.WordID("god")
	require.True(t, ok)
	upper, ok := idx.WordID("Dog")
	require.True(t, ok)

	assert.Equal(t, WordID(0), dog)
	assert.Equal(t, WordID(1), god)
	assert.Equal(t, WordID(2), upper)

	ids, ok := idx.LookupIDs("dgo")
	require.True(t, ok)
	assert.Equal(t, []WordID{0, 1, 0, 2}, ids)

	word, ok := idx.Word(god)
	assert.True(t, ok)
	assert.Equal(t, "god", word)

	_, ok = idx.Word(99)
	assert.False(t, ok)
	_, ok = idx.WordID("cat")
	assert.False(t, ok)
}

func testIndexWalk(t *testing.T) {
	idx := BuildFromLines(sampleWords)

	var sigs []signature.Signature
	idx.Walk(func(sig signature.Signature, words []string) bool {
		sigs = append(sigs, sig)
		return false
	})
	assert.Equal(t, []signature.Signature{"boort", "bor", "dgo", "or"}, sigs)

	visited := 0
	idx.Walk(func(sig signature.Signature, words []string) bool {
		visited++
		return true
	})
	assert.Equal(t, 1, visited, "walk stops when fn returns true")
}

func testIndexLookupReturnsCopy(t *testing.T) {
	idx := BuildFromLines(sampleWords)

	words, _ := idx.Lookup("dgo")
	words[0] = "cat"

	again, _ := idx.Lookup("dgo")
	assert.Equal(t, []string{"dog", "god"}, again)
}

func testIndexConcurrentReaders(t *testing.T) {
	idx := BuildFromLines(sampleWords)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				words, ok := idx.Lookup("bor")
				assert.True(t, ok)
				assert.Len(t, words, 3)
			}
		}()
	}
	wg.Wait()
}

func testIndexValidation(t *testing.T) {
	idx := BuildFromLines(append(sampleWords, "Dog", "dog"))
	assert.Empty(t, idx.Validate())

	// File a word under the wrong signature
	broken := BuildFromLines(sampleWords)
	b := &builder{idx: broken}
	b.add("dgo", "cat")
	errs := broken.Validate()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "misfiled_word")
}

func TestBuildReadError(t *testing.T) {
	_, err := Build(failingReader{})
	require.Error(t, err)
	assert.True(t, common.IsResourceError(err))
	assert.ErrorIs(t, err, errRead)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words_test.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(sampleWords, "\n")+"\n"), 0o644))

	idx, err := LoadFile(path)
	require.NoError(t, err)

	words, ok := idx.Lookup("bor")
	require.True(t, ok)
	assert.Equal(t, []string{"orb", "bro", "rob"}, words)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrResource)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFileWordListWithSnapshotLikeWord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.txt")
	require.NoError(t, os.WriteFile(path, []byte("JBSNx\ndog\n"), 0o644))

	idx, err := LoadFile(path)
	require.NoError(t, err)

	words, ok := idx.Lookup("dgo")
	require.True(t, ok)
	assert.Equal(t, []string{"dog"}, words)

	words, ok = idx.Lookup(signature.Of("JBSNx"))
	require.True(t, ok)
	assert.Equal(t, []string{"JBSNx"}, words)
}

func TestBuildKeepsLongLines(t *testing.T) {
	long := strings.Repeat("ab", 1<<20)
	idx, err := Build(strings.NewReader("dog\n" + long + "\ngod"))
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Stats().Lines)
	assert.Equal(t, 3, idx.Stats().Words)
	words, ok := idx.Lookup(signature.Of(long))
	require.True(t, ok)
	assert.Equal(t, []string{long}, words)

	words, ok = idx.Lookup("dgo")
	require.True(t, ok)
	assert.Equal(t, []string{"dog", "god"}, words)
}

var errRead = errors.New("disk on fire")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errRead }

func BenchmarkBuildFromLines(b *testing.B) {
	lines := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		lines = append(lines, sampleWords[i%len(sampleWords)]+strings.Repeat("x", i%7))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildFromLines(lines)
	}
}
