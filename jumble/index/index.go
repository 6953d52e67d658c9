// Package index builds the signature dictionary the resolver queries: every
// word of a word list filed under its canonical letter signature.
package index

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/common"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/signature"

	"github.com/armon/go-radix"
	"github.com/google/uuid"
)

// Stats summarises an index build.
type Stats struct {
	Lines            int // lines read, blank ones included
	Skipped          int // blank lines
	Words            int // words filed, duplicates included
	DistinctWords    int
	Signatures       int
	LongestSignature int
}

// entry is the value stored under one signature.
type entry struct {
	words []string
	ids   []WordID
}

// SignatureIndex maps canonical signatures to the words that produce them.
// It is immutable once built and safe for concurrent readers.
type SignatureIndex struct {
	tree    *radix.Tree // signature -> *entry
	mapper  *wordMapper
	stats   Stats
	buildID uuid.UUID
	builtAt time.Time
}

type builder struct {
	idx *SignatureIndex
}

func newBuilder(buildID uuid.UUID, builtAt time.Time) *builder {
	return &builder{idx: &SignatureIndex{
		tree:    radix.New(),
		mapper:  newWordMapper(),
		buildID: buildID,
		builtAt: builtAt,
	}}
}

// addLine trims a raw line and files the word under its signature.
func (b *builder) addLine(line string) {
	b.idx.stats.Lines++
	word := strings.TrimSpace(line)
	if word == "" {
		b.idx.stats.Skipped++
		return
	}
	b.add(signature.Of(word), word)
}

func (b *builder) add(sig signature.Signature, word string) {
	id := b.idx.mapper.assign(word)
	key := string(sig)

	if v, ok := b.idx.tree.Get(key); ok {
		e := v.(*entry)
		e.words = append(e.words, word)
		e.ids = append(e.ids, id)
	} else {
		b.idx.tree.Insert(key, &entry{words: []string{word}, ids: []WordID{id}})
		if n := sig.Len(); n > b.idx.stats.LongestSignature {
			b.idx.stats.LongestSignature = n
		}
	}
	b.idx.stats.Words++
}

func (b *builder) finish() *SignatureIndex {
	b.idx.stats.Signatures = b.idx.tree.Len()
	b.idx.stats.DistinctWords = b.idx.mapper.size()

	slog.Debug("Signature index built",
		"build_id", b.idx.buildID,
		"words", b.idx.stats.Words,
		"distinct_words", b.idx.stats.DistinctWords,
		"signatures", b.idx.stats.Signatures,
		"skipped", b.idx.stats.Skipped)

	return b.idx
}

// BuildFromLines builds an index from in-memory word lines.
func BuildFromLines(lines []string) *SignatureIndex {
	b := newBuilder(uuid.New(), time.Now())
	for _, line := range lines {
		b.addLine(line)
	}
	return b.finish()
}

// Build reads one word per line from r and builds an index.
func Build(r io.Reader) (*SignatureIndex, error) {
	idx, err := scanLines(r)
	if err != nil {
		return nil, common.NewResourceError("read word list", "", err)
	}
	return idx, nil
}

// scanLines files every line of r. Lines have no length limit, so only a
// read failure can stop the build.
func scanLines(r io.Reader) (*SignatureIndex, error) {
	b := newBuilder(uuid.New(), time.Now())

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			b.addLine(line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// LoadFile builds an index from the file at path. Files starting with the
// snapshot magic are decoded as snapshots, anything else is parsed as a word list.
func LoadFile(path string) (*SignatureIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewResourceError("open word list", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(len(snapshotMagic))
	if err == nil && bytes.Equal(head, snapshotMagic) {
		idx, err := ReadSnapshot(br)
		if err != nil {
			return nil, common.NewResourceError("load snapshot", path, err)
		}
		return idx, nil
	}

	idx, err := scanLines(br)
	if err != nil {
		return nil, common.NewResourceError("read word list", path, err)
	}
	slog.Debug("Loaded word list", "path", path, "signatures", idx.Size())
	return idx, nil
}

// Lookup returns the words filed under sig in first-seen order.
// Unknown signatures yield nil, false.
func (idx *SignatureIndex) Lookup(sig signature.Signature) ([]string, bool) {
	v, ok := idx.tree.Get(string(sig))
	if !ok {
		return nil, false
	}
	return slices.Clone(v.(*entry).words), true
}

// LookupIDs is Lookup returning WordIDs. The slice is shared with the index
// and must not be modified.
func (idx *SignatureIndex) LookupIDs(sig signature.Signature) ([]WordID, bool) {
	v, ok := idx.tree.Get(string(sig))
	if !ok {
		return nil, false
	}
	return v.(*entry).ids, true
}

// WordID returns the ID of an exact spelling.
func (idx *SignatureIndex) WordID(word string) (WordID, bool) {
	return idx.mapper.lookup(word)
}

// Word returns the spelling for id.
func (idx *SignatureIndex) Word(id WordID) (string, bool) {
	return idx.mapper.word(id)
}

// Walk visits every signature in ascending order until fn returns true.
// The words slice is shared with the index and must not be modified.
func (idx *SignatureIndex) Walk(fn func(sig signature.Signature, words []string) bool) {
	idx.tree.Walk(func(key string, v interface{}) bool {
		return fn(signature.Signature(key), v.(*entry).words)
	})
}

// Size returns the number of distinct signatures.
func (idx *SignatureIndex) Size() int { return idx.tree.Len() }

// Stats returns the build statistics.
func (idx *SignatureIndex) Stats() Stats { return idx.stats }

// BuildID identifies the build this index came from. Snapshots keep it.
func (idx *SignatureIndex) BuildID() uuid.UUID { return idx.buildID }

// BuiltAt is the time the index was originally built.
func (idx *SignatureIndex) BuiltAt() time.Time { return idx.builtAt }

// Validate checks that every word sits under its own signature and that the
// ID mapping agrees with the stored spellings.
func (idx *SignatureIndex) Validate() []error {
	var errs []error
	filed := 0

	idx.tree.Walk(func(key string, v interface{}) bool {
		e, ok := v.(*entry)
		if !ok {
			errs = append(errs, fmt.Errorf("invalid_entry_type: %q", key))
			return false
		}
		if len(e.words) == 0 || len(e.words) != len(e.ids) {
			errs = append(errs, fmt.Errorf("entry_shape_mismatch: %q has %d words and %d ids", key, len(e.words), len(e.ids)))
		}
		for i, w := range e.words {
			filed++
			if sig := signature.Of(w); string(sig) != key {
				errs = append(errs, fmt.Errorf("misfiled_word: %q filed under %q, signature is %q", w, key, sig))
			}
			if i < len(e.ids) {
				if got, ok := idx.mapper.word(e.ids[i]); !ok || got != w {
					errs = append(errs, fmt.Errorf("id_mismatch: %q has id %d", w, e.ids[i]))
				}
			}
		}
		return false
	})

	if filed != idx.stats.Words {
		errs = append(errs, fmt.Errorf("stats_mismatch: %d words filed, stats report %d", filed, idx.stats.Words))
	}
	if idx.stats.Lines != idx.stats.Words+idx.stats.Skipped {
		errs = append(errs, fmt.Errorf("stats_mismatch: %d lines, %d words and %d skipped", idx.stats.Lines, idx.stats.Words, idx.stats.Skipped))
	}

	if len(errs) > 0 {
		slog.Warn("Signature index validation found issues", "error_count", len(errs))
	}
	return errs
}
