// Package resolver finds every dictionary word spelled by a sub-multiset of an
// input word's letters.
//
// Enumeration walks the per-letter chosen-count vector like an odometer, so a
// word with letter multiplicities m1..mk costs prod(mi+1) index lookups. A run
// of repeated letters is visited once per count, never once per position.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/common"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/index"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/signature"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultMinLength is the smallest sub-multiset looked up.
	DefaultMinLength = 2

	// cancelCheckInterval is how many selections pass between context checks.
	cancelCheckInterval = 1024
)

var tracer = otel.Tracer("github.com/ZanzyTHEbar/jumble-solver/jumble/resolver")

// Option configures a Resolver.
type Option func(*Resolver)

// WithMinLength sets the smallest selection size; values below 1 become 1.
func WithMinLength(n int) Option {
	return func(r *Resolver) {
		r.minLength = max(n, 1)
	}
}

// WithWorkers bounds SolveAll concurrency; 0 means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		r.workers = max(n, 0)
	}
}

// Resolver answers subset-anagram queries against a shared, read-only index.
// A Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	index     *index.SignatureIndex
	minLength int
	workers   int
}

// New creates a resolver over idx.
func New(idx *index.SignatureIndex, opts ...Option) *Resolver {
	r := &Resolver{index: idx, minLength: DefaultMinLength}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Solve resolves word against idx with default options.
func Solve(idx *index.SignatureIndex, word string) (*Result, error) {
	return New(idx).Solve(word)
}

// Index returns the index this resolver queries.
func (r *Resolver) Index() *index.SignatureIndex { return r.index }

// Solve returns every indexed word spelled by a sub-multiset of word's letters,
// minus word itself.
func (r *Resolver) Solve(word string) (*Result, error) {
	return r.SolveContext(context.Background(), word)
}

// SolveContext is Solve bounded by ctx. Cost grows with the number of distinct
// sub-multisets, so long words with many distinct letters need a deadline.
//
// Self-exclusion compares the literal input against stored spellings while
// matching itself ignores case: "Robot" does not exclude a stored "robot".
func (r *Resolver) SolveContext(ctx context.Context, word string) (*Result, error) {
	if word == "" {
		return nil, fmt.Errorf("solve: %w", common.ErrEmptyWord)
	}

	ms := signature.NewMultiset(word)

	ctx, span := tracer.Start(ctx, "jumble.resolver/Solve", trace.WithAttributes(
		attribute.Int("jumble.word_length", ms.Len()),
		attribute.Int("jumble.distinct_letters", ms.Distinct()),
		attribute.Int64("jumble.selections", selectionsAttr(ms.SubsetCount())),
	))
	defer span.End()

	res := newResult(r.index, word)

	visited, err := r.enumerate(ctx, ms, func(sig signature.Signature) {
		if ids, ok := r.index.LookupIDs(sig); ok {
			res.ids.AddMany(ids)
		}
	})
	res.visited = visited
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "solve interrupted")
		return nil, fmt.Errorf("solve %q: %w", word, err)
	}

	if id, ok := r.index.WordID(word); ok {
		res.ids.Remove(id)
	}

	span.SetAttributes(
		attribute.Int64("jumble.visited", int64(visited)),
		attribute.Int("jumble.results", res.Len()),
	)
	slog.Debug("Solve completed",
		"word", word,
		"visited", visited,
		"results", res.Len())

	return res, nil
}

// enumerate calls visit with the signature of every distinct sub-multiset of ms
// holding at least minLength letters. It returns the number of selections
// walked, the empty one included.
func (r *Resolver) enumerate(ctx context.Context, ms signature.Multiset, visit func(signature.Signature)) (uint64, error) {
	choice := make([]int, ms.Distinct())
	buf := make([]rune, 0, ms.Len())
	total := 0
	var visited uint64

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	for {
		if total >= r.minLength {
			visit(ms.Materialize(choice, buf))
		}
		visited++

		if visited%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return visited, err
			}
		}

		// Advance the odometer: bump the lowest letter that still has room,
		// resetting every letter below it.
		i := 0
		for ; i < len(choice); i++ {
			if _, count := ms.Letter(i); choice[i] < count {
				choice[i]++
				total++
				break
			}
			total -= choice[i]
			choice[i] = 0
		}
		if i == len(choice) {
			return visited, nil
		}
	}
}

func (r *Resolver) workerCount() int {
	if r.workers > 0 {
		return r.workers
	}
	return runtime.NumCPU()
}

// selectionsAttr clamps a selection count to the int64 range of span attributes.
func selectionsAttr(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
