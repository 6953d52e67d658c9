// Package bench measures how solve cost grows with input length.
package bench

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/resolver"

	"gonum.org/v1/gonum/stat"
)

// DefaultWords is a series of words of increasing length, from 3 to 25 letters.
var DefaultWords = []string{
	"fun", "cars", "robot", "camera", "sentinel", "absolute", "crocodile", "abominable",
	"personality", "cytoskeleton", "acetylcholine", "ridiculousness", "procrastination",
	"extraterrestrial", "industrialization", "parliamentarianism", "intellectualization",
	"counterrevolutionist", "otorhinolaryngologist", "electroencephalography",
	"hydrochlorofluorocarbon", "laryngotracheobronchitis", "antidisestablishmentarism",
}

// Sample is one timed solve.
type Sample struct {
	Word    string
	Length  int
	Elapsed time.Duration
	Results int
	Visited uint64
}

// Report aggregates a run.
type Report struct {
	Samples []Sample

	MeanSeconds   float64
	StdDevSeconds float64

	// TimeGrowth and SelectionGrowth are the per-letter growth factors fitted
	// to elapsed time and to selections visited. Zero when fewer than two
	// distinct lengths were measured.
	TimeGrowth      float64
	SelectionGrowth float64
}

// Run solves each word in order and reports timings. ctx bounds the whole run.
func Run(ctx context.Context, r *resolver.Resolver, words []string) (*Report, error) {
	samples := make([]Sample, 0, len(words))
	for _, word := range words {
		start := time.Now()
		res, err := r.SolveContext(ctx, word)
		if err != nil {
			return nil, fmt.Errorf("bench %q: %w", word, err)
		}
		samples = append(samples, Sample{
			Word:    word,
			Length:  utf8.RuneCountInString(word),
			Elapsed: time.Since(start),
			Results: res.Len(),
			Visited: res.Visited(),
		})
	}
	return Summarize(samples), nil
}

// Summarize computes the report statistics for samples.
func Summarize(samples []Sample) *Report {
	report := &Report{Samples: samples}
	if len(samples) == 0 {
		return report
	}

	lengths := make([]float64, len(samples))
	seconds := make([]float64, len(samples))
	logSeconds := make([]float64, len(samples))
	logVisited := make([]float64, len(samples))
	for i, s := range samples {
		lengths[i] = float64(s.Length)
		seconds[i] = s.Elapsed.Seconds()
		// clamp so a zero reading does not produce -Inf
		logSeconds[i] = math.Log(math.Max(seconds[i], 1e-9))
		logVisited[i] = math.Log(math.Max(float64(s.Visited), 1))
	}

	report.MeanSeconds, report.StdDevSeconds = stat.MeanStdDev(seconds, nil)
	if len(samples) == 1 {
		report.StdDevSeconds = 0
	}

	if distinctLengths(samples) >= 2 {
		report.TimeGrowth = growth(lengths, logSeconds)
		report.SelectionGrowth = growth(lengths, logVisited)
	}
	return report
}

// growth fits ln(y) = a + b*length and returns e^b.
func growth(lengths, logY []float64) float64 {
	_, beta := stat.LinearRegression(lengths, logY, nil, false)
	return math.Exp(beta)
}

func distinctLengths(samples []Sample) int {
	seen := make(map[int]struct{}, len(samples))
	for _, s := range samples {
		seen[s.Length] = struct{}{}
	}
	return len(seen)
}

// Write renders the report as an aligned table.
func (r *Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tLETTERS\tSELECTIONS\tRESULTS\tELAPSED")
	for _, s := range r.Samples {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Word, s.Length, s.Visited, s.Results, s.Elapsed)
	}
	fmt.Fprintf(tw, "\nmean %.6fs  stddev %.6fs\n", r.MeanSeconds, r.StdDevSeconds)
	fmt.Fprintf(tw, "growth per letter: time x%.3f  selections x%.3f\n", r.TimeGrowth, r.SelectionGrowth)
	return tw.Flush()
}
