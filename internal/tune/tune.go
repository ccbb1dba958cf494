// Package tune selects the fastest transposition plan empirically by
// timing candidate plans on the caller's real buffers.
//
// Timing runs mutate the destination buffer; until Tune returns, its
// contents are unspecified. Tune always finishes with one extra
// confirming execution of the winning plan, so on return the buffer
// holds the winner's output. With beta != 0 that output reflects the
// accumulated state of the timing runs, not a single fresh execution;
// callers who need a fresh accumulation must re-run the returned plan
// against a restored destination.
package tune

import (
	"math"
	"time"

	"github.com/hptt-go/hptt/internal/kernel"
	"github.com/hptt-go/hptt/internal/plan"
	"github.com/hptt-go/hptt/internal/shape"
	"github.com/hptt-go/hptt/internal/simd"
)

// Mode selects the tuning budget.
type Mode int

const (
	// Measure times a small curated candidate set.
	Measure Mode = iota

	// Patient times a substantially larger candidate set, trading
	// tuning time for a better-found plan.
	Patient
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Measure:
		return "measure"
	case Patient:
		return "patient"
	default:
		return "unknown"
	}
}

// defaultRepeats is the number of timed runs per candidate; the minimum
// duration is kept, which rejects scheduling outliers better than a mean.
const defaultRepeats = 3

// Options controls the search.
type Options struct {
	Mode    Mode
	Repeats int // timed runs per candidate; 0 means the default
}

// Tune benchmarks candidate plans for the given transposition and
// returns the fastest. Candidates are evaluated strictly one after
// another, each one completing its own fork-join before the next starts,
// so measurements never contend. Ties keep the earliest-generated
// candidate, making the choice deterministic under equal timings.
func Tune[T kernel.Element](in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads int, level simd.Level, elemSize int, alpha T, a []T, beta T, b []T, conjA bool, opts Options) (*plan.Plan, error) {
	var candidates []*plan.Plan
	var err error
	if opts.Mode == Patient {
		candidates, err = plan.CandidatesPatient(in, perm, out, threads, level, elemSize)
	} else {
		candidates, err = plan.Candidates(in, perm, out, threads, level, elemSize)
	}
	if err != nil {
		return nil, err
	}

	repeats := opts.Repeats
	if repeats <= 0 {
		repeats = defaultRepeats
	}

	best := 0
	bestTime := time.Duration(math.MaxInt64)
	for i, cand := range candidates {
		minTime := time.Duration(math.MaxInt64)
		for r := 0; r < repeats; r++ {
			start := time.Now()
			kernel.Execute(cand, alpha, a, beta, b, conjA)
			if d := time.Since(start); d < minTime {
				minTime = d
			}
		}
		if minTime < bestTime {
			bestTime = minTime
			best = i
		}
	}

	winner := candidates[best]
	kernel.Execute(winner, alpha, a, beta, b, conjA)
	return winner, nil
}
