package hptt

import (
	"github.com/hptt-go/hptt/internal/simd"
	"github.com/hptt-go/hptt/internal/tune"
)

// TuneMode selects the auto-tuning search budget.
type TuneMode int

const (
	// TuneMeasure benchmarks a small curated candidate set. Intended
	// for shapes whose plan is reused a moderate number of times.
	TuneMeasure TuneMode = iota

	// TunePatient benchmarks a substantially larger candidate set at
	// proportionally higher tuning cost. Intended for shapes whose
	// plan is reused many times, amortizing the search.
	TunePatient
)

// String returns a human-readable mode name.
func (m TuneMode) String() string {
	if m == TunePatient {
		return "patient"
	}
	return "measure"
}

// NewPlanTuned searches the strategy space empirically: every candidate
// plan is executed on the given real buffers and timed, and the plan
// with the lowest minimum wall-clock duration wins.
//
// Tuning mutates b; its contents are unspecified until the call
// returns. The search always finishes with one confirming execution of
// the winning plan, so on return b holds the winner's output. With
// beta != 0 that output reflects the accumulated timing runs; restore
// b and re-run the returned plan if a single fresh accumulation is the
// desired final result.
func NewPlanTuned[T Element](opts Options, mode TuneMode, alpha T, a []T, beta T, b []T) (*Plan[T], error) {
	return NewPlanTunedConj(opts, mode, alpha, a, beta, b, false)
}

// NewPlanTunedConj is NewPlanTuned with optional conjugation of the
// input during tuning runs. conjA has no effect for real element types.
func NewPlanTunedConj[T Element](opts Options, mode TuneMode, alpha T, a []T, beta T, b []T, conjA bool) (*Plan[T], error) {
	in, perm, out, threads, err := normalize(opts)
	if err != nil {
		return nil, err
	}

	// Buffers are validated up front: tuning executes for real.
	if need := in.OuterElements(); len(a) < need {
		return nil, planMismatch("input", len(a), need)
	}
	if need := out.OuterElements(); len(b) < need {
		return nil, planMismatch("output", len(b), need)
	}

	tuneMode := tune.Measure
	if mode == TunePatient {
		tuneMode = tune.Patient
	}
	winner, err := tune.Tune(in, perm, out, threads, simd.Detect(), elemSize[T](), alpha, a, beta, b, conjA, tune.Options{Mode: tuneMode})
	if err != nil {
		return nil, err
	}
	return &Plan[T]{p: winner}, nil
}
