package hptt

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hptt-go/hptt/internal/kernel"
	"github.com/hptt-go/hptt/internal/parallel"
	"github.com/hptt-go/hptt/internal/plan"
	"github.com/hptt-go/hptt/internal/shape"
	"github.com/hptt-go/hptt/internal/simd"
)

// Element constrains the supported numeric element types.
type Element interface {
	float32 | float64 | complex64 | complex128
}

// Errors reported by plan construction and execution. All validation
// happens before any buffer is touched; a failed call never partially
// writes the destination.
var (
	// ErrInvalidShape covers non-positive sizes and outer sizes smaller
	// than the logical sizes.
	ErrInvalidShape = shape.ErrInvalidShape

	// ErrInvalidPermutation covers wrong-length, repeated or
	// out-of-range permutation entries.
	ErrInvalidPermutation = shape.ErrInvalidPermutation

	// ErrUnsupportedConfiguration covers requests planning cannot
	// produce a strategy for, such as negative thread counts.
	ErrUnsupportedConfiguration = plan.ErrUnsupported

	// ErrPlanMismatch is returned when a plan is executed against
	// buffers that cannot hold the shapes it was built for.
	ErrPlanMismatch = errors.New("plan mismatch")
)

// Options describes a transposition to plan.
type Options struct {
	// Size holds the logical extent of each input axis. The rank is
	// len(Size); empty means a rank-0 scalar.
	Size []int

	// Perm maps input axes to output axes: Perm[k] is the input axis
	// that becomes output axis k.
	Perm []int

	// OuterSizeA optionally gives the allocated extent of each input
	// axis; nil means equal to Size. Outer sizes larger than the
	// logical sizes let the transposition operate on a sub-tensor.
	OuterSizeA []int

	// OuterSizeB optionally gives the allocated extent of each output
	// axis; nil means the permuted Size.
	OuterSizeB []int

	// NumThreads is the number of threads work is partitioned across.
	// 0 means runtime.NumCPU(); 1 forks no goroutines.
	NumThreads int

	// RowMajor interprets Size, the outer sizes and Perm with axis 0
	// varying slowest. It relabels axes before planning and changes no
	// internal algorithm.
	RowMajor bool
}

// Plan is a reusable execution strategy bound to one exact combination
// of shapes, permutation, thread count and layout. It is safe for
// concurrent use by multiple goroutines as long as their destination
// buffers differ.
type Plan[T Element] struct {
	p *plan.Plan
}

// NewPlan validates the request and derives a plan using size
// heuristics. Nothing is executed or measured.
func NewPlan[T Element](opts Options) (*Plan[T], error) {
	pl, err := buildPlan[T](opts)
	if err != nil {
		return nil, err
	}
	return &Plan[T]{p: pl}, nil
}

// Execute runs B[perm(i)] = alpha*A[i] + beta*B[perm(i)] with the
// plan's strategy. With beta == 0 the prior contents of b are never
// read. The buffers must hold at least the outer extents the plan was
// built for; anything else is rejected with ErrPlanMismatch.
func (p *Plan[T]) Execute(alpha T, a []T, beta T, b []T) error {
	return p.ExecuteConj(alpha, a, beta, b, false)
}

// ExecuteConj is Execute with optional complex conjugation of every
// element read from a. conjA has no effect for real element types.
func (p *Plan[T]) ExecuteConj(alpha T, a []T, beta T, b []T, conjA bool) error {
	if err := p.checkBuffers(a, b); err != nil {
		return err
	}
	kernel.Execute(p.p, alpha, a, beta, b, conjA)
	return nil
}

func (p *Plan[T]) checkBuffers(a, b []T) error {
	if need := p.p.In().OuterElements(); len(a) < need {
		return planMismatch("input", len(a), need)
	}
	if need := p.p.Out().OuterElements(); len(b) < need {
		return planMismatch("output", len(b), need)
	}
	return nil
}

func planMismatch(which string, got, need int) error {
	return fmt.Errorf("%w: %s buffer holds %d elements, plan needs %d", ErrPlanMismatch, which, got, need)
}

// Trivial reports whether the plan reduced to a blocked copy (the
// permutation fixes the fastest-varying axis).
func (p *Plan[T]) Trivial() bool { return p.p.Trivial() }

// Threads returns the thread count the plan partitions work across.
func (p *Plan[T]) Threads() int { return p.p.Threads() }

// Tasks returns the number of parallel tasks per execution; it never
// exceeds Threads.
func (p *Plan[T]) Tasks() int { return p.p.Tasks() }

// Label describes how the plan was derived; tuned plans carry the
// winning candidate's label.
func (p *Plan[T]) Label() string { return p.p.Label() }

// Transpose plans and executes in one call using the heuristic planner.
// Nothing is cached; callers with repeated identical shapes should hold
// a Plan or use a PlanCache instead.
func Transpose[T Element](opts Options, alpha T, a []T, beta T, b []T) error {
	return TransposeConj(opts, alpha, a, beta, b, false)
}

// TransposeConj is Transpose with optional conjugation of the input.
func TransposeConj[T Element](opts Options, alpha T, a []T, beta T, b []T, conjA bool) error {
	p, err := NewPlan[T](opts)
	if err != nil {
		return err
	}
	return p.ExecuteConj(alpha, a, beta, b, conjA)
}

// buildPlan normalizes options, validates everything and runs the
// heuristic planner.
func buildPlan[T Element](opts Options) (*plan.Plan, error) {
	in, perm, out, threads, err := normalize(opts)
	if err != nil {
		return nil, err
	}
	return plan.Build(in, perm, out, threads, simd.Detect(), elemSize[T]())
}

func normalize(opts Options) (shape.Descriptor, shape.Permutation, shape.Descriptor, int, error) {
	threads := opts.NumThreads
	if threads == 0 {
		threads = parallel.DefaultConfig().NumWorkers
	}
	if threads < 0 {
		return shape.Descriptor{}, nil, shape.Descriptor{}, 0,
			fmt.Errorf("%w: negative thread count %d", ErrUnsupportedConfiguration, opts.NumThreads)
	}

	size, outerA, outerB, permIdx := opts.Size, opts.OuterSizeA, opts.OuterSizeB, opts.Perm
	if opts.RowMajor {
		size = reversed(size)
		outerA = reversed(outerA)
		outerB = reversed(outerB)
		permIdx = relabelPerm(opts.Perm)
	}

	in, err := shape.NewDescriptor(size, outerA)
	if err != nil {
		return shape.Descriptor{}, nil, shape.Descriptor{}, 0, err
	}
	perm, err := shape.NewPermutation(permIdx, in.Rank())
	if err != nil {
		return shape.Descriptor{}, nil, shape.Descriptor{}, 0, err
	}
	out, err := shape.OutputDescriptor(in, perm, outerB)
	if err != nil {
		return shape.Descriptor{}, nil, shape.Descriptor{}, 0, err
	}
	return in, perm, out, threads, nil
}

func reversed(v []int) []int {
	if v == nil {
		return nil
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// relabelPerm converts a row-major permutation to the column-major
// relabeling: axis i becomes axis rank-1-i in both domains.
func relabelPerm(perm []int) []int {
	rank := len(perm)
	out := make([]int, rank)
	for k, v := range perm {
		if v < 0 || v >= rank {
			// Leave range errors to permutation validation.
			return append([]int(nil), perm...)
		}
		out[rank-1-k] = rank - 1 - v
	}
	return out
}

func elemSize[T Element]() int {
	var z T
	return int(unsafe.Sizeof(z))
}
