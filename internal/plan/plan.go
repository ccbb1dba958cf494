// Package plan derives concrete execution strategies for tensor
// transpositions: the loop order over axes, cache-blocking factors, the
// vectorized axis pair, and the distribution of work across threads.
//
// A Plan is immutable and valid only for the exact shape/permutation pair
// it was built from. It may be reused across any number of executions
// with different data and scale factors.
package plan

import (
	"fmt"
	"strings"

	"github.com/hptt-go/hptt/internal/shape"
	"github.com/hptt-go/hptt/internal/simd"
)

// Range is a half-open interval of element indices along one axis.
type Range struct {
	Begin, End int
}

// Len returns the number of elements in the range (0 if empty).
func (r Range) Len() int {
	if r.End <= r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// AxisSplit assigns a number of threads to one input axis.
type AxisSplit struct {
	Axis    int
	Threads int
}

// Strategy maps a subset of input axes to per-axis thread counts. The
// product of the counts is the number of tasks forked per execution; an
// empty strategy means single-threaded execution.
type Strategy struct {
	splits []AxisSplit
}

// Splits returns the per-axis thread assignments, outermost split first.
// The returned slice must not be modified.
func (s Strategy) Splits() []AxisSplit { return s.splits }

// Tasks returns the total number of tasks the strategy forks.
func (s Strategy) Tasks() int {
	n := 1
	for _, sp := range s.splits {
		n *= sp.Threads
	}
	return n
}

// Ranges decomposes a task index into the sub-range each split axis
// assigns to that task. Sub-ranges are contiguous and near-equal: every
// chunk holds ceil(extent/threads) elements except the last, which takes
// the remainder and may be empty. sizes holds the full input extents.
func (s Strategy) Ranges(task int, sizes []int) []Range {
	ranges := make([]Range, len(s.splits))
	for i := len(s.splits) - 1; i >= 0; i-- {
		sp := s.splits[i]
		pos := task % sp.Threads
		task /= sp.Threads

		extent := sizes[sp.Axis]
		chunk := (extent + sp.Threads - 1) / sp.Threads
		begin := pos * chunk
		end := min(begin+chunk, extent)
		if begin > extent {
			begin = extent
		}
		ranges[i] = Range{Begin: begin, End: end}
	}
	return ranges
}

// String returns a compact form like "ax2/4*ax1/2" used for candidate
// deduplication and benchmark labels.
func (s Strategy) String() string {
	if len(s.splits) == 0 {
		return "serial"
	}
	parts := make([]string, len(s.splits))
	for i, sp := range s.splits {
		parts[i] = fmt.Sprintf("ax%d/%d", sp.Axis, sp.Threads)
	}
	return strings.Join(parts, "*")
}

// Plan is the immutable, reusable output of planning.
type Plan struct {
	in   shape.Descriptor
	out  shape.Descriptor
	perm shape.Permutation

	trivial bool
	threads int
	level   simd.Level
	tile    int

	// vecOut is the input axis that is contiguous in the output buffer
	// (perm[0]); it forms the vectorized pair with input axis 0. Zero
	// for trivial plans, where both buffers share axis 0.
	vecOut int

	// loop holds the traversal order of the non-vectorized axes,
	// outermost first.
	loop []int

	// block0/blockP are the macro-block edges along axis 0 and vecOut.
	// Unused (zero) for trivial plans.
	block0 int
	blockP int

	strideA []int // stride of each input axis in A
	strideB []int // stride of each input axis in B

	strategy Strategy
	label    string
}

// In returns the input descriptor.
func (p *Plan) In() shape.Descriptor { return p.in }

// Out returns the output descriptor.
func (p *Plan) Out() shape.Descriptor { return p.out }

// Perm returns the permutation. The returned slice must not be modified.
func (p *Plan) Perm() shape.Permutation { return p.perm }

// Trivial reports whether the plan reduces to a blocked strided copy.
func (p *Plan) Trivial() bool { return p.trivial }

// Threads returns the requested thread count.
func (p *Plan) Threads() int { return p.threads }

// Level returns the vector capability the plan was built for.
func (p *Plan) Level() simd.Level { return p.level }

// Tile returns the micro-tile edge length.
func (p *Plan) Tile() int { return p.tile }

// VecOut returns the input axis contiguous in the output buffer.
func (p *Plan) VecOut() int { return p.vecOut }

// Loop returns the loop order, outermost first. Read-only.
func (p *Plan) Loop() []int { return p.loop }

// Block0 returns the macro-block edge along input axis 0.
func (p *Plan) Block0() int { return p.block0 }

// BlockP returns the macro-block edge along the output-contiguous axis.
func (p *Plan) BlockP() int { return p.blockP }

// StrideA returns per-input-axis strides in A. Read-only.
func (p *Plan) StrideA() []int { return p.strideA }

// StrideB returns per-input-axis strides in B. Read-only.
func (p *Plan) StrideB() []int { return p.strideB }

// Parallelism returns the thread-distribution strategy.
func (p *Plan) Parallelism() Strategy { return p.strategy }

// Tasks returns the number of tasks forked per execution.
func (p *Plan) Tasks() int { return p.strategy.Tasks() }

// Label describes how the plan was derived ("heuristic", tuner variants).
func (p *Plan) Label() string { return p.label }

// Matches reports whether the plan was built for exactly the given
// shapes and permutation. Executing a plan against anything else is
// rejected by the caller-facing layer.
func (p *Plan) Matches(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor) bool {
	return p.in.Equal(in) && p.perm.Equal(perm) && p.out.Equal(out)
}

// fingerprint identifies the structural choices of a plan; candidates
// with equal fingerprints would execute identically.
func (p *Plan) fingerprint() string {
	return fmt.Sprintf("%v|%d,%d|%s", p.loop, p.block0, p.blockP, p.strategy.String())
}
