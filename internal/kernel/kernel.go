// Package kernel executes transposition plans against real buffers.
//
// The macro-kernel walks the plan's loop axes as a stack-free odometer
// with incrementally maintained offsets, so arbitrary rank costs no call
// depth. At each leaf the general path transposes a 2-D region between
// the vectorized axis pair with tile micro-kernels; the trivial path
// copies contiguous runs. The kernels trust the plan completely: all
// validation happened at plan-build time.
package kernel

import (
	"github.com/hptt-go/hptt/internal/parallel"
	"github.com/hptt-go/hptt/internal/plan"
)

// Element constrains the supported numeric element types. The exact
// builtin types are required (no ~) so that conjugation can recognize
// complex elements at run time.
type Element interface {
	float32 | float64 | complex64 | complex128
}

// Execute runs B[perm(i)] = alpha*A[i] + beta*B[perm(i)] per the plan,
// forking one task per plan-assigned thread and joining before return.
// With beta == 0 the prior contents of b are never read. conjA applies
// complex conjugation to every element read from a.
func Execute[T Element](p *plan.Plan, alpha T, a []T, beta T, b []T, conjA bool) {
	// alpha*A contributes nothing and beta leaves B untouched: provably
	// a no-op, skipping it cannot change observable output.
	if alpha == 0 && beta == 1 {
		return
	}

	if p.In().Rank() == 0 {
		axpby(alpha, a[:1], beta, b[:1], conjA)
		return
	}

	tasks := p.Tasks()
	if tasks <= 1 {
		runTask(p, alpha, a, beta, b, conjA, fullRanges(p))
		return
	}

	sizes := p.In().Sizes()
	strategy := p.Parallelism()
	parallel.Run(tasks, func(task int) {
		ranges := fullRanges(p)
		sub := strategy.Ranges(task, sizes)
		for i, sp := range strategy.Splits() {
			ranges[sp.Axis] = sub[i]
		}
		runTask(p, alpha, a, beta, b, conjA, ranges)
	})
}

func fullRanges(p *plan.Plan) []plan.Range {
	in := p.In()
	ranges := make([]plan.Range, in.Rank())
	for i := range ranges {
		ranges[i] = plan.Range{Begin: 0, End: in.Size(i)}
	}
	return ranges
}

// runTask executes the macro-kernel over one task's sub-ranges.
func runTask[T Element](p *plan.Plan, alpha T, a []T, beta T, b []T, conjA bool, ranges []plan.Range) {
	loop := p.Loop()
	strideA, strideB := p.StrideA(), p.StrideB()

	n := len(loop)
	counts := make([]int, n)
	offA, offB := 0, 0
	for k, ax := range loop {
		r := ranges[ax]
		if r.Len() == 0 {
			return
		}
		counts[k] = r.Len()
		offA += r.Begin * strideA[ax]
		offB += r.Begin * strideB[ax]
	}

	r0 := ranges[0]
	if r0.Len() == 0 {
		return
	}

	var leaf func(offA, offB int)
	if p.Trivial() {
		// Axis 0 is contiguous in both buffers (stride 1): the leaf is
		// a single strided-copy run with scale/accumulate.
		length := r0.Len()
		leaf = func(offA, offB int) {
			offA += r0.Begin
			offB += r0.Begin
			axpby(alpha, a[offA:offA+length], beta, b[offB:offB+length], conjA)
		}
	} else {
		vec := p.VecOut()
		rP := ranges[vec]
		if rP.Len() == 0 {
			return
		}
		lda := strideA[vec] // A stride between consecutive output-contiguous steps
		ldb := strideB[0]   // B stride between consecutive input-contiguous steps
		b0, bP := p.Block0(), p.BlockP()
		tile := p.Tile()
		leaf = func(offA, offB int) {
			for j := rP.Begin; j < rP.End; j += bP {
				nj := min(bP, rP.End-j)
				ja, jb := offA+j*lda, offB+j
				for i := r0.Begin; i < r0.End; i += b0 {
					ni := min(b0, r0.End-i)
					transposeBlock(a[ja+i:], lda, b[jb+i*ldb:], ldb, ni, nj, tile, alpha, beta, conjA)
				}
			}
		}
	}

	// Odometer over the loop axes, innermost (last) axis advancing
	// fastest; offsets are maintained incrementally.
	idx := make([]int, n)
	for {
		leaf(offA, offB)
		k := n - 1
		for ; k >= 0; k-- {
			ax := loop[k]
			idx[k]++
			offA += strideA[ax]
			offB += strideB[ax]
			if idx[k] < counts[k] {
				break
			}
			idx[k] = 0
			offA -= counts[k] * strideA[ax]
			offB -= counts[k] * strideB[ax]
		}
		if k < 0 {
			return
		}
	}
}
