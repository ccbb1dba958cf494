// Package hptt computes high-performance out-of-place tensor
// transpositions
//
//	B[perm(i0,i1,...)] = alpha * A[i0,i1,...] + beta * B[perm(i0,i1,...)]
//
// for dense multi-dimensional arrays of float32, float64, complex64 and
// complex128 elements, with arbitrary rank, arbitrary permutations,
// sub-tensor (outer-size) strides and a caller-chosen thread count.
//
// Planning is separated from execution. NewPlan derives an execution
// strategy (loop order, cache blocking, vectorized axis pair, thread
// partition) from the shape and permutation alone; the plan is
// immutable and can be reused across any number of executions with
// different data and scale factors:
//
//	p, err := hptt.NewPlan[float32](hptt.Options{
//		Size: []int{4, 6, 8},
//		Perm: []int{2, 0, 1},
//	})
//	if err != nil {
//		...
//	}
//	err = p.Execute(2.0, a, 0.0, b)
//
// NewPlanTuned searches the strategy space empirically, timing candidate
// plans on the caller's real buffers (TuneMeasure for a quick search,
// TunePatient for a thorough one). The per-type entry points STranspose,
// DTranspose, CTranspose and ZTranspose mirror the classic C transpose
// interface and plan on every call; use plans or a PlanCache to amortize
// planning across repeated calls.
//
// Axes are column-major: axis 0 varies fastest in memory. RowMajor
// relabels the axes before planning and changes nothing else.
package hptt
