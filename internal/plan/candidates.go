package plan

import (
	"fmt"

	"github.com/hptt-go/hptt/internal/shape"
	"github.com/hptt-go/hptt/internal/simd"
)

// maxPatient bounds the Patient-mode candidate set; the sweep below is
// deterministic, so the cap always cuts the same tail.
const maxPatient = 128

// Candidates returns the Measure-mode tuning set: the heuristic plan, a
// handful of alternate thread partitions and, for general transpositions,
// at most two alternate loop orders. Every candidate is a valid plan for
// the given shapes; the order is deterministic.
func Candidates(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads int, level simd.Level, elemSize int) ([]*Plan, error) {
	if err := validate(in, perm, out, threads, elemSize); err != nil {
		return nil, err
	}
	sizes := in.Sizes()
	base := heuristicSpec(in, perm, level, elemSize)

	var specs []spec

	hs := base
	hs.strategy = parallelize(hs.splitAxes, sizes, threads)
	specs = append(specs, hs)

	// Alternate thread partitions over the heuristic loop order.
	for i, ax := range base.splitAxes {
		if i >= 3 {
			break
		}
		sp := base
		sp.strategy = parallelize([]int{ax}, sizes, threads)
		sp.label = fmt.Sprintf("split:ax%d", ax)
		specs = append(specs, sp)
	}
	if len(base.loop) >= 2 {
		sp := base
		sp.strategy = parallelize(base.loop[:2], sizes, threads)
		sp.label = "split:outer2"
		specs = append(specs, sp)

		// At most two alternate loop orders.
		asc := withLoop(base, reversedInts(base.loop), "loop:asc")
		asc.strategy = parallelize(asc.splitAxes, sizes, threads)
		specs = append(specs, asc)

		swapped := append([]int(nil), base.loop...)
		swapped[0], swapped[1] = swapped[1], swapped[0]
		sw := withLoop(base, swapped, "loop:swap")
		sw.strategy = parallelize(sw.splitAxes, sizes, threads)
		specs = append(specs, sw)
	}

	return assembleAll(in, perm, out, threads, level, specs, len(specs)), nil
}

// CandidatesPatient returns the Patient-mode tuning set: a substantially
// larger sweep over loop orders, macro blockings and thread partitions.
// The set always contains the heuristic plan and every Measure candidate
// structure; it trades tuning time for a better-found plan.
func CandidatesPatient(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads int, level simd.Level, elemSize int) ([]*Plan, error) {
	if err := validate(in, perm, out, threads, elemSize); err != nil {
		return nil, err
	}
	sizes := in.Sizes()
	base := heuristicSpec(in, perm, level, elemSize)

	orders := loopOrders(base.loop)
	strategies := strategyVariants(base, sizes, threads)
	blockings := blockingVariants(base, in)

	var specs []spec

	hs := base
	hs.strategy = parallelize(hs.splitAxes, sizes, threads)
	specs = append(specs, hs)

	// One-dimensional sweeps around the heuristic first: they cover the
	// extremes of each choice before the cap can bite.
	for i, ord := range orders {
		sp := withLoop(base, ord, fmt.Sprintf("loop:%d", i))
		sp.strategy = parallelize(sp.splitAxes, sizes, threads)
		specs = append(specs, sp)
	}
	for _, bv := range blockings {
		sp := base
		sp.block0, sp.blockP = bv.b0, bv.bP
		sp.strategy = hs.strategy
		sp.label = bv.label
		specs = append(specs, sp)
	}
	for _, sv := range strategies {
		sp := base
		sp.strategy = sv
		sp.label = "split:" + sv.String()
		specs = append(specs, sp)
	}

	// Then a bounded cross of loop orders and thread partitions.
	for i, ord := range orders {
		if i >= 6 {
			break
		}
		for _, sv := range strategies {
			sp := withLoop(base, ord, fmt.Sprintf("loop:%d+split:%s", i, sv.String()))
			sp.strategy = sv
			specs = append(specs, sp)
		}
	}

	return assembleAll(in, perm, out, threads, level, specs, maxPatient), nil
}

// withLoop rebuilds a spec around an alternate loop order, keeping the
// split-axis priority consistent with the new outermost axis.
func withLoop(base spec, loop []int, label string) spec {
	sp := base
	sp.loop = loop
	sp.label = label
	sp.splitAxes = append([]int(nil), loop...)
	if !sp.trivial {
		sp.splitAxes = append(sp.splitAxes, sp.vecOut, 0)
	} else if len(loop) > 0 || base.splitAxesHasAxis0() {
		sp.splitAxes = append(sp.splitAxes, 0)
	}
	return sp
}

func (sp spec) splitAxesHasAxis0() bool {
	for _, ax := range sp.splitAxes {
		if ax == 0 {
			return true
		}
	}
	return false
}

// loopOrders enumerates permutations of the loop axes. Only the four
// outermost heuristic axes permute; any further axes keep their
// positions at the tail, bounding the sweep at 24 orders.
func loopOrders(loop []int) [][]int {
	head := loop
	var tail []int
	if len(loop) > 4 {
		head, tail = loop[:4], loop[4:]
	}
	var out [][]int
	var rec func(cur, rest []int)
	rec = func(cur, rest []int) {
		if len(rest) == 0 {
			ord := append(append([]int(nil), cur...), tail...)
			out = append(out, ord)
			return
		}
		for i := range rest {
			next := append(append([]int(nil), cur...), rest[i])
			rem := append(append([]int(nil), rest[:i]...), rest[i+1:]...)
			rec(next, rem)
		}
	}
	rec(nil, head)
	return out
}

type blocking struct {
	b0, bP int
	label  string
}

// blockingVariants sweeps the macro-block edges of general plans over a
// few micro-tile multiples. Trivial plans carry no macro blocks.
func blockingVariants(base spec, in shape.Descriptor) []blocking {
	if base.trivial {
		return nil
	}
	s0, sP := in.Size(0), in.Size(base.vecOut)
	mults := [][2]int{{1, 1}, {2, 2}, {8, 8}, {4, 1}, {1, 4}}
	var out []blocking
	for _, m := range mults {
		b := blocking{
			b0:    clampBlock(base.tile*m[0], base.tile, s0),
			bP:    clampBlock(base.tile*m[1], base.tile, sP),
			label: fmt.Sprintf("block:%dx%d", m[0], m[1]),
		}
		out = append(out, b)
	}
	return out
}

func clampBlock(b, tile, size int) int {
	if b > size {
		b = (size + tile - 1) / tile * tile
	}
	return b
}

// strategyVariants enumerates thread partitions: each candidate axis on
// its own, then ordered pairs of the three highest-priority axes.
func strategyVariants(base spec, sizes []int, threads int) []Strategy {
	var out []Strategy
	for _, ax := range base.splitAxes {
		out = append(out, parallelize([]int{ax}, sizes, threads))
	}
	limit := min(3, len(base.splitAxes))
	for i := 0; i < limit; i++ {
		for j := 0; j < limit; j++ {
			if i == j {
				continue
			}
			out = append(out, parallelize([]int{base.splitAxes[i], base.splitAxes[j]}, sizes, threads))
		}
	}
	return out
}

func reversedInts(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// assembleAll materializes specs into plans, dropping structural
// duplicates while preserving generation order, capped at limit.
func assembleAll(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads int, level simd.Level, specs []spec, limit int) []*Plan {
	plans := make([]*Plan, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, sp := range specs {
		p := assemble(in, perm, out, threads, level, sp)
		fp := p.fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		plans = append(plans, p)
		if len(plans) >= limit {
			break
		}
	}
	return plans
}
