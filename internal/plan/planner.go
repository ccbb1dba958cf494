package plan

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hptt-go/hptt/internal/shape"
	"github.com/hptt-go/hptt/internal/simd"
)

// ErrUnsupported is returned when planning cannot produce a valid
// strategy for an otherwise well-formed request.
var ErrUnsupported = errors.New("unsupported configuration")

// Build derives the default plan for a transposition using size
// heuristics only. It validates shapes and permutation once, here;
// execution trusts the plan and never re-validates.
func Build(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads int, level simd.Level, elemSize int) (*Plan, error) {
	if err := validate(in, perm, out, threads, elemSize); err != nil {
		return nil, err
	}
	sp := heuristicSpec(in, perm, level, elemSize)
	sp.strategy = parallelize(sp.splitAxes, in.Sizes(), threads)
	return assemble(in, perm, out, threads, level, sp), nil
}

// spec captures the structural choices a plan is assembled from. The
// heuristic planner produces one spec; the tuner enumerates many.
type spec struct {
	trivial   bool
	vecOut    int
	tile      int
	loop      []int // outermost first
	block0    int
	blockP    int
	splitAxes []int // axes offered to the thread planner, in priority order
	strategy  Strategy
	label     string
}

func validate(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads, elemSize int) error {
	rank := in.Rank()
	if _, err := shape.NewPermutation(perm, rank); err != nil {
		return err
	}
	if out.Rank() != rank {
		return fmt.Errorf("%w: output rank %d != input rank %d", shape.ErrInvalidShape, out.Rank(), rank)
	}
	wantOut := perm.Apply(in.Sizes())
	for k, s := range out.Sizes() {
		if s != wantOut[k] {
			return fmt.Errorf("%w: output size[%d] = %d, want %d (= input size[%d])", shape.ErrInvalidShape, k, s, wantOut[k], perm[k])
		}
	}
	if threads < 1 {
		return fmt.Errorf("%w: thread count %d", ErrUnsupported, threads)
	}
	if elemSize < 1 {
		return fmt.Errorf("%w: element size %d", ErrUnsupported, elemSize)
	}
	return nil
}

// heuristicSpec implements the measurement-free default strategy:
//
//  1. trivial iff the permutation fixes axis 0 (blocked copy);
//  2. otherwise the vectorized pair is (axis 0, perm[0]): the axis
//     contiguous in A and the axis contiguous in B;
//  3. the remaining axes are walked largest-outermost so each inner
//     block is reused as long as possible;
//  4. macro blocks along the vectorized pair span a fixed multiple of
//     the micro-tile.
func heuristicSpec(in shape.Descriptor, perm shape.Permutation, level simd.Level, elemSize int) spec {
	sp := spec{
		trivial: perm.IsTrivial(),
		tile:    simd.TileDim(level, elemSize),
		label:   "heuristic",
	}
	if !sp.trivial {
		sp.vecOut = perm[0]
	}
	sp.loop = loopAxes(in, sp.trivial, sp.vecOut)
	if !sp.trivial {
		sp.block0 = macroBlock(sp.tile, in.Size(0))
		sp.blockP = macroBlock(sp.tile, in.Size(sp.vecOut))
	}

	// Loop axes first (outermost has the longest contiguous runs per
	// thread), then the vectorized axes as a last resort so small-rank
	// tensors still parallelize.
	sp.splitAxes = append([]int(nil), sp.loop...)
	if !sp.trivial {
		sp.splitAxes = append(sp.splitAxes, sp.vecOut, 0)
	} else if in.Rank() > 0 {
		sp.splitAxes = append(sp.splitAxes, 0)
	}
	return sp
}

// loopAxes returns the non-vectorized axes ordered by descending size,
// ties broken by axis index for determinism.
func loopAxes(in shape.Descriptor, trivial bool, vecOut int) []int {
	var axes []int
	for i := 0; i < in.Rank(); i++ {
		if i == 0 || (!trivial && i == vecOut) {
			continue
		}
		axes = append(axes, i)
	}
	sort.SliceStable(axes, func(a, b int) bool {
		sa, sb := in.Size(axes[a]), in.Size(axes[b])
		if sa != sb {
			return sa > sb
		}
		return axes[a] < axes[b]
	})
	return axes
}

// macroBlockTiles is how many micro-tiles a macro block spans per axis;
// 4 keeps a float32 AVX2 macro block (32x32) inside L1 alongside its
// destination.
const macroBlockTiles = 4

func macroBlock(tile, size int) int {
	b := tile * macroBlockTiles
	if b > size {
		// Round the whole extent up to whole tiles; the kernel clips.
		b = (size + tile - 1) / tile * tile
	}
	return b
}

// parallelize factorizes the thread budget across candidate axes in
// priority order. An axis whose whole extent fits the remaining budget
// is saturated; otherwise it takes the largest divisor of the budget
// its extent can hold, falling back to the smaller of the two when no
// divisor fits. Leftover budget that cannot be placed is dropped: the
// strategy never oversubscribes and never errors.
func parallelize(axes []int, sizes []int, threads int) Strategy {
	var splits []AxisSplit
	remaining := threads
	for _, ax := range axes {
		if remaining <= 1 {
			break
		}
		extent := sizes[ax]
		if extent <= 1 {
			continue
		}
		n := largestDivisorAtMost(remaining, extent)
		if remaining >= extent {
			n = extent
		}
		if n <= 1 {
			n = min(remaining, extent)
		}
		splits = append(splits, AxisSplit{Axis: ax, Threads: n})
		remaining /= n
	}
	return Strategy{splits: splits}
}

// largestDivisorAtMost returns the largest divisor of n that is <= limit,
// or 1 if none other than 1 fits.
func largestDivisorAtMost(n, limit int) int {
	best := 1
	for d := 1; d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		if d <= limit && d > best {
			best = d
		}
		if q := n / d; q <= limit && q > best {
			best = q
		}
	}
	return best
}

// assemble materializes a Plan from a validated spec.
func assemble(in shape.Descriptor, perm shape.Permutation, out shape.Descriptor, threads int, level simd.Level, sp spec) *Plan {
	inv := perm.Inverse()
	strideOut := out.Strides()
	strideB := make([]int, in.Rank())
	for i := range strideB {
		strideB[i] = strideOut[inv[i]]
	}
	return &Plan{
		in:       in,
		out:      out,
		perm:     perm,
		trivial:  sp.trivial,
		threads:  threads,
		level:    level,
		tile:     sp.tile,
		vecOut:   sp.vecOut,
		loop:     sp.loop,
		block0:   sp.block0,
		blockP:   sp.blockP,
		strideA:  in.Strides(),
		strideB:  strideB,
		strategy: sp.strategy,
		label:    sp.label,
	}
}
