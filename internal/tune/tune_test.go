package tune

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hptt-go/hptt/internal/kernel"
	"github.com/hptt-go/hptt/internal/plan"
	"github.com/hptt-go/hptt/internal/shape"
	"github.com/hptt-go/hptt/internal/simd"
)

func setup(t *testing.T, size, perm []int) (shape.Descriptor, shape.Permutation, shape.Descriptor) {
	t.Helper()
	in, err := shape.NewDescriptor(size, nil)
	require.NoError(t, err)
	p, err := shape.NewPermutation(perm, len(size))
	require.NoError(t, err)
	out, err := shape.OutputDescriptor(in, p, nil)
	require.NoError(t, err)
	return in, p, out
}

func TestTuneMatchesHeuristicOutput(t *testing.T) {
	// Tuning changes performance, never numbers: with beta=0 every
	// candidate (and the confirming run) writes the same values.
	in, perm, out := setup(t, []int{16, 12, 10}, []int{2, 0, 1})
	level := simd.Detect()

	r := rand.New(rand.NewSource(21))
	a := make([]float32, in.OuterElements())
	for i := range a {
		a[i] = r.Float32()
	}

	heur, err := plan.Build(in, perm, out, 2, level, 4)
	require.NoError(t, err)
	want := make([]float32, out.OuterElements())
	kernel.Execute(heur, float32(2), a, float32(0), want, false)

	for _, mode := range []Mode{Measure, Patient} {
		b := make([]float32, out.OuterElements())
		winner, err := Tune(in, perm, out, 2, level, 4, float32(2), a, float32(0), b, false, Options{Mode: mode, Repeats: 1})
		require.NoError(t, err)
		require.NotNil(t, winner)
		require.True(t, winner.Matches(in, perm, out), "winner built for wrong shapes")
		require.Equalf(t, want, b, "%s-mode tuned result differs from heuristic result", mode)
	}
}

func TestTuneComplexConjugate(t *testing.T) {
	in, perm, out := setup(t, []int{9, 7}, []int{1, 0})
	level := simd.Detect()

	a := make([]complex128, in.OuterElements())
	for i := range a {
		a[i] = complex(float64(i), -float64(i))
	}

	heur, err := plan.Build(in, perm, out, 1, level, 16)
	require.NoError(t, err)
	want := make([]complex128, out.OuterElements())
	kernel.Execute(heur, complex128(1), a, complex128(0), want, true)

	b := make([]complex128, out.OuterElements())
	_, err = Tune(in, perm, out, 1, level, 16, complex128(1), a, complex128(0), b, true, Options{Mode: Measure, Repeats: 1})
	require.NoError(t, err)
	require.Equal(t, want, b)
}

func TestTuneInvalidRequest(t *testing.T) {
	in, perm, _ := setup(t, []int{4, 4}, []int{1, 0})
	wrong, err := shape.NewDescriptor([]int{4, 5}, nil)
	require.NoError(t, err)

	_, err = Tune(in, perm, wrong, 1, simd.Detect(), 4, float32(1), nil, float32(0), nil, false, Options{})
	require.ErrorIs(t, err, shape.ErrInvalidShape)
}

func TestModeString(t *testing.T) {
	require.Equal(t, "measure", Measure.String())
	require.Equal(t, "patient", Patient.String())
}
