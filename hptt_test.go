package hptt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSTransposeRank3Scenario(t *testing.T) {
	// B[i2,i0,i1] = 2*A[i0,i1,i2] for sizes [4,6,8], perm [2,0,1].
	size := []int{4, 6, 8}
	a := make([]float32, 4*6*8)
	for i := range a {
		a[i] = float32(i) + 1
	}
	b := make([]float32, 8*4*6)

	err := STranspose([]int{2, 0, 1}, 2.0, a, size, nil, 0.0, b, nil, 1, false)
	require.NoError(t, err)

	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 6; i1++ {
			for i2 := 0; i2 < 8; i2++ {
				got := b[i2+8*i0+8*4*i1]
				want := 2 * a[i0+4*i1+4*6*i2]
				require.Equalf(t, want, got, "B[%d,%d,%d]", i2, i0, i1)
			}
		}
	}
}

func TestTransposeAllTypes(t *testing.T) {
	size := []int{3, 5}
	perm := []int{1, 0}

	t.Run("float64", func(t *testing.T) {
		a := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
		b := make([]float64, 15)
		require.NoError(t, DTranspose(perm, 1, a, size, nil, 0, b, nil, 1, false))
		// b is 5x3 column-major: b[i1 + 5*i0] = a[i0 + 3*i1].
		for i0 := 0; i0 < 3; i0++ {
			for i1 := 0; i1 < 5; i1++ {
				assert.Equal(t, a[i0+3*i1], b[i1+5*i0])
			}
		}
	})

	t.Run("complex64 conj", func(t *testing.T) {
		a := make([]complex64, 15)
		for i := range a {
			a[i] = complex(float32(i), float32(i)+1)
		}
		b := make([]complex64, 15)
		require.NoError(t, CTranspose(perm, 1, true, a, size, nil, 0, b, nil, 1, false))
		for i0 := 0; i0 < 3; i0++ {
			for i1 := 0; i1 < 5; i1++ {
				v := a[i0+3*i1]
				assert.Equal(t, complex(real(v), -imag(v)), b[i1+5*i0])
			}
		}
	})

	t.Run("complex128 accumulate", func(t *testing.T) {
		a := make([]complex128, 15)
		b := make([]complex128, 15)
		for i := range a {
			a[i] = complex(float64(i), 0)
			b[i] = 1
		}
		require.NoError(t, ZTranspose(perm, 2, false, a, size, nil, 3, b, nil, 1, false))
		for i0 := 0; i0 < 3; i0++ {
			for i1 := 0; i1 < 5; i1++ {
				assert.Equal(t, 2*a[i0+3*i1]+3, b[i1+5*i0])
			}
		}
	})
}

func TestRowMajorIsPureRelabeling(t *testing.T) {
	// A 2x3 row-major matrix transposed with perm [1,0]:
	// B[i1,i0] = A[i0,i1], both row-major.
	a := []float32{
		1, 2, 3,
		4, 5, 6,
	}
	b := make([]float32, 6)
	err := STranspose([]int{1, 0}, 1, a, []int{2, 3}, nil, 0, b, nil, 1, true)
	require.NoError(t, err)
	want := []float32{
		1, 4,
		2, 5,
		3, 6,
	}
	assert.Equal(t, want, b)

	// The same operation expressed column-major on the same bytes must
	// produce the same bytes.
	b2 := make([]float32, 6)
	err = STranspose([]int{1, 0}, 1, a, []int{3, 2}, nil, 0, b2, nil, 1, false)
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestErrorTaxonomy(t *testing.T) {
	a := make([]float32, 16)
	b := make([]float32, 16)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			"non-positive size",
			STranspose([]int{1, 0}, 1, a, []int{4, 0}, nil, 0, b, nil, 1, false),
			ErrInvalidShape,
		},
		{
			"outer smaller than size",
			STranspose([]int{1, 0}, 1, a, []int{4, 4}, []int{3, 4}, 0, b, nil, 1, false),
			ErrInvalidShape,
		},
		{
			"permutation wrong length",
			STranspose([]int{0}, 1, a, []int{4, 4}, nil, 0, b, nil, 1, false),
			ErrInvalidPermutation,
		},
		{
			"permutation repeated axis",
			STranspose([]int{1, 1}, 1, a, []int{4, 4}, nil, 0, b, nil, 1, false),
			ErrInvalidPermutation,
		},
		{
			"permutation out of range",
			STranspose([]int{0, 2}, 1, a, []int{4, 4}, nil, 0, b, nil, 1, false),
			ErrInvalidPermutation,
		},
		{
			"negative thread count",
			STranspose([]int{1, 0}, 1, a, []int{4, 4}, nil, 0, b, nil, -2, false),
			ErrUnsupportedConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.want)
		})
	}
}

func TestValidationLeavesDestinationUntouched(t *testing.T) {
	a := make([]float32, 16)
	b := []float32{7, 7, 7, 7}
	err := STranspose([]int{0, 2}, 1, a, []int{4, 4}, nil, 0, b, nil, 1, false)
	require.Error(t, err)
	assert.Equal(t, []float32{7, 7, 7, 7}, b, "failed call must not write the destination")
}

func TestPlanReuseAndMismatch(t *testing.T) {
	p, err := NewPlan[float32](Options{Size: []int{8, 4}, Perm: []int{1, 0}, NumThreads: 2})
	require.NoError(t, err)

	a := make([]float32, 32)
	for i := range a {
		a[i] = float32(i)
	}
	b := make([]float32, 32)

	// Same plan, different scale factors, many calls.
	require.NoError(t, p.Execute(1, a, 0, b))
	first := append([]float32(nil), b...)
	require.NoError(t, p.Execute(2, a, 0, b))
	for i := range b {
		assert.Equal(t, 2*first[i], b[i])
	}

	// Undersized buffers are rejected before anything is written.
	err = p.Execute(1, a[:10], 0, b)
	require.ErrorIs(t, err, ErrPlanMismatch)
	err = p.Execute(1, a, 0, b[:10])
	require.ErrorIs(t, err, ErrPlanMismatch)
}

func TestRankZeroScalar(t *testing.T) {
	a := []float64{4}
	b := []float64{1}
	require.NoError(t, DTranspose(nil, 3, a, nil, nil, 2, b, nil, 1, false))
	assert.Equal(t, 3.0*4+2.0*1, b[0])
}

func TestDefaultThreadCount(t *testing.T) {
	p, err := NewPlan[float32](Options{Size: []int{64, 64}, Perm: []int{1, 0}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Threads(), 1)
	assert.LessOrEqual(t, p.Tasks(), p.Threads())
}

func TestTunedMatchesDirect(t *testing.T) {
	size := []int{20, 14, 9}
	perm := []int{2, 0, 1}
	opts := Options{Size: size, Perm: perm, NumThreads: 2}

	r := rand.New(rand.NewSource(17))
	a := make([]float32, 20*14*9)
	for i := range a {
		a[i] = r.Float32()
	}
	want := make([]float32, len(a))
	require.NoError(t, Transpose(opts, float32(1.5), a, float32(0), want))

	for _, mode := range []TuneMode{TuneMeasure, TunePatient} {
		b := make([]float32, len(a))
		p, err := NewPlanTuned(opts, mode, float32(1.5), a, float32(0), b)
		require.NoError(t, err)
		require.Equalf(t, want, b, "%s tuning changed numeric output", mode)

		// The winning plan keeps producing the same numbers.
		again := make([]float32, len(a))
		require.NoError(t, p.Execute(1.5, a, 0, again))
		assert.Equal(t, want, again)
	}
}

func TestTunedValidatesBuffers(t *testing.T) {
	opts := Options{Size: []int{8, 8}, Perm: []int{1, 0}, NumThreads: 1}
	a := make([]float32, 64)
	_, err := NewPlanTuned(opts, TuneMeasure, float32(1), a, float32(0), make([]float32, 10))
	require.ErrorIs(t, err, ErrPlanMismatch)
}

func TestPlanCache(t *testing.T) {
	cache := NewPlanCache[float64]()
	opts := Options{Size: []int{16, 8}, Perm: []int{1, 0}, NumThreads: 2}

	p1, err := cache.Get(opts)
	require.NoError(t, err)
	p2, err := cache.Get(opts)
	require.NoError(t, err)
	assert.Same(t, p1, p2, "identical options must hit the cache")
	assert.Equal(t, 1, cache.Len())

	// A different thread count is a different plan.
	opts.NumThreads = 4
	p3, err := cache.Get(opts)
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, cache.Len())

	// Tuned plans can be stored explicitly.
	cache.Put(opts, p3)
	assert.Equal(t, 2, cache.Len())

	_, err = cache.Get(Options{Size: []int{4}, Perm: []int{1}})
	require.ErrorIs(t, err, ErrInvalidPermutation)
}

func TestAutoTuneEntryPoints(t *testing.T) {
	size := []int{10, 6}
	perm := []int{1, 0}
	af := make([]float32, 60)
	for i := range af {
		af[i] = float32(i)
	}
	bf := make([]float32, 60)
	require.NoError(t, STransposeAutoTuneMeasure(perm, 1, af, size, nil, 0, bf, nil, 2, false))

	want := make([]float32, 60)
	require.NoError(t, STranspose(perm, 1, af, size, nil, 0, want, nil, 2, false))
	assert.Equal(t, want, bf)

	ad := make([]float64, 60)
	bd := make([]float64, 60)
	require.NoError(t, DTransposeAutoTunePatient(perm, 1, ad, size, nil, 0, bd, nil, 1, false))

	ac := make([]complex64, 60)
	bc := make([]complex64, 60)
	require.NoError(t, CTransposeAutoTuneMeasure(perm, 1, true, ac, size, nil, 0, bc, nil, 1, false))

	az := make([]complex128, 60)
	bz := make([]complex128, 60)
	require.NoError(t, ZTransposeAutoTunePatient(perm, 1, false, az, size, nil, 0, bz, nil, 2, false))
}
