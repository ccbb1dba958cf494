package kernel

import "github.com/hptt-go/hptt/internal/simd"

// transposeBlock transposes an n0 x n1 macro block, where a[i + j*lda]
// maps to b[j + i*ldb], by feeding tile x tile micro-kernels and a
// scalar edge path for partial tiles.
func transposeBlock[T Element](a []T, lda int, b []T, ldb int, n0, n1, tile int, alpha, beta T, conjA bool) {
	for j := 0; j < n1; j += tile {
		tj := min(tile, n1-j)
		for i := 0; i < n0; i += tile {
			ti := min(tile, n0-i)
			as := a[i+j*lda:]
			bs := b[j+i*ldb:]
			if ti == tile && tj == tile {
				transposeTile(as, lda, bs, ldb, tile, alpha, beta, conjA)
			} else {
				transposeEdge(as, lda, bs, ldb, ti, tj, alpha, beta, conjA)
			}
		}
	}
}

// transposeTile is the micro-kernel: it gathers dim contiguous runs from
// A into a register-sized buffer, transposing on the way in, then
// scatters dim contiguous runs into B with scale/accumulate. Both the
// loads and the stores touch full cache lines.
func transposeTile[T Element](a []T, lda int, b []T, ldb int, dim int, alpha, beta T, conjA bool) {
	var buf [simd.MaxTileDim * simd.MaxTileDim]T

	for j := 0; j < dim; j++ {
		src := a[j*lda : j*lda+dim]
		for i, v := range src {
			buf[i*dim+j] = v
		}
	}
	if conjA {
		for i := 0; i < dim*dim; i++ {
			buf[i] = conjugate(buf[i])
		}
	}

	if beta == 0 {
		for i := 0; i < dim; i++ {
			dst := b[i*ldb : i*ldb+dim]
			row := buf[i*dim : i*dim+dim]
			for j, v := range row {
				dst[j] = alpha * v
			}
		}
		return
	}
	for i := 0; i < dim; i++ {
		dst := b[i*ldb : i*ldb+dim]
		row := buf[i*dim : i*dim+dim]
		for j, v := range row {
			dst[j] = alpha*v + beta*dst[j]
		}
	}
}

// transposeEdge handles partial tiles element-by-element with arithmetic
// identical to the micro-kernel.
func transposeEdge[T Element](a []T, lda int, b []T, ldb int, n0, n1 int, alpha, beta T, conjA bool) {
	for i := 0; i < n0; i++ {
		dst := b[i*ldb : i*ldb+n1]
		if beta == 0 {
			for j := 0; j < n1; j++ {
				v := a[i+j*lda]
				if conjA {
					v = conjugate(v)
				}
				dst[j] = alpha * v
			}
			continue
		}
		for j := 0; j < n1; j++ {
			v := a[i+j*lda]
			if conjA {
				v = conjugate(v)
			}
			dst[j] = alpha*v + beta*dst[j]
		}
	}
}

// axpby computes y = alpha*x + beta*y over contiguous runs; beta == 0
// never reads y.
func axpby[T Element](alpha T, x []T, beta T, y []T, conjA bool) {
	switch {
	case beta == 0 && !conjA:
		for i, v := range x {
			y[i] = alpha * v
		}
	case beta == 0:
		for i, v := range x {
			y[i] = alpha * conjugate(v)
		}
	case !conjA:
		for i, v := range x {
			y[i] = alpha*v + beta*y[i]
		}
	default:
		for i, v := range x {
			y[i] = alpha*conjugate(v) + beta*y[i]
		}
	}
}

// conjugate returns the complex conjugate for complex element types and
// the value unchanged for real ones.
func conjugate[T Element](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex(real(x), -imag(x))).(T)
	case complex128:
		return any(complex(real(x), -imag(x))).(T)
	default:
		return v
	}
}
