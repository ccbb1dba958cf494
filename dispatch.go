package hptt

// Per-type entry points mirroring the classic C transpose surface. Each
// call plans from scratch and executes once; outerSizeA/outerSizeB may
// be nil, meaning the logical (respectively permuted logical) sizes.
// Repeated calls with identical shapes should hold a Plan or use a
// PlanCache instead.

func options(perm, sizeA, outerSizeA, outerSizeB []int, numThreads int, rowMajor bool) Options {
	return Options{
		Size:       sizeA,
		Perm:       perm,
		OuterSizeA: outerSizeA,
		OuterSizeB: outerSizeB,
		NumThreads: numThreads,
		RowMajor:   rowMajor,
	}
}

// STranspose transposes a single-precision real tensor.
func STranspose(perm []int, alpha float32, a []float32, sizeA, outerSizeA []int, beta float32, b []float32, outerSizeB []int, numThreads int, rowMajor bool) error {
	return Transpose(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), alpha, a, beta, b)
}

// DTranspose transposes a double-precision real tensor.
func DTranspose(perm []int, alpha float64, a []float64, sizeA, outerSizeA []int, beta float64, b []float64, outerSizeB []int, numThreads int, rowMajor bool) error {
	return Transpose(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), alpha, a, beta, b)
}

// CTranspose transposes a single-precision complex tensor, optionally
// conjugating the input.
func CTranspose(perm []int, alpha complex64, conjA bool, a []complex64, sizeA, outerSizeA []int, beta complex64, b []complex64, outerSizeB []int, numThreads int, rowMajor bool) error {
	return TransposeConj(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), alpha, a, beta, b, conjA)
}

// ZTranspose transposes a double-precision complex tensor, optionally
// conjugating the input.
func ZTranspose(perm []int, alpha complex128, conjA bool, a []complex128, sizeA, outerSizeA []int, beta complex128, b []complex128, outerSizeB []int, numThreads int, rowMajor bool) error {
	return TransposeConj(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), alpha, a, beta, b, conjA)
}

// STransposeAutoTuneMeasure tunes over a small candidate set, then
// executes the winner. See NewPlanTuned for the buffer contract.
func STransposeAutoTuneMeasure(perm []int, alpha float32, a []float32, sizeA, outerSizeA []int, beta float32, b []float32, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTuned(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TuneMeasure, alpha, a, beta, b)
	return err
}

// DTransposeAutoTuneMeasure tunes over a small candidate set, then
// executes the winner.
func DTransposeAutoTuneMeasure(perm []int, alpha float64, a []float64, sizeA, outerSizeA []int, beta float64, b []float64, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTuned(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TuneMeasure, alpha, a, beta, b)
	return err
}

// CTransposeAutoTuneMeasure tunes over a small candidate set, then
// executes the winner.
func CTransposeAutoTuneMeasure(perm []int, alpha complex64, conjA bool, a []complex64, sizeA, outerSizeA []int, beta complex64, b []complex64, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTunedConj(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TuneMeasure, alpha, a, beta, b, conjA)
	return err
}

// ZTransposeAutoTuneMeasure tunes over a small candidate set, then
// executes the winner.
func ZTransposeAutoTuneMeasure(perm []int, alpha complex128, conjA bool, a []complex128, sizeA, outerSizeA []int, beta complex128, b []complex128, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTunedConj(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TuneMeasure, alpha, a, beta, b, conjA)
	return err
}

// STransposeAutoTunePatient tunes over a large candidate set, then
// executes the winner.
func STransposeAutoTunePatient(perm []int, alpha float32, a []float32, sizeA, outerSizeA []int, beta float32, b []float32, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTuned(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TunePatient, alpha, a, beta, b)
	return err
}

// DTransposeAutoTunePatient tunes over a large candidate set, then
// executes the winner.
func DTransposeAutoTunePatient(perm []int, alpha float64, a []float64, sizeA, outerSizeA []int, beta float64, b []float64, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTuned(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TunePatient, alpha, a, beta, b)
	return err
}

// CTransposeAutoTunePatient tunes over a large candidate set, then
// executes the winner.
func CTransposeAutoTunePatient(perm []int, alpha complex64, conjA bool, a []complex64, sizeA, outerSizeA []int, beta complex64, b []complex64, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTunedConj(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TunePatient, alpha, a, beta, b, conjA)
	return err
}

// ZTransposeAutoTunePatient tunes over a large candidate set, then
// executes the winner.
func ZTransposeAutoTunePatient(perm []int, alpha complex128, conjA bool, a []complex128, sizeA, outerSizeA []int, beta complex128, b []complex128, outerSizeB []int, numThreads int, rowMajor bool) error {
	_, err := NewPlanTunedConj(options(perm, sizeA, outerSizeA, outerSizeB, numThreads, rowMajor), TunePatient, alpha, a, beta, b, conjA)
	return err
}
