// Command hpttbench measures tensor transposition throughput.
//
// Example:
//
//	hpttbench -size 96,96,96 -perm 2,0,1 -dtype f32 -threads 4 -mode measure
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/hptt-go/hptt"
)

func main() {
	var (
		sizeFlag = flag.String("size", "96,96,96", "comma-separated axis sizes")
		permFlag = flag.String("perm", "2,0,1", "comma-separated permutation")
		dtype    = flag.String("dtype", "f32", "element type: f32, f64, c64, c128")
		threads  = flag.Int("threads", runtime.NumCPU(), "number of threads")
		mode     = flag.String("mode", "direct", "planning mode: direct, measure, patient")
		iters    = flag.Int("iters", 5, "timed iterations; the minimum is reported")
		rowMajor = flag.Bool("rowmajor", false, "interpret sizes and permutation row-major")
	)
	flag.Parse()

	size, err := parseInts(*sizeFlag)
	if err != nil {
		fatalf("bad -size: %v", err)
	}
	perm, err := parseInts(*permFlag)
	if err != nil {
		fatalf("bad -perm: %v", err)
	}

	opts := hptt.Options{
		Size:       size,
		Perm:       perm,
		NumThreads: *threads,
		RowMajor:   *rowMajor,
	}

	switch *dtype {
	case "f32":
		run[float32](opts, *mode, *iters)
	case "f64":
		run[float64](opts, *mode, *iters)
	case "c64":
		run[complex64](opts, *mode, *iters)
	case "c128":
		run[complex128](opts, *mode, *iters)
	default:
		fatalf("unknown -dtype %q", *dtype)
	}
}

func run[T hptt.Element](opts hptt.Options, mode string, iters int) {
	n := 1
	for _, s := range opts.Size {
		n *= s
	}
	a := make([]T, n)
	b := make([]T, n)
	for i := range a {
		a[i] = T(1)
	}

	var (
		p       *hptt.Plan[T]
		err     error
		planned time.Duration
	)
	start := time.Now()
	switch mode {
	case "direct":
		p, err = hptt.NewPlan[T](opts)
	case "measure":
		p, err = hptt.NewPlanTuned(opts, hptt.TuneMeasure, T(1), a, T(0), b)
	case "patient":
		p, err = hptt.NewPlanTuned(opts, hptt.TunePatient, T(1), a, T(0), b)
	default:
		fatalf("unknown -mode %q", mode)
	}
	planned = time.Since(start)
	if err != nil {
		fatalf("planning failed: %v", err)
	}

	best := time.Duration(math.MaxInt64)
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := p.Execute(T(1), a, T(0), b); err != nil {
			fatalf("execution failed: %v", err)
		}
		if d := time.Since(start); d < best {
			best = d
		}
	}

	var z T
	moved := 2 * int64(n) * int64(unsafe.Sizeof(z)) // read A, write B
	gbps := float64(moved) / best.Seconds() / 1e9
	fmt.Printf("size=%v perm=%v threads=%d mode=%s plan=%s tasks=%d\n",
		opts.Size, opts.Perm, p.Threads(), mode, p.Label(), p.Tasks())
	fmt.Printf("planning: %v\n", planned)
	fmt.Printf("best of %d: %v (%.2f GB/s)\n", iters, best, gbps)
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
