// Package shape describes tensor extents and index permutations.
//
// A Descriptor records the logical size and the allocated (outer) size of
// every axis of a dense tensor. Outer sizes may exceed logical sizes, which
// lets the engine operate on a sub-tensor view of a larger buffer. Strides
// are column-major: axis 0 varies fastest in memory.
package shape

import (
	"errors"
	"fmt"
)

// Validation errors reported at plan-build time.
var (
	ErrInvalidShape       = errors.New("invalid shape")
	ErrInvalidPermutation = errors.New("invalid permutation")
)

// Descriptor is an immutable description of a tensor's extents.
type Descriptor struct {
	size  []int
	outer []int
}

// NewDescriptor builds a Descriptor from logical sizes and outer sizes.
// If outer is nil, the outer sizes default to the logical sizes.
func NewDescriptor(size, outer []int) (Descriptor, error) {
	if outer != nil && len(outer) != len(size) {
		return Descriptor{}, fmt.Errorf("%w: got %d outer sizes for rank %d", ErrInvalidShape, len(outer), len(size))
	}
	for i, s := range size {
		if s <= 0 {
			return Descriptor{}, fmt.Errorf("%w: size[%d] = %d (must be > 0)", ErrInvalidShape, i, s)
		}
	}
	d := Descriptor{
		size:  append([]int(nil), size...),
		outer: append([]int(nil), size...),
	}
	if outer != nil {
		for i, o := range outer {
			if o < size[i] {
				return Descriptor{}, fmt.Errorf("%w: outerSize[%d] = %d < size[%d] = %d", ErrInvalidShape, i, o, i, size[i])
			}
			d.outer[i] = o
		}
	}
	return d, nil
}

// Rank returns the number of axes.
func (d Descriptor) Rank() int { return len(d.size) }

// Size returns the logical extent of axis i.
func (d Descriptor) Size(i int) int { return d.size[i] }

// Outer returns the allocated extent of axis i.
func (d Descriptor) Outer(i int) int { return d.outer[i] }

// Sizes returns a copy of the logical extents.
func (d Descriptor) Sizes() []int { return append([]int(nil), d.size...) }

// Outers returns a copy of the allocated extents.
func (d Descriptor) Outers() []int { return append([]int(nil), d.outer...) }

// Strides computes column-major strides over the outer extents:
// stride[i] = outer[0] * outer[1] * ... * outer[i-1].
func (d Descriptor) Strides() []int {
	strides := make([]int, len(d.outer))
	acc := 1
	for i, o := range d.outer {
		strides[i] = acc
		acc *= o
	}
	return strides
}

// Elements returns the number of logical elements (1 for rank 0).
func (d Descriptor) Elements() int {
	n := 1
	for _, s := range d.size {
		n *= s
	}
	return n
}

// OuterElements returns the number of allocated elements, i.e. the minimum
// buffer length a tensor with this descriptor requires.
func (d Descriptor) OuterElements() int {
	n := 1
	for _, o := range d.outer {
		n *= o
	}
	return n
}

// Equal reports whether two descriptors have identical sizes and outer sizes.
func (d Descriptor) Equal(other Descriptor) bool {
	if len(d.size) != len(other.size) {
		return false
	}
	for i := range d.size {
		if d.size[i] != other.size[i] || d.outer[i] != other.outer[i] {
			return false
		}
	}
	return true
}

// String returns a human-readable form like "4x6x8 (outer 4x8x8)".
func (d Descriptor) String() string {
	if len(d.size) == 0 {
		return "scalar"
	}
	padded := false
	for i := range d.size {
		if d.outer[i] != d.size[i] {
			padded = true
			break
		}
	}
	s := joinDims(d.size)
	if padded {
		return fmt.Sprintf("%s (outer %s)", s, joinDims(d.outer))
	}
	return s
}

func joinDims(dims []int) string {
	out := ""
	for i, v := range dims {
		if i > 0 {
			out += "x"
		}
		out += fmt.Sprint(v)
	}
	return out
}
