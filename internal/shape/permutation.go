package shape

import "fmt"

// Permutation maps input axes to output axes: perm[k] is the input axis
// that becomes output axis k. The identity permutation is legal and
// degenerates the transposition to a scaled copy.
type Permutation []int

// NewPermutation validates and copies a permutation of the given rank.
func NewPermutation(perm []int, rank int) (Permutation, error) {
	if len(perm) != rank {
		return nil, fmt.Errorf("%w: got %d entries for rank %d", ErrInvalidPermutation, len(perm), rank)
	}
	seen := make([]bool, rank)
	for k, v := range perm {
		if v < 0 || v >= rank {
			return nil, fmt.Errorf("%w: perm[%d] = %d out of range [0,%d)", ErrInvalidPermutation, k, v, rank)
		}
		if seen[v] {
			return nil, fmt.Errorf("%w: axis %d appears more than once", ErrInvalidPermutation, v)
		}
		seen[v] = true
	}
	return append(Permutation(nil), perm...), nil
}

// Identity returns the identity permutation of the given rank.
func Identity(rank int) Permutation {
	p := make(Permutation, rank)
	for i := range p {
		p[i] = i
	}
	return p
}

// IsTrivial reports whether the permutation leaves the fastest-varying
// axis in place. A trivial transposition reduces to a blocked copy.
func (p Permutation) IsTrivial() bool {
	return len(p) == 0 || p[0] == 0
}

// Inverse returns q such that q[p[k]] = k for all k.
func (p Permutation) Inverse() Permutation {
	q := make(Permutation, len(p))
	for k, v := range p {
		q[v] = k
	}
	return q
}

// Apply permutes v: out[k] = v[p[k]]. The result is a fresh slice.
func (p Permutation) Apply(v []int) []int {
	out := make([]int, len(p))
	for k, axis := range p {
		out[k] = v[axis]
	}
	return out
}

// Equal reports whether two permutations are identical.
func (p Permutation) Equal(q Permutation) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// OutputDescriptor derives the descriptor of the destination tensor from
// the input descriptor and the permutation. If outer is nil, the output
// outer sizes default to the permuted logical sizes.
func OutputDescriptor(in Descriptor, perm Permutation, outer []int) (Descriptor, error) {
	return NewDescriptor(perm.Apply(in.Sizes()), outer)
}
