package lattice

import (
	"fmt"
	"math"
	"sort"
)

// CountFromFloat converts a harmonic count that arrived as a floating-point
// number (JSON fields, query strings, flag values) into an int. A count with
// a fractional part fails with ErrNonIntegerCount.
func CountFromFloat(v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: got %v", ErrNonIntegerCount, v)
	}
	return int(v), nil
}

// Harmonics returns an ordered truncation of the reciprocal lattice with at
// most nh members; the length of the returned slice is the actual count.
// The parallelogrammic truncation keeps a full odd cube of candidates, so
// the actual count is the largest odd cube not exceeding nh. When an
// override list was supplied at construction it is returned as-is, whatever
// nh says.
func (l *Lattice) Harmonics(nh int) ([]GVector, error) {
	if len(l.override) > 0 {
		return append([]GVector(nil), l.override...), nil
	}
	switch l.truncation {
	case TruncationSpherical:
		return nil, ErrSphericalTruncation
	case TruncationParallelogrammic:
		return l.parallelogrammic(nh)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTruncation, l.truncation)
	}
}

// parallelogrammic generates the NGroot³ cube of index triples centered on
// zero and orders it by a quadratic form over the reciprocal basis, nearest
// the origin first.
func (l *Lattice) parallelogrammic(nh int) ([]GVector, error) {
	if nh < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, nh)
	}

	lk, err := l.ReciprocalVectors()
	if err != nil {
		return nil, err
	}
	u := [3]float64{lk[0].Norm(), lk[1].Norm(), lk[2].Norm()}

	root := floorCbrt(nh)
	if root%2 == 0 {
		root--
	}
	m := root / 2

	count := root * root * root
	cand := make([]GVector, 0, count)
	for i1 := -m; i1 < root-m; i1++ {
		for i2 := -m; i2 < root-m; i2++ {
			for i3 := -m; i3 < root-m; i3++ {
				cand = append(cand, GVector{i1, i2, i3})
			}
		}
	}

	// Weight per candidate: squared-magnitude terms for each cyclic pair of
	// axes plus the cross term that carries non-orthogonal geometry.
	gl2 := make([]float64, count)
	for _, p := range [3][2]int{{2, 0}, {0, 1}, {1, 2}} {
		a, b := p[0], p[1]
		dot := lk[a].Dot(lk[b])
		for n, g := range cand {
			ga, gb := float64(g[a]), float64(g[b])
			gl2[n] += ga*ga*u[a]*u[a] + gb*gb*u[b]*u[b] + 2*ga*gb*dot
		}
	}

	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	// Stable: candidates with equal weight keep cube-generation order.
	sort.SliceStable(order, func(a, b int) bool { return gl2[order[a]] < gl2[order[b]] })

	out := make([]GVector, count)
	for i, n := range order {
		out[i] = cand[n]
	}
	return out, nil
}

// floorCbrt returns the largest integer r with r*r*r <= n.
func floorCbrt(n int) int {
	r := int(math.Cbrt(float64(n)))
	for (r+1)*(r+1)*(r+1) <= n {
		r++
	}
	for r > 0 && r*r*r > n {
		r--
	}
	return r
}
