// Package lattice models the periodic unit cell of a photonic crystal: its
// basis vectors, the derived reciprocal basis, truncated sets of Fourier
// harmonics, and the real-space sampling grids the solver works on.
//
// A Lattice is immutable once constructed; every method is a pure function
// of its state plus arguments. Shape rasterization is delegated through the
// Rasterizer capability supplied at construction. Package geom carries the
// standard implementation, and the lattice never looks inside it.
//
// Dependency rule: lattice may depend on grid, never on geom or solver.
package lattice
