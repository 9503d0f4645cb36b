// Package solver computes photonic band structures by plane-wave expansion.
//
// A Solver is built once per structure: it inverts the permittivity field,
// takes its Fourier spectrum, and fixes the truncated set of reciprocal
// harmonics. Each wavevector then costs one dense symmetric eigensolve of
// the operator
//
//	Θmn = |k+Gm| |k+Gn| η̂(Gm−Gn)
//
// whose eigenvalues are squared angular frequencies in units where c = 1.
// Band frequencies come back sorted ascending per wavevector.
//
// Dependency rule: solver sits on top of grid, lattice and fourier; nothing
// in this module imports solver except the binaries and internal packages.
package solver
