// Package grid holds the flat-array field types shared by the lattice,
// geometry and solver layers: real, complex and boolean values sampled on an
// (Nx, Ny, Nz) unit-cell grid, plus the Dims stride arithmetic they all use.
//
// Fields store their samples in a single slice with the first axis varying
// slowest and the third fastest; Dims.Index is the one place that layout is
// defined.
//
// Dependency rule: grid sits at the bottom of the stack and imports nothing
// else from this module.
package grid
