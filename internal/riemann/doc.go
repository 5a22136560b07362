// Package riemann approximates double integrals over axis-aligned rectangles
// with the midpoint Riemann sum.
//
// The package is split into two stages that are always run in order:
//
//   - Partition builds a Grid of equally spaced cell edges for a Domain and a
//     subdivision count (edges per axis).
//   - Evaluate walks the grid's cells in row-major order, samples the
//     integrand at each cell midpoint, and accumulates value × area into a
//     Result together with the absolute error against a caller-supplied
//     reference value.
//
// Every function here is pure: no logging, no shared state, no I/O. A level
// either succeeds with a complete Result or fails with one of the typed
// errors (InvalidPartitionError, DomainError, IntegrandError); partial totals
// are never returned. Callers may evaluate different levels concurrently.
package riemann
