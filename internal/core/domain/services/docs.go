// Package services contains stateless domain services that operate across
// aggregates. The earnings calculator is a pure function of order geometry
// and timing: no I/O, no randomness, deterministic for a given input.
package services
