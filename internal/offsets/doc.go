// Package offsets turns user input into validated voltage-offset requests and
// runs them against an MSR accessor.
//
// Parsing never touches hardware: a Request is fully validated before any
// accessor is involved. Read and Apply walk planes in ascending order and
// stop at the first register failure; writes already issued stay applied.
package offsets
