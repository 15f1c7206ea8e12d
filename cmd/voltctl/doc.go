// Package main hosts the voltctl CLI entrypoint and command graph.
//
// The Cobra command tree parses terminal invocations, validates offset
// requests before any hardware is touched, and runs them through a single
// msr.Gate built per invocation. Reading and writing register values lives in
// internal/offsets; this package only wires configuration, logging, and
// output.
package main
