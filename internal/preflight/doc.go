// Package preflight provides readiness checks for the MSR driver and the
// filesystem paths voltctl depends on.
//
// The "voltctl check" command runs every check and renders the results. The
// driver check acquires and immediately releases the driver; the mailbox
// check only reads, so running preflight never changes a voltage offset.
package preflight
