// Package voltage encodes and decodes Intel voltage-offset register values.
//
// The offset mailbox at MSR 0x150 carries a signed 12-bit fixed point value
// (1.024 counts per millivolt) in bits 21..31 of EAX, and a control word in
// EDX that selects the voltage plane and read or write intent. Everything in
// this package is pure arithmetic; hardware access lives in internal/msr.
package voltage
