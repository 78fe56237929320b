// Package session is the client side of one TCP connection to the scheduler.
//
// A Conn carries the scheduler operations used by submitters and workers.
// Every call is bounded by the configured read and write timeouts and by its
// context. Socket faults come back as *TransportError; framing and decode
// faults come back as the protocol package's sentinel errors.
package session
