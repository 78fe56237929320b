// Package protocol owns the scheduler wire contract.
//
// Every field on the wire is an unsigned 32-bit word in network byte order.
// A message is a two-word header (version, operation) followed by an
// operation-specific payload. Payloads carry no length prefix: sequence
// lengths come from count words decoded earlier in the same payload, so
// decoding is strictly left to right.
//
// Ownership boundary:
// - word codec and framing checks
// - header and payload types
// - submit-job builder and query-result decoder
// - stream read/write helpers used by session and tests
package protocol
