// Package worker runs the poll loop that turns scheduler work units into
// answers.
//
// A worker resolves the scheduler once, then repeats a short cycle: connect,
// ask for one unit, fold the unit's chain over its item, send the answer back,
// disconnect, and idle. The scheduler signals "no more work" by closing the
// connection without a payload, which ends the loop cleanly.
package worker
