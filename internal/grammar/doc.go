// Package grammar parses the submitter's two command-line languages: operand
// lists ("1,4,7", "1-4") and op-chains ("+3,-4,^6", "6-,|8,=>>4", "~").
//
// Both parsers are two-pass: every comma-separated token is validated before
// any value is emitted, so a bad token never yields a partial result.
package grammar
