// Package diag defines the diagnostics the driver reports when a function
// cannot be lowered.
//
// A Diagnostic names the function and the index of the offending instruction
// instead of a source span: the bridge consumes GIMPLE dumps, which carry no
// positions it could point back to. Codes are grouped by phase (IO, input,
// lowering) and have a stable ID such as LOW3002.
//
// Producers add diagnostics to a Bag; the CLI sorts and prints it.
package diag
