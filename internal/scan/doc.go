// SPDX-License-Identifier: MPL-2.0

// Package scan runs one split-package scan: it builds the artifact set,
// streams the tool's report through the parser into an aggregator, and
// emits the verdicts.
//
// The tool writes into an io.Pipe while the parser consumes it on the
// calling goroutine. A parse failure closes the pipe and cancels the tool;
// a tool failure ends the run with zero artifacts scanned.
package scan
