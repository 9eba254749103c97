// SPDX-License-Identifier: MPL-2.0

// Package verdict delivers the per-package outcome of a scan to its
// consumers.
//
// Emit walks a classification in package order and hands every package,
// split or clean, to each Consumer. The package ships consumers that log
// split packages, collect verdicts in memory, and write a machine-readable
// report file.
package verdict
