// SPDX-License-Identifier: MPL-2.0

// Package tool is the boundary to the external package scanner.
//
// A Tool receives the artifact paths as positional arguments and writes its
// report to stdout. Implementations run a host executable (ExecTool), a
// shell script interpreted in-process (ScriptTool), or a Go function (Func).
// Tools are looked up by name through a Registry; callers depend only on
// the Tool interface.
package tool
