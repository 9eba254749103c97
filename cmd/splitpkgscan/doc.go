// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the splitpkgscan command tree.
//
// The scan command loads the configuration and the project descriptor,
// resolves the artifacts to scan, runs the package scanner and reports
// packages that more than one module provides.
package cmd
