// SPDX-License-Identifier: MPL-2.0

// Package platform holds OS name constants and sandbox detection.
//
// When splitpkgscan runs inside a Flatpak or Snap sandbox, host executables
// such as the package scanner are only reachable through the sandbox's spawn
// helper; HostCommand rewrites a command line accordingly.
package platform
