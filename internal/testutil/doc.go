// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture helpers shared by package tests: writing
// files into temporary trees, laying out Maven-style local repositories, and
// pointing the home directory at a temporary location.
//
// Every helper fails the test immediately on error.
package testutil
