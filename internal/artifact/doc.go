// SPDX-License-Identifier: MPL-2.0

// Package artifact assembles the ordered, de-duplicated list of jar paths
// handed to the split-package scanner.
//
// The host build is reached only through two narrow interfaces: Project
// (the primary artifact, the resolved project artifacts and the declared
// dependencies) and Repository (dependency descriptor to file). Nothing else
// from the host model leaks into this package.
package artifact
