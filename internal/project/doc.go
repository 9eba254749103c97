// SPDX-License-Identifier: MPL-2.0

// Package project loads the project descriptor: the file naming a
// project's primary artifact, its other artifacts with their scopes, and
// its declared dependencies.
//
// Descriptors are written in CUE (validated against an embedded schema),
// TOML or YAML, chosen by file extension. A loaded Descriptor implements
// artifact.Project.
package project
