// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE parsing flow used by the config
// loader and the project descriptor loader:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed project_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[projectFile](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Project",
//	    cueutil.WithFilename("splitpkgscan.cue"),
//	)
//	if err != nil {
//	    return nil, err // error text carries the offending CUE path
//	}
//	return result.Value, nil
package cueutil
