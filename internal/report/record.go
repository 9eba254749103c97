// SPDX-License-Identifier: MPL-2.0

package report

import "strings"

type (
	// ModuleDetail identifies the module owning a package occurrence.
	// It is comparable; two details denote the same owner iff all fields are equal.
	ModuleDetail struct {
		Name     string `json:"name" yaml:"name"`
		Version  string `json:"version,omitempty" yaml:"version,omitempty"`
		Location string `json:"location,omitempty" yaml:"location,omitempty"`
	}

	// PackageRecord is one decoded data line.
	PackageRecord struct {
		// Package is the fully-qualified package name.
		Package string
		// Module owns one or more classes of Package.
		Module ModuleDetail
		// Line is the 1-based report line the record came from.
		Line int
	}
)

// String renders name[@version][ (location)].
func (m ModuleDetail) String() string {
	var b strings.Builder
	b.WriteString(m.Name)
	if m.Version != "" {
		b.WriteByte('@')
		b.WriteString(m.Version)
	}
	if m.Location != "" {
		b.WriteString(" (")
		b.WriteString(m.Location)
		b.WriteByte(')')
	}
	return b.String()
}

// Compare orders details by name, then version, then location.
func (m ModuleDetail) Compare(o ModuleDetail) int {
	if c := strings.Compare(m.Name, o.Name); c != 0 {
		return c
	}
	if c := strings.Compare(m.Version, o.Version); c != 0 {
		return c
	}
	return strings.Compare(m.Location, o.Location)
}
