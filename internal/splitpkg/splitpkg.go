// SPDX-License-Identifier: MPL-2.0

// Package splitpkg aggregates package records into a classification of
// packages by owning module, and reports which packages are split across
// more than one module.
//
// Aggregation is insertion into sets, so the result does not depend on the
// order records arrive in, and repeating a record changes nothing.
package splitpkg

import (
	"iter"
	"maps"
	"slices"

	"github.com/adoptopenjdk/splitpkgscan/internal/report"
)

type (
	// ModuleSet is the set of distinct owners of one package.
	ModuleSet map[report.ModuleDetail]struct{}

	// Classification maps a package name to its owners. A package present in
	// the map always has at least one owner.
	Classification map[string]ModuleSet

	// Aggregator accumulates records for a single scan. It is not safe for
	// concurrent use; the consuming goroutine owns it.
	Aggregator struct {
		classification Classification
		records        int
	}
)

// Add inserts m and reports whether it was new.
func (s ModuleSet) Add(m report.ModuleDetail) bool {
	if s.Contains(m) {
		return false
	}
	s[m] = struct{}{}
	return true
}

// Contains reports whether m owns the package.
func (s ModuleSet) Contains(m report.ModuleDetail) bool {
	_, ok := s[m]
	return ok
}

// Sorted returns the owners ordered by ModuleDetail.Compare.
func (s ModuleSet) Sorted() []report.ModuleDetail {
	return slices.SortedFunc(maps.Keys(s), report.ModuleDetail.Compare)
}

// Add records that rec.Module owns rec.Package.
func (c Classification) Add(rec report.PackageRecord) {
	owners, ok := c[rec.Package]
	if !ok {
		owners = make(ModuleSet, 1)
		c[rec.Package] = owners
	}
	owners.Add(rec.Module)
}

// Len returns the number of distinct packages.
func (c Classification) Len() int { return len(c) }

// Packages returns every package name in lexical order.
func (c Classification) Packages() []string {
	return slices.Sorted(maps.Keys(c))
}

// Owners returns the sorted owners of pkg, or nil if pkg was never reported.
func (c Classification) Owners(pkg string) []report.ModuleDetail {
	owners, ok := c[pkg]
	if !ok {
		return nil
	}
	return owners.Sorted()
}

// IsSplit reports whether pkg has more than one distinct owner.
func (c Classification) IsSplit(pkg string) bool {
	return len(c[pkg]) > 1
}

// SplitPackages returns the split packages in lexical order.
func (c Classification) SplitPackages() []string {
	var out []string
	for _, pkg := range c.Packages() {
		if c.IsSplit(pkg) {
			out = append(out, pkg)
		}
	}
	return out
}

// NewAggregator returns an Aggregator with an empty classification.
func NewAggregator() *Aggregator {
	return &Aggregator{classification: make(Classification)}
}

// Add inserts one record.
func (a *Aggregator) Add(rec report.PackageRecord) {
	a.records++
	a.classification.Add(rec)
}

// Records returns how many records were added, duplicates included.
func (a *Aggregator) Records() int { return a.records }

// Classification returns the classification built so far. The map is
// shared with the Aggregator; callers must not add to it while the
// Aggregator is still in use.
func (a *Aggregator) Classification() Classification { return a.classification }

// Consume drains seq in emission order. It stops at the first error and
// returns it unchanged; records received before the error stay aggregated.
func (a *Aggregator) Consume(seq iter.Seq2[report.PackageRecord, error]) error {
	for rec, err := range seq {
		if err != nil {
			return err
		}
		a.Add(rec)
	}
	return nil
}

// Aggregate builds a classification from seq. On error the partial
// classification is returned alongside it.
func Aggregate(seq iter.Seq2[report.PackageRecord, error]) (Classification, error) {
	a := NewAggregator()
	err := a.Consume(seq)
	return a.Classification(), err
}
