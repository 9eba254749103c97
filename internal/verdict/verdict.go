// SPDX-License-Identifier: MPL-2.0

package verdict

import (
	"github.com/adoptopenjdk/splitpkgscan/internal/report"
	"github.com/adoptopenjdk/splitpkgscan/internal/splitpkg"
)

type (
	// Consumer receives one call per package. owners is sorted and has at
	// least one element; split is true iff it has more than one.
	Consumer interface {
		OnPackage(pkg string, owners []report.ModuleDetail, split bool)
	}

	// Funcs adapts a plain function to Consumer.
	Funcs func(pkg string, owners []report.ModuleDetail, split bool)

	// Verdict is the outcome for one package.
	Verdict struct {
		Package string                `json:"package" yaml:"package"`
		Split   bool                  `json:"split" yaml:"split"`
		Owners  []report.ModuleDetail `json:"owners" yaml:"owners"`
	}
)

// OnPackage implements Consumer.
func (f Funcs) OnPackage(pkg string, owners []report.ModuleDetail, split bool) {
	f(pkg, owners, split)
}

// Emit hands every package of c, in lexical order, to each consumer in turn.
// Consumers get their own copy of the owners slice.
func Emit(c splitpkg.Classification, consumers ...Consumer) {
	for _, pkg := range c.Packages() {
		split := c.IsSplit(pkg)
		for _, consumer := range consumers {
			consumer.OnPackage(pkg, c.Owners(pkg), split)
		}
	}
}
