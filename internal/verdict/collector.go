// SPDX-License-Identifier: MPL-2.0

package verdict

import "github.com/adoptopenjdk/splitpkgscan/internal/report"

type (
	// Collector keeps every verdict in arrival order.
	Collector struct {
		verdicts []Verdict
	}

	// Summary counts packages by outcome.
	Summary struct {
		Packages int `json:"packages" yaml:"packages"`
		Split    int `json:"split" yaml:"split"`
	}

	// Document is the serialized form of a scan outcome.
	Document struct {
		Summary  Summary   `json:"summary" yaml:"summary"`
		Packages []Verdict `json:"packages" yaml:"packages"`
	}
)

// OnPackage implements Consumer.
func (c *Collector) OnPackage(pkg string, owners []report.ModuleDetail, split bool) {
	c.verdicts = append(c.verdicts, Verdict{Package: pkg, Split: split, Owners: owners})
}

// Verdicts returns every collected verdict.
func (c *Collector) Verdicts() []Verdict { return c.verdicts }

// Split returns only the split verdicts.
func (c *Collector) Split() []Verdict {
	var out []Verdict
	for _, v := range c.verdicts {
		if v.Split {
			out = append(out, v)
		}
	}
	return out
}

// Summary counts the collected verdicts.
func (c *Collector) Summary() Summary {
	return Summary{Packages: len(c.verdicts), Split: len(c.Split())}
}

// Document returns the collected verdicts in serializable form.
func (c *Collector) Document() Document {
	pkgs := c.verdicts
	if pkgs == nil {
		pkgs = []Verdict{}
	}
	return Document{Summary: c.Summary(), Packages: pkgs}
}
