// SPDX-License-Identifier: MPL-2.0

package verdict

import (
	"io"

	"github.com/adoptopenjdk/splitpkgscan/internal/report"

	"github.com/charmbracelet/log"
)

// LogConsumer warns about split packages and traces clean ones at debug level.
type LogConsumer struct {
	logger *log.Logger
}

// NewLogConsumer returns a LogConsumer writing to logger. A nil logger
// discards everything.
func NewLogConsumer(logger *log.Logger) *LogConsumer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LogConsumer{logger: logger}
}

// OnPackage implements Consumer.
func (l *LogConsumer) OnPackage(pkg string, owners []report.ModuleDetail, split bool) {
	if !split {
		if len(owners) > 0 {
			l.logger.Debug("Package clean", "package", pkg, "module", owners[0].String())
		}
		return
	}

	names := make([]string, len(owners))
	for i, m := range owners {
		names[i] = m.String()
	}
	l.logger.Warn("Split package found", "package", pkg, "modules", names)
}
