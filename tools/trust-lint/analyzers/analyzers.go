// Package analyzers provides all custom static analyzers for trust-core.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/trust-core/tools/trust-lint/analyzers/purecore"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		purecore.Analyzer,
	}
}
