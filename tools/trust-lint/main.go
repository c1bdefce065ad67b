// trust-lint is a custom static analyzer for trust-core layering rules.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/trust-core/tools/trust-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
