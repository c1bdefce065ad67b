// Package purecore detects I/O imports in domain packages.
package purecore

import (
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports domain packages that import file, network, process or
// database packages. Scoring stays pure; I/O belongs in infrastructure.
var Analyzer = &analysis.Analyzer{
	Name: "purecore",
	Doc:  "detects I/O package imports inside internal/domain",
	Run:  run,
}

var ioPackages = map[string]bool{
	"database/sql": true,
	"io/ioutil":    true,
	"net":          true,
	"net/http":     true,
	"os":           true,
	"os/exec":      true,
	"syscall":      true,
}

func isDomain(pkgPath string) bool {
	return strings.Contains("/"+pkgPath+"/", "/domain/")
}

func run(pass *analysis.Pass) (interface{}, error) {
	if !isDomain(pass.Pkg.Path()) {
		return nil, nil
	}

	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.File(file.Pos()).Name(), "_test.go") {
			continue
		}
		for _, imp := range file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil || !ioPackages[path] {
				continue
			}
			pass.Reportf(imp.Pos(),
				"domain package imports %s - move I/O to an infrastructure adapter",
				path)
		}
	}

	return nil, nil
}
