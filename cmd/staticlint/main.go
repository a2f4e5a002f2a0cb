// The staticlint command bundles standard Go analyzers, the staticcheck SA
// class, third-party analyzers, and a project-specific analyzer into a single
// multichecker binary used to enforce coding rules across the repository.
package main

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"

	"github.com/DavidGir/tinyapp/cmd/staticlint/noexit"
)

func main() {
	checks := []*analysis.Analyzer{
		copylock.Analyzer,    // Checks for locks copied by value.
		loopclosure.Analyzer, // Detects references to loop variables inside closures.
		lostcancel.Analyzer,  // Finds contexts that are never canceled.
		printf.Analyzer,      // Verifies format strings.
		structtag.Analyzer,   // Checks struct field tags.
		unmarshal.Analyzer,   // Detects invalid unmarshal targets.
		unreachable.Analyzer, // Detects unreachable code.

		ineffassign.Analyzer, // Detects ineffective assignments.
		nilerr.Analyzer,      // Flags returning nil after an error check.

		noexit.Analyzer,
	}

	// All staticcheck SA analyzers.
	for _, v := range staticcheck.Analyzers {
		if strings.HasPrefix(v.Analyzer.Name, "SA") {
			checks = append(checks, v.Analyzer)
		}
	}

	multichecker.Main(checks...)
}
