// Package clocknow provides a linter that reports wall-clock reads outside
// the calendar clock. Scheduling code must take "now" from a calendar.Clock
// so dates can be pinned in tests and computed in the business timezone.
package clocknow

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

const analyzerName = "clocknow"

// Analyzer reports calls to time.Now, time.Since and time.Until.
var Analyzer = &analysis.Analyzer{
	Name: analyzerName,
	Doc:  "reports time.Now, time.Since and time.Until calls; read the time from a calendar.Clock instead",
	Run:  run,
}

var wallClockFuncs = map[string]bool{
	"Now":   true,
	"Since": true,
	"Until": true,
}

func run(pass *analysis.Pass) (any, error) {
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			continue
		}

		suppressed := nolintLines(pass, file)
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			name, ok := wallClockCall(pass, call)
			if !ok {
				return true
			}
			if suppressed[pass.Fset.Position(call.Pos()).Line] {
				return true
			}
			pass.Reportf(call.Pos(), "time.%s() reads the wall clock; use a calendar.Clock", name)
			return true
		})
	}
	return nil, nil
}

// wallClockCall reports whether call is one of the time package's wall-clock
// functions, resolving the package through type info so renamed imports and
// shadowed identifiers are handled.
func wallClockCall(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || !wallClockFuncs[sel.Sel.Name] {
		return "", false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" {
		return "", false
	}
	// Methods such as Time.Until share names with the package functions.
	if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
		return "", false
	}
	return sel.Sel.Name, true
}

// nolintLines collects the lines covered by a //nolint or //nolint:clocknow
// comment: the comment's own line and the line after it.
func nolintLines(pass *analysis.Pass, file *ast.File) map[int]bool {
	lines := map[int]bool{}
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if !suppresses(c.Text) {
				continue
			}
			line := pass.Fset.Position(c.Pos()).Line
			lines[line] = true
			lines[line+1] = true
		}
	}
	return lines
}

func suppresses(comment string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	if !strings.HasPrefix(text, "nolint") {
		return false
	}
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" || strings.HasPrefix(rest, " ") {
		return true
	}
	if !strings.HasPrefix(rest, ":") {
		return false
	}
	names, _, _ := strings.Cut(rest[1:], " ")
	for _, name := range strings.Split(names, ",") {
		if name == analyzerName {
			return true
		}
	}
	return false
}
