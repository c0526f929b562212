// Package deterministicmaplint reports iteration over built-in maps in state machine packages, where the
// nondeterministic order would make nodes diverge.
package deterministicmaplint

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"
)

func init() {
	register.Plugin("deterministicmaplint", New)
}

// iterFuncs are the functions of the maps package returning iterators in map order.
var iterFuncs = []string{"All", "Keys", "Values"}

// LinterSettings is the settings of the linter.
type LinterSettings struct {
	// Packages are the import path prefixes checked by the linter. Empty means every package.
	Packages []string `json:"packages"`
}

// PluginDeterministicMapLint is the linter plugin.
type PluginDeterministicMapLint struct {
	settings LinterSettings
}

// New returns a new linter plugin.
func New(settings any) (register.LinterPlugin, error) {
	s, err := register.DecodeSettings[LinterSettings](settings)
	if err != nil {
		return nil, err
	}

	return &PluginDeterministicMapLint{settings: s}, nil
}

// BuildAnalyzers returns the analyzers for the linter.
func (f *PluginDeterministicMapLint) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{
		{
			Name: "deterministicmaplint",
			Doc:  "Disallow iteration over built-in maps; enforce deterministicmap.Map",
			Run:  f.run,
		},
	}, nil
}

// GetLoadMode returns the load mode for the linter.
func (f *PluginDeterministicMapLint) GetLoadMode() string {
	return register.LoadModeTypesInfo
}

func (f *PluginDeterministicMapLint) run(pass *analysis.Pass) (interface{}, error) {
	if !f.checked(pass.Pkg.Path()) {
		return nil, nil //nolint:nilnil
	}

	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.RangeStmt:
				if isBuiltinMap(pass.TypesInfo.TypeOf(node.X)) {
					pass.Reportf(
						node.Pos(),
						"ranging over map is forbidden (iteration order is nondeterministic); use deterministicmap.Map instead",
					)
				}
			case *ast.CallExpr:
				if name, ok := mapsIterCall(pass, node); ok {
					pass.Reportf(
						node.Pos(),
						"maps.%s iterates in nondeterministic order; use deterministicmap.Map instead",
						name,
					)
				}
			}
			return true
		})
	}

	return nil, nil //nolint:nilnil
}

func (f *PluginDeterministicMapLint) checked(pkgPath string) bool {
	if len(f.settings.Packages) == 0 {
		return true
	}
	for _, prefix := range f.settings.Packages {
		if strings.HasPrefix(pkgPath, prefix) {
			return true
		}
	}
	return false
}

func mapsIterCall(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "maps" {
		return "", false
	}
	for _, name := range iterFuncs {
		if fn.Name() == name {
			return name, true
		}
	}
	return "", false
}

func isBuiltinMap(t types.Type) bool {
	for t != nil {
		switch tt := t.(type) {
		case *types.Named:
			// deterministicmap.Map keeps its keys sorted.
			if obj := tt.Obj(); obj != nil && obj.Name() == "Map" && obj.Pkg() != nil &&
				strings.HasSuffix(obj.Pkg().Path(), "deterministicmap") {
				return false
			}
			t = tt.Underlying()
		case *types.Alias:
			t = types.Unalias(tt)
		case *types.Map:
			return true
		default:
			return false
		}
	}
	return false
}
