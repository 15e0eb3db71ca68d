// Where: internal/architecture/scan_test.go
// What: Shared source walker for the architecture guard tests.
// Why: Every guard inspects the same set of non-test internal Go files.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/poruru-code/legacyfrontends/internal/"

// sourceFile is one parsed non-test Go file under internal/.
type sourceFile struct {
	rel  string // path relative to internal/
	pkg  string // package directory relative to internal/
	fset *token.FileSet
	file *ast.File
}

// internalImports returns the internal packages the file imports, relative
// to internal/.
func (f sourceFile) internalImports() []string {
	var out []string
	for _, imp := range f.file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		if rest, ok := strings.CutPrefix(importPath, internalImportPrefix); ok {
			out = append(out, rest)
		}
	}
	return out
}

func scanInternal(t *testing.T, mode parser.Mode) []sourceFile {
	t.Helper()
	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	var files []sourceFile

	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		pkg := filepath.ToSlash(filepath.Dir(rel))
		if pkg == "." {
			return nil
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return err
		}
		files = append(files, sourceFile{rel: filepath.ToSlash(rel), pkg: pkg, fset: fset, file: file})
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no internal packages found under %s", internalRoot)
	}
	return files
}

func resolveInternalRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, ".."))
}
