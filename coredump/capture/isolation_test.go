package capture_test

import (
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const modulePath = "github.com/dlafreniere/coredump"

// ambientPackages are the host-tooling packages capture's import graph
// must never reach: a target already in the middle of dying can't afford
// to log, wrap an error, or touch a preferences file on the way down.
var ambientPackages = []string{
	modulePath + "/errors",
	modulePath + "/logger",
	modulePath + "/prefs",
}

// TestCaptureImportGraphExcludesAmbientStack walks the import graph
// rooted at coredump/capture and fails the moment it reaches one of
// ambientPackages. It uses a hardcoded module-relative directory walk
// rather than go/build.Import, since go/build's package resolution
// doesn't understand module mode without a live GOPATH; go/build.MatchFile
// is still used per-file so the walk honors the same //go:build
// constraints the compiler would (region_mmap_linux.go vs
// region_mmap_other.go, in particular).
func TestCaptureImportGraphExcludesAmbientStack(t *testing.T) {
	root := moduleRoot(t)

	visited := map[string]bool{}
	var walk func(pkg string)
	walk = func(pkg string) {
		if visited[pkg] {
			return
		}
		visited[pkg] = true

		for _, forbidden := range ambientPackages {
			if pkg == forbidden {
				t.Fatalf("coredump/capture's import graph reaches ambient package %s", pkg)
			}
		}

		if pkg != modulePath && !strings.HasPrefix(pkg, modulePath+"/") {
			return
		}

		dir := filepath.Join(root, strings.TrimPrefix(pkg, modulePath))
		for _, imp := range importsOf(t, dir) {
			walk(imp)
		}
	}

	walk(modulePath + "/coredump/capture")
}

// importsOf returns the import paths named by the buildable, non-test
// .go files in dir, skipping any file the current build context would
// exclude on //go:build or filename-suffix grounds.
func importsOf(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	fset := token.NewFileSet()
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		match, err := build.Default.MatchFile(dir, name)
		if err != nil {
			t.Fatalf("evaluating build constraints for %s: %v", filepath.Join(dir, name), err)
		}
		if !match {
			continue
		}

		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing %s: %v", filepath.Join(dir, name), err)
		}
		for _, imp := range f.Imports {
			out = append(out, strings.Trim(imp.Path.Value, `"`))
		}
	}
	return out
}

// moduleRoot locates the repository root from this test file's own
// location, so the walk works regardless of the working directory `go
// test` is invoked from.
func moduleRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("could not determine test file location")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
