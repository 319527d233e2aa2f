package internal

import (
	"bytes"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGofmtCompliance verifies that every Go source file under internal/
// is gofmt-clean. If it fails, run: gofmt -w .
func TestGofmtCompliance(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	var unformatted []string
	err = filepath.WalkDir(wd, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, err := format.Source(content)
		if err != nil {
			// Files that don't parse are someone else's problem.
			return nil
		}
		if !bytes.Equal(content, formatted) {
			rel, _ := filepath.Rel(wd, path)
			unformatted = append(unformatted, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk source tree: %v", err)
	}

	for _, f := range unformatted {
		t.Errorf("not gofmt-clean: %s", f)
	}
	if len(unformatted) > 0 {
		t.Error("Run 'gofmt -w .' to fix formatting issues.")
	}
}
