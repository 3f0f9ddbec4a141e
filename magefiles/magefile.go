//go:build mage

// Package main contains Mage build targets for vecprep developer tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"

	"github.com/pdiddy/vecprep/internal/extract"
	"github.com/pdiddy/vecprep/internal/verify"
	"github.com/pdiddy/vecprep/pkg/types"
)

// projectDirs lists the working directories extract and catalog expect.
var projectDirs = []string{
	types.DefaultMessagesDir,
	types.DefaultHashesDir,
	types.DefaultCatalogDir,
}

// Init creates messages/, hashes/, and catalog/ in the current directory.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "vecprep"
	cmdPkg  = "./cmd/vecprep"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	cmd := exec.Command("go", "build", "-o", out, cmdPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Extract runs the extract stage on SHA256LongMsg.rsp and writes message-sizes.txt.
func Extract() error {
	mg.Deps(Init)
	_, err := extract.Extract(types.ExtractConfig{
		Input:     types.DefaultInput,
		OutDir:    ".",
		SizesFile: "message-sizes.txt",
	}, os.Stdout)
	return err
}

// Verify checks every extracted vector against the standard library SHA-256.
func Verify() error {
	mg.Deps(Extract)
	summary, err := verify.Verify(context.Background(), types.VerifyConfig{OutDir: "."}, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d vector(s) failed verification", summary.Mismatched+summary.MissingHash)
	}
	return nil
}

// Stats prints Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks root and counts non-blank lines in Go files, skipping
// directories that start with "_" or ".". If testOnly is true only _test.go
// files are counted; otherwise only non-test files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
