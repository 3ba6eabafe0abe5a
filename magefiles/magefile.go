//go:build mage

// Package main contains Mage build targets for wordpack-audit developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the Audit target expects.
var projectDirs = []string{
	"data",
	"output",
}

// Init creates the data and output directories.
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
	binName = "wordpack-audit"
	cmdPkg  = "./cmd/wordpack-audit"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet over every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Stats prints per-package Go metrics: files, non-blank production and test
// lines, and the number of Test functions.
func Stats() error {
	pkgs, err := collectStats(".")
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(pkgs))
	for dir := range pkgs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total pkgStats
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "package\tfiles\tprod\ttest\ttests\t")
	for _, dir := range dirs {
		st := pkgs[dir]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", dir, st.files, st.prodLines, st.testLines, st.testFuncs)
		total.add(st)
	}
	fmt.Fprintf(w, "total\t%d\t%d\t%d\t%d\t\n", total.files, total.prodLines, total.testLines, total.testFuncs)
	return w.Flush()
}

// pkgStats holds the counts of one package directory.
type pkgStats struct {
	files     int
	prodLines int
	testLines int
	testFuncs int
}

func (s *pkgStats) add(o pkgStats) {
	s.files += o.files
	s.prodLines += o.prodLines
	s.testLines += o.testLines
	s.testFuncs += o.testFuncs
}

// skipDir reports whether a directory is outside the project's own sources.
func skipDir(path string) bool {
	base := filepath.Base(path)
	return path != "." && (base[0] == '.' || base[0] == '_' || base == binDir || base == "output")
}

// collectStats walks root and counts the Go files of each package directory.
func collectStats(root string) (map[string]pkgStats, error) {
	pkgs := make(map[string]pkgStats)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		lines, tests, err := countFile(path)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		st := pkgs[dir]
		st.files++
		if strings.HasSuffix(path, "_test.go") {
			st.testLines += lines
			st.testFuncs += tests
		} else {
			st.prodLines += lines
		}
		pkgs[dir] = st
		return nil
	})
	return pkgs, err
}

// countFile returns the non-blank lines of a Go file and how many of them
// declare a Test function.
func countFile(path string) (lines, tests int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines++
		if strings.HasPrefix(line, "func Test") {
			tests++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, tests, nil
}
