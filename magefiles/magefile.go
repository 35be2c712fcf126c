//go:build mage

// Package main contains Mage build targets for paprly developer tooling.
package main

import (
	"bufio"
	"errors"
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

// projectDirs lists the working directories paprly writes to.
var projectDirs = []string{
	"data",
	"export",
	".secrets",
}

// Init creates the local data, export and secrets directories.
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
	binName = "paprly"
	cmdPkg  = "./cmd/paprly"
)

// Build compiles the CLI binary into bin/. The sqlite driver needs cgo.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWithV(env, "go", "build",
		"-ldflags", "-X main.version="+version,
		"-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Serve builds the binary and starts the API server.
func Serve() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// sourceRoots are the trees Stats reports on.
var sourceRoots = []string{"cmd", "internal", "pkg"}

// packageLines holds non-blank Go line counts for one package directory.
type packageLines struct {
	prod, test int
}

// Stats prints non-blank Go lines per package, split into production and
// test code.
func Stats() error {
	counts := map[string]*packageLines{}
	for _, root := range sourceRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".go" {
				return nil
			}
			n, err := nonBlankLines(path)
			if err != nil {
				return err
			}
			dir := filepath.Dir(path)
			c, ok := counts[dir]
			if !ok {
				c = &packageLines{}
				counts[dir] = c
			}
			if strings.HasSuffix(path, "_test.go") {
				c.test += n
			} else {
				c.prod += n
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tPROD\tTEST")
	var total packageLines
	for _, dir := range dirs {
		c := counts[dir]
		fmt.Fprintf(tw, "%s\t%d\t%d\n", filepath.ToSlash(dir), c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Fprintf(tw, "total\t%d\t%d\n", total.prod, total.test)
	return tw.Flush()
}

func nonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return n, nil
}
