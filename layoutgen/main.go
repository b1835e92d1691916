// Command layoutgen scans Go source for fixed-width struct types and
// writes a "*_layout.go" companion next to each input file, declaring
// one buffer.FieldLayout variable per struct for use with
// Buffer.PutObject/GetObject and Swapper.SwapFields.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/quillbyte/dualbuf/layoutgen/core"
)

type cli struct {
	Input   string   `short:"i" default:"." help:"Go source file or directory to scan (directories are walked recursively)"`
	Output  string   `short:"o" help:"Write generated code here instead of the companion file (single-file input only)"`
	Structs []string `short:"s" help:"Restrict generation to these struct types (may be repeated)"`
	Verbose bool     `short:"v" help:"Report skipped structs and files on stderr"`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("layoutgen"),
		kong.Description("Generate byte-swap field layouts for fixed-width struct types."),
	)
	ctx.FatalIfErrorf(generate(&c))
}

func generate(c *cli) error {
	input := strings.TrimSpace(c.Input)
	if input == "" {
		input = "."
	}
	info, err := os.Stat(input)
	if err != nil {
		return err
	}

	opts := core.Options{Verbose: c.Verbose, Structs: c.Structs}

	if !info.IsDir() {
		out := strings.TrimSpace(c.Output)
		if out == "" {
			out = companionPath(input)
		}
		return core.Run(input, out, opts)
	}

	// Directory mode keeps each companion next to its source; a single
	// --output target cannot represent that.
	if c.Output != "" {
		return fmt.Errorf("--output conflicts with directory input %q", input)
	}
	sources, err := collectSources(input)
	if err != nil {
		return err
	}
	for _, src := range sources {
		if err := core.Run(src, companionPath(src), opts); err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
	}
	return nil
}

// collectSources gathers the regular .go files under root, leaving out
// tests and previously generated companions so reruns are idempotent.
func collectSources(root string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") ||
			strings.HasSuffix(name, "_layout.go") {
			return nil
		}
		sources = append(sources, path)
		return nil
	})
	return sources, err
}

func companionPath(src string) string {
	return strings.TrimSuffix(src, ".go") + "_layout.go"
}
