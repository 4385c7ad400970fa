// Package cli implements the shared command line front end of the building
// block binaries: one flag per declared path, a --config flag for the
// properties and an exit code contract that preserves the wrapped tool's
// exit status.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bioexcel/biobb-md/pkg/config"
	"github.com/bioexcel/biobb-md/pkg/execution"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// Launcher is the single operation every building block exposes.
type Launcher interface {
	Launch(ctx context.Context) error
}

// Constructor builds a block from its declared paths and raw properties.
type Constructor func(paths map[string]string, properties map[string]any) (Launcher, error)

// Main parses os.Args for the given descriptor, runs the block and exits
// with 0 on success, the subprocess exit code when the wrapped tool failed,
// or 1 for every other error.
func Main(spec tool.Spec, construct Constructor) {
	os.Exit(Run(spec, construct, os.Args[1:], os.Stderr))
}

// Run is Main with injectable arguments and error stream.
func Run(spec tool.Spec, construct Constructor, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet(spec.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configSource := fs.String("config", "", "Path to a YAML or JSON configuration file, or an inline JSON document")
	pathFlags := make(map[string]*string)
	for _, f := range append(append([]tool.File{}, spec.Inputs...), spec.Outputs...) {
		usage := f.Description
		if f.Required {
			usage += " (required)"
		}
		pathFlags[f.Key] = fs.String(f.Key, "", usage)
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	properties, err := config.Load(*configSource)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	paths := make(map[string]string)
	for key, value := range pathFlags {
		if *value != "" {
			paths[key] = *value
		}
	}

	block, err := construct(paths, properties)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := block.Launch(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		var exitErr *execution.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}
