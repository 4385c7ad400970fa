package gromacs_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/bioexcel/biobb-md/pkg/gromacs"
)

func TestMakeNdx_Launch_BuildsCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "structure.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "index.ndx"), "[ System ]\n")

	block, err := NewMakeNdx(map[string]string{
		"input_structure_path": in,
		"output_ndx_path":      out,
	}, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	cmd := fake.last(t)
	if cmd.Argv[3] != "make_ndx" {
		t.Errorf("expected the make_ndx subcommand, got %q", cmd.Argv[3])
	}
	if cmd.Stdin != "a CA C N O\nq\n" {
		t.Errorf("expected the default selection followed by quit on stdin, got %q", cmd.Stdin)
	}
	if got := argvValue(cmd.Argv, "-f"); got != in {
		t.Errorf("expected -f %q, got %q", in, got)
	}
	if hasArg(cmd.Argv, "-n") {
		t.Error("expected -n to be omitted without an input index")
	}
}

func TestMakeNdx_InputIndexOnlyWhenPresent(t *testing.T) {
	dir := t.TempDir()
	ndx := writeFile(t, filepath.Join(dir, "old.ndx"), "[ System ]\n")

	block, err := NewMakeNdx(map[string]string{
		"input_structure_path": writeFile(t, filepath.Join(dir, "structure.gro"), "structure"),
		"input_ndx_path":       ndx,
		"output_ndx_path":      writeFile(t, filepath.Join(dir, "index.ndx"), "[ System ]\n"),
	}, testProps(t, map[string]any{"selection": "r 1-20"}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	cmd := fake.last(t)
	if cmd.Stdin != "r 1-20\nq\n" {
		t.Errorf("expected the custom selection on stdin, got %q", cmd.Stdin)
	}
	if got := argvValue(cmd.Argv, "-n"); got != ndx {
		t.Errorf("expected -n %q, got %q", ndx, got)
	}
}
