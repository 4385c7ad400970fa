package gromacs_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	. "github.com/bioexcel/biobb-md/pkg/gromacs"
)

func genionPaths(t *testing.T) map[string]string {
	t.Helper()
	dir := t.TempDir()
	return map[string]string{
		"input_tpr_path":      writeFile(t, filepath.Join(dir, "in.tpr"), "tpr"),
		"input_top_zip_path":  makeTopZip(t, false),
		"output_gro_path":     writeFile(t, filepath.Join(dir, "out.gro"), "gro"),
		"output_top_zip_path": filepath.Join(dir, "top.zip"),
	}
}

func TestGenion_Launch_BuildsCommand(t *testing.T) {
	paths := genionPaths(t)
	block, err := NewGenion(paths, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	cmd := fake.last(t)
	if cmd.Stdin != "SOL\n" {
		t.Errorf("expected the replaced group on stdin, got %q", cmd.Stdin)
	}
	if got := argvValue(cmd.Argv, "-s"); got != paths["input_tpr_path"] {
		t.Errorf("expected -s %q, got %q", paths["input_tpr_path"], got)
	}
	if got := argvValue(cmd.Argv, "-p"); filepath.Base(got) != "gio.top" {
		t.Errorf("expected the topology renamed to gio.top, got %q", got)
	}
	if got := argvValue(cmd.Argv, "-conc"); got != "0.05" {
		t.Errorf("expected the default concentration, got %q", got)
	}
	if got := argvValue(cmd.Argv, "-seed"); got != "1993" {
		t.Errorf("expected the default seed, got %q", got)
	}
	if hasArg(cmd.Argv, "-neutral") || hasArg(cmd.Argv, "-n") {
		t.Errorf("expected no -neutral or -n flags by default, got %v", cmd.Argv)
	}

	top, err := fileutils.UnzipTop(paths["output_top_zip_path"], t.TempDir())
	if err != nil {
		t.Fatalf("expected a readable output zipball: %v", err)
	}
	if filepath.Base(top) != "gio.top" {
		t.Errorf("expected gio.top inside the output zipball, got %q", top)
	}
}

func TestGenion_NeutralAndZeroConcentration(t *testing.T) {
	block, err := NewGenion(genionPaths(t), testProps(t, map[string]any{
		"neutral":        true,
		"concentration":  0.0,
		"replaced_group": "Water",
		"seed":           42,
	}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	cmd := fake.last(t)
	if cmd.Stdin != "Water\n" {
		t.Errorf("expected the custom group on stdin, got %q", cmd.Stdin)
	}
	if !hasArg(cmd.Argv, "-neutral") {
		t.Error("expected -neutral when requested")
	}
	if hasArg(cmd.Argv, "-conc") {
		t.Error("expected -conc to be omitted for a zero concentration")
	}
	if got := argvValue(cmd.Argv, "-seed"); got != "42" {
		t.Errorf("expected -seed 42, got %q", got)
	}
}

func TestGenion_IndexFileOnlyWhenPresent(t *testing.T) {
	dir := t.TempDir()
	paths := genionPaths(t)
	paths["input_ndx_path"] = writeFile(t, filepath.Join(dir, "groups.ndx"), "[ Water ]\n1 2\n")

	block, err := NewGenion(paths, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}
	if got := argvValue(fake.last(t).Argv, "-n"); got != paths["input_ndx_path"] {
		t.Errorf("expected -n %q, got %q", paths["input_ndx_path"], got)
	}
}
