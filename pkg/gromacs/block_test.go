package gromacs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bioexcel/biobb-md/pkg/config"
	"github.com/bioexcel/biobb-md/pkg/execution"
	"github.com/bioexcel/biobb-md/pkg/fileutils"
	. "github.com/bioexcel/biobb-md/pkg/gromacs"
)

func TestEditconf_Launch_BuildsCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "boxed")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	if len(fake.commands) != 2 {
		t.Fatalf("expected version probe plus one invocation, got %d commands", len(fake.commands))
	}
	got := strings.Join(fake.last(t).Argv, " ")
	want := "gmx -nobackup -nocopyright editconf -f " + in + " -o " + out + " -d 1.0 -bt cubic -c"
	if got != want {
		t.Errorf("expected argv %q, got %q", want, got)
	}
}

func TestEditconf_Launch_OptionsChangeArgv(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "boxed")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, map[string]any{
		"distance_to_molecule": 0.8,
		"box_type":             "octahedron",
		"center_molecule":      false,
		"gmx_nobackup":         false,
		"gmx_nocopyright":      false,
		"gmx_path":             "/opt/gromacs/bin/gmx",
	}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	argv := fake.last(t).Argv
	if argv[0] != "/opt/gromacs/bin/gmx" || argv[1] != "editconf" {
		t.Errorf("expected bare gmx path before the subcommand, got %v", argv[:2])
	}
	if got := argvValue(argv, "-d"); got != "0.8" {
		t.Errorf("expected -d 0.8, got %q", got)
	}
	if got := argvValue(argv, "-bt"); got != "octahedron" {
		t.Errorf("expected -bt octahedron, got %q", got)
	}
	if hasArg(argv, "-c") {
		t.Error("expected -c to be omitted when centering is disabled")
	}
}

func TestBlock_RestartSkipsExecution(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "already produced")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, map[string]any{"restart": true}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("expected restart skip to succeed, got %v", err)
	}
	if len(fake.commands) != 0 {
		t.Errorf("expected no commands on restart skip, got %d", len(fake.commands))
	}
}

func TestBlock_RestartRunsWhenOutputEmpty(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, map[string]any{"restart": true}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}
	if len(fake.commands) == 0 {
		t.Error("expected the block to run when an output exists but is empty")
	}
}

func TestBlock_MissingRequiredPath(t *testing.T) {
	_, err := NewEditconf(map[string]string{
		"input_gro_path": "in.gro",
	}, nil)

	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if cfgErr.Field != "output_gro_path" {
		t.Errorf("expected the error to name output_gro_path, got %q", cfgErr.Field)
	}
}

func TestBlock_UnknownPathKey(t *testing.T) {
	_, err := NewEditconf(map[string]string{
		"input_gro_path":  "in.gro",
		"output_gro_path": "out.gro",
		"input_tpr_path":  "wrong.tpr",
	}, nil)

	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if cfgErr.Field != "input_tpr_path" {
		t.Errorf("expected the error to name input_tpr_path, got %q", cfgErr.Field)
	}
}

func TestBlock_UnknownProperty(t *testing.T) {
	_, err := NewEditconf(map[string]string{
		"input_gro_path":  "in.gro",
		"output_gro_path": "out.gro",
	}, map[string]any{"distance_to_molecul": 1.2})

	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}

func TestBlock_MissingInputFile(t *testing.T) {
	dir := t.TempDir()
	block, err := NewEditconf(map[string]string{
		"input_gro_path":  filepath.Join(dir, "absent.gro"),
		"output_gro_path": filepath.Join(dir, "out.gro"),
	}, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	err = block.Launch(context.Background())
	var checkErr *fileutils.CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("expected a file check error, got %v", err)
	}
	if len(fake.commands) != 0 {
		t.Errorf("expected no commands when an input is missing, got %d", len(fake.commands))
	}
}

func TestBlock_ExitCodePassthrough(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "boxed")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{result: execution.Result{ExitCode: 7, Err: errors.New("exit status 7")}}
	block.Runner = fake

	err = block.Launch(context.Background())
	var exitErr *execution.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit error, got %v", err)
	}
	if exitErr.Code != 7 {
		t.Errorf("expected exit code 7, got %d", exitErr.Code)
	}
}

func TestBlock_VersionGate(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "boxed")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{version: "GROMACS version:    4.6.7\n"}
	block.Runner = fake

	err = block.Launch(context.Background())
	var versionErr *VersionError
	if !errors.As(err, &versionErr) {
		t.Fatalf("expected a version error, got %v", err)
	}
	if versionErr.Detected != 467 {
		t.Errorf("expected detected version 467, got %d", versionErr.Detected)
	}
	if len(fake.commands) != 1 {
		t.Errorf("expected only the version probe to run, got %d commands", len(fake.commands))
	}
}

func TestBlock_MissingOutputFails(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": filepath.Join(dir, "never.gro"),
	}, testProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	block.Runner = &fakeRunner{}

	err = block.Launch(context.Background())
	var checkErr *fileutils.CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("expected a missing output error, got %v", err)
	}
	if !strings.Contains(checkErr.Error(), "output_gro_path") {
		t.Errorf("expected the error to name the output key, got %q", checkErr.Error())
	}
}

func TestBlock_GmxLibEnvironment(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "boxed")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, map[string]any{"gmx_lib": "/opt/gromacs/share"}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}
	env := fake.last(t).Env
	if len(env) != 1 || env[0] != "GMXLIB=/opt/gromacs/share" {
		t.Errorf("expected GMXLIB entry, got %v", env)
	}
}

func TestBlock_ContainerStaging(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "in.gro"), "structure")
	out := writeFile(t, filepath.Join(dir, "out.gro"), "boxed")

	block, err := NewEditconf(map[string]string{
		"input_gro_path":  in,
		"output_gro_path": out,
	}, testProps(t, map[string]any{
		"container_path":  "/usr/bin/docker",
		"container_image": "gromacs/gromacs:2022.3",
		"remove_tmp":      false,
	}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	fake := &fakeRunner{}
	block.Runner = fake

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	if len(fake.commands) != 1 {
		t.Fatalf("expected a single wrapped command without a version probe, got %d", len(fake.commands))
	}
	argv := fake.commands[0].Argv
	if argv[0] != "/usr/bin/docker" || argv[1] != "run" {
		t.Fatalf("expected a docker invocation, got %v", argv[:2])
	}
	if !hasArg(argv, "gromacs/gromacs:2022.3") {
		t.Errorf("expected the image in the argv, got %v", argv)
	}
	if got := argvValue(argv, "-f"); got != "/data/in.gro" {
		t.Errorf("expected the input rewritten to the container volume, got %q", got)
	}

	bind := argvValue(argv, "-v")
	hostDir, _, found := strings.Cut(bind, ":")
	if !found {
		t.Fatalf("expected a bind specification, got %q", bind)
	}
	if _, err := os.Stat(filepath.Join(hostDir, "in.gro")); err != nil {
		t.Errorf("expected the input staged into the sandbox: %v", err)
	}
}
