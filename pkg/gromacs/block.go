package gromacs

import (
	"context"
	"math"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/config"
	"github.com/bioexcel/biobb-md/pkg/execution"
	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/logger"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// block carries the state shared by every building block during one launch:
// the resolved properties, the declared paths, the step logger and the
// container staging area when container execution is enabled.
type block struct {
	spec  tool.Spec
	props config.Properties
	paths map[string]string

	// Runner overrides the execution backend. Leave nil to run on the host
	// or, when container_path is set, through the container runtime.
	Runner execution.Runner

	log       *logger.StepLogger
	container execution.ContainerConfig
	sandbox   *execution.Sandbox
	collected bool
	tmp       []string
}

func newBlock(spec tool.Spec, paths map[string]string, properties map[string]any) (block, error) {
	props, err := config.Resolve(spec, properties)
	if err != nil {
		return block{}, err
	}
	resolved, err := config.ResolvePaths(spec, paths)
	if err != nil {
		return block{}, err
	}
	return block{
		spec:  spec,
		props: props,
		paths: resolved,
		container: execution.ContainerConfig{
			Path:       props.String("container_path"),
			Image:      props.String("container_image"),
			VolumePath: props.String("container_volume_path"),
			WorkingDir: props.String("container_working_dir"),
			UserID:     props.String("container_user_id"),
			ShellPath:  props.String("container_shell_path"),
		},
	}, nil
}

// begin opens the step log pair named after the prefix/step properties.
func (b *block) begin() error {
	log, err := logger.New(logger.Config{
		Path:    b.props.String("path"),
		Prefix:  b.props.String("prefix"),
		Step:    b.props.String("step"),
		Console: b.props.Bool("can_write_console_log"),
	})
	if err != nil {
		return err
	}
	b.log = log
	return nil
}

func (b *block) close() {
	if b.log != nil {
		b.log.Sync()
	}
}

// skipRestart reports whether the launch can be skipped because restart was
// requested and every declared output already exists with content.
func (b *block) skipRestart() bool {
	if !b.props.Bool("restart") {
		return false
	}
	outputs := make([]string, 0, len(b.spec.Outputs))
	for _, f := range b.spec.Outputs {
		outputs = append(outputs, b.paths[f.Key])
	}
	if !fileutils.AllNonEmpty(outputs...) {
		return false
	}
	b.log.Info("Skipping execution, output files already exist", zap.String("tool", b.spec.Name))
	return true
}

// checkInputs verifies every required input file is present on disk.
func (b *block) checkInputs() error {
	for _, f := range b.spec.Inputs {
		if !f.Required {
			continue
		}
		if !fileutils.Exists(b.paths[f.Key]) {
			return &fileutils.CheckError{Path: b.paths[f.Key], Message: "input " + f.Key + " not found"}
		}
	}
	return nil
}

// stageFiles prepares the working path set. Under container execution the
// declared files are staged into a sandbox directory bound to the container
// volume and every path is rewritten accordingly; on the host the declared
// paths are used as they are. Keys listed in skip stay on the host, used by
// the topology blocks whose zipballs are unzipped host side.
func (b *block) stageFiles(skip ...string) (map[string]string, error) {
	if !b.container.Enabled() {
		staged := make(map[string]string, len(b.paths))
		for k, v := range b.paths {
			staged[k] = v
		}
		return staged, nil
	}
	b.log.Info("Container execution enabled", zap.String("image", b.container.Image))
	skipped := make(map[string]bool, len(skip))
	for _, k := range skip {
		skipped[k] = true
	}
	stageable := make(map[string]string, len(b.paths))
	for k, v := range b.paths {
		if !skipped[k] {
			stageable[k] = v
		}
	}
	sandbox, staged, err := execution.Stage(b.props.String("sandbox_path"), b.container.VolumePath, stageable)
	if err != nil {
		return nil, err
	}
	for _, k := range skip {
		if v, ok := b.paths[k]; ok {
			staged[k] = v
		}
	}
	b.sandbox = sandbox
	b.container.BindDir = sandbox.HostDir
	b.addTmp(sandbox.HostDir)
	return staged, nil
}

// stageExtra places an undeclared working file next to the staged ones and
// returns the path the tool should see. Outside container execution the path
// is returned unchanged.
func (b *block) stageExtra(p string) (string, error) {
	if !b.container.Enabled() {
		return p, nil
	}
	if fileutils.Exists(p) {
		if err := fileutils.CopyFile(p, filepath.Join(b.sandbox.HostDir, filepath.Base(p))); err != nil {
			return "", err
		}
	}
	return path.Join(b.container.VolumePath, filepath.Base(p)), nil
}

// stageDir copies a whole working directory into the staging area and returns
// the container path of file, which must live inside dir. Used for unzipped
// topologies, whose include files must travel with the TOP.
func (b *block) stageDir(dir, file string) (string, error) {
	if !b.container.Enabled() {
		return file, nil
	}
	if _, err := fileutils.CopyTree(dir, b.sandbox.HostDir); err != nil {
		return "", err
	}
	return path.Join(b.container.VolumePath, filepath.Base(dir), filepath.Base(file)), nil
}

// hostDir returns the host-side location of a file staged from dir with
// stageDir, where the tool's in-place edits land under container execution.
func (b *block) hostDir(dir, file string) string {
	if !b.container.Enabled() {
		return file
	}
	return filepath.Join(b.sandbox.HostDir, filepath.Base(dir), filepath.Base(file))
}

// hostName returns the tool-visible and host-side paths of an internal file
// the tool creates in its working directory.
func (b *block) hostName(name string) (argvPath, hostPath string) {
	if b.container.Enabled() {
		return path.Join(b.container.VolumePath, name), filepath.Join(b.sandbox.HostDir, name)
	}
	return name, name
}

func (b *block) addTmp(paths ...string) {
	b.tmp = append(b.tmp, paths...)
}

// gmxArgv is the argv prefix of every gmx invocation.
func (b *block) gmxArgv() []string {
	argv := []string{b.props.String("gmx_path")}
	if b.props.Bool("gmx_nobackup") {
		argv = append(argv, "-nobackup")
	}
	if b.props.Bool("gmx_nocopyright") {
		argv = append(argv, "-nocopyright")
	}
	return argv
}

// gmx builds the command for one gmx subcommand invocation, wiring the
// GMXLIB environment variable when gmx_lib is set.
func (b *block) gmx(subcommand string, args ...string) execution.Command {
	argv := append(b.gmxArgv(), subcommand)
	argv = append(argv, args...)
	cmd := execution.Command{Argv: argv}
	if lib := b.props.String("gmx_lib"); lib != "" {
		cmd.Env = []string{"GMXLIB=" + lib}
	}
	return cmd
}

// execute runs the command through the selected runner. On the host the
// GROMACS version is checked first; the check is skipped under container or
// MPI execution, where the local binary is not the one that will run.
func (b *block) execute(ctx context.Context, cmd execution.Command) error {
	runner := b.Runner
	if runner == nil {
		runner = execution.NewHostRunner()
	}
	if b.container.Enabled() {
		runner = execution.NewContainerRunner(b.container, runner)
	} else if b.props.String("mpi_bin") == "" {
		version := Version(ctx, runner, b.gmxArgv())
		if version < minimumVersion {
			return &VersionError{Detected: version}
		}
		b.log.Info("GROMACS version detected", zap.Int("version", version))
	}

	b.log.Info("Executing: " + strings.Join(cmd.Argv, " "))
	res := runner.Run(ctx, cmd)
	b.log.Stdout(res.Stdout)
	b.log.Stderr(res.Stderr)
	if res.Err != nil {
		name := strings.Join(cmd.Argv, " ")
		if res.ExitCode > 0 {
			b.log.Error("Command failed", zap.Int("exit_code", res.ExitCode))
			return &execution.ExitError{Cmd: name, Code: res.ExitCode}
		}
		return &execution.StartError{Cmd: name, Err: res.Err}
	}
	return nil
}

// collect copies the declared outputs out of the sandbox back to their host
// destinations. It runs at most once, either explicitly before host-side post
// processing or from finish.
func (b *block) collect() error {
	if b.sandbox == nil || b.collected {
		return nil
	}
	b.collected = true
	outputs := make(map[string]string, len(b.spec.Outputs))
	for _, f := range b.spec.Outputs {
		outputs[f.Key] = b.paths[f.Key]
	}
	return b.sandbox.Collect(outputs)
}

// finish collects container outputs, removes the temporal files and verifies
// every declared output exists.
func (b *block) finish() error {
	if err := b.collect(); err != nil {
		return err
	}
	if b.props.Bool("remove_tmp") {
		if removed := fileutils.RemoveAll(b.tmp...); len(removed) > 0 {
			b.log.Info("Removed temporal files", zap.Strings("paths", removed))
		}
	}
	keys := make([]string, 0, len(b.spec.Outputs))
	for _, f := range b.spec.Outputs {
		keys = append(keys, f.Key)
	}
	return fileutils.CheckOutputs(keys, b.paths)
}

// formatFloat renders a float the way the configuration files spell them,
// keeping a trailing .0 on integral values.
func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
