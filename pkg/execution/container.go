package execution

import (
	"context"
	"strings"
)

// ContainerConfig describes how to route an invocation through a container
// runtime. The runtime is recognized by the suffix of Path; a command handed
// to an unrecognized runtime is left unchanged.
type ContainerConfig struct {
	Path       string // container runtime binary
	Image      string
	VolumePath string // mount point of the staged files inside the container
	WorkingDir string
	UserID     string
	ShellPath  string
	BindDir    string // host directory bound to VolumePath
}

// Enabled reports whether container execution was requested.
func (c ContainerConfig) Enabled() bool { return c.Path != "" }

// Wrap rewrites the command to run inside the configured runtime. Stdin,
// environment and working directory carry over unchanged.
func (c ContainerConfig) Wrap(cmd Command) Command {
	switch {
	case strings.HasSuffix(c.Path, "singularity"):
		argv := []string{c.Path, "exec", "--bind", c.BindDir + ":" + c.VolumePath, c.Image}
		cmd.Argv = append(argv, cmd.Argv...)
	case strings.HasSuffix(c.Path, "docker"):
		argv := []string{c.Path, "run"}
		if c.WorkingDir != "" {
			argv = append(argv, "-w", c.WorkingDir)
		}
		if c.VolumePath != "" {
			argv = append(argv, "-v", c.BindDir+":"+c.VolumePath)
		}
		if c.UserID != "" {
			argv = append(argv, "--user", c.UserID)
		}
		argv = append(argv, c.Image)
		cmd.Argv = append(argv, cmd.Argv...)
	}
	return cmd
}

// ContainerRunner wraps every command in the configured container runtime
// before delegating to the inner runner.
type ContainerRunner struct {
	cfg   ContainerConfig
	inner Runner
}

func NewContainerRunner(cfg ContainerConfig, inner Runner) *ContainerRunner {
	if inner == nil {
		inner = NewHostRunner()
	}
	return &ContainerRunner{cfg: cfg, inner: inner}
}

func (r *ContainerRunner) Run(ctx context.Context, cmd Command) Result {
	return r.inner.Run(ctx, r.cfg.Wrap(cmd))
}
