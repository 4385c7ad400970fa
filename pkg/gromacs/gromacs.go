// Package gromacs implements the GROMACS building blocks: one thin wrapper
// per gmx subcommand, sharing the same lifecycle of configuration resolution,
// restart checking, optional container staging, execution and output
// verification.
package gromacs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/bioexcel/biobb-md/pkg/execution"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// minimumVersion is the oldest supported GROMACS release, 5.1.2 encoded the
// way Version encodes releases.
const minimumVersion = 512

// VersionError reports an installed GROMACS older than the supported minimum.
type VersionError struct {
	Detected int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("GROMACS version should be 5.1.2 or newer, %d detected", e.Detected)
}

// Version detects the installed GROMACS release by running `-version` behind
// the given gmx argv prefix. Releases are encoded as integers: 5.1.2 becomes
// 512 and 20XX releases are zero-padded to five digits, so 2019.3 becomes
// 20193. Any detection failure yields 0.
func Version(ctx context.Context, runner execution.Runner, gmxArgv []string) int {
	argv := append(append([]string{}, gmxArgv...), "-version")
	res := runner.Run(ctx, execution.Command{Argv: argv})
	if res.Err != nil {
		return 0
	}
	return parseVersion(res.Stdout)
}

func parseVersion(out string) int {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "GROMACS version:") {
			continue
		}
		raw := strings.TrimPrefix(line, "GROMACS version:")
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, "VERSION", "")
		raw = strings.TrimSpace(raw)

		var digits strings.Builder
		for _, r := range raw {
			if unicode.IsDigit(r) {
				digits.WriteRune(r)
			}
		}
		version := digits.String()
		width := 3
		if strings.HasPrefix(raw, "2") {
			width = 5
		}
		for len(version) < width {
			version += "0"
		}
		n, err := strconv.Atoi(version)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// gmxOptions is the option block shared by every block that invokes gmx.
func gmxOptions() []tool.Option {
	return []tool.Option{
		{Name: "gmx_path", Type: tool.String, Default: "gmx", Description: "Path to the GROMACS executable binary."},
		{Name: "gmx_lib", Type: tool.String, Default: "", Description: "Path set GROMACS GMXLIB environment variable."},
		{Name: "gmx_nobackup", Type: tool.Bool, Default: true, Description: "Disable GROMACS backup files."},
		{Name: "gmx_nocopyright", Type: tool.Bool, Default: true, Description: "Disable GROMACS copyright notice."},
	}
}

// containerOptions is the option block selecting container execution.
func containerOptions() []tool.Option {
	return []tool.Option{
		{Name: "container_path", Type: tool.String, Default: "", Description: "Path to the binary executable of your container."},
		{Name: "container_image", Type: tool.String, Default: "gromacs/gromacs:latest", Description: "Container image identifier."},
		{Name: "container_volume_path", Type: tool.String, Default: "/data", Description: "Path to an internal directory in the container."},
		{Name: "container_working_dir", Type: tool.String, Default: "", Description: "Path to the internal CWD in the container."},
		{Name: "container_user_id", Type: tool.String, Default: "", Description: "User number id to be mapped inside the container."},
		{Name: "container_shell_path", Type: tool.String, Default: "/bin/bash", Description: "Path to the binary executable of the container shell."},
	}
}

// withSharedOptions appends the gmx, workflow and container option blocks to
// the tool-specific ones.
func withSharedOptions(specific ...tool.Option) []tool.Option {
	opts := append([]tool.Option{}, specific...)
	opts = append(opts, gmxOptions()...)
	opts = append(opts, tool.CommonOptions()...)
	opts = append(opts, containerOptions()...)
	return opts
}

// Specs returns the descriptors of every block in this package, in a stable
// order, for the schema generator and the command line front ends.
func Specs() []tool.Spec {
	return []tool.Spec{
		Pdb2gmxSpec(),
		EditconfSpec(),
		SolvateSpec(),
		GromppSpec(),
		MdrunSpec(),
		GromppMdrunSpec(),
		GenionSpec(),
		GenrestrSpec(),
		MakeNdxSpec(),
		GmxselectSpec(),
		ClusterSpec(),
		RmsSpec(),
	}
}
