// Command genion wraps the GROMACS genion module.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.GenionSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewGenion(paths, properties)
	})
}
