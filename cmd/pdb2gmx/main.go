// Command pdb2gmx wraps the GROMACS pdb2gmx module.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.Pdb2gmxSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewPdb2gmx(paths, properties)
	})
}
