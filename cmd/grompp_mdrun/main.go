// Command grompp_mdrun chains the GROMACS grompp and mdrun modules through
// an internal portable run input file.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.GromppMdrunSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewGromppMdrun(paths, properties)
	})
}
