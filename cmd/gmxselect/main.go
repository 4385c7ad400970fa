// Command gmxselect wraps the GROMACS select module.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.GmxselectSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewGmxselect(paths, properties)
	})
}
