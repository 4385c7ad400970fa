// Command editconf wraps the GROMACS editconf module.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.EditconfSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewEditconf(paths, properties)
	})
}
