// Command cluster wraps the GROMACS cluster module.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.ClusterSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewCluster(paths, properties)
	})
}
