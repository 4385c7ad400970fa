// Command append_ligand inserts a ligand ITP file into a GROMACS topology.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacsextra"
)

func main() {
	cli.Main(gromacsextra.AppendLigandSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacsextra.NewAppendLigand(paths, properties)
	})
}
