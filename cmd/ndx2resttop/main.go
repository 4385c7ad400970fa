// Command ndx2resttop generates a restrained topology from an index NDX file.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacsextra"
)

func main() {
	cli.Main(gromacsextra.Ndx2resttopSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacsextra.NewNdx2resttop(paths, properties)
	})
}
