// Command genrestr wraps the GROMACS genrestr module.
package main

import (
	"github.com/bioexcel/biobb-md/pkg/cli"
	"github.com/bioexcel/biobb-md/pkg/gromacs"
)

func main() {
	cli.Main(gromacs.GenrestrSpec(), func(paths map[string]string, properties map[string]any) (cli.Launcher, error) {
		return gromacs.NewGenrestr(paths, properties)
	})
}
