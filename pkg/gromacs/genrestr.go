package gromacs

import (
	"context"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

// GenrestrSpec describes the genrestr building block.
func GenrestrSpec() tool.Spec {
	return tool.Spec{
		Name:        "genrestr",
		Binary:      "genrestr",
		Description: "Produces an include file for a topology containing a list of atom numbers and three force constants for the x-, y- and z-direction based on the contents of the -f file.",
		Inputs: []tool.File{
			{Key: "input_structure_path", Formats: []string{".pdb", ".gro", ".tpr"}, Required: true, Description: "Path to the input structure file"},
			{Key: "input_ndx_path", Formats: []string{".ndx"}, Description: "Path to the input index file NDX"},
		},
		Outputs: []tool.File{
			{Key: "output_itp_path", Formats: []string{".itp"}, Required: true, Description: "Path to the output ITP file with the position restraints"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "restrained_group", Type: tool.String, Default: "system", Description: "Index group that will be restrained."},
			tool.Option{Name: "force_constants", Type: tool.String, Default: "500 500 500", Description: "Three force constants for the x-, y- and z-direction."},
		),
	}
}

// Genrestr wraps the GROMACS genrestr module.
type Genrestr struct {
	block
}

func NewGenrestr(paths map[string]string, properties map[string]any) (*Genrestr, error) {
	b, err := newBlock(GenrestrSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Genrestr{block: b}, nil
}

func (g *Genrestr) Launch(ctx context.Context) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.close()
	if g.skipRestart() {
		return nil
	}
	if err := g.checkInputs(); err != nil {
		return err
	}
	staged, err := g.stageFiles()
	if err != nil {
		return err
	}

	cmd := g.gmx("genrestr",
		"-f", staged["input_structure_path"],
		"-o", staged["output_itp_path"],
		"-fc", g.props.String("force_constants"))
	cmd.Stdin = g.props.String("restrained_group") + "\n"
	if staged["input_ndx_path"] != "" {
		cmd.Argv = append(cmd.Argv, "-n", staged["input_ndx_path"])
	}

	if err := g.execute(ctx, cmd); err != nil {
		return err
	}
	return g.finish()
}
