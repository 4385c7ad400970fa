package gromacs

import (
	"context"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

// EditconfSpec describes the editconf building block.
func EditconfSpec() tool.Spec {
	return tool.Spec{
		Name:        "editconf",
		Binary:      "editconf",
		Description: "Generates a simulation box around the input structure.",
		Inputs: []tool.File{
			{Key: "input_gro_path", Formats: []string{".gro", ".pdb"}, Required: true, Description: "Path to the input GRO file"},
		},
		Outputs: []tool.File{
			{Key: "output_gro_path", Formats: []string{".gro", ".pdb"}, Required: true, Description: "Path to the output GRO file"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "distance_to_molecule", Type: tool.Float, Default: 1.0, Description: "Distance of the box from the outermost atom in nm."},
			tool.Option{Name: "box_type", Type: tool.String, Default: "cubic", Description: "Geometrical shape of the solvent box: cubic, triclinic, dodecahedron or octahedron."},
			tool.Option{Name: "center_molecule", Type: tool.Bool, Default: true, Description: "Center the molecule in the box."},
		),
	}
}

// Editconf wraps the GROMACS editconf module.
type Editconf struct {
	block
}

func NewEditconf(paths map[string]string, properties map[string]any) (*Editconf, error) {
	b, err := newBlock(EditconfSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Editconf{block: b}, nil
}

// Launch runs editconf on the input structure.
func (e *Editconf) Launch(ctx context.Context) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.close()
	if e.skipRestart() {
		return nil
	}
	if err := e.checkInputs(); err != nil {
		return err
	}
	staged, err := e.stageFiles()
	if err != nil {
		return err
	}

	cmd := e.gmx("editconf",
		"-f", staged["input_gro_path"],
		"-o", staged["output_gro_path"],
		"-d", formatFloat(e.props.Float("distance_to_molecule")),
		"-bt", e.props.String("box_type"))
	if e.props.Bool("center_molecule") {
		cmd.Argv = append(cmd.Argv, "-c")
		e.log.Info("Centering molecule in the box")
	}
	e.log.Info("Box settings",
		zap.Float64("distance_to_molecule", e.props.Float("distance_to_molecule")),
		zap.String("box_type", e.props.String("box_type")))

	if err := e.execute(ctx, cmd); err != nil {
		return err
	}
	return e.finish()
}
