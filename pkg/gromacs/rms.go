package gromacs

import (
	"context"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

// RmsSpec describes the rms building block.
func RmsSpec() tool.Spec {
	return tool.Spec{
		Name:        "rms",
		Binary:      "rms",
		Description: "Computes the root mean square deviation of a trajectory against a reference structure.",
		Inputs: []tool.File{
			{Key: "input_structure_path", Formats: []string{".gro", ".tpr", ".pdb"}, Required: true, Description: "Path to the reference structure file"},
			{Key: "input_traj_path", Formats: []string{".xtc", ".trr", ".gro", ".pdb"}, Required: true, Description: "Path to the input trajectory file"},
		},
		Outputs: []tool.File{
			{Key: "output_xvg_path", Formats: []string{".xvg"}, Required: true, Description: "Path to the output RMSD plot file"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "selection", Type: tool.String, Default: "Protein-H", Description: "Group used for both the fit and the RMSD calculation."},
			tool.Option{Name: "xvg", Type: tool.String, Default: "none", Description: "Plot formatting. Values: xmgrace, xmgr, none."},
		),
	}
}

// Rms wraps the GROMACS rms module.
type Rms struct {
	block
}

func NewRms(paths map[string]string, properties map[string]any) (*Rms, error) {
	b, err := newBlock(RmsSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Rms{block: b}, nil
}

func (r *Rms) Launch(ctx context.Context) error {
	if err := r.begin(); err != nil {
		return err
	}
	defer r.close()
	if r.skipRestart() {
		return nil
	}
	if err := r.checkInputs(); err != nil {
		return err
	}
	staged, err := r.stageFiles()
	if err != nil {
		return err
	}

	selection := r.props.String("selection")
	cmd := r.gmx("rms",
		"-s", staged["input_structure_path"],
		"-f", staged["input_traj_path"],
		"-o", staged["output_xvg_path"],
		"-xvg", r.props.String("xvg"))
	cmd.Stdin = selection + " " + selection + "\n"

	if err := r.execute(ctx, cmd); err != nil {
		return err
	}
	return r.finish()
}
