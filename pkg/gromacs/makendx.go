package gromacs

import (
	"context"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// MakeNdxSpec describes the make_ndx building block.
func MakeNdxSpec() tool.Spec {
	return tool.Spec{
		Name:        "make_ndx",
		Binary:      "make_ndx",
		Description: "Creates and edits index files over an interactive selection fed through standard input.",
		Inputs: []tool.File{
			{Key: "input_structure_path", Formats: []string{".pdb", ".gro", ".tpr"}, Required: true, Description: "Path to the input structure file"},
			{Key: "input_ndx_path", Formats: []string{".ndx"}, Description: "Path to the input index file NDX"},
		},
		Outputs: []tool.File{
			{Key: "output_ndx_path", Formats: []string{".ndx"}, Required: true, Description: "Path to the output index file NDX"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "selection", Type: tool.String, Default: "a CA C N O", Description: "Atom selection string."},
		),
	}
}

// MakeNdx wraps the GROMACS make_ndx module. The selection is written to the
// interactive prompt followed by the quit command.
type MakeNdx struct {
	block
}

func NewMakeNdx(paths map[string]string, properties map[string]any) (*MakeNdx, error) {
	b, err := newBlock(MakeNdxSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &MakeNdx{block: b}, nil
}

func (m *MakeNdx) Launch(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.close()
	if m.skipRestart() {
		return nil
	}
	if err := m.checkInputs(); err != nil {
		return err
	}
	staged, err := m.stageFiles()
	if err != nil {
		return err
	}

	cmd := m.gmx("make_ndx",
		"-f", staged["input_structure_path"],
		"-o", staged["output_ndx_path"])
	cmd.Stdin = m.props.String("selection") + "\nq\n"
	if m.paths["input_ndx_path"] != "" && fileutils.Exists(m.paths["input_ndx_path"]) {
		cmd.Argv = append(cmd.Argv, "-n", staged["input_ndx_path"])
	}

	if err := m.execute(ctx, cmd); err != nil {
		return err
	}
	return m.finish()
}
