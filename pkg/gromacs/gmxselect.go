package gromacs

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// GmxselectSpec describes the gmxselect building block.
func GmxselectSpec() tool.Spec {
	return tool.Spec{
		Name:        "gmxselect",
		Binary:      "select",
		Description: "Writes an index group from a dynamic selection expression.",
		Inputs: []tool.File{
			{Key: "input_structure_path", Formats: []string{".pdb", ".gro", ".tpr"}, Required: true, Description: "Path to the input structure file"},
			{Key: "input_ndx_path", Formats: []string{".ndx"}, Description: "Path to the input index file NDX"},
		},
		Outputs: []tool.File{
			{Key: "output_ndx_path", Formats: []string{".ndx"}, Required: true, Description: "Path to the output index file NDX"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "selection", Type: tool.String, Default: "a CA C N O", Description: "Atom selection string."},
			tool.Option{Name: "append", Type: tool.Bool, Default: false, Description: "Append the content of the input index file to the output one."},
		),
	}
}

// Gmxselect wraps the GROMACS select module.
type Gmxselect struct {
	block
}

func NewGmxselect(paths map[string]string, properties map[string]any) (*Gmxselect, error) {
	b, err := newBlock(GmxselectSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Gmxselect{block: b}, nil
}

func (g *Gmxselect) Launch(ctx context.Context) error {
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

	cmd := g.gmx("select",
		"-s", staged["input_structure_path"],
		"-on", staged["output_ndx_path"])
	if g.paths["input_ndx_path"] != "" && fileutils.Exists(g.paths["input_ndx_path"]) {
		cmd.Argv = append(cmd.Argv, "-n", staged["input_ndx_path"])
	}
	cmd.Argv = append(cmd.Argv, "-select", g.props.String("selection"))

	if err := g.execute(ctx, cmd); err != nil {
		return err
	}

	if err := g.collect(); err != nil {
		return err
	}
	if g.paths["input_ndx_path"] != "" && g.props.Bool("append") {
		g.log.Info("Appending input index groups to the output",
			zap.String("input", g.paths["input_ndx_path"]),
			zap.String("output", g.paths["output_ndx_path"]))
		if err := appendFile(g.paths["output_ndx_path"], g.paths["input_ndx_path"]); err != nil {
			return err
		}
	}
	return g.finish()
}

// appendFile appends a newline followed by the content of src to dst.
func appendFile(dst, src string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if _, err := out.Write(append([]byte("\n"), content...)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
