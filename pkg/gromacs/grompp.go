package gromacs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// GromppSpec describes the grompp building block.
func GromppSpec() tool.Spec {
	return tool.Spec{
		Name:        "grompp",
		Binary:      "grompp",
		Description: "Compiles structure, topology and run parameters into a portable binary run file TPR.",
		Inputs: []tool.File{
			{Key: "input_gro_path", Formats: []string{".gro"}, Required: true, Description: "Path to the input structure GRO file"},
			{Key: "input_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the input TOP and ITP files in zip format"},
			{Key: "input_cpt_path", Formats: []string{".cpt"}, Description: "Path to the input checkpoint file CPT"},
			{Key: "input_ndx_path", Formats: []string{".ndx"}, Description: "Path to the input index file NDX"},
			{Key: "input_mdp_path", Formats: []string{".mdp"}, Description: "Path to the input MDP file"},
		},
		Outputs: []tool.File{
			{Key: "output_tpr_path", Formats: []string{".tpr"}, Required: true, Description: "Path to the output portable binary run file TPR"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "mdp", Type: tool.Dict, Default: map[string]any{}, Description: "MDP options specification."},
			tool.Option{Name: "simulation_type", Type: tool.String, Default: "", Description: "Default options for the mdp file. Values: minimization, nvt, npt, free, ions, index."},
			tool.Option{Name: "maxwarn", Type: tool.Int, Default: 0, Description: "Maximum number of allowed warnings. If simulation_type is set the default is 10."},
			tool.Option{Name: "output_mdp_path", Type: tool.String, Default: "grompp.mdp", Description: "Name of the compiled MDP file."},
			tool.Option{Name: "output_top_path", Type: tool.String, Default: "grompp.top", Description: "Name of the topology file inside the working directory."},
		),
	}
}

// Grompp wraps the GROMACS grompp module, the preprocessor producing TPR
// files. Run parameters come from the simulation_type preset, the optional
// input MDP file and the mdp property dict, merged in that order.
type Grompp struct {
	block
}

func NewGrompp(paths map[string]string, properties map[string]any) (*Grompp, error) {
	b, err := newBlock(GromppSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Grompp{block: b}, nil
}

func (g *Grompp) Launch(ctx context.Context) error {
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
	staged, err := g.stageFiles("input_top_zip_path")
	if err != nil {
		return err
	}

	topDir, err := fileutils.UniqueDir(g.props.String("sandbox_path"))
	if err != nil {
		return err
	}
	g.addTmp(topDir)
	topFile, err := fileutils.UnzipTop(g.paths["input_top_zip_path"], topDir)
	if err != nil {
		return err
	}
	renamed := filepath.Join(topDir, g.props.String("output_top_path"))
	if err := os.Rename(topFile, renamed); err != nil {
		return err
	}
	topFile = renamed

	simulationType := g.props.String("simulation_type")
	maxwarn := g.props.Int("maxwarn")
	if !g.props.Has("maxwarn") && simulationType != "" && simulationType != "index" {
		maxwarn = 10
	}

	mdpDir, err := fileutils.UniqueDir(g.props.String("sandbox_path"))
	if err != nil {
		return err
	}
	g.addTmp(mdpDir)
	mdpFile, err := writeMDP(filepath.Join(mdpDir, g.props.String("output_mdp_path")),
		g.paths["input_mdp_path"], mdpPreset(simulationType), g.props.Dict("mdp"))
	if err != nil {
		return err
	}
	g.log.Info("MDP file created", zap.String("path", mdpFile), zap.String("simulation_type", simulationType))

	mdpArg, err := g.stageExtra(mdpFile)
	if err != nil {
		return err
	}
	topArg, err := g.stageDir(topDir, topFile)
	if err != nil {
		return err
	}

	cmd := g.gmx("grompp",
		"-f", mdpArg,
		"-c", staged["input_gro_path"],
		"-r", staged["input_gro_path"],
		"-p", topArg,
		"-o", staged["output_tpr_path"],
		"-po", "mdout.mdp",
		"-maxwarn", strconv.Itoa(maxwarn))
	if g.paths["input_cpt_path"] != "" && fileutils.Exists(g.paths["input_cpt_path"]) {
		cmd.Argv = append(cmd.Argv, "-t", staged["input_cpt_path"])
	}
	if g.paths["input_ndx_path"] != "" && fileutils.Exists(g.paths["input_ndx_path"]) {
		cmd.Argv = append(cmd.Argv, "-n", staged["input_ndx_path"])
	}
	if err := g.execute(ctx, cmd); err != nil {
		return err
	}
	g.addTmp("mdout.mdp")
	return g.finish()
}
