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

// GenionSpec describes the genion building block.
func GenionSpec() tool.Spec {
	return tool.Spec{
		Name:        "genion",
		Binary:      "genion",
		Description: "Replaces solvent molecules with monoatomic ions.",
		Inputs: []tool.File{
			{Key: "input_tpr_path", Formats: []string{".tpr"}, Required: true, Description: "Path to the input portable run input file TPR"},
			{Key: "input_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the input TOP topology in zip format"},
			{Key: "input_ndx_path", Formats: []string{".ndx"}, Description: "Path to the input index file NDX"},
		},
		Outputs: []tool.File{
			{Key: "output_gro_path", Formats: []string{".gro"}, Required: true, Description: "Path to the output structure GRO file"},
			{Key: "output_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the output topology in zip format"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "output_top_path", Type: tool.String, Default: "gio.top", Description: "Name of the topology file inside the output zipball."},
			tool.Option{Name: "replaced_group", Type: tool.String, Default: "SOL", Description: "Group of molecules that will be replaced by the solvent."},
			tool.Option{Name: "neutral", Type: tool.Bool, Default: false, Description: "Neutralize the charge of the system."},
			tool.Option{Name: "concentration", Type: tool.Float, Default: 0.05, Description: "Concentration of the ions in mol/liter."},
			tool.Option{Name: "seed", Type: tool.Int, Default: 1993, Description: "Seed for random number generator."},
		),
	}
}

// Genion wraps the GROMACS genion module. The group whose molecules are
// replaced is selected through the standard input of the tool.
type Genion struct {
	block
}

func NewGenion(paths map[string]string, properties map[string]any) (*Genion, error) {
	b, err := newBlock(GenionSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Genion{block: b}, nil
}

func (g *Genion) Launch(ctx context.Context) error {
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
	topArg, err := g.stageDir(topDir, topFile)
	if err != nil {
		return err
	}

	cmd := g.gmx("genion",
		"-s", staged["input_tpr_path"],
		"-o", staged["output_gro_path"],
		"-p", topArg)
	cmd.Stdin = g.props.String("replaced_group") + "\n"
	if g.paths["input_ndx_path"] != "" && fileutils.Exists(g.paths["input_ndx_path"]) {
		cmd.Argv = append(cmd.Argv, "-n", staged["input_ndx_path"])
	}
	if g.props.Bool("neutral") {
		cmd.Argv = append(cmd.Argv, "-neutral")
	}
	if c := g.props.Float("concentration"); c != 0 {
		g.log.Info("Concentration of ions to reach", zap.Float64("mol_per_litre", c))
		cmd.Argv = append(cmd.Argv, "-conc", formatFloat(c))
	}
	cmd.Argv = append(cmd.Argv, "-seed", strconv.Itoa(g.props.Int("seed")))

	if err := g.execute(ctx, cmd); err != nil {
		return err
	}

	g.log.Info("Compressing topology", zap.String("path", g.paths["output_top_zip_path"]))
	if err := fileutils.ZipTop(g.paths["output_top_zip_path"], g.hostDir(topDir, topFile)); err != nil {
		return err
	}
	return g.finish()
}
