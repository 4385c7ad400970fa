package gromacs

import (
	"context"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// Pdb2gmxSpec describes the pdb2gmx building block.
func Pdb2gmxSpec() tool.Spec {
	return tool.Spec{
		Name:        "pdb2gmx",
		Binary:      "pdb2gmx",
		Description: "Builds a GROMACS topology from a PDB structure.",
		Inputs: []tool.File{
			{Key: "input_pdb_path", Formats: []string{".pdb"}, Required: true, Description: "Path to the input PDB file"},
		},
		Outputs: []tool.File{
			{Key: "output_gro_path", Formats: []string{".gro"}, Required: true, Description: "Path to the output GRO file"},
			{Key: "output_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the output TOP and ITP files zipball"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "output_top_path", Type: tool.String, Default: "p2g.top", Description: "Name of the produced TOP file."},
			tool.Option{Name: "output_itp_path", Type: tool.String, Default: "p2g.itp", Description: "Name of the produced ITP file."},
			tool.Option{Name: "water_type", Type: tool.String, Default: "spce", Description: "Water molecule type."},
			tool.Option{Name: "force_field", Type: tool.String, Default: "amber99sb-ildn", Description: "Force field to be used during the conversion."},
			tool.Option{Name: "ignh", Type: tool.Bool, Default: false, Description: "Ignore the hydrogens in the input structure."},
		),
	}
}

// Pdb2gmx wraps the GROMACS pdb2gmx module.
type Pdb2gmx struct {
	block
}

func NewPdb2gmx(paths map[string]string, properties map[string]any) (*Pdb2gmx, error) {
	b, err := newBlock(Pdb2gmxSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Pdb2gmx{block: b}, nil
}

// Launch runs pdb2gmx and bundles the produced topology into the output
// zipball.
func (p *Pdb2gmx) Launch(ctx context.Context) error {
	if err := p.begin(); err != nil {
		return err
	}
	defer p.close()
	if p.skipRestart() {
		return nil
	}
	if err := p.checkInputs(); err != nil {
		return err
	}
	staged, err := p.stageFiles()
	if err != nil {
		return err
	}

	topName := fileutils.CreateName("", p.props.String("prefix"), p.props.String("step"), p.props.String("output_top_path"))
	itpName := fileutils.CreateName("", p.props.String("prefix"), p.props.String("step"), p.props.String("output_itp_path"))
	topArg, topHost := p.hostName(topName)
	itpArg, itpHost := p.hostName(itpName)

	cmd := p.gmx("pdb2gmx",
		"-f", staged["input_pdb_path"],
		"-o", staged["output_gro_path"],
		"-p", topArg,
		"-water", p.props.String("water_type"),
		"-ff", p.props.String("force_field"),
		"-i", itpArg)
	if p.props.Bool("ignh") {
		cmd.Argv = append(cmd.Argv, "-ignh")
	}
	if err := p.execute(ctx, cmd); err != nil {
		return err
	}

	p.log.Info("Compressing topology", zap.String("path", p.paths["output_top_zip_path"]))
	if err := fileutils.ZipTop(p.paths["output_top_zip_path"], topHost); err != nil {
		return err
	}
	p.addTmp(topHost, itpHost)
	return p.finish()
}
