package gromacs

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// SolvateSpec describes the solvate building block.
func SolvateSpec() tool.Spec {
	return tool.Spec{
		Name:        "solvate",
		Binary:      "solvate",
		Description: "Fills the simulation box with solvent molecules.",
		Inputs: []tool.File{
			{Key: "input_solute_gro_path", Formats: []string{".gro"}, Required: true, Description: "Path to the input GRO file"},
			{Key: "input_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the input TOP topology in zip format"},
		},
		Outputs: []tool.File{
			{Key: "output_gro_path", Formats: []string{".gro"}, Required: true, Description: "Path to the output GRO file"},
			{Key: "output_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the output topology in zip format"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "output_top_path", Type: tool.String, Default: "solvate.top", Description: "Name of the topology file inside the output zipball."},
			tool.Option{Name: "input_solvent_gro_path", Type: tool.String, Default: "spc216.gro", Description: "GRO file with the structure of the solvent."},
		),
	}
}

// Solvate wraps the GROMACS solvate module.
type Solvate struct {
	block
}

func NewSolvate(paths map[string]string, properties map[string]any) (*Solvate, error) {
	b, err := newBlock(SolvateSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Solvate{block: b}, nil
}

// Launch unzips the topology, runs solvate against it and re-zips the
// updated topology.
func (s *Solvate) Launch(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.close()
	if s.skipRestart() {
		return nil
	}
	if err := s.checkInputs(); err != nil {
		return err
	}

	topDir, err := fileutils.UniqueDir(s.props.String("sandbox_path"))
	if err != nil {
		return err
	}
	s.addTmp(topDir)
	topFile, err := fileutils.UnzipTop(s.paths["input_top_zip_path"], topDir)
	if err != nil {
		return err
	}
	renamed := filepath.Join(topDir, s.props.String("output_top_path"))
	if err := os.Rename(topFile, renamed); err != nil {
		return err
	}
	topFile = renamed

	staged, err := s.stageFiles("input_top_zip_path")
	if err != nil {
		return err
	}
	topArg, err := s.stageDir(topDir, topFile)
	if err != nil {
		return err
	}

	cmd := s.gmx("solvate",
		"-cp", staged["input_solute_gro_path"],
		"-cs", s.props.String("input_solvent_gro_path"),
		"-o", staged["output_gro_path"],
		"-p", topArg)
	if err := s.execute(ctx, cmd); err != nil {
		return err
	}

	s.log.Info("Compressing topology", zap.String("path", s.paths["output_top_zip_path"]))
	if err := fileutils.ZipTop(s.paths["output_top_zip_path"], s.hostDir(topDir, topFile)); err != nil {
		return err
	}
	return s.finish()
}
