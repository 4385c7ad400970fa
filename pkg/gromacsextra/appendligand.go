package gromacsextra

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// AppendLigandSpec describes the append_ligand building block.
func AppendLigandSpec() tool.Spec {
	return tool.Spec{
		Name:        "append_ligand",
		Description: "Inserts a ligand ITP file into a GROMACS topology.",
		Inputs: []tool.File{
			{Key: "input_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the input topology TOP and ITP files zipball"},
			{Key: "input_itp_path", Formats: []string{".itp"}, Required: true, Description: "Path to the ligand ITP file to be inserted in the topology"},
			{Key: "input_posres_itp_path", Formats: []string{".itp"}, Description: "Path to the position restriction ITP file"},
		},
		Outputs: []tool.File{
			{Key: "output_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the output topology TOP and ITP files zipball"},
		},
		Options: append([]tool.Option{
			{Name: "posres_name", Type: tool.String, Default: "POSRES_LIGAND", Description: "String to be included in the ifdef clause."},
		}, tool.CommonOptions()...),
	}
}

// AppendLigand inserts a ligand ITP include and its molecule entry into an
// existing topology.
type AppendLigand struct {
	block
}

func NewAppendLigand(paths map[string]string, properties map[string]any) (*AppendLigand, error) {
	b, err := newBlock(AppendLigandSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &AppendLigand{block: b}, nil
}

var forcefieldInclude = regexp.MustCompile(`#include.*forcefield\.itp"`)

func (a *AppendLigand) Launch(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.close()
	if a.skipRestart() {
		return nil
	}
	if err := a.checkInputs(); err != nil {
		return err
	}

	topDir, err := fileutils.UniqueDir(a.props.String("sandbox_path"))
	if err != nil {
		return err
	}
	a.addTmp(topDir)
	topFile, err := fileutils.UnzipTop(a.paths["input_top_zip_path"], topDir)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(topFile)
	if err != nil {
		return err
	}
	if err := os.Remove(topFile); err != nil {
		return err
	}
	lines := strings.SplitAfter(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return &fileutils.CheckError{Path: topFile, Message: "topology file is empty"}
	}

	itpName := filepath.Base(a.paths["input_itp_path"])
	insert := []string{
		"\n",
		"; Including ligand ITP\n",
		"#include \"" + itpName + "\"\n",
		"\n",
	}
	if a.paths["input_posres_itp_path"] != "" {
		insert = append(insert,
			"; Ligand position restraints\n",
			"#ifdef "+a.props.String("posres_name")+"\n",
			"#include \""+filepath.Base(a.paths["input_posres_itp_path"])+"\"\n",
			"#endif\n",
			"\n")
	}
	// The include block lands right after the force field include, or at the
	// end of the file when the topology carries none.
	at := len(lines)
	for i, line := range lines {
		if forcefieldInclude.MatchString(line) {
			at = i + 1
			break
		}
	}
	lines = append(lines[:at:at], append(insert, lines[at:]...)...)

	moleculetype, err := readMoleculetype(a.paths["input_itp_path"])
	if err != nil {
		return err
	}
	a.log.Info("Appending molecule entry", zap.String("moleculetype", moleculetype))
	entry := moleculetype + strings.Repeat(" ", max(20-len(moleculetype), 0)) + "1\n"

	// The new molecule goes after the last protein entry of the molecules
	// section so solvent and ion counts stay at the bottom.
	inMolecules := false
	lastProtein := -1
	for i, line := range lines {
		if strings.Contains(line, "[ molecules ]") {
			inMolecules = true
			continue
		}
		if inMolecules && !strings.HasPrefix(line, ";") && strings.HasPrefix(strings.ToUpper(line), "PROTEIN") {
			lastProtein = i
		}
	}
	if lastProtein >= 0 {
		at = lastProtein + 1
		lines = append(lines[:at:at], append([]string{entry}, lines[at:]...)...)
	} else {
		lines = append(lines, entry)
	}

	newTop := fileutils.CreateName(topDir, a.props.String("prefix"), a.props.String("step"), "ligand.top")
	if err := os.WriteFile(newTop, []byte(strings.Join(lines, "")), 0o644); err != nil {
		return err
	}

	if err := fileutils.CopyFile(a.paths["input_itp_path"], filepath.Join(topDir, itpName)); err != nil {
		return err
	}
	if posres := a.paths["input_posres_itp_path"]; posres != "" {
		if err := fileutils.CopyFile(posres, filepath.Join(topDir, filepath.Base(posres))); err != nil {
			return err
		}
	}

	a.log.Info("Compressing topology", zap.String("path", a.paths["output_top_zip_path"]))
	if err := fileutils.ZipTop(a.paths["output_top_zip_path"], newTop); err != nil {
		return err
	}
	return a.finish()
}

// readMoleculetype returns the molecule name declared by the moleculetype
// section of an ITP file.
func readMoleculetype(itpPath string) (string, error) {
	content, err := os.ReadFile(itpPath)
	if err != nil {
		return "", err
	}
	inSection := false
	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, "[ moleculetype ]") {
			inSection = true
			continue
		}
		if !inSection || strings.HasPrefix(line, ";") {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields[0], nil
		}
	}
	return "", &fileutils.CheckError{Path: itpPath, Message: "no moleculetype section found"}
}
