package gromacsextra_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	. "github.com/bioexcel/biobb-md/pkg/gromacsextra"
)

const fixtureTop = `; test topology
#include "amber99sb-ildn.ff/forcefield.itp"

#include "protein_chain_A.itp"

[ system ]
Protein

[ molecules ]
; Compound        #mols
Protein_chain_A     1
SOL              1000
`

const fixtureChainITP = `[ moleculetype ]
; Name            nrexcl
Protein_chain_A   3
`

const fixtureLigandITP = `; ligand topology
[ moleculetype ]
; Name            nrexcl
JZ4               3

[ atoms ]
1  CA  1  JZ4  C1  1  0.0  12.011
`

func TestAppendLigand_Launch_InsertsIncludeAndMolecule(t *testing.T) {
	zipPath := makeTopZip(t, map[string]string{
		"system.top":          fixtureTop,
		"protein_chain_A.itp": fixtureChainITP,
	}, "system.top")
	dir := t.TempDir()
	itp := writeFile(t, filepath.Join(dir, "pep.itp"), fixtureLigandITP)
	out := filepath.Join(dir, "new_topology.zip")

	block, err := NewAppendLigand(map[string]string{
		"input_top_zip_path":  zipPath,
		"input_itp_path":      itp,
		"output_top_zip_path": out,
	}, extraProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	outDir, topPath := unzipOutput(t, out)
	if got := filepath.Base(topPath); got != "ligand.top" {
		t.Errorf("expected the rebuilt topology to be named ligand.top, got %q", got)
	}
	content, err := os.ReadFile(topPath)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	top := string(content)

	include := "\n; Including ligand ITP\n#include \"pep.itp\"\n\n"
	forcefieldAt := strings.Index(top, "forcefield.itp")
	includeAt := strings.Index(top, include)
	chainAt := strings.Index(top, "#include \"protein_chain_A.itp\"")
	if includeAt < 0 {
		t.Fatalf("expected the ligand include block in the topology, got:\n%s", top)
	}
	if !(forcefieldAt < includeAt && includeAt < chainAt) {
		t.Errorf("expected the ligand include right after the force field include, got:\n%s", top)
	}

	entry := "\nJZ4                 1\n"
	entryAt := strings.Index(top, entry)
	proteinAt := strings.Index(top, "Protein_chain_A     1")
	solAt := strings.Index(top, "SOL              1000")
	if entryAt < 0 {
		t.Fatalf("expected the padded molecule entry in the topology, got:\n%s", top)
	}
	if !(proteinAt < entryAt && entryAt < solAt) {
		t.Errorf("expected the molecule entry after the last protein entry, got:\n%s", top)
	}

	if !fileutils.Exists(filepath.Join(outDir, "pep.itp")) {
		t.Error("expected the ligand ITP to travel inside the zipball")
	}
}

func TestAppendLigand_PositionRestraintsBlock(t *testing.T) {
	zipPath := makeTopZip(t, map[string]string{
		"system.top":          fixtureTop,
		"protein_chain_A.itp": fixtureChainITP,
	}, "system.top")
	dir := t.TempDir()
	out := filepath.Join(dir, "new_topology.zip")

	block, err := NewAppendLigand(map[string]string{
		"input_top_zip_path":    zipPath,
		"input_itp_path":        writeFile(t, filepath.Join(dir, "pep.itp"), fixtureLigandITP),
		"input_posres_itp_path": writeFile(t, filepath.Join(dir, "posre_pep.itp"), "[ position_restraints ]\n"),
		"output_top_zip_path":   out,
	}, extraProps(t, map[string]any{"posres_name": "POSRES_JZ4"}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	if err := block.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected launch error: %v", err)
	}

	outDir, topPath := unzipOutput(t, out)
	content, err := os.ReadFile(topPath)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}

	ifdef := "; Ligand position restraints\n#ifdef POSRES_JZ4\n#include \"posre_pep.itp\"\n#endif\n"
	if !strings.Contains(string(content), ifdef) {
		t.Errorf("expected the posres ifdef block in the topology, got:\n%s", content)
	}
	if !fileutils.Exists(filepath.Join(outDir, "posre_pep.itp")) {
		t.Error("expected the posres ITP to travel inside the zipball")
	}
}

func TestAppendLigand_EmptyTopologyFails(t *testing.T) {
	zipPath := makeTopZip(t, map[string]string{"system.top": ""}, "system.top")
	dir := t.TempDir()

	block, err := NewAppendLigand(map[string]string{
		"input_top_zip_path":  zipPath,
		"input_itp_path":      writeFile(t, filepath.Join(dir, "pep.itp"), fixtureLigandITP),
		"output_top_zip_path": filepath.Join(dir, "new_topology.zip"),
	}, extraProps(t, nil))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	err = block.Launch(context.Background())
	var checkErr *fileutils.CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("expected a check error for an empty topology, got %v", err)
	}
}
