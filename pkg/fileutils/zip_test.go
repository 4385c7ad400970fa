package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	. "github.com/bioexcel/biobb-md/pkg/fileutils"
)

func TestZipTop_BundlesTopologyWithIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "topology.top"), "#include \"posre.itp\"\n")
	writeFile(t, filepath.Join(dir, "posre.itp"), "[ position_restraints ]\n")
	writeFile(t, filepath.Join(dir, "ligand.itp"), "[ moleculetype ]\n")
	writeFile(t, filepath.Join(dir, "conf.gro"), "not part of the topology\n")

	zipPath := filepath.Join(t.TempDir(), "topology.zip")
	if err := ZipTop(zipPath, filepath.Join(dir, "topology.top")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, expected := range []string{"topology.top", "posre.itp", "ligand.itp"} {
		if !names[expected] {
			t.Errorf("expected '%s' in zipball, got %v", expected, names)
		}
	}
	if names["conf.gro"] {
		t.Error("expected structure file to be excluded from zipball")
	}
}

func TestUnzipTop_ReturnsContainedTopology(t *testing.T) {
	srcDir := t.TempDir()
	writeFile(t, filepath.Join(srcDir, "topology.top"), "[ system ]\n")
	writeFile(t, filepath.Join(srcDir, "posre.itp"), "[ position_restraints ]\n")
	zipPath := filepath.Join(t.TempDir(), "topology.zip")
	if err := ZipTop(zipPath, filepath.Join(srcDir, "topology.top")); err != nil {
		t.Fatal(err)
	}

	destDir := t.TempDir()
	topPath, err := UnzipTop(zipPath, destDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if topPath != filepath.Join(destDir, "topology.top") {
		t.Errorf("expected extracted topology path, got '%s'", topPath)
	}
	if !Exists(filepath.Join(destDir, "posre.itp")) {
		t.Error("expected include file to be extracted alongside")
	}
}

func TestUnzipTop_RejectsZipballWithoutTopology(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "broken.zip")
	out, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(out)
	entry, err := w.Create("posre.itp")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte("[ position_restraints ]\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := UnzipTop(zipPath, t.TempDir()); err == nil {
		t.Error("expected zipball without topology to be rejected")
	}
}
