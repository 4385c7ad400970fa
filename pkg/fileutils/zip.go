package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ZipTop bundles a topology into a zipball: the TOP file plus every ITP file
// sitting next to it, stored flat under their base names.
func ZipTop(zipPath, topPath string) error {
	dir := filepath.Dir(topPath)
	itps, err := filepath.Glob(filepath.Join(dir, "*.itp"))
	if err != nil {
		return err
	}
	files := append(itps, topPath)

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", zipPath, err)
	}
	w := zip.NewWriter(out)
	for _, path := range files {
		if err := addZipEntry(w, path); err != nil {
			w.Close()
			out.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func addZipEntry(w *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	entry, err := w.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, in)
	return err
}

// UnzipTop extracts a topology zipball into destDir and returns the path of
// the contained TOP file. Entries are extracted flat; a zipball without a
// TOP member is an error.
func UnzipTop(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", zipPath, err)
	}
	defer r.Close()

	topPath := ""
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(destDir, filepath.Base(f.Name))
		if err := extractZipEntry(f, dest); err != nil {
			return "", err
		}
		if strings.HasSuffix(dest, ".top") && topPath == "" {
			topPath = dest
		}
	}
	if topPath == "" {
		return "", &CheckError{Path: zipPath, Message: "no topology file in zipball"}
	}
	return topPath, nil
}

func extractZipEntry(f *zip.File, dest string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
