// Package fileutils provides the filesystem helpers shared by the building
// blocks: unique working directories, step-scoped file names, output
// existence checks and removal of temporal files.
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// CheckError reports a declared file that is absent or unusable.
type CheckError struct {
	Path    string
	Message string
}

func (e *CheckError) Error() string {
	return e.Path + ": " + e.Message
}

// UniqueDir creates a fresh directory with a unique name under parent and
// returns its path. An empty parent means the working directory.
func UniqueDir(parent string) (string, error) {
	if parent == "" {
		parent = "."
	}
	dir := filepath.Join(parent, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating unique dir: %w", err)
	}
	return dir, nil
}

// CreateName builds a file name scoped by the optional prefix and step,
// joined under path when given.
func CreateName(path, prefix, step, name string) string {
	if name == "" {
		name = "default"
	}
	if step != "" {
		name = step + "_" + name
	}
	if prefix != "" {
		name = prefix + "_" + name
	}
	if path != "" {
		name = filepath.Join(path, name)
	}
	return name
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// NotEmpty reports whether path names an existing file with content.
func NotEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// AllNonEmpty reports whether every non-blank path names a non-empty file.
// Blank entries are skipped, so optional outputs that were never requested
// do not defeat the check.
func AllNonEmpty(paths ...string) bool {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if !NotEmpty(p) {
			return false
		}
	}
	return true
}

// CheckOutputs verifies that every named output file exists, collecting one
// CheckError per missing file. Keys are reported in the given order.
func CheckOutputs(keys []string, paths map[string]string) error {
	var err error
	for _, key := range keys {
		path := paths[key]
		if path == "" {
			continue
		}
		if !Exists(path) {
			err = multierr.Append(err, &CheckError{Path: path, Message: "output " + key + " was not produced"})
		}
	}
	return err
}

// CopyFile copies src to dst, preserving the source permissions.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CopyTree recursively copies the directory src into dst/<base of src>.
func CopyTree(src, dst string) (string, error) {
	target := filepath.Join(dst, filepath.Base(src))
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(target, rel)
		if info.IsDir() {
			return os.MkdirAll(dest, info.Mode().Perm())
		}
		return CopyFile(path, dest)
	})
	if err != nil {
		return "", fmt.Errorf("copying %s: %w", src, err)
	}
	return target, nil
}

// RemoveAll deletes the given files or directories, returning the paths that
// were actually removed. Blank entries and already-missing paths are ignored.
func RemoveAll(paths ...string) []string {
	var removed []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := os.RemoveAll(p); err == nil {
			removed = append(removed, p)
		}
	}
	return removed
}
