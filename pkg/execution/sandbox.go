package execution

import (
	"fmt"
	"path"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
)

// Sandbox stages the files of a single invocation into one unique host
// directory so a container runtime can bind-mount a single path.
type Sandbox struct {
	HostDir  string // staging directory on the host
	MountDir string // where HostDir is visible inside the container

	originals map[string]string
}

// Stage creates a unique directory under baseDir, copies every existing file
// in paths into it and returns the path map rewritten to mountDir. Keys with
// an empty path stay empty.
func Stage(baseDir, mountDir string, paths map[string]string) (*Sandbox, map[string]string, error) {
	dir, err := fileutils.UniqueDir(baseDir)
	if err != nil {
		return nil, nil, err
	}
	sb := &Sandbox{HostDir: dir, MountDir: mountDir, originals: make(map[string]string, len(paths))}
	staged := make(map[string]string, len(paths))
	for key, p := range paths {
		sb.originals[key] = p
		if p == "" {
			staged[key] = ""
			continue
		}
		if fileutils.Exists(p) {
			if err := fileutils.CopyFile(p, filepath.Join(dir, filepath.Base(p))); err != nil {
				return nil, nil, fmt.Errorf("staging %s: %w", key, err)
			}
		}
		staged[key] = path.Join(mountDir, filepath.Base(p))
	}
	return sb, staged, nil
}

// Collect copies produced files for the given output keys from the staging
// directory back to their original locations. Files the process never wrote
// are skipped.
func (s *Sandbox) Collect(outputs map[string]string) error {
	var errs error
	for key, dst := range outputs {
		if dst == "" {
			continue
		}
		src := filepath.Join(s.HostDir, filepath.Base(dst))
		if src == dst || !fileutils.Exists(src) {
			continue
		}
		if err := fileutils.CopyFile(src, dst); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("collecting %s: %w", key, err))
		}
	}
	return errs
}
