// Package gromacsextra implements the in-house topology editing blocks that
// complement the GROMACS wrappers. No external binary is involved: each block
// unzips a topology, rewrites its files in place and zips the result back.
package gromacsextra

import (
	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/config"
	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/logger"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// block carries the state shared by the topology editing blocks during one
// launch: the resolved properties, the declared paths and the step logger.
type block struct {
	spec  tool.Spec
	props config.Properties
	paths map[string]string

	log *logger.StepLogger
	tmp []string
}

func newBlock(spec tool.Spec, paths map[string]string, properties map[string]any) (block, error) {
	props, err := config.Resolve(spec, properties)
	if err != nil {
		return block{}, err
	}
	resolved, err := config.ResolvePaths(spec, paths)
	if err != nil {
		return block{}, err
	}
	return block{spec: spec, props: props, paths: resolved}, nil
}

func (b *block) begin() error {
	log, err := logger.New(logger.Config{
		Path:    b.props.String("path"),
		Prefix:  b.props.String("prefix"),
		Step:    b.props.String("step"),
		Console: b.props.Bool("can_write_console_log"),
	})
	if err != nil {
		return err
	}
	b.log = log
	return nil
}

func (b *block) close() {
	if b.log != nil {
		b.log.Sync()
	}
}

func (b *block) skipRestart() bool {
	if !b.props.Bool("restart") {
		return false
	}
	outputs := make([]string, 0, len(b.spec.Outputs))
	for _, f := range b.spec.Outputs {
		outputs = append(outputs, b.paths[f.Key])
	}
	if !fileutils.AllNonEmpty(outputs...) {
		return false
	}
	b.log.Info("Skipping execution, output files already exist", zap.String("tool", b.spec.Name))
	return true
}

func (b *block) checkInputs() error {
	for _, f := range b.spec.Inputs {
		if !f.Required {
			continue
		}
		if !fileutils.Exists(b.paths[f.Key]) {
			return &fileutils.CheckError{Path: b.paths[f.Key], Message: "input " + f.Key + " not found"}
		}
	}
	return nil
}

func (b *block) addTmp(paths ...string) {
	b.tmp = append(b.tmp, paths...)
}

// finish removes the temporal files and verifies every declared output
// exists.
func (b *block) finish() error {
	if b.props.Bool("remove_tmp") {
		if removed := fileutils.RemoveAll(b.tmp...); len(removed) > 0 {
			b.log.Info("Removed temporal files", zap.Strings("paths", removed))
		}
	}
	keys := make([]string, 0, len(b.spec.Outputs))
	for _, f := range b.spec.Outputs {
		keys = append(keys, f.Key)
	}
	return fileutils.CheckOutputs(keys, b.paths)
}

// Specs returns the descriptors of every block in this package, in a stable
// order.
func Specs() []tool.Spec {
	return []tool.Spec{
		AppendLigandSpec(),
		Ndx2resttopSpec(),
	}
}
