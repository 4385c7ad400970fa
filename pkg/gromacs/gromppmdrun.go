package gromacs

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// GromppMdrunSpec describes the combined grompp and mdrun building block.
// Inputs come from grompp, outputs from mdrun and the options are the union
// of both; the TPR connecting them is an internal file.
func GromppMdrunSpec() tool.Spec {
	grompp, mdrun := GromppSpec(), MdrunSpec()
	spec := tool.Spec{
		Name:        "grompp_mdrun",
		Description: "Chains the grompp preprocessor and the mdrun simulation over an internal TPR file.",
		Inputs:      append([]tool.File{}, grompp.Inputs...),
		Outputs:     append([]tool.File{}, mdrun.Outputs...),
	}
	for _, f := range mdrun.Inputs {
		if f.Key == "input_tpr_path" {
			continue
		}
		if _, ok := spec.FindFile(f.Key); !ok {
			spec.Inputs = append(spec.Inputs, f)
		}
	}
	for _, o := range append(append([]tool.Option{}, grompp.Options...), mdrun.Options...) {
		if _, ok := spec.FindOption(o.Name); !ok {
			spec.Options = append(spec.Options, o)
		}
	}
	return spec
}

// GromppMdrun runs grompp and mdrun back to back. Properties are routed to
// the sub-block that declares them; a grompp failure aborts before mdrun.
type GromppMdrun struct {
	block
	raw map[string]any
}

func NewGromppMdrun(paths map[string]string, properties map[string]any) (*GromppMdrun, error) {
	b, err := newBlock(GromppMdrunSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &GromppMdrun{block: b, raw: properties}, nil
}

func (g *GromppMdrun) Launch(ctx context.Context) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.close()

	tprDir, err := fileutils.UniqueDir(g.props.String("sandbox_path"))
	if err != nil {
		return err
	}
	tprPath := filepath.Join(tprDir, "internal.tpr")

	g.log.Info("Calling the grompp block")
	grompp, err := NewGrompp(g.routePaths(GromppSpec(), map[string]string{"output_tpr_path": tprPath}),
		routeProperties(g.raw, GromppSpec()))
	if err != nil {
		return err
	}
	grompp.Runner = g.Runner
	if err := grompp.Launch(ctx); err != nil {
		g.log.Error("The grompp block failed", zap.Error(err))
		return err
	}

	g.log.Info("Grompp succeeded, calling the mdrun block")
	mdrun, err := NewMdrun(g.routePaths(MdrunSpec(), map[string]string{"input_tpr_path": tprPath}),
		routeProperties(g.raw, MdrunSpec()))
	if err != nil {
		return err
	}
	mdrun.Runner = g.Runner
	runErr := mdrun.Launch(ctx)

	if g.props.Bool("remove_tmp") {
		if removed := fileutils.RemoveAll(tprDir); len(removed) > 0 {
			g.log.Info("Removed temporal files", zap.Strings("paths", removed))
		}
	}
	return runErr
}

// routePaths selects the declared paths a sub-block knows about and merges in
// the internal ones.
func (g *GromppMdrun) routePaths(spec tool.Spec, internal map[string]string) map[string]string {
	out := make(map[string]string, len(g.paths)+len(internal))
	for k, v := range g.paths {
		if _, ok := spec.FindFile(k); ok {
			out[k] = v
		}
	}
	for k, v := range internal {
		out[k] = v
	}
	return out
}

// routeProperties keeps the user-supplied properties a sub-block declares,
// silently dropping the ones belonging to the other sub-block.
func routeProperties(raw map[string]any, spec tool.Spec) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, ok := spec.FindOption(k); ok {
			out[k] = v
		}
	}
	return out
}
