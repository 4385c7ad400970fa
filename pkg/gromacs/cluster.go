package gromacs

import (
	"context"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

// ClusterSpec describes the cluster building block.
func ClusterSpec() tool.Spec {
	return tool.Spec{
		Name:        "cluster",
		Binary:      "cluster",
		Description: "Clusters structures over a trajectory and writes the central one of each cluster.",
		Inputs: []tool.File{
			{Key: "input_gro_path", Formats: []string{".gro", ".tpr", ".pdb"}, Required: true, Description: "Path to the input structure file"},
			{Key: "input_traj_path", Formats: []string{".xtc", ".trr", ".gro", ".pdb"}, Required: true, Description: "Path to the input trajectory file"},
		},
		Outputs: []tool.File{
			{Key: "output_pdb_path", Formats: []string{".pdb"}, Required: true, Description: "Path to the output cluster file"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "dista", Type: tool.Bool, Default: false, Description: "Use RMSD of distances instead of RMS deviation."},
			tool.Option{Name: "method", Type: tool.String, Default: "linkage", Description: "Method for cluster determination. Values: linkage, jarvis-patrick, monte-carlo, diagonalization, gromos."},
			tool.Option{Name: "cutoff", Type: tool.Float, Default: 0.1, Description: "RMSD cut-off in nm for two structures to be neighbors."},
		),
	}
}

// Cluster wraps the GROMACS cluster module. The two leading index answers
// select the group used for both the least squares fit and the clustering.
type Cluster struct {
	block
}

func NewCluster(paths map[string]string, properties map[string]any) (*Cluster, error) {
	b, err := newBlock(ClusterSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Cluster{block: b}, nil
}

func (c *Cluster) Launch(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.close()
	if c.skipRestart() {
		return nil
	}
	if err := c.checkInputs(); err != nil {
		return err
	}
	staged, err := c.stageFiles()
	if err != nil {
		return err
	}

	cmd := c.gmx("cluster",
		"-s", staged["input_gro_path"],
		"-f", staged["input_traj_path"],
		"-cl", staged["output_pdb_path"],
		"-cutoff", formatFloat(c.props.Float("cutoff")),
		"-method", c.props.String("method"))
	cmd.Stdin = "1 1\n"
	if c.props.Bool("dista") {
		cmd.Argv = append(cmd.Argv, "-dista")
	}

	if err := c.execute(ctx, cmd); err != nil {
		return err
	}
	return c.finish()
}
