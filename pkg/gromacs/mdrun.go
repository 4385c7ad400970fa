package gromacs

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

// MdrunSpec describes the mdrun building block.
func MdrunSpec() tool.Spec {
	return tool.Spec{
		Name:        "mdrun",
		Binary:      "mdrun",
		Description: "Performs molecular dynamics simulations from a portable binary run file TPR.",
		Inputs: []tool.File{
			{Key: "input_tpr_path", Formats: []string{".tpr"}, Required: true, Description: "Path to the portable binary run input file TPR"},
			{Key: "input_cpt_path", Formats: []string{".cpt"}, Description: "Path to the input checkpoint file CPT"},
		},
		Outputs: []tool.File{
			{Key: "output_trr_path", Formats: []string{".trr"}, Required: true, Description: "Path to the output trajectory file TRR"},
			{Key: "output_gro_path", Formats: []string{".gro"}, Required: true, Description: "Path to the output structure GRO file"},
			{Key: "output_edr_path", Formats: []string{".edr"}, Required: true, Description: "Path to the output energy file EDR"},
			{Key: "output_log_path", Formats: []string{".log"}, Required: true, Description: "Path to the output simulation log file"},
			{Key: "output_xtc_path", Formats: []string{".xtc"}, Description: "Path to the compressed trajectory file XTC"},
			{Key: "output_cpt_path", Formats: []string{".cpt"}, Description: "Path to the output checkpoint file CPT"},
			{Key: "output_dhdl_path", Formats: []string{".xvg"}, Description: "Path to the output dH/dl file for free energy runs"},
		},
		Options: withSharedOptions(
			tool.Option{Name: "mpi_bin", Type: tool.String, Default: "", Description: "Path to the MPI runner, usually mpirun or srun."},
			tool.Option{Name: "mpi_np", Type: tool.Int, Default: 0, Description: "Number of MPI processes."},
			tool.Option{Name: "mpi_hostlist", Type: tool.String, Default: "", Description: "Path to the MPI hostlist file."},
			tool.Option{Name: "checkpoint_time", Type: tool.Int, Default: 15, Description: "Checkpoint writing interval in minutes, only used when output_cpt_path is provided."},
			tool.Option{Name: "num_threads", Type: tool.Int, Default: 0, Description: "Total number of threads to start, 0 lets mdrun choose."},
			tool.Option{Name: "num_threads_mpi", Type: tool.Int, Default: 0, Description: "Number of thread-MPI ranks to start."},
			tool.Option{Name: "num_threads_omp", Type: tool.Int, Default: 0, Description: "Number of OpenMP threads per MPI rank."},
			tool.Option{Name: "num_threads_omp_pme", Type: tool.Int, Default: 0, Description: "Number of OpenMP threads per MPI rank on PME ranks."},
			tool.Option{Name: "use_gpu", Type: tool.Bool, Default: false, Description: "Compute non-bonded and PME interactions on the GPU."},
			tool.Option{Name: "gpu_id", Type: tool.String, Default: "", Description: "Unique GPU device IDs available to use."},
			tool.Option{Name: "gpu_tasks", Type: tool.String, Default: "", Description: "GPU device IDs mapping each PP task on each node to a device."},
			tool.Option{Name: "dev", Type: tool.String, Default: "", Description: "Extra development options appended verbatim to the command line."},
		),
	}
}

// Mdrun wraps the GROMACS mdrun module, optionally prefixing the invocation
// with an MPI runner.
type Mdrun struct {
	block
}

func NewMdrun(paths map[string]string, properties map[string]any) (*Mdrun, error) {
	b, err := newBlock(MdrunSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Mdrun{block: b}, nil
}

func (m *Mdrun) Launch(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.close()
	if m.skipRestart() {
		return nil
	}
	if err := m.checkInputs(); err != nil {
		return err
	}
	staged, err := m.stageFiles()
	if err != nil {
		return err
	}

	cmd := m.gmx("mdrun",
		"-s", staged["input_tpr_path"],
		"-o", staged["output_trr_path"],
		"-c", staged["output_gro_path"],
		"-e", staged["output_edr_path"],
		"-g", staged["output_log_path"])
	if staged["input_cpt_path"] != "" {
		cmd.Argv = append(cmd.Argv, "-cpi", staged["input_cpt_path"])
	}
	if staged["output_xtc_path"] != "" {
		cmd.Argv = append(cmd.Argv, "-x", staged["output_xtc_path"])
	}
	if staged["output_cpt_path"] != "" {
		cmd.Argv = append(cmd.Argv, "-cpo", staged["output_cpt_path"])
		if t := m.props.Int("checkpoint_time"); t != 0 {
			cmd.Argv = append(cmd.Argv, "-cpt", strconv.Itoa(t))
		}
	}
	if staged["output_dhdl_path"] != "" {
		cmd.Argv = append(cmd.Argv, "-dhdl", staged["output_dhdl_path"])
	}

	if mpi := m.props.String("mpi_bin"); mpi != "" {
		prefix := []string{mpi}
		if np := m.props.Int("mpi_np"); np != 0 {
			prefix = append(prefix, "-n", strconv.Itoa(np))
		}
		if hostlist := m.props.String("mpi_hostlist"); hostlist != "" {
			prefix = append(prefix, "-hostfile", hostlist)
		}
		cmd.Argv = append(prefix, cmd.Argv...)
	}

	if nt := m.props.Int("num_threads"); nt != 0 {
		m.log.Info("User added number of gmx threads", zap.Int("num_threads", nt))
		cmd.Argv = append(cmd.Argv, "-nt", strconv.Itoa(nt))
	}
	if nt := m.props.Int("num_threads_mpi"); nt != 0 {
		m.log.Info("User added number of gmx mpi threads", zap.Int("num_threads_mpi", nt))
		cmd.Argv = append(cmd.Argv, "-ntmpi", strconv.Itoa(nt))
	}
	if nt := m.props.Int("num_threads_omp"); nt != 0 {
		m.log.Info("User added number of gmx omp threads", zap.Int("num_threads_omp", nt))
		cmd.Argv = append(cmd.Argv, "-ntomp", strconv.Itoa(nt))
	}
	if nt := m.props.Int("num_threads_omp_pme"); nt != 0 {
		m.log.Info("User added number of gmx omp_pme threads", zap.Int("num_threads_omp_pme", nt))
		cmd.Argv = append(cmd.Argv, "-ntomp_pme", strconv.Itoa(nt))
	}
	if m.props.Bool("use_gpu") {
		m.log.Info("Adding GPU specific settings: -nb gpu -pme gpu")
		cmd.Argv = append(cmd.Argv, "-nb", "gpu", "-pme", "gpu")
	}
	if id := m.props.String("gpu_id"); id != "" {
		m.log.Info("GPU device IDs available to use", zap.String("gpu_id", id))
		cmd.Argv = append(cmd.Argv, "-gpu_id", id)
	}
	if tasks := m.props.String("gpu_tasks"); tasks != "" {
		m.log.Info("GPU device IDs mapping each PP task to a device", zap.String("gpu_tasks", tasks))
		cmd.Argv = append(cmd.Argv, "-gputasks", tasks)
	}
	if dev := m.props.String("dev"); dev != "" {
		m.log.Info("Adding development options", zap.String("dev", dev))
		cmd.Argv = append(cmd.Argv, strings.Fields(dev)...)
	}

	if err := m.execute(ctx, cmd); err != nil {
		return err
	}
	return m.finish()
}
