package gromacs

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/bioexcel/biobb-md/pkg/execution"
)

// CheckFiles compares two GROMACS files through `gmx check`. Run input files
// are selected with -s1/-s2, every other format with -f/-f2. The files are
// considered equivalent when every comparison line the tool prints starts
// with "comparing".
func CheckFiles(ctx context.Context, runner execution.Runner, gmxPath, fileA, fileB string) (bool, error) {
	if runner == nil {
		runner = execution.NewHostRunner()
	}
	if gmxPath == "" {
		gmxPath = "gmx"
	}
	argv := []string{gmxPath, "check"}
	if strings.HasSuffix(fileA, ".tpr") {
		argv = append(argv, "-s1", fileA)
	} else {
		argv = append(argv, "-f", fileA)
	}
	if strings.HasSuffix(fileB, ".tpr") {
		argv = append(argv, "-s2", fileB)
	} else {
		argv = append(argv, "-f2", fileB)
	}

	res := runner.Run(ctx, execution.Command{Argv: argv})
	if res.Err != nil && res.ExitCode <= 0 {
		return false, &execution.StartError{Cmd: strings.Join(argv, " "), Err: res.Err}
	}
	scanner := bufio.NewScanner(strings.NewReader(res.Stdout))
	for scanner.Scan() {
		if !strings.HasPrefix(scanner.Text(), "comparing") {
			return false, nil
		}
	}
	return true, nil
}

// RMSBelow computes the RMSD between two trajectories against a reference
// TPR through `gmx rms` and reports whether every time step stays within the
// tolerance, in nm.
func RMSBelow(ctx context.Context, runner execution.Runner, gmxPath, fileA, fileB, tprPath string, tolerance float64) (bool, error) {
	if runner == nil {
		runner = execution.NewHostRunner()
	}
	if gmxPath == "" {
		gmxPath = "gmx"
	}
	out, err := os.CreateTemp("", "rmsd-*.xvg")
	if err != nil {
		return false, err
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	argv := []string{gmxPath, "rms", "-s", tprPath, "-f", fileA, "-f2", fileB, "-xvg", "none", "-o", outPath}
	res := runner.Run(ctx, execution.Command{Argv: argv, Stdin: "Protein Protein\n"})
	if res.Err != nil && res.ExitCode <= 0 {
		return false, &execution.StartError{Cmd: strings.Join(argv, " "), Err: res.Err}
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return false, err
	}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		rmsd, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, err
		}
		if rmsd > tolerance {
			return false, nil
		}
	}
	return true, nil
}
