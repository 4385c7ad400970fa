package gromacs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// mdpEntry is one `key = value` line of a GROMACS MDP parameter file. Entries
// keep their insertion order so the generated files stay readable and stable.
type mdpEntry struct {
	key   string
	value string
}

// mdpPreset returns the parameter set selected by simulation_type. The index
// preset is an empty file; an empty simulation_type means no preset at all.
func mdpPreset(simulationType string) []mdpEntry {
	switch simulationType {
	case "minimization", "ions":
		return []mdpEntry{
			{"integrator", "steep"},
			{"emtol", "1000.0"},
			{"emstep", "0.01"},
			{"nsteps", "5000"},
			{"nstlist", "10"},
			{"cutoff-scheme", "Verlet"},
			{"coulombtype", "PME"},
			{"rcoulomb", "1.0"},
			{"rvdw", "1.0"},
			{"pbc", "xyz"},
		}
	case "nvt":
		return append(mdPreset(),
			mdpEntry{"define", "-DPOSRES"},
			mdpEntry{"continuation", "no"},
			mdpEntry{"pcoupl", "no"},
			mdpEntry{"gen_vel", "yes"},
			mdpEntry{"gen_temp", "300"},
			mdpEntry{"gen_seed", "-1"},
		)
	case "npt":
		return append(mdPreset(),
			mdpEntry{"define", "-DPOSRES"},
			mdpEntry{"continuation", "yes"},
			mdpEntry{"pcoupl", "Parrinello-Rahman"},
			mdpEntry{"pcoupltype", "isotropic"},
			mdpEntry{"tau_p", "1.0"},
			mdpEntry{"ref_p", "1.0"},
			mdpEntry{"compressibility", "4.5e-5"},
			mdpEntry{"refcoord_scaling", "com"},
			mdpEntry{"gen_vel", "no"},
		)
	case "free":
		return append(mdPreset(),
			mdpEntry{"continuation", "yes"},
			mdpEntry{"pcoupl", "Parrinello-Rahman"},
			mdpEntry{"pcoupltype", "isotropic"},
			mdpEntry{"tau_p", "1.0"},
			mdpEntry{"ref_p", "1.0"},
			mdpEntry{"compressibility", "4.5e-5"},
			mdpEntry{"gen_vel", "no"},
		)
	default:
		return nil
	}
}

// mdPreset holds the parameters common to the molecular dynamics presets.
func mdPreset() []mdpEntry {
	return []mdpEntry{
		{"integrator", "md"},
		{"nsteps", "5000"},
		{"dt", "0.002"},
		{"nstxout", "500"},
		{"nstvout", "500"},
		{"nstenergy", "500"},
		{"nstlog", "500"},
		{"constraint_algorithm", "lincs"},
		{"constraints", "h-bonds"},
		{"lincs_iter", "1"},
		{"lincs_order", "4"},
		{"cutoff-scheme", "Verlet"},
		{"nstlist", "10"},
		{"coulombtype", "PME"},
		{"pme_order", "4"},
		{"fourierspacing", "0.16"},
		{"rcoulomb", "1.0"},
		{"rvdw", "1.0"},
		{"tcoupl", "V-rescale"},
		{"tc-grps", "Protein Non-Protein"},
		{"tau_t", "0.1 0.1"},
		{"ref_t", "300 300"},
		{"DispCorr", "EnerPres"},
		{"pbc", "xyz"},
	}
}

// writeMDP produces the MDP file for one grompp invocation: the preset
// parameters, overlaid by the entries of the optional input MDP file,
// overlaid by the user-supplied mdp properties. First insertion fixes the
// position of a key, later layers only update its value.
func writeMDP(outPath, inPath string, preset []mdpEntry, overrides map[string]string) (string, error) {
	entries := []mdpEntry{}
	position := map[string]int{}
	set := func(key, value string) {
		if i, ok := position[key]; ok {
			entries[i].value = value
			return
		}
		position[key] = len(entries)
		entries = append(entries, mdpEntry{key, value})
	}

	for _, e := range preset {
		set(e.key, e.value)
	}
	if inPath != "" {
		if err := readMDP(inPath, set); err != nil {
			return "", err
		}
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		set(k, overrides[k])
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating mdp file: %w", err)
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "%s = %s\n", e.key, e.value); err != nil {
			out.Close()
			return "", err
		}
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return outPath, nil
}

// readMDP feeds every parameter line of an existing MDP file to set,
// skipping comments and blanks.
func readMDP(path string, set func(key, value string)) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading mdp file: %w", err)
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return scanner.Err()
}
