package gromacsextra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bioexcel/biobb-md/pkg/config"
	"github.com/bioexcel/biobb-md/pkg/fileutils"
	"github.com/bioexcel/biobb-md/pkg/tool"
)

// Ndx2resttopSpec describes the ndx2resttop building block.
func Ndx2resttopSpec() tool.Spec {
	return tool.Spec{
		Name:        "ndx2resttop",
		Description: "Generates a restrained topology from an index NDX file.",
		Inputs: []tool.File{
			{Key: "input_ndx_path", Formats: []string{".ndx"}, Required: true, Description: "Path to the input NDX index file"},
			{Key: "input_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the input TOP topology in zip format"},
		},
		Outputs: []tool.File{
			{Key: "output_top_zip_path", Formats: []string{".zip"}, Required: true, Description: "Path to the output TOP topology in zip format"},
		},
		Options: append([]tool.Option{
			{Name: "force_constants", Type: tool.String, Default: "500 500 500", Description: "Array of three floats defining the force constants."},
			{Name: "ref_rest_chain_triplet_list", Type: tool.String, Default: "", Description: "Triplet list composed by (reference group, restrain group, chain) list."},
		}, tool.CommonOptions()...),
	}
}

// Ndx2resttop writes one position restraints ITP per triplet and includes it
// in the matching chain ITP of the topology.
type Ndx2resttop struct {
	block
}

func NewNdx2resttop(paths map[string]string, properties map[string]any) (*Ndx2resttop, error) {
	b, err := newBlock(Ndx2resttopSpec(), paths, properties)
	if err != nil {
		return nil, err
	}
	return &Ndx2resttop{block: b}, nil
}

func (n *Ndx2resttop) Launch(ctx context.Context) error {
	if err := n.begin(); err != nil {
		return err
	}
	defer n.close()
	if n.skipRestart() {
		return nil
	}
	if err := n.checkInputs(); err != nil {
		return err
	}
	triplets, err := parseTriplets(n.props.String("ref_rest_chain_triplet_list"))
	if err != nil {
		return err
	}

	topDir, err := fileutils.UniqueDir(n.props.String("sandbox_path"))
	if err != nil {
		return err
	}
	n.addTmp(topDir)
	topFile, err := fileutils.UnzipTop(n.paths["input_top_zip_path"], topDir)
	if err != nil {
		return err
	}

	groups, err := readIndexGroups(n.paths["input_ndx_path"])
	if err != nil {
		return err
	}

	for _, triplet := range triplets {
		reference, restrain, chain := triplet[0], triplet[1], triplet[2]
		n.log.Info("Restraining group",
			zap.String("reference", reference),
			zap.String("restrain", restrain),
			zap.String("chain", chain))

		referenceAtoms, ok := groups[reference]
		if !ok {
			return &fileutils.CheckError{Path: n.paths["input_ndx_path"], Message: "group " + reference + " not found"}
		}
		restrainAtoms, ok := groups[restrain]
		if !ok {
			return &fileutils.CheckError{Path: n.paths["input_ndx_path"], Message: "group " + restrain + " not found"}
		}

		// Atoms are mapped from the absolute enumeration of the index file
		// to the enumeration relative to the reference group.
		positions := make(map[int]int, len(referenceAtoms))
		for i, atom := range referenceAtoms {
			if _, seen := positions[atom]; !seen {
				positions[atom] = i + 1
			}
		}
		itpPath := fileutils.CreateName(topDir, n.props.String("prefix"), n.props.String("step"), restrain+".itp")
		var itp strings.Builder
		itp.WriteString("[ position_restraints ]\n")
		itp.WriteString("; atom  type      fx      fy      fz\n")
		for _, atom := range restrainAtoms {
			position, ok := positions[atom]
			if !ok {
				return &fileutils.CheckError{
					Path:    n.paths["input_ndx_path"],
					Message: fmt.Sprintf("atom %d of group %s not found in group %s", atom, restrain, reference),
				}
			}
			itp.WriteString(strconv.Itoa(position) + "     1  " + n.props.String("force_constants") + "\n")
		}
		n.log.Info("Writing position restraints", zap.String("path", itpPath))
		if err := os.WriteFile(itpPath, []byte(itp.String()), 0o644); err != nil {
			return err
		}

		if err := includeInChainITP(topDir, chain, filepath.Base(itpPath)); err != nil {
			return err
		}
	}

	n.log.Info("Compressing topology", zap.String("path", n.paths["output_top_zip_path"]))
	if err := fileutils.ZipTop(n.paths["output_top_zip_path"], topFile); err != nil {
		return err
	}
	return n.finish()
}

// parseTriplets splits a "( ref, rest, chain ), ( ... )" property into its
// triplets.
func parseTriplets(raw string) ([][3]string, error) {
	if raw == "" {
		return nil, &config.Error{Field: "ref_rest_chain_triplet_list", Message: "required property is missing"}
	}
	var triplets [][3]string
	for _, elem := range strings.Split(raw, "),") {
		elem = strings.ReplaceAll(strings.Trim(elem, " ()"), " ", "")
		parts := strings.Split(elem, ",")
		if len(parts) != 3 {
			return nil, &config.Error{Field: "ref_rest_chain_triplet_list", Message: "malformed triplet " + elem}
		}
		triplets = append(triplets, [3]string{parts[0], parts[1], parts[2]})
	}
	return triplets, nil
}

// readIndexGroups parses an NDX file into its groups, each one the atom
// numbers listed between its header and the next one.
func readIndexGroups(ndxPath string) (map[string][]int, error) {
	content, err := os.ReadFile(ndxPath)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]int)
	name := ""
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "[") {
			name = strings.TrimSpace(strings.Trim(line, "[]"))
			groups[name] = []int{}
			continue
		}
		if name == "" {
			continue
		}
		for _, field := range strings.Fields(line) {
			atom, err := strconv.Atoi(field)
			if err != nil {
				return nil, &fileutils.CheckError{Path: ndxPath, Message: "invalid atom number " + field + " in group " + name}
			}
			groups[name] = append(groups[name], atom)
		}
	}
	return groups, nil
}

// includeInChainITP appends the restraints include to every *_chain_<chain>.itp
// of the topology, leaving the posre files produced by pdb2gmx alone.
func includeInChainITP(topDir, chain, itpName string) error {
	entries, err := os.ReadDir(topDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "posre") || strings.HasSuffix(name, "_pr.itp") {
			continue
		}
		if !strings.HasSuffix(name, "_chain_"+chain+".itp") {
			continue
		}
		f, err := os.OpenFile(filepath.Join(topDir, name), os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		include := "\n; Include Position restraint file\n#ifdef CUSTOM_POSRES\n#include \"" + itpName + "\"\n#endif\n"
		if _, err := f.WriteString(include); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
