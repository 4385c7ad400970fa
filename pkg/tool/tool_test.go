package tool_test

import (
	"testing"

	. "github.com/bioexcel/biobb-md/pkg/tool"
)

func sampleSpec() Spec {
	return Spec{
		Name:   "editconf",
		Binary: "editconf",
		Inputs: []File{
			{Key: "input_gro_path", Formats: []string{".gro", ".pdb"}, Required: true},
		},
		Outputs: []File{
			{Key: "output_gro_path", Formats: []string{".gro", ".pdb"}, Required: true},
		},
		Options: append([]Option{
			{Name: "distance_to_molecule", Type: Float, Default: 1.0},
			{Name: "box_type", Type: String, Default: "cubic"},
		}, CommonOptions()...),
	}
}

func TestSpec_FindOption_ReturnsDeclared(t *testing.T) {
	spec := sampleSpec()

	opt, ok := spec.FindOption("box_type")
	if !ok {
		t.Fatal("expected box_type to be found")
	}
	if opt.Type != String || opt.Default != "cubic" {
		t.Errorf("unexpected option: %+v", opt)
	}
}

func TestSpec_FindOption_RejectsUnknown(t *testing.T) {
	spec := sampleSpec()

	if _, ok := spec.FindOption("no_such_option"); ok {
		t.Error("expected no_such_option to be absent")
	}
}

func TestSpec_FindFile_SearchesInputsAndOutputs(t *testing.T) {
	spec := sampleSpec()

	for _, key := range []string{"input_gro_path", "output_gro_path"} {
		if _, ok := spec.FindFile(key); !ok {
			t.Errorf("expected file key '%s' to be found", key)
		}
	}
	if _, ok := spec.FindFile("output_top_path"); ok {
		t.Error("expected undeclared file key to be absent")
	}
}

func TestSpec_Defaults_ReturnsFreshCopy(t *testing.T) {
	spec := sampleSpec()

	first := spec.Defaults()
	first["box_type"] = "octahedron"

	second := spec.Defaults()
	if second["box_type"] != "cubic" {
		t.Errorf("expected defaults to be unaffected by caller mutation, got %v", second["box_type"])
	}
}

func TestCommonOptions_CarriesWorkflowDefaults(t *testing.T) {
	spec := Spec{Options: CommonOptions()}

	defaults := spec.Defaults()
	if defaults["remove_tmp"] != true {
		t.Errorf("expected remove_tmp default true, got %v", defaults["remove_tmp"])
	}
	if defaults["restart"] != false {
		t.Errorf("expected restart default false, got %v", defaults["restart"])
	}
	if defaults["sandbox_path"] != "./" {
		t.Errorf("expected sandbox_path default './', got %v", defaults["sandbox_path"])
	}
	if defaults["can_write_console_log"] != true {
		t.Errorf("expected can_write_console_log default true, got %v", defaults["can_write_console_log"])
	}
}
