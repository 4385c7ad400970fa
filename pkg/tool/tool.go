// Package tool defines the static descriptors of the wrapped building blocks:
// which files each tool reads and writes and which configuration options it
// accepts. Descriptors are defined at build time and never mutated.
package tool

// ValueType enumerates the kinds of values a tool option accepts.
type ValueType string

const (
	String ValueType = "string"
	Bool   ValueType = "boolean"
	Int    ValueType = "integer"
	Float  ValueType = "float"
	Dict   ValueType = "dict"
)

// File describes one declared input or output of a tool: the key used on the
// command line and in descriptors, the accepted file extensions and whether
// the caller must provide it.
type File struct {
	Key         string
	Formats     []string
	Required    bool
	Description string
}

// Option describes one named configuration property of a tool.
type Option struct {
	Name        string
	Type        ValueType
	Default     any
	Description string
}

// Spec is the static descriptor of one wrapped operation.
type Spec struct {
	Name        string // wrapper name, e.g. "pdb2gmx"
	Binary      string // subcommand of the wrapped package, empty for file editors
	Description string
	Inputs      []File
	Outputs     []File
	Options     []Option
}

// FindOption returns the option with the given name.
func (s Spec) FindOption(name string) (Option, bool) {
	for _, o := range s.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// FindFile returns the declared input or output with the given key.
func (s Spec) FindFile(key string) (File, bool) {
	for _, f := range s.Inputs {
		if f.Key == key {
			return f, true
		}
	}
	for _, f := range s.Outputs {
		if f.Key == key {
			return f, true
		}
	}
	return File{}, false
}

// Defaults returns a fresh map with every option set to its declared default.
func (s Spec) Defaults() map[string]any {
	m := make(map[string]any, len(s.Options))
	for _, o := range s.Options {
		m[o.Name] = o.Default
	}
	return m
}

// CommonOptions returns the workflow properties shared by every building
// block regardless of the binary it wraps.
func CommonOptions() []Option {
	return []Option{
		{Name: "remove_tmp", Type: Bool, Default: true, Description: "Remove temporal files."},
		{Name: "restart", Type: Bool, Default: false, Description: "Do not execute if output files exist."},
		{Name: "sandbox_path", Type: String, Default: "./", Description: "Parent path to the sandbox directory."},
		{Name: "prefix", Type: String, Default: "", Description: "Prefix for the log file names."},
		{Name: "step", Type: String, Default: "", Description: "Step name inserted in the log file names."},
		{Name: "path", Type: String, Default: "", Description: "Directory where the log files are written."},
		{Name: "can_write_console_log", Type: Bool, Default: true, Description: "Mirror the step log to the console."},
	}
}
