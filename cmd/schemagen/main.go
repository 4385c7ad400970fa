// Command schemagen regenerates the JSON Schema documents of every building
// block descriptor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bioexcel/biobb-md/pkg/gromacs"
	"github.com/bioexcel/biobb-md/pkg/gromacsextra"
	"github.com/bioexcel/biobb-md/pkg/schema"
)

func main() {
	out := flag.String("out", "json_schemas", "Output directory for the schema documents")
	flag.Parse()

	written, err := schema.WriteAll(*out, gromacs.Specs(), gromacsextra.Specs())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d schema documents to %s\n", written, *out)
}
