// Command svalc is the schema compiler and Go code generator for the
// value engine's text-format schema grammar (pkg/schemalang).
//
// Usage:
//
//	svalc generate [options] <schema-file>...
//	svalc validate <schema-file>...
//	svalc extract [options] <go-package-pattern>...
//	svalc version
//
// Generate Command:
//
//	Generate Go code from .sval schema files.
//
//	Options:
//	  -output-path string     Output directory (default ".")
//	  -filename-prefix string Prefix for generated filenames
//	  -type-prefix string     Prefix for generated Go type names
//	  -package string         Override the generated package name
//
// Validate Command:
//
//	Parse and build schema files without generating code.
//
// Extract Command:
//
//	Derive a .sval schema from the exported structs, typed-constant
//	enums, and implemented interfaces of existing Go packages.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockberries/sval/pkg/codegen"
	"github.com/blockberries/sval/pkg/extract"
	"github.com/blockberries/sval/pkg/schemalang"
)

// version is the svalc release string, a compile-time constant.
const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate", "gen", "g":
		cmdGenerate(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "extract", "x":
		cmdExtract(os.Args[2:])
	case "version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`svalc - schema compiler and code generator

Usage:
  svalc <command> [options] <files>...

Commands:
  generate    Generate Go code from .sval schema files
  validate    Validate schema files
  extract     Derive a .sval schema from existing Go packages
  version     Print version information
  help        Print this help message

Run 'svalc <command> -h' for command-specific help.`)
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	outputPath := fs.String("output-path", ".", "Output directory")
	filenamePrefix := fs.String("filename-prefix", "", "Prefix for generated filenames")
	typePrefix := fs.String("type-prefix", "", "Prefix for generated Go type names")
	pkg := fs.String("package", "", "Override the generated package name")

	fs.Usage = func() {
		fmt.Println(`Usage: svalc generate [options] <schema-file>...

Generate Go code from .sval schema files.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputPath, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	opts := codegen.DefaultOptions()
	opts.OutputPath = *outputPath
	opts.FilenamePrefix = *filenamePrefix
	opts.TypePrefix = *typePrefix
	opts.Package = *pkg

	hasErrors := false
	for _, inputFile := range fs.Args() {
		if err := generateOne(inputFile, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing schema %s:\n  %v\n", inputFile, err)
			hasErrors = true
			continue
		}
	}

	if hasErrors {
		os.Exit(1)
	}
}

func generateOne(inputFile string, opts codegen.Options) error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}
	source := string(data)

	_, roots, err := schemalang.ParseAndBuild(inputFile, source)
	if err != nil {
		return err
	}

	baseName := filepath.Base(inputFile)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	outputFile := filepath.Join(opts.OutputPath, opts.FilenamePrefix+baseName+".go")

	pkgName := opts.Package
	if pkgName == "" {
		pkgName = baseName
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	if err := codegen.Generate(f, pkgName, inputFile, source, roots, opts); err != nil {
		f.Close()
		os.Remove(outputFile)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Generated: %s\n", outputFile)
	return nil
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println(`Usage: svalc validate <schema-file>...

Parse and build .sval schema files without generating code.`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	hasErrors := false
	for _, inputFile := range fs.Args() {
		if _, _, err := schemalang.ParseAndBuildFile(inputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing schema %s:\n  %v\n", inputFile, err)
			hasErrors = true
			continue
		}
		fmt.Printf("Valid: %s\n", inputFile)
	}

	if hasErrors {
		os.Exit(1)
	}
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	output := fs.String("output", "", "Output .sval file (default stdout)")
	pkg := fs.String("package", "", "Package name hint recorded in the output header")

	fs.Usage = func() {
		fmt.Println(`Usage: svalc extract [options] <go-package-pattern>...

Derive a .sval schema from the exported structs, typed-constant enums,
and implemented interfaces of the matched Go packages.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no package patterns")
		fs.Usage()
		os.Exit(1)
	}

	e := extract.NewExtractor()
	err := e.ExtractAndWrite(&extract.ExtractorConfig{
		Patterns:   fs.Args(),
		OutputPath: *output,
		Package:    *pkg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting schema:\n  %v\n", err)
		os.Exit(1)
	}
	if *output != "" {
		fmt.Printf("Extracted: %s\n", *output)
	}
}

func cmdVersion() {
	fmt.Printf("svalc version %s\n", version)
}
