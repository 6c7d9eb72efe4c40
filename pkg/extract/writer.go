package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockberries/sval/pkg/value/schema"
)

// Extractor extracts schemas from Go packages.
type Extractor struct {
	loader *PackageLoader
}

// NewExtractor creates a new schema extractor.
func NewExtractor() *Extractor {
	return &Extractor{loader: NewPackageLoader()}
}

// ExtractorConfig configures the extraction process.
type ExtractorConfig struct {
	Config     *Config  // Type collector configuration
	Patterns   []string // Go package patterns to load
	OutputPath string   // Output file path (empty for stdout)
	Package    string   // Package name, carried only as a printer comment
}

// Extract extracts a schema from Go packages.
func (e *Extractor) Extract(cfg *ExtractorConfig) (*ExtractedSchema, error) {
	pkgs, err := e.loader.Load(cfg.Patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched patterns: %v", cfg.Patterns)
	}

	collectorCfg := cfg.Config
	if collectorCfg == nil {
		collectorCfg = DefaultConfig()
	}
	collector := NewTypeCollector(pkgs, collectorCfg)
	if err := collector.Collect(); err != nil {
		return nil, fmt.Errorf("failed to collect types: %w", err)
	}

	packageName := cfg.Package
	if packageName == "" && len(pkgs) > 0 {
		packageName = pkgs[0].Name
	}

	builder := NewSchemaBuilder(collector.Types(), collector.Interfaces(), collector.Enums())
	s, err := builder.Build(packageName)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	return s, nil
}

// ExtractAndWrite extracts a schema and writes its .sval source
// rendering to the specified output.
func (e *Extractor) ExtractAndWrite(cfg *ExtractorConfig) error {
	s, err := e.Extract(cfg)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.OutputPath != "" {
		dir := filepath.Dir(cfg.OutputPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	_, err = io.WriteString(out, FormatSchema(s, cfg.Package))
	return err
}

// ExtractToString is a convenience function that extracts a schema and
// renders it as .sval source text.
func ExtractToString(patterns []string, config *Config) (string, error) {
	extractor := NewExtractor()
	s, err := extractor.Extract(&ExtractorConfig{
		Config:   config,
		Patterns: patterns,
	})
	if err != nil {
		return "", err
	}
	return FormatSchema(s, ""), nil
}

// FormatSchema renders an extracted schema as .sval source text: one
// enum/record declaration per named
// type, in the order SchemaBuilder.Build collected them. Unions built
// from interfaces have no named declaration of their own (union is
// structural, not one of the three named kinds) — they're rendered
// inline wherever a field's type is that interface.
func FormatSchema(s *ExtractedSchema, packageHint string) string {
	var sb strings.Builder
	if packageHint != "" {
		fmt.Fprintf(&sb, "// extracted from package %s\n\n", packageHint)
	}

	for _, e := range s.Enums {
		fmt.Fprintf(&sb, "enum %s {\n", e.Name())
		for i := 0; i < e.EnumSymbolCount(); i++ {
			fmt.Fprintf(&sb, "  %s,\n", e.EnumSymbolName(i))
		}
		sb.WriteString("}\n\n")
	}

	for _, r := range s.Records {
		fmt.Fprintf(&sb, "record %s {\n", r.Name())
		for i := 0; i < r.FieldCount(); i++ {
			f := r.FieldAt(i)
			fmt.Fprintf(&sb, "  %s: %s;\n", f.Name, typeRefString(f.Schema))
		}
		sb.WriteString("}\n\n")
	}

	return sb.String()
}

func typeRefString(s *schema.Schema) string {
	switch s.Kind() {
	case schema.Array:
		return "array<" + typeRefString(s.Elem()) + ">"
	case schema.Map:
		return "map<" + typeRefString(s.Elem()) + ">"
	case schema.Union:
		branches := make([]string, s.BranchCount())
		for i := range branches {
			branches[i] = typeRefString(s.Branch(i))
		}
		return "union { " + strings.Join(branches, ", ") + " }"
	case schema.Link, schema.Record, schema.Enum, schema.Fixed:
		return s.Name()
	default:
		return s.Kind().String()
	}
}
