package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/vectorgrid/internal/config"
	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/specialistvlad/vectorgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL graph definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges the blocks into one
// model. Names must be unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.merge(ctx, model, hclFile, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "schemas", len(model.Schemas), "embeddings", len(model.Embeddings), "indexes", len(model.Indexes))
	return model, nil
}

// LoadSource parses a single in-memory definition. filename is only used
// in diagnostics.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model := &config.Model{}
	if err := l.merge(ctx, model, hclFile, filename); err != nil {
		return nil, err
	}
	return model, nil
}

func (l *Loader) merge(ctx context.Context, model *config.Model, hclFile *hcl.File, filename string) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	for _, b := range root.Schemas {
		if _, dup := model.Schema(b.Name); dup {
			return fmt.Errorf("%s: duplicate schema %q", filename, b.Name)
		}
		s, err := translateSchema(ctx, b)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		model.Schemas = append(model.Schemas, s)
	}
	for _, b := range root.Embeddings {
		if _, dup := model.Embedding(b.Name); dup {
			return fmt.Errorf("%s: duplicate embedding %q", filename, b.Name)
		}
		e, err := translateEmbedding(b)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		model.Embeddings = append(model.Embeddings, e)
	}
	for _, b := range root.Indexes {
		for _, existing := range model.Indexes {
			if existing.Name == b.Name {
				return fmt.Errorf("%s: duplicate index %q", filename, b.Name)
			}
		}
		model.Indexes = append(model.Indexes, translateIndex(b))
	}
	return nil
}
