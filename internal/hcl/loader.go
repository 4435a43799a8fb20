package hcl

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/macroport/internal/config"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/fsutil"
	"github.com/vk/macroport/internal/schema"
)

//go:embed defaults/*.hcl
var defaults embed.FS

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	skipDefaults bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithoutDefaults makes the loader read only the given paths.
func WithoutDefaults() Option {
	return func(l *Loader) { l.skipDefaults = true }
}

// NewLoader creates a new HCL table loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the embedded defaults followed by every .hcl file under
// paths. A section from a later file replaces the same section from an
// earlier one; targets are replaced by name.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths), "defaults", !l.skipDefaults)

	parser := hclparse.NewParser()
	merged := &merged{targets: map[string]*schema.Target{}}

	if !l.skipDefaults {
		entries, err := fs.ReadDir(defaults, "defaults")
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded defaults: %w", err)
		}
		for _, entry := range entries {
			name := path.Join("defaults", entry.Name())
			src, err := defaults.ReadFile(name)
			if err != nil {
				return nil, fmt.Errorf("failed to read embedded file %s: %w", name, err)
			}
			file, diags := parser.ParseHCL(src, name)
			if err := l.decodeInto(ctx, merged, file, diags, name); err != nil {
				return nil, err
			}
		}
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	for _, name := range hclFiles {
		file, diags := parser.ParseHCLFile(name)
		if err := l.decodeInto(ctx, merged, file, diags, name); err != nil {
			return nil, err
		}
	}

	model, err := l.translateModel(ctx, merged)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.",
		"translation", model.Translation != nil,
		"resolution", model.Resolution != nil,
		"targets", len(model.Targets),
	)
	return model, nil
}

// merged collects the winning schema sections across all files.
type merged struct {
	translation *schema.Translation
	resolution  *schema.Resolution
	targets     map[string]*schema.Target
}

func (l *Loader) decodeInto(ctx context.Context, m *merged, file *hcl.File, diags hcl.Diagnostics, name string) error {
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
	}

	var root schema.File
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}

	logger := ctxlog.FromContext(ctx).With("file", name)
	if root.Translation != nil {
		if m.translation != nil {
			logger.Debug("Replacing translation tables.")
		}
		m.translation = root.Translation
	}
	if root.Resolution != nil {
		if m.resolution != nil {
			logger.Debug("Replacing resolution profile.")
		}
		m.resolution = root.Resolution
	}
	for _, t := range root.Targets {
		if _, ok := m.targets[t.Name]; ok {
			logger.Debug("Replacing target profile.", "target", t.Name)
		}
		m.targets[t.Name] = t
	}
	return nil
}

// findAllHCLFiles returns a flat list of profile files. A file path is used
// as given; a directory contributes every .hcl file below it. Every path
// must exist.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("error accessing profile %s: %w", p, err)
		}

		if !info.IsDir() {
			add(p)
			continue
		}
		found, err := fsutil.FindFilesByExtension(p, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
