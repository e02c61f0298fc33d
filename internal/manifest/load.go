package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/modregistry/internal/ctxlog"
	"github.com/vk/modregistry/internal/fsutil"
)

// Manifest is the merged policy from every loaded file, keyed by module name.
type Manifest struct {
	Policies map[string]*ModulePolicy
}

// Load parses every .hcl file under path (a file or a directory) and merges
// the module blocks into a single manifest. The same module name appearing
// twice, in one file or across files, is an error.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading policy manifests.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to walk manifest path %s: %w", path, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path.", "path", path)
		return &Manifest{Policies: map[string]*ModulePolicy{}}, nil
	}

	parser := hclparse.NewParser()
	m := &Manifest{Policies: make(map[string]*ModulePolicy)}

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", filePath, diags)
		}

		var file fileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", filePath, diags)
		}

		for _, policy := range file.Modules {
			if _, exists := m.Policies[policy.Name]; exists {
				return nil, fmt.Errorf("duplicate policy for module %q in %s", policy.Name, filePath)
			}
			m.Policies[policy.Name] = policy
		}
		logger.Debug("Loaded manifest file.", "file", filePath, "policies", len(file.Modules))
	}

	logger.Info("Policy manifests loaded.", "files", len(filePaths), "policies", len(m.Policies))
	return m, nil
}
