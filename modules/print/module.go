// Package print provides a sink module that writes sorted key/value lines.
package print

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vk/modregistry/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func init() {
	registry.Contribute(&Module{})
}

// Printer writes key/value maps to its output in a stable order.
type Printer struct {
	w io.Writer
}

// Name returns the module's registry name.
func (p *Printer) Name() string { return "print" }

// ModuleType returns the module's coarse type tag.
func (p *Printer) ModuleType() string { return "sink" }

// Print writes the values sorted by key so output is reproducible.
func (p *Printer) Print(values map[string]string) error {
	if values == nil {
		_, err := fmt.Fprintln(p.w, "(null)")
		return err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(p.w, "%s = %q\n", k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// New constructs a Printer writing to stdout.
func New() (any, error) {
	return &Printer{w: os.Stdout}, nil
}

// NewWithWriter constructs a Printer writing to w. Used by tests.
func NewWithWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Register registers the module's factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	meta := registry.NewMetadata("print", "sink", "New", "modules/print", "Printer")
	meta.Tags = []string{"output", "diagnostics"}
	return r.RegisterWithMetadata("print", "sink", New, meta)
}
