package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/modregistry/internal/ctxlog"
	"github.com/vk/modregistry/internal/registry"
)

// Run executes the requested command against the application's registry.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", cfg.Command)

	var err error
	switch cfg.Command {
	case CommandList:
		err = a.runList(cfg)
	case CommandDescribe:
		err = a.runDescribe(cfg)
	case CommandCreate:
		err = a.runCreate(ctx, cfg)
	case CommandAudit:
		err = a.runAudit(cfg)
	case CommandReport:
		err = a.runReport(cfg)
	default:
		err = fmt.Errorf("unknown command: %q", cfg.Command)
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

// runList prints registered module names, filtered by the discovery flags.
func (a *App) runList(cfg *Config) error {
	names, err := a.registry.Find(registry.Query{
		NamePattern:  cfg.NamePattern,
		ModuleType:   cfg.TypeFilter,
		RequiredTags: cfg.RequiredTags,
		OptionalTags: cfg.OptionalTags,
	})
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(a.outW, "no modules matched")
		return nil
	}
	for _, name := range names {
		meta, _ := a.registry.Lookup(name)
		fmt.Fprintf(a.outW, "%s\t%s\t%v\n", name, meta.ModuleType, meta.Tags)
	}
	return nil
}

// runDescribe prints the full metadata of one module.
func (a *App) runDescribe(cfg *Config) error {
	meta, ok := a.registry.Lookup(cfg.ModuleName)
	if !ok {
		return fmt.Errorf("module not found: %s", cfg.ModuleName)
	}

	fmt.Fprintf(a.outW, "name:         %s\n", meta.Name)
	fmt.Fprintf(a.outW, "type:         %s\n", meta.ModuleType)
	fmt.Fprintf(a.outW, "struct:       %s\n", meta.StructName)
	fmt.Fprintf(a.outW, "path:         %s\n", meta.ModulePath)
	fmt.Fprintf(a.outW, "factory:      %s\n", meta.FactoryName)
	fmt.Fprintf(a.outW, "tags:         %v\n", meta.Tags)
	fmt.Fprintf(a.outW, "signed:       %t\n", meta.Security.Signature != nil)
	fmt.Fprintf(a.outW, "review:       %s\n", meta.Security.Review.State)
	fmt.Fprintf(a.outW, "supply_chain: %t\n", meta.Security.SupplyChain != nil)
	fmt.Fprintf(a.outW, "sandbox:      %t\n", meta.Security.Sandbox.Enabled)
	return nil
}

// runCreate instantiates one module and reports what came out, proving the
// factory and the capability contract both work end to end.
func (a *App) runCreate(ctx context.Context, cfg *Config) error {
	logger := ctxlog.FromContext(ctx)

	var inst *registry.Instance
	var err error
	if cfg.Secure {
		inst, err = a.registry.CreateSecure(cfg.ModuleName)
	} else {
		inst, err = a.registry.Create(cfg.ModuleName)
	}
	if err != nil {
		return err
	}

	capability, err := registry.As[registry.Capability](inst)
	if err != nil {
		return err
	}

	logger.Info("Module instance created.", "name", capability.Name(), "type", capability.ModuleType())
	fmt.Fprintf(a.outW, "created %s (type: %s)\n", capability.Name(), capability.ModuleType())
	return nil
}

// runAudit prints the comprehensive security check for every module.
func (a *App) runAudit(cfg *Config) error {
	results := a.registry.SecurityAudit()

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := results[name]
		fmt.Fprintf(a.outW, "%s: risk=%s issues=%d warnings=%d\n",
			name, result.Risk, len(result.Issues), len(result.Warnings))
		for _, issue := range result.Issues {
			fmt.Fprintf(a.outW, "  [%s] %s: %s\n", issue.Severity, issue.Component, issue.Message)
		}
	}
	return nil
}

// runReport prints the security posture summary for every module.
func (a *App) runReport(cfg *Config) error {
	report := a.registry.SecurityReport()

	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		row := report[name]
		fmt.Fprintf(a.outW, "%s: signed=%t approved=%t supply_chain=%t sandbox=%t\n",
			name, row.SignatureVerified, row.IsApproved, row.SupplyChainVerified, row.SandboxEnabled)
	}
	return nil
}
