package app

import (
	"errors"
	"fmt"
)

// Commands the application understands.
const (
	CommandList     = "list"
	CommandDescribe = "describe"
	CommandCreate   = "create"
	CommandAudit    = "audit"
	CommandReport   = "report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    string
	ModuleName string // describe/create target

	ManifestPath string // hcl policy files, optional

	LogFormat string
	LogLevel  string

	Secure       bool // create through the security gates
	TypeFilter   string
	NamePattern  string
	RequiredTags []string
	OptionalTags []string
}

// NewConfig validates the command shape and returns the config.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandList, CommandAudit, CommandReport:
		// no target argument
	case CommandDescribe, CommandCreate:
		if cfg.ModuleName == "" {
			return nil, fmt.Errorf("command %q requires a module name argument", cfg.Command)
		}
	case "":
		return nil, errors.New("a command is required")
	default:
		return nil, fmt.Errorf("unknown command: %q", cfg.Command)
	}

	return &cfg, nil
}
