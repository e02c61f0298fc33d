package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/modregistry/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("modregistry", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
modregistry - A runtime component registry for named module factories.

Usage:
  modregistry [options] COMMAND [MODULE_NAME]

Commands:
  list            List registered modules, honoring the discovery filters.
  describe NAME   Show the full metadata of one module.
  create NAME     Instantiate one module through its factory.
  audit           Run the security audit over every module.
  report          Print the security posture summary.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to an .hcl policy manifest file or directory.")
	secureFlag := flagSet.Bool("secure", false, "Route create through the signature/review/supply-chain gates.")
	typeFlag := flagSet.String("type", "", "Filter list results by module type.")
	patternFlag := flagSet.String("pattern", "", "Filter list results by name pattern (path.Match syntax).")
	tagsFlag := flagSet.String("tags", "", "Comma-separated capability tags a module must declare.")
	optionalTagsFlag := flagSet.String("optional-tags", "", "Comma-separated tags used only to rank list results.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	command := flagSet.Arg(0)
	moduleName := ""
	if flagSet.NArg() > 1 {
		moduleName = flagSet.Arg(1)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:      command,
		ModuleName:   moduleName,
		ManifestPath: *manifestFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Secure:       *secureFlag,
		TypeFilter:   *typeFlag,
		NamePattern:  *patternFlag,
		RequiredTags: splitTags(*tagsFlag),
		OptionalTags: splitTags(*optionalTagsFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", command)
	return config, false, nil
}

// splitTags turns a comma-separated flag value into a clean tag slice.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
