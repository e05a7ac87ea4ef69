package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/stampwall/internal/config"
	"github.com/firefly-engineering/stampwall/internal/errors"
	"github.com/firefly-engineering/stampwall/internal/fetch"
	"github.com/firefly-engineering/stampwall/internal/logging"
	"github.com/firefly-engineering/stampwall/internal/system"
)

// Output formats for listing commands.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// loadSettings resolves the settings file selected by --settings.
func loadSettings() (*config.Settings, error) {
	settings, err := config.ResolveSettings(settingsPath)
	if err != nil {
		return nil, errors.ConfigError("failed to load settings", err)
	}
	return settings, nil
}

// loadDocument reads a dnscrypt-proxy configuration or returns a ConfigError.
func loadDocument(path string) (*config.Document, error) {
	doc, err := config.LoadDocument(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("cannot use %s", path), err)
	}
	return doc, nil
}

// applyVerifierFlag lets --verifier replace the configured verifier.
// "builtin" selects the in-process verifier; anything else is a command.
func applyVerifierFlag(settings *config.Settings, value string) {
	switch value {
	case "":
	case config.VerifierModeBuiltin:
		settings.Verifier.Mode = config.VerifierModeBuiltin
	default:
		settings.Verifier.Mode = config.VerifierModeCommand
		settings.Verifier.Command = value
	}
}

// newVerifier builds the signature verifier selected by settings.
// A missing minisign binary is reported up front.
func newVerifier(settings *config.Settings) (fetch.Verifier, error) {
	if settings.Verifier.Mode == config.VerifierModeBuiltin {
		return fetch.NewBuiltinVerifier(system.DefaultFS()), nil
	}

	args, err := settings.VerifierArgs()
	if err != nil {
		return nil, errors.ConfigError("invalid verifier", err)
	}

	v, err := fetch.NewCommandVerifier(system.DefaultExecutor(), args)
	if err != nil {
		return nil, errors.ConfigError("invalid verifier", err)
	}
	if err := v.Available(); err != nil {
		return nil, errors.VerifierError(fmt.Sprintf("verifier %s not found", v.Program()), err)
	}

	logging.Debug("using verifier", "program", v.Program())
	return v, nil
}

// newFetcher builds a Fetcher from settings.
func newFetcher(settings *config.Settings) (*fetch.Fetcher, error) {
	retriever, err := fetch.NewHTTPRetriever(fetch.HTTPOptions{
		Timeout:   settings.Fetch.Timeout,
		UserAgent: settings.Fetch.UserAgent,
		Proxy:     settings.Fetch.Proxy,
	})
	if err != nil {
		return nil, errors.ConfigError("invalid fetch settings", err)
	}

	verifier, err := newVerifier(settings)
	if err != nil {
		return nil, err
	}

	store := fetch.NewDiskStore(system.DefaultFS(), "")
	return fetch.New(retriever, verifier, store), nil
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// validateOutput checks an --output flag value.
func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return errors.ValidationError(fmt.Sprintf("invalid output format: %s (must be text, json, or yaml)", format))
	}
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
