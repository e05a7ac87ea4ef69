package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	shellquote "github.com/kballard/go-shellquote"
)

const (
	DefaultSettingsDir  = "/etc/stampwall"
	DefaultVerifierPath = "/usr/local/bin/minisign"
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "stampwall"
	DefaultBootstrap    = "9.9.9.9:53"
	settingsFileName    = "stampwall.toml"
)

// Verifier modes.
const (
	VerifierModeCommand = "command"
	VerifierModeBuiltin = "builtin"
)

// Rule formats understood by the rules package.
const (
	FormatPF       = "pf"
	FormatNftables = "nftables"
	FormatConsole  = "console"
)

// DefaultSettingsPath is read when no settings file is given explicitly.
var DefaultSettingsPath = filepath.Join(DefaultSettingsDir, settingsFileName)

// Settings holds stampwall's own configuration.
type Settings struct {
	Verifier VerifierSettings `toml:"verifier"`
	Fetch    FetchSettings    `toml:"fetch"`
	Rules    RuleSettings     `toml:"rules"`
}

// VerifierSettings selects how detached signatures are checked.
type VerifierSettings struct {
	Mode    string `toml:"mode"`
	Command string `toml:"command"` // minisign binary, optionally with extra arguments
}

type FetchSettings struct {
	Timeout   time.Duration `toml:"timeout"`
	UserAgent string        `toml:"user_agent"`
	Proxy     string        `toml:"proxy"`
	Bootstrap string        `toml:"bootstrap"`
}

type RuleSettings struct {
	Format    string `toml:"format"`
	Action    string `toml:"action"`
	Interface string `toml:"interface"`
	Quick     bool   `toml:"quick"`
	Log       bool   `toml:"log"`
	Label     bool   `toml:"label"`
	Proto     string `toml:"proto"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Verifier: VerifierSettings{
			Mode:    VerifierModeCommand,
			Command: DefaultVerifierPath,
		},
		Fetch: FetchSettings{
			Timeout:   DefaultFetchTimeout,
			UserAgent: DefaultUserAgent,
			Bootstrap: DefaultBootstrap,
		},
		Rules: RuleSettings{
			Format: FormatPF,
			Action: "pass",
			Quick:  true,
			Label:  true,
			Proto:  "tcp",
		},
	}
}

// Validate checks that the Settings are usable.
func (s *Settings) Validate() error {
	switch s.Verifier.Mode {
	case VerifierModeCommand:
		if _, err := s.VerifierArgs(); err != nil {
			return err
		}
	case VerifierModeBuiltin:
	default:
		return fmt.Errorf("invalid verifier mode: %s (must be command or builtin)", s.Verifier.Mode)
	}

	if s.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative (got %s)", s.Fetch.Timeout)
	}

	if s.Fetch.Proxy != "" {
		u, err := url.Parse(s.Fetch.Proxy)
		if err != nil {
			return fmt.Errorf("invalid fetch proxy: %w", err)
		}
		validSchemes := map[string]bool{"http": true, "https": true, "socks5": true, "socks5h": true}
		if !validSchemes[u.Scheme] || u.Host == "" {
			return fmt.Errorf("invalid fetch proxy %q: must be http(s):// or socks5://host:port", s.Fetch.Proxy)
		}
	}

	validFormats := map[string]bool{FormatPF: true, FormatNftables: true, FormatConsole: true}
	if !validFormats[s.Rules.Format] {
		return fmt.Errorf("invalid rule format: %s (must be pf, nftables, or console)", s.Rules.Format)
	}

	validActions := map[string]bool{"pass": true, "block": true}
	if !validActions[s.Rules.Action] {
		return fmt.Errorf("invalid rule action: %s (must be pass or block)", s.Rules.Action)
	}

	if s.Rules.Proto == "" {
		return fmt.Errorf("rule proto is required")
	}

	return nil
}

// VerifierArgs splits the verifier command into program and arguments.
func (s *Settings) VerifierArgs() ([]string, error) {
	args, err := shellquote.Split(s.Verifier.Command)
	if err != nil {
		return nil, fmt.Errorf("invalid verifier command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("verifier command is required")
	}
	return args, nil
}

// LoadSettings reads a settings file on top of DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	md, err := toml.Decode(string(data), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown settings key %q in %s", undecoded[0].String(), path)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return settings, nil
}

// ResolveSettings loads path when given. Otherwise the default settings file
// is used if it exists, and built-in defaults if it does not.
func ResolveSettings(path string) (*Settings, error) {
	if path != "" {
		return LoadSettings(path)
	}

	if _, err := os.Stat(DefaultSettingsPath); err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to stat settings: %w", err)
	}
	return LoadSettings(DefaultSettingsPath)
}
