package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/stampwall/internal/app"
	"github.com/firefly-engineering/stampwall/internal/audit"
	"github.com/firefly-engineering/stampwall/internal/config"
	"github.com/firefly-engineering/stampwall/internal/errors"
	"github.com/firefly-engineering/stampwall/internal/logging"
	"github.com/firefly-engineering/stampwall/internal/metrics"
	"github.com/firefly-engineering/stampwall/internal/resolve"
	"github.com/firefly-engineering/stampwall/internal/rules"
	"github.com/firefly-engineering/stampwall/internal/system"
	"github.com/firefly-engineering/stampwall/internal/tui"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch, verify and render the sources of a dnscrypt-proxy configuration",
	Long: `Render firewall rules for every server listed by the sources of a
dnscrypt-proxy configuration.

Sources whose list or signature cannot be downloaded, or whose signature
does not verify, are skipped and reported at the end. The command only
fails when no source could be used.

Rule formats:
  pf        - one "pass out ... to <addr> port <port>" line per server
  nftables  - a complete "table inet stampwall" ruleset
  console   - "<source> <url> <key> <address> <port>" diagnostic lines`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderConfig         string
	renderSources        []string
	renderFormat         string
	renderAction         string
	renderInterface      string
	renderQuick          bool
	renderLog            bool
	renderLabel          bool
	renderProto          string
	renderVerifier       string
	renderDefaultPorts   bool
	renderResolve        bool
	renderBootstrap      string
	renderSkipUnresolved bool
	renderOutputDir      string
	renderAuditLog       string
	renderMetricsFile    string
	renderPick           bool
	renderParallel       int
)

func init() {
	renderCmd.Flags().StringVarP(&renderConfig, "config", "c", "dnscrypt-proxy.toml", "dnscrypt-proxy configuration file")
	renderCmd.Flags().StringArrayVarP(&renderSources, "source", "s", nil, "Only render this source (can be repeated)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Rule format: pf, nftables, or console")
	renderCmd.Flags().StringVar(&renderAction, "action", "", "Rule action: pass or block")
	renderCmd.Flags().StringVar(&renderInterface, "interface", "", "Restrict rules to this interface")
	renderCmd.Flags().BoolVar(&renderQuick, "quick", true, "Emit pf quick rules")
	renderCmd.Flags().BoolVar(&renderLog, "log", false, "Log matching packets")
	renderCmd.Flags().BoolVar(&renderLabel, "label", true, "Label rules with the source name")
	renderCmd.Flags().StringVar(&renderProto, "proto", "", "Protocol matched by the rules")
	renderCmd.Flags().StringVar(&renderVerifier, "verifier", "", `minisign command, or "builtin" for the in-process verifier`)
	renderCmd.Flags().BoolVar(&renderDefaultPorts, "default-ports", false, "Fill absent ports with the protocol default")
	renderCmd.Flags().BoolVar(&renderResolve, "resolve", false, "Resolve servers that are only known by hostname")
	renderCmd.Flags().StringVar(&renderBootstrap, "bootstrap", "", "DNS server used by --resolve (host:port)")
	renderCmd.Flags().BoolVar(&renderSkipUnresolved, "skip-unresolved", false, "Drop servers without an address")
	renderCmd.Flags().StringVarP(&renderOutputDir, "output-dir", "o", "", "Write one <source>.rules file per source into this directory")
	renderCmd.Flags().StringVar(&renderAuditLog, "audit-log", "", "Append JSONL run events to this file")
	renderCmd.Flags().StringVar(&renderMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this file")
	renderCmd.Flags().BoolVar(&renderPick, "pick", false, "Choose the sources interactively")
	renderCmd.Flags().IntVarP(&renderParallel, "parallel", "p", 1, "Number of source URLs processed at once")
	rootCmd.AddCommand(renderCmd)
}

// applyRuleFlags overrides settings with the rule flags given explicitly.
func applyRuleFlags(cmd *cobra.Command, s *config.RuleSettings) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		s.Format = renderFormat
	}
	if flags.Changed("action") {
		s.Action = renderAction
	}
	if flags.Changed("interface") {
		s.Interface = renderInterface
	}
	if flags.Changed("quick") {
		s.Quick = renderQuick
	}
	if flags.Changed("log") {
		s.Log = renderLog
	}
	if flags.Changed("label") {
		s.Label = renderLabel
	}
	if flags.Changed("proto") {
		s.Proto = renderProto
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyRuleFlags(cmd, &settings.Rules)
	applyVerifierFlag(settings, renderVerifier)
	if renderBootstrap != "" {
		settings.Fetch.Bootstrap = renderBootstrap
	}
	if err := settings.Validate(); err != nil {
		return errors.ConfigError("invalid options", err)
	}
	if renderParallel < 1 {
		return errors.ValidationError(fmt.Sprintf("--parallel must be at least 1 (got %d)", renderParallel))
	}

	renderer, err := rules.New(rules.Options{
		Format:    settings.Rules.Format,
		Action:    settings.Rules.Action,
		Interface: settings.Rules.Interface,
		Quick:     settings.Rules.Quick,
		Log:       settings.Rules.Log,
		Label:     settings.Rules.Label,
		Proto:     settings.Rules.Proto,
	})
	if err != nil {
		return errors.ConfigError("invalid rule options", err)
	}

	doc, err := loadDocument(renderConfig)
	if err != nil {
		return err
	}
	if len(renderSources) > 0 {
		doc = doc.Filter(renderSources)
	}
	if renderPick {
		doc, err = pickSources(cmd, doc)
		if stderrors.Is(err, tui.ErrAborted) {
			logInfo("No sources selected")
			return nil
		}
		if err != nil {
			return err
		}
	}

	fetcher, err := newFetcher(settings)
	if err != nil {
		return err
	}

	opts := []app.Option{
		app.WithParallel(renderParallel),
		app.WithDefaultPorts(renderDefaultPorts),
		app.WithSkipUnresolved(renderSkipUnresolved),
	}
	if renderResolve {
		opts = append(opts, app.WithResolver(resolve.New(settings.Fetch.Bootstrap, settings.Fetch.Timeout)))
	}
	var recorder *metrics.Recorder
	if renderMetricsFile != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, app.WithMetrics(recorder))
	}
	if renderAuditLog != "" {
		opts = append(opts, app.WithAudit(audit.NewLogger(renderAuditLog)))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.New(fetcher, opts...).Run(ctx, doc)
	if err != nil {
		return fmt.Errorf("render interrupted: %w", err)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(renderMetricsFile); err != nil {
			return errors.OutputError("metrics", err)
		}
	}

	if len(report.Failed) > 0 {
		logWarning("No data from %d source(s): %s", len(report.Failed), strings.Join(report.Failed, ", "))
	}
	if report.AllFailed() {
		return errors.New(errors.ExitFetchFailed, "no source could be fetched and verified")
	}

	if renderOutputDir != "" {
		return writeRuleFiles(renderer, report)
	}

	out, err := report.Render(renderer)
	if err != nil {
		return errors.OutputError("rules", err)
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
		return errors.OutputError("rules", err)
	}
	logging.Debug("render complete", "entries", len(report.Entries), "failed", len(report.Failed))
	return nil
}

// pickSources asks which sources to render. Without a terminal the
// candidates are listed and the command fails.
func pickSources(cmd *cobra.Command, doc *config.Document) (*config.Document, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprint(cmd.ErrOrStderr(), tui.SimplePicker(doc.Sources))
		return nil, errors.ValidationError("--pick needs an interactive terminal; use --source instead")
	}

	names, err := tui.RunSourcePicker(doc.Sources)
	if err != nil {
		return nil, err
	}
	logging.Debug("sources picked", "names", names)
	return doc.Filter(names), nil
}

// writeRuleFiles writes one rules file per source into --output-dir.
func writeRuleFiles(renderer rules.Renderer, report *app.Report) error {
	fs := system.DefaultFS()
	if err := fs.MkdirAll(renderOutputDir, 0755); err != nil {
		return errors.OutputError("directory", err)
	}

	order, groups := rules.BySource(report.Entries)
	for _, source := range order {
		path, err := config.OutputPath(renderOutputDir, source)
		if err != nil {
			return errors.OutputError("path", err)
		}
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.OutputError("directory", err)
		}
		doc, err := rules.Document(renderer, groups[source])
		if err != nil {
			return errors.OutputError("rules", err)
		}
		if err := fs.WriteFile(path, []byte(doc), 0644); err != nil {
			return errors.OutputError("rules", err)
		}
		logSuccess("Wrote %d rule(s) for %s to %s", len(groups[source]), source, path)
	}
	return nil
}
