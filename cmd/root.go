package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/stampwall/internal/logging"
)

var (
	verbose      bool
	jsonOutput   bool
	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:   "stampwall",
	Short: "Firewall rules from signed DNS stamp lists",
	Long: `stampwall turns the resolver lists of a dnscrypt-proxy configuration into
firewall rules.

For every source declared in dnscrypt-proxy.toml it:
  - downloads the list and its minisign signature
  - verifies the signature against the source's minisign_key
  - extracts and decodes every sdns:// stamp
  - renders one rule per server address`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
		logging.SetUserOutput(cmd.ErrOrStderr())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "stampwall settings file (default /etc/stampwall/stampwall.toml if present)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
