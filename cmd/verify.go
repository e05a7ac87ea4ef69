package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/stampwall/internal/errors"
	"github.com/firefly-engineering/stampwall/internal/fetch"
	"github.com/firefly-engineering/stampwall/internal/stamp"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <url>",
	Short: "Fetch a single source list and check its signature",
	Long: `Download a source list and its minisign signature and verify them with
the given public key. By default the signature is read from <url>.minisig.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyKey          string
	verifySignatureURL string
	verifyVerifier     string
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyKey, "key", "k", "", "minisign public key (required)")
	verifyCmd.Flags().StringVar(&verifySignatureURL, "signature-url", "", "Fetch the signature from this URL instead")
	verifyCmd.Flags().StringVar(&verifyVerifier, "verifier", "", `minisign command, or "builtin" for the in-process verifier`)
	if err := verifyCmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	url := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyVerifierFlag(settings, verifyVerifier)

	fetcher, err := newFetcher(settings)
	if err != nil {
		return err
	}

	payload, err := fetcher.Fetch(cmd.Context(), url, verifyKey, verifySignatureURL)
	if err != nil {
		logError("Signature check failed for %s", url)
		return errors.FetchFailed(url, err)
	}

	stamps := stamp.Scan(string(payload))
	logSuccess("Verified %s (%s)", url, fetch.SignatureURL(url, verifySignatureURL))
	fmt.Fprintf(cmd.OutOrStdout(), "%d bytes, %d stamps\n", len(payload), len(stamps))
	return nil
}
