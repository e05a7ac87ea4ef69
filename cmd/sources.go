package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/stampwall/internal/config"
	"github.com/firefly-engineering/stampwall/internal/errors"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the source URLs declared in a dnscrypt-proxy configuration",
	Long: `List every (source, url, minisign_key) triple that render would fetch.

Sources missing urls or minisign_key are not listed. Nothing is downloaded.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

var (
	sourcesConfig string
	sourcesOutput string
)

func init() {
	sourcesCmd.Flags().StringVarP(&sourcesConfig, "config", "c", "dnscrypt-proxy.toml", "dnscrypt-proxy configuration file")
	sourcesCmd.Flags().StringVarP(&sourcesOutput, "output", "o", outputText, "Output format: text, json, or yaml")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	if err := validateOutput(sourcesOutput); err != nil {
		return err
	}

	doc, err := loadDocument(sourcesConfig)
	if err != nil {
		return err
	}

	triples := config.Enumerate(doc)
	out := cmd.OutOrStdout()

	if sourcesOutput != outputText {
		if triples == nil {
			triples = []config.SourceTriple{}
		}
		if err := writeStructured(out, sourcesOutput, triples); err != nil {
			return errors.OutputError("sources", err)
		}
		return nil
	}

	if len(triples) == 0 {
		logInfo("No complete sources in %s", sourcesConfig)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tURL\tMINISIGN KEY")
	fmt.Fprintln(w, "------\t---\t------------")
	for _, t := range triples {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.URL, t.Key)
	}
	return w.Flush()
}
