package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/stampwall/internal/errors"
	"github.com/firefly-engineering/stampwall/internal/stamp"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [stamp...]",
	Short: "Decode DNS stamps without fetching or verifying anything",
	Long: `Decode sdns:// stamps given as arguments, or every stamp found in a file.

Use --file - to read from standard input. Stamps that cannot be decoded are
shown without address.

FLAGS lists the informal properties the server claims (dnssec, nolog,
nofilter) and marks anonymization relays.`,
	RunE: runDecode,
}

var (
	decodeFile   string
	decodeOutput string
)

func init() {
	decodeCmd.Flags().StringVar(&decodeFile, "file", "", "Scan this file for stamps (- for stdin)")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", outputText, "Output format: text, json, or yaml")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	if err := validateOutput(decodeOutput); err != nil {
		return err
	}
	if decodeFile == "" && len(args) == 0 {
		return errors.ValidationError("nothing to decode: give stamps as arguments or use --file")
	}

	var endpoints []stamp.Endpoint
	for _, raw := range args {
		endpoints = append(endpoints, stamp.Decode(raw))
	}
	if decodeFile != "" {
		data, err := readInput(cmd, decodeFile)
		if err != nil {
			return errors.ConfigError(fmt.Sprintf("cannot read %s", decodeFile), err)
		}
		endpoints = append(endpoints, stamp.Info(string(data))...)
	}

	decoded := make([]decodedStamp, 0, len(endpoints))
	for _, ep := range endpoints {
		decoded = append(decoded, newDecodedStamp(ep))
	}

	out := cmd.OutOrStdout()
	if decodeOutput != outputText {
		if err := writeStructured(out, decodeOutput, decoded); err != nil {
			return errors.OutputError("endpoints", err)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROTO\tENDPOINT\tHOSTNAME\tFLAGS")
	fmt.Fprintln(w, "-----\t--------\t--------\t-----")
	for _, d := range decoded {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Proto, dash(d.HostPort()), dash(d.Hostname), dash(d.flags()))
	}
	return w.Flush()
}

// decodedStamp is an endpoint as reported by decode.
type decodedStamp struct {
	stamp.Endpoint `yaml:",inline"`

	Relay    bool `json:"relay" yaml:"relay"`
	DNSSEC   bool `json:"dnssec" yaml:"dnssec"`
	NoLog    bool `json:"nolog" yaml:"nolog"`
	NoFilter bool `json:"nofilter" yaml:"nofilter"`
}

func newDecodedStamp(ep stamp.Endpoint) decodedStamp {
	return decodedStamp{
		Endpoint: ep,
		Relay:    ep.Proto.IsRelay(),
		DNSSEC:   ep.DNSSEC(),
		NoLog:    ep.NoLog(),
		NoFilter: ep.NoFilter(),
	}
}

func (d decodedStamp) flags() string {
	var flags []string
	if d.Relay {
		flags = append(flags, "relay")
	}
	if d.DNSSEC {
		flags = append(flags, "dnssec")
	}
	if d.NoLog {
		flags = append(flags, "nolog")
	}
	if d.NoFilter {
		flags = append(flags, "nofilter")
	}
	return strings.Join(flags, ",")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
