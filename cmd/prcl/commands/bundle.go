package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/prcl/internal/app"
	"go.trai.ch/zerr"
)

var errFlagAndArg = zerr.New("value given both as flag and as argument")

func (c *CLI) newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle [input] [output]",
		Short: "Bundle an entry file and everything it requires",
		Long: "Bundle an entry file and everything it requires.\n\n" +
			"Without an output the bundle is written to stdout. With an output a\n" +
			"source map is written next to it.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			config, _ := cmd.Flags().GetString("config")
			watch, _ := cmd.Flags().GetBool("watch")
			verbose, _ := cmd.Flags().GetBool("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")

			var err error
			if len(args) > 0 {
				if input, err = positional(input, args[0], "input"); err != nil {
					return err
				}
			}
			if len(args) > 1 {
				if output, err = positional(output, args[1], "output"); err != nil {
					return err
				}
			}

			return c.app.Bundle(cmd.Context(), app.BundleOptions{
				Input:    input,
				Output:   output,
				Config:   config,
				Watch:    watch,
				Verbose:  verbose,
				JSONLogs: jsonLogs,
			})
		},
	}
	cmd.Flags().StringP("input", "i", "", "Entry file (defaults to entry in prcl.yaml)")
	cmd.Flags().StringP("output", "o", "", "Bundle file (defaults to output in prcl.yaml, or stdout)")
	cmd.Flags().StringP("config", "c", "", "Path to prcl.yaml (defaults to searching parent directories)")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild when bundled files change")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.Flags().Bool("json-logs", false, "Write logs as JSON lines")
	return cmd
}

func positional(flag, arg, name string) (string, error) {
	if flag != "" {
		return "", zerr.With(errFlagAndArg, "name", name)
	}
	return arg, nil
}
