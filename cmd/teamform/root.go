package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teamform",
		Short: "Partition an event roster into balanced teams",
		Long: `teamform reads a participant spreadsheet exported as CSV and splits it
into fixed-size teams, balancing nationality and field as rounds progress.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "print debug output")
	root.AddCommand(newFormCmd())
	return root
}

// newLogger returns a development logger at debug level when verbose,
// otherwise a production logger at info level
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
