// Package cli implements the inlink command line tool.
package cli

import (
	"io"

	"github.com/samvad-hq/inlink-go/internal/config"
	"github.com/samvad-hq/inlink-go/internal/logger"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the inlink command tree. Results go to out, logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "inlink",
		Short:         "Query the inlink page metadata API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each request to stderr")

	newLogger := func() (logger.Logger, error) {
		if !verbose {
			return &logger.NopLogger{}, nil
		}
		return logger.InitWithWriter(&config.Config{AppName: "inlink", LogLevel: "debug"}, errOut)
	}

	root.AddCommand(newQueryCmd(newLogger))
	return root
}
