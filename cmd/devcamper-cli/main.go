// Command devcamper-cli seeds fixture data and mints bearer tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/devcamper/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devcamper-cli",
		Short:         "DevCamper administration CLI",
		Version:       version.Version + " (" + version.Commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
