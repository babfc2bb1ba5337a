// Command concierged runs the Yalla Trip travel concierge: an HTTP chat
// service (serve) or a one-shot conversational turn from the terminal
// (chat).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "concierged",
		Short:         "Yalla Trip travel concierge",
		Long:          "concierged drives the Yalla Trip assistant: per-turn intent routing, trip fact extraction, weather lookups, and reply synthesis over a persisted session.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (optional)")

	root.AddCommand(
		newServeCmd(&configPath),
		newChatCmd(&configPath),
	)
	return root
}
