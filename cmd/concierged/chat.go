package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd(configPath *string) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Run a single conversational turn from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := wireApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer closeApp()

			if sessionID == "" {
				sessionID = uuid.Must(uuid.NewV7()).String()
			}

			reply, err := a.turns.ProcessTurn(cmd.Context(), sessionID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to continue (default: new session)")
	return cmd
}
