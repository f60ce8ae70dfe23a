package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagClearSession string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear a session's conversation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := commandContext(cmd)
		if err != nil {
			return err
		}

		sessions, err := buildSessionStore(cfg)
		if err != nil {
			return err
		}
		defer sessions.Close()

		if err := sessions.Clear(ctx, flagClearSession); err != nil {
			return err
		}
		fmt.Printf("Cleared history for session %q\n", flagClearSession)
		return nil
	},
}

func init() {
	clearCmd.Flags().StringVar(&flagClearSession, "session", "default", "conversation session id")
	rootCmd.AddCommand(clearCmd)
}
