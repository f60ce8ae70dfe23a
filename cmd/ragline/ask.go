package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagSession string
	flagStream  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := commandContext(cmd)
		if err != nil {
			return err
		}

		engine, index, sessions, err := buildEngine(ctx, cfg)
		if err != nil {
			return err
		}
		defer index.Close()
		defer sessions.Close()
		maybeServeMetrics(ctx, index)

		question := args[0]
		if flagStream {
			result, err := engine.AskStream(ctx, flagSession, question, func(delta string) error {
				fmt.Print(delta)
				return nil
			})
			if err != nil {
				fmt.Println(result.Answer)
				return err
			}
			fmt.Printf("\n\n参考来源:\n%s\n", result.SourceSummary)
			return nil
		}

		result, err := engine.Ask(ctx, flagSession, question)
		if err != nil {
			fmt.Println(result.Answer)
			return err
		}
		fmt.Println(result.Answer)
		fmt.Printf("\n参考来源:\n%s\n", result.SourceSummary)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&flagSession, "session", "default", "conversation session id")
	askCmd.Flags().BoolVar(&flagStream, "stream", false, "print the answer as it is generated")
	rootCmd.AddCommand(askCmd)
}
