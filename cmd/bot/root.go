package main

import (
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	envFile    string
}

// newRootCommand builds the CLI. The exit code of the run is written to exitCode.
func newRootCommand(exitCode *int) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "saansbot",
		Short: "Telegram bot answering respiratory health questions with a generative model",
		Long: `saansbot relays free-text Telegram messages to a generative model that
is primed with a fixed COPD awareness instruction, and replies with the
generated text. It also serves a liveness endpoint on PORT.

Configuration comes from an optional YAML file, a .env file and the
environment (BOT_TOKEN, GEMINI_API_KEY, OPENAI_API_KEY, PORT, SAANSBOT_*).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			*exitCode = run(cmd.Context(), opts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to an optional YAML configuration file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "path to an optional .env file")

	return cmd
}
