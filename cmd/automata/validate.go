package main

import (
	"fmt"

	"github.com/aretw0/automata/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check automata for structural problems",
	Long: `Crawls each automaton from its start state and reports missing transitions,
unreachable states, transitions outside the alphabet and whether an accept
state can be reached. Missing transitions fail the command unless
--allow-partial is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		allowPartial, _ := cmd.Flags().GetBool("allow-partial")
		if err := cli.Validate(cmd.OutOrStdout(), args[0], cmd.InOrStdin(), allowPartial); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("allow-partial", false, "Do not fail on missing transitions")
}
