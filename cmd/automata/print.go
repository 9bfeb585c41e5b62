package main

import (
	"github.com/aretw0/automata/internal/cli"
	"github.com/aretw0/automata/pkg/format"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "Re-encode automata in another format",
	Long:  `Loads every automaton in the file and writes it as tabular text, the pretty form or YAML.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("format")
		f, err := format.ParseFormat(name)
		if err != nil {
			return err
		}
		if state, _ := cmd.Flags().GetString("state"); state != "" {
			index, _ := cmd.Flags().GetInt("index")
			return cli.PrintState(cmd.OutOrStdout(), args[0], cmd.InOrStdin(), index, state, f)
		}
		return cli.Print(cmd.OutOrStdout(), args[0], cmd.InOrStdin(), f)
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.Flags().StringP("format", "f", "pretty", "Output format: tabular, pretty or yaml")
	printCmd.Flags().String("state", "", "Print only this state's transitions, in declaration order")
	printCmd.Flags().Int("index", 0, "Automaton to use with --state when the file holds several")
}
