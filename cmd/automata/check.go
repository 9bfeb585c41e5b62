package main

import (
	"github.com/aretw0/automata/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|name> <input>...",
	Short: "Evaluate inputs against one automaton",
	Long: `Prints one "True <input>" or "False <input>" line per input. With --store-name
the first argument names a stored automaton instead of a file.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		trace, _ := cmd.Flags().GetBool("trace")
		jsonOut, _ := cmd.Flags().GetBool("json")
		fromStore, _ := cmd.Flags().GetBool("store-name")

		eng, closeStore, err := cli.NewEngine(env.cfg, env.logger, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		_, err = cli.Check(cmd.Context(), cli.CheckOptions{
			Path:      args[0],
			FromStore: fromStore,
			Index:     index,
			Inputs:    args[1:],
			Trace:     trace,
			JSON:      jsonOut,
			Engine:    eng,
			Stdin:     cmd.InOrStdin(),
			Stdout:    cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Int("index", 0, "Which automaton of the file to use (0-based)")
	checkCmd.Flags().Bool("trace", false, "Print the visited states")
	checkCmd.Flags().Bool("json", false, "Write results as JSON")
	checkCmd.Flags().Bool("store-name", false, "Treat the first argument as a stored automaton name")
}
