package main

import (
	"fmt"

	"github.com/aretw0/automata/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <automata-file> <expectations-file>",
	Short: "Evaluate a batch of expectations",
	Long: `Pairs the i-th automaton of the first file with the i-th line of the
expectations file ("True 0101" / "False 10") and reports how many matched.
Either path may be "-" for standard input. Exits non-zero if any case failed
or hit an undefined transition.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		broadcast, _ := cmd.Flags().GetBool("broadcast")
		maxRows, _ := cmd.Flags().GetInt("max-rows")
		jsonOut, _ := cmd.Flags().GetBool("json")
		if cmd.Flags().Changed("concurrency") {
			env.cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		}

		eng, closeStore, err := cli.NewEngine(env.cfg, env.logger, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		_, err = cli.RunBatch(ctx, cli.RunOptions{
			AutomataPath:     args[0],
			ExpectationsPath: args[1],
			Broadcast:        broadcast,
			MaxRows:          maxRows,
			JSON:             jsonOut,
			Runner:           eng.Runner(),
			Logger:           env.logger,
			Stdin:            cmd.InOrStdin(),
			Stdout:           cmd.OutOrStdout(),
		})
		if sig := ctx.Signal(); sig != nil && err != nil {
			return fmt.Errorf("interrupted by %s: %w", sig, err)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("broadcast", false, "Use the single automaton in the first file for every expectation")
	runCmd.Flags().Int("max-rows", 20, "Maximum number of cases listed in the report")
	runCmd.Flags().Bool("json", false, "Write the report as JSON")
	runCmd.Flags().Int("concurrency", 0, "Parallel evaluations (0 = number of CPUs)")
}
