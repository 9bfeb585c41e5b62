package main

import (
	"fmt"
	"time"

	"github.com/aretw0/automata/internal/cli"
	"github.com/aretw0/automata/pkg/generator"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the random accept-rate experiment",
	Long: `Draws random total automata (alphabet a prefix of 0-9a-z, states q_0..q_n,
start q_0) with one random input each and prints the share of accepted
inputs. --automata-out and --expectations-out save the cases as fixtures
that replay with "automata run".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		seed, _ := f.GetUint64("seed")
		if !f.Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}
		trials, _ := f.GetInt("trials")
		maxAlphabet, _ := f.GetInt("max-alphabet")
		maxStates, _ := f.GetInt("max-states")
		maxAccepts, _ := f.GetInt("max-accepts")
		maxLen, _ := f.GetInt("max-len")
		automataOut, _ := f.GetString("automata-out")
		expectationsOut, _ := f.GetString("expectations-out")

		eng, closeStore, err := cli.NewEngine(env.cfg, env.logger, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		_, err = cli.Generate(ctx, cli.GenerateOptions{
			Seed:            seed,
			Trials:          trials,
			Limits:          generator.Limits{Alphabet: maxAlphabet, States: maxStates, Accepts: maxAccepts},
			MaxLen:          maxLen,
			AutomataOut:     automataOut,
			ExpectationsOut: expectationsOut,
			Runner:          eng.Runner(),
			Logger:          env.logger,
			Stdout:          cmd.OutOrStdout(),
		})
		if sig := ctx.Signal(); sig != nil && err != nil {
			return fmt.Errorf("interrupted by %s: %w", sig, err)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Uint64("seed", 0, "Random seed (default: current time)")
	generateCmd.Flags().Int("trials", 100000, "Number of random automata")
	generateCmd.Flags().Int("max-alphabet", 3, "Upper bound on alphabet size")
	generateCmd.Flags().Int("max-states", 8, "Upper bound on state count")
	generateCmd.Flags().Int("max-accepts", 3, "Upper bound on accept states")
	generateCmd.Flags().Int("max-len", 100, "Upper bound on input length")
	generateCmd.Flags().String("automata-out", "", "Write the generated automata to this file")
	generateCmd.Flags().String("expectations-out", "", "Write the observed results to this expectations file")
}
