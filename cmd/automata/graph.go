package main

import (
	"github.com/aretw0/automata/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the automaton as a Mermaid diagram",
	Long: `Outputs a Mermaid stateDiagram-v2 for one automaton of the file. With --input
the states visited while reading that input are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		var input *string
		if cmd.Flags().Changed("input") {
			v, _ := cmd.Flags().GetString("input")
			input = &v
		}
		return cli.Graph(cmd.OutOrStdout(), args[0], cmd.InOrStdin(), index, input)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Int("index", 0, "Which automaton of the file to draw (0-based)")
	graphCmd.Flags().String("input", "", "Overlay the run on this input")
}
