package main

import (
	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/cli"
	"github.com/aretw0/automata/pkg/format"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored automata",
	Long:  `Stores named automata in the configured backend (--store memory|file|redis) for serve, mcp and check --store-name.`,
}

func withEngine(cmd *cobra.Command, fn func(eng *automata.Engine) error) error {
	eng, closeStore, err := cli.NewEngine(env.cfg, env.logger, nil)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(eng)
}

var storePutCmd = &cobra.Command{
	Use:   "put <name> <file>",
	Short: "Store one automaton of a file under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		return withEngine(cmd, func(eng *automata.Engine) error {
			return cli.StorePut(cmd.Context(), cmd.OutOrStdout(), eng, args[0], args[1], cmd.InOrStdin(), index)
		})
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored automata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(eng *automata.Engine) error {
			return cli.StoreList(cmd.Context(), cmd.OutOrStdout(), eng)
		})
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a stored automaton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("format")
		f, err := format.ParseFormat(name)
		if err != nil {
			return err
		}
		return withEngine(cmd, func(eng *automata.Engine) error {
			return cli.StoreGet(cmd.Context(), cmd.OutOrStdout(), eng, args[0], f)
		})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored automaton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(eng *automata.Engine) error {
			return cli.StoreDelete(cmd.Context(), eng, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storePutCmd, storeListCmd, storeGetCmd, storeDeleteCmd)
	storePutCmd.Flags().Int("index", 0, "Which automaton of the file to store (0-based)")
	storeGetCmd.Flags().StringP("format", "f", "tabular", "Output format: tabular, pretty or yaml")
}
