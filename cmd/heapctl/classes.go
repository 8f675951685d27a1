package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/backing"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Print the free-list size class table",
		Long: `The classes command prints the upper bound of every free-list size
class for the configuration selected with --classes. Blocks above the last
bound live on the large list.

Example:
  heapctl classes --classes Coarse
  heapctl classes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
}

type classTable struct {
	Config     backing.SizeClassConfig `json:"config"`
	Boundaries []uintptr               `json:"boundaries"`
}

func runClasses() error {
	cfg, err := heapConfig()
	if err != nil {
		return err
	}
	table := classTable{Config: cfg.Classes, Boundaries: backing.Boundaries(cfg.Classes)}

	if jsonOut {
		return printJSON(table)
	}

	printInfo("Size classes: %s (%d classes)\n", cfg.Classes.Name, len(table.Boundaries))
	lo := uintptr(0)
	for i, hi := range table.Boundaries {
		printInfo("  %3d: %6d - %6d\n", i, lo, hi)
		lo = hi + 1
	}
	printInfo("  large: >= %d\n", lo)
	return nil
}
