package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/diag"
	"github.com/joshuapare/kheap/heap/errno"
)

var perrorCP437 bool

func init() {
	cmd := newPerrorCmd()
	cmd.Flags().BoolVar(&perrorCP437, "cp437", false, "Encode output for a code page 437 text console")
	rootCmd.AddCommand(cmd)
}

func newPerrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perror <code> [prefix]",
		Short: "Format an errno code the way perror does",
		Long: `The perror command prints "<prefix>: <meaning> (os error <code>)" for
an errno code, or for every known code when <code> is "all". The prefix
defaults to "heapctl".

Example:
  heapctl perror 5 malloc
  heapctl perror all`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerror(cmd, args)
		},
	}
}

func runPerror(cmd *cobra.Command, args []string) error {
	var sink diag.Sink = diag.NewSerialSink(cmd.OutOrStdout())
	if perrorCP437 {
		sink = diag.NewTextSink(cmd.OutOrStdout())
	}

	prefix := "heapctl"
	if len(args) == 2 {
		prefix = args[1]
	}

	if args[0] == "all" {
		for c := errno.Ok; c <= errno.MissingFeature; c++ {
			if err := sink.WriteLine(errno.Format(prefix, c)); err != nil {
				return err
			}
		}
		return nil
	}

	n, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid errno code %q: %w", args[0], err)
	}
	return sink.WriteLine(errno.Format(prefix, errno.Code(n)))
}
