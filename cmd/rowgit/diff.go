package main

import (
	"fmt"

	"rowgit/pkg/types"

	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show the commit-level diff between two commits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := types.HashFromHex(args[0])
			if err != nil {
				return err
			}
			to, err := types.HashFromHex(args[1])
			if err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			diffs, err := repo.CommitDiffs(from, to)
			if err != nil {
				return err
			}
			printChanges(diffs)
			return nil
		},
	}
}

func newTableDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table-diff <table> <from> <to>",
		Short: "Show the table-level diff between two commits",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			from, err := types.HashFromHex(args[1])
			if err != nil {
				return err
			}
			to, err := types.HashFromHex(args[2])
			if err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			diffs, err := repo.TableDiffs(table, from, to)
			if err != nil {
				return err
			}
			printChanges(diffs)
			return nil
		},
	}
}

func printChanges(changes []types.Change) {
	if len(changes) == 0 {
		fmt.Println("(no changes)")
		return
	}
	for _, c := range changes {
		switch c.Op {
		case types.OpDelete:
			fmt.Printf("- %s %s:%s\n", c.Op, c.Table, c.ID)
		default:
			fmt.Printf("+ %s %s:%s = %q\n", c.Op, c.Table, c.ID, c.Value)
		}
	}
}
