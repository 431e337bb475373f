package main

import "github.com/spf13/cobra"

func newCatCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-commit <hex>",
		Short: "Dump a commit's raw bytes and decode attempt (operator tool)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			return repo.DebugCommit(args[0])
		},
	}
}
