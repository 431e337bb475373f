package main

import (
	"fmt"

	"rowgit/pkg/types"

	"github.com/spf13/cobra"
)

func newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <target>",
		Short: "Rewrite live rows to a target commit and record the rewrite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := types.HashFromHex(args[0])
			if err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			record, err := repo.RevertTo(target)
			if err != nil {
				return err
			}
			fmt.Printf("reverted to %s, recorded as %s\n", target.String(), record.String())
			return nil
		},
	}
}
