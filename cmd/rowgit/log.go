package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show commit history from HEAD, tip-first",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			history, err := repo.GetCommitHistory()
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("(no commits)")
				return nil
			}

			for _, commit := range history {
				bare, err := commitID(commit)
				if err != nil {
					return err
				}
				ts := time.Unix(commit.Timestamp, 0).UTC().Format(time.RFC3339)
				fmt.Printf("%s  %s  %s\n", bare, ts, commit.Message)
			}
			return nil
		},
	}
}
