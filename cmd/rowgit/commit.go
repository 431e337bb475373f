package main

import (
	"fmt"
	"strings"

	"rowgit/pkg/types"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string
	var inserts, updates, deletes []string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Create a commit from --insert/--update/--delete changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := buildChanges(inserts, updates, deletes)
			if err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			// Live rows are written first so the commit's per-table tree
			// digest, computed from the live keyspace, reflects this
			// commit's own changes rather than the prior state.
			if err := repo.ApplyChanges(changes); err != nil {
				return fmt.Errorf("apply changes to live rows: %w", err)
			}
			id, err := repo.CreateCommit(message, changes)
			if err != nil {
				return err
			}

			fmt.Printf("created commit %s\n", id.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringArrayVar(&inserts, "insert", nil, "table:id=value, repeatable")
	cmd.Flags().StringArrayVar(&updates, "update", nil, "table:id=value, repeatable")
	cmd.Flags().StringArrayVar(&deletes, "delete", nil, "table:id, repeatable")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

// buildChanges parses the CLI's --insert/--update/--delete flag values into
// a []types.Change, validating each referenced table name.
func buildChanges(inserts, updates, deletes []string) ([]types.Change, error) {
	var changes []types.Change

	for _, spec := range inserts {
		table, id, value, err := splitTableIDValue(spec)
		if err != nil {
			return nil, err
		}
		if err := types.ValidateTableName(table); err != nil {
			return nil, err
		}
		changes = append(changes, types.Insert(table, id, []byte(value)))
	}
	for _, spec := range updates {
		table, id, value, err := splitTableIDValue(spec)
		if err != nil {
			return nil, err
		}
		if err := types.ValidateTableName(table); err != nil {
			return nil, err
		}
		changes = append(changes, types.Update(table, id, []byte(value)))
	}
	for _, spec := range deletes {
		table, id, err := splitTableID(spec)
		if err != nil {
			return nil, err
		}
		if err := types.ValidateTableName(table); err != nil {
			return nil, err
		}
		changes = append(changes, types.Delete(table, id))
	}

	return changes, nil
}

func splitTableIDValue(spec string) (table, id, value string, err error) {
	tableID, value, ok := strings.Cut(spec, "=")
	if !ok {
		return "", "", "", fmt.Errorf("expected table:id=value, got %q", spec)
	}
	table, id, err = splitTableID(tableID)
	return table, id, value, err
}

func splitTableID(spec string) (table, id string, err error) {
	table, id, ok := strings.Cut(spec, ":")
	if !ok {
		return "", "", fmt.Errorf("expected table:id, got %q", spec)
	}
	return table, id, nil
}
