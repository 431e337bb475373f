// Command rowgit is the CLI front-end for the version-controlled embedded
// key-value store: it exercises commit creation, history, diffing, revert,
// and debug inspection end to end.
package main

import (
	"fmt"
	"os"

	"rowgit/internal/config"
	"rowgit/internal/logging"
	"rowgit/pkg/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath string
	cfg     config.Config
	logger  *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rowgit",
		Short: "Version-controlled embedded key-value store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded

			log, err := logging.New(cfg)
			if err != nil {
				return err
			}
			logger = log
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "rowgit.toml", "path to rowgit.toml")

	root.AddCommand(
		newInitCmd(),
		newCommitCmd(),
		newLogCmd(),
		newDiffCmd(),
		newTableDiffCmd(),
		newRevertCmd(),
		newCatCommitCmd(),
	)
	return root
}

// openRepository opens the configured repository with the CLI's logger
// wired in, closing over errors the same way every subcommand needs to.
func openRepository() (*store.Repository, error) {
	return store.Open(cfg.DBPath, store.WithLogger(logger))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
