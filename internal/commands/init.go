package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/config"
	"github.com/cicil-dev/cicil/internal/records"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(opts, absDir, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized cicil ledger at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger owner name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(opts *rootOptions, dir, name string) error {
	store := records.NewStore(dir)
	if err := store.Init(); err != nil {
		return fmt.Errorf("creating record files: %w", err)
	}

	// An existing config is kept so re-running init never loses settings.
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		opts.logger.Warn("config already exists, leaving it unchanged", "path", path)
		return nil
	}

	if err := config.Save(path, config.Default(name)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	opts.logger.Debug("wrote config", "path", path)
	return nil
}
