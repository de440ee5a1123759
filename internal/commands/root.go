package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cicil-dev/cicil/internal/buildinfo"
	"github.com/cicil-dev/cicil/internal/config"
	"github.com/cicil-dev/cicil/internal/records"
)

// rootOptions holds the persistent flags and the logger shared by every
// subcommand.
type rootOptions struct {
	dir      string
	logLevel string
	logger   *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "cicil",
		Short:   "Personal finance ledger with installment and loan math",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "cicil"})
			if opts.logLevel != "" {
				return opts.setLevel(opts.logLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "ledger directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config, then info)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newDebtCommand(opts),
		newAssetCommand(opts),
		newSummaryCommand(opts),
		newEstimateCommand(opts),
		newCalcCommand(opts),
	)

	return rootCmd
}

func (o *rootOptions) setLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	o.logger.SetLevel(lvl)
	return nil
}

func (o *rootOptions) configPath() string {
	return filepath.Join(o.dir, config.FileName)
}

// loadLedger opens an initialized ledger directory.
func (o *rootOptions) loadLedger() (*config.Config, *records.Store, error) {
	cfg, err := config.Load(o.configPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("no %s in %s (run cicil init first)", config.FileName, o.dir)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := o.applyConfigLevel(cfg); err != nil {
		return nil, nil, err
	}
	o.logger.Debug("loaded config", "path", o.configPath())
	return cfg, records.NewStore(o.dir), nil
}

// configOrDefault loads the ledger config if there is one. Commands that do
// not touch records work outside a ledger with default settings.
func (o *rootOptions) configOrDefault() (*config.Config, error) {
	cfg, err := config.Load(o.configPath())
	if errors.Is(err, fs.ErrNotExist) {
		o.logger.Debug("no ledger config, using defaults", "dir", o.dir)
		return config.Default(""), nil
	}
	if err != nil {
		return nil, err
	}
	if err := o.applyConfigLevel(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *rootOptions) applyConfigLevel(cfg *config.Config) error {
	if o.logLevel != "" || cfg.Log.Level == "" {
		return nil
	}
	return o.setLevel(cfg.Log.Level)
}
