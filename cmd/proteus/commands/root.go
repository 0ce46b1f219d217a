package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/linh30121998/proteus/internal/app"
	"github.com/linh30121998/proteus/internal/observability"
)

var (
	home       string
	passphrase string
	logLevel   string

	wire   *app.Wire
	logger zerolog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:   "proteus",
		Short: "Double-Ratchet session state tool",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Load()
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if cfg.Home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				cfg.Home = filepath.Join(dir, ".proteus")
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger = observability.NewLogger("proteus", cfg.LogLevel)
			wire, err = app.NewWire(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.proteus, env PROTEUS_HOME)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default info, env PROTEUS_LOG_LEVEL)")

	root.AddCommand(initCmd(), fingerprintCmd(), sessionsCmd(), inspectCmd())
	return root.Execute()
}
