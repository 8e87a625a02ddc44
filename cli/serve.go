package cli

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tinted-terminal/api"
	"tinted-terminal/config"
	"tinted-terminal/logging"
	"tinted-terminal/preset"
	"tinted-terminal/session"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(staticFS fs.FS, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the terminal server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, staticFS, logger)
		},
	}
}

// openPreferences loads stored preferences. On first run the configured
// default preset seeds the file.
func openPreferences(cfg *config.Config, logger zerolog.Logger) (*preset.Manager, error) {
	_, statErr := os.Stat(cfg.PreferencesFile)
	prefs, err := preset.NewManager(cfg.PreferencesFile, logger)
	if err != nil {
		return nil, err
	}
	if errors.Is(statErr, fs.ErrNotExist) && cfg.DefaultPreset != prefs.Get().Default {
		if err := prefs.SetDefault(cfg.DefaultPreset); err != nil {
			return nil, err
		}
	}
	return prefs, nil
}

func serve(ctx context.Context, cfg *config.Config, staticFS fs.FS, logger zerolog.Logger) error {
	prefs, err := openPreferences(cfg, logger)
	if err != nil {
		return err
	}

	manager := session.NewManager(
		session.WithLogger(logger),
		session.WithShell(cfg.Shell),
		session.WithDefaultPresetFunc(func() int { return prefs.Get().Default }),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.RegisterRoutes(manager, prefs, staticFS, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Int("default_preset", prefs.Get().Default).Msg("tinted-terminal listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range manager.List() {
		_ = manager.Kill(s.ID)
	}
	return srv.Shutdown(shutdownCtx)
}
