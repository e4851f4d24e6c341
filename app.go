// app.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/config"
	"github.com/hometownhero/bannerdesk/database"
	"github.com/hometownhero/bannerdesk/notifications"
	"github.com/hometownhero/bannerdesk/services"
)

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	store   *database.Store
	banners *services.BannerService
	imports *services.ImportService
	notify  *services.NotifyService
	log     *zap.Logger
}

// openApp loads configuration, prints any warnings and opens the store.
func openApp(cmd *cobra.Command) (*app, error) {
	log := logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	printWarnings(cmd.ErrOrStderr(), config.Validate(cfg))

	dsn := cfg.Database.Path
	if cfg.Database.Driver == database.DriverMySQL {
		dsn = cfg.Database.DSN
	}
	store, err := database.Open(cmd.Context(), cfg.Database.Driver, dsn, log)
	if err != nil {
		return nil, err
	}

	writer := notifications.NewWriter(cfg.NotificationsFile, cfg.Mail.ProofURL, log)
	return &app{
		cfg:     cfg,
		store:   store,
		banners: services.NewBannerService(store, log),
		imports: services.NewImportService(store, store, cfg.ExportDir, log),
		notify:  services.NewNotifyService(store, writer, log),
		log:     log,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
}

func printWarnings(w io.Writer, warnings []config.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "Configuration warnings:")
	for _, warning := range warnings {
		fmt.Fprintf(w, "  ! %s\n", warning)
	}
	fmt.Fprintln(w)
}

var divider = strings.Repeat("=", 60)

func printHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", divider, title, divider)
}
