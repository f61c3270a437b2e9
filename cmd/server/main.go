package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"algoridigm/internal/config"
	"algoridigm/internal/db"
	"algoridigm/internal/handlers"
	"algoridigm/internal/logging"
	"algoridigm/internal/presentation"
	"algoridigm/internal/services"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "algoridigm",
		Short:        "ALGORIDIGM presentation and workshop registration server",
		SilenceUsage: true,
		RunE:         runServer,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server",
		RunE:  runServer,
	}

	registrationsCmd := &cobra.Command{
		Use:   "registrations",
		Short: "inspect workshop registrations",
	}
	registrationsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list registrations, newest first",
		RunE:  listRegistrations,
	})

	rootCmd.AddCommand(serveCmd, registrationsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.LoadConfig(), nil
	}
	return config.LoadFrom(configFile)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Initialize database
	if err := db.InitDatabase(cfg.Database.Path, logger); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize presentation
	deck := presentation.DefaultDeck().WithRevealDelay(cfg.Presentation.RevealDelay)
	seq, err := presentation.NewSequencer(deck, presentation.WithLogger(logger.Named("presentation")))
	if err != nil {
		return fmt.Errorf("failed to create presentation: %w", err)
	}
	defer seq.Close()

	var background sync.WaitGroup
	defer func() {
		stop()
		background.Wait()
	}()

	if cfg.Presentation.SessionPath != "" {
		store, err := services.NewPresentationStore(cfg.Presentation.SessionPath, logger.Named("session"))
		if err != nil {
			return err
		}
		store.Restore(seq)
		untrack := store.Track(seq)
		defer untrack()
		background.Add(1)
		go func() {
			defer background.Done()
			store.Run(ctx)
		}()
	}
	if cfg.Presentation.AutoStartTimer {
		seq.StartTimer()
	}

	// Initialize services
	wsService := services.NewWebSocketService(seq, logger.Named("websocket"))
	background.Add(1)
	go func() {
		defer background.Done()
		wsService.Run(ctx)
	}()
	registrationService := services.NewRegistrationService(db.DB, logger.Named("registrations"))

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(wsService, logger)
	staticHandler := handlers.NewStaticHandler()
	registrationHandler := handlers.NewRegistrationHandler(registrationService, cfg.RateLimit, logger)
	presentationHandler := handlers.NewPresentationHandler(seq, wsService, logger)

	// Setup routes
	router := handlers.SetupRoutes(wsHandler, staticHandler, registrationHandler, presentationHandler, logger.Named("http"))

	// Configure server
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		// Configure TLS if enabled
		if cfg.TLS.Enabled {
			server.TLSConfig = &tls.Config{
				MinVersion: getTLSVersion(cfg.TLS.MinVersion),
			}

			logger.Info("Starting HTTPS server",
				zap.String("addr", server.Addr),
				zap.String("cert", cfg.TLS.CertFile),
				zap.String("key", cfg.TLS.KeyFile),
				zap.String("minVersion", cfg.TLS.MinVersion))
			errCh <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
			logger.Warn("HTTP mode is not recommended for production")
			errCh <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func listRegistrations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	regs, err := services.NewRegistrationService(database, zap.NewNop()).ListRegistrations(cmd.Context())
	if err != nil {
		return err
	}

	if len(regs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no registrations found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tNAME\tEMAIL\tROLE")
	for _, reg := range regs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			reg.ID,
			reg.CreatedAt.Format("2006-01-02 15:04:05"),
			reg.Name,
			reg.Email,
			reg.Role,
		)
	}
	return w.Flush()
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
