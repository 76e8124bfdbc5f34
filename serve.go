// serve.go
package main

import (
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httphandlers "github.com/vinizap/notes-api/http"
	"github.com/vinizap/notes-api/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the store and serve the API and web client",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// clientURL is where a browser on this host finds the web client. GET /
// answers with the health text, so the page is addressed by name.
func clientURL(addr net.Addr) string {
	host, port := "localhost", ""
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	} else {
		_, port, _ = net.SplitHostPort(addr.String())
	}
	return "http://" + net.JoinHostPort(host, port) + "/index.html"
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := store.Migrate(cfg.DatabaseURL, log); err != nil {
			log.Error().Err(err).Msg("migration failed")
			return err
		}
	}

	mgr := store.NewManager(cfg.DatabaseURL, cfg.DatabaseName, log)
	if _, err := mgr.Connect(ctx); err != nil {
		log.Error().Err(err).Msg("DB connect failed")
		return err
	}
	defer closeStore(mgr, log)
	log.Info().Msg("database ready")

	server := httphandlers.NewServer(mgr, log, httphandlers.WithStaticDir(cfg.StaticDir))
	app := server.App()

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr(), err)
	}

	errCh := make(chan error, 1)
	go func() {
		ev := log.Info().Str("addr", ln.Addr().String()).Str("static", cfg.StaticDir)
		if cfg.StaticDir != "" {
			ev = ev.Str("client_url", clientURL(ln.Addr()))
		}
		ev.Msg("server starting")
		errCh <- app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	}
}
