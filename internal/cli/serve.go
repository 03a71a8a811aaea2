package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zeuyel/MathImage/internal/config"
	"github.com/Zeuyel/MathImage/internal/constant"
	"github.com/Zeuyel/MathImage/internal/lock"
	"github.com/Zeuyel/MathImage/internal/server"
)

// ServeCommand starts the backend API server for the desktop shell
func ServeCommand(store *config.Store, version string) *cobra.Command {
	var (
		port        int
		host        string
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the backend API server",
		Long: `Start the HTTP server the desktop shell talks to. Exposes settings
management, connection testing, model listing and probe history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			// Single instance per config directory
			fileLock := lock.NewFileLock(store.ConfigDir())
			if err := fileLock.TryLock(); err != nil {
				if pid, pidErr := fileLock.GetPID(); pidErr == nil {
					return fmt.Errorf("another instance is already running (pid %d)", pid)
				}
				return err
			}
			defer fileLock.Unlock()

			srv, err := server.NewServer(store,
				server.WithHost(host),
				server.WithOpenBrowser(openBrowser),
				server.WithDebug(verbose),
				server.WithVersion(version),
			)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			// Graceful shutdown on SIGINT/SIGTERM
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				logrus.Infof("Received signal %v, shutting down", sig)
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Stop(ctx); err != nil {
					logrus.Errorf("Shutdown error: %v", err)
				}
			}()

			fmt.Printf("MathImage backend listening on http://%s:%d\n", host, port)
			if err := srv.Start(port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", constant.DefaultServerPort, "port to listen on")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "host to bind to")
	cmd.Flags().BoolVar(&openBrowser, "open", false, "open the browser after start")

	return cmd
}
