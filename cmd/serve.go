// =============================================================================
// Receipt Field Extractor - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   extractor serve [--addr :8080]
//
// Starts the HTTP surface (see internal/server). The server shuts down
// gracefully on interrupt.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ginjaninja78/receipt-field-extractor/internal/pdftext"
	"github.com/ginjaninja78/receipt-field-extractor/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extraction over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		source := pdftext.NewSource(cfg.ShouldNormalizeUnicode())
		srv := &http.Server{
			Addr:              cfg.ServerAddr,
			Handler:           server.New(cfg, source, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", cfg.ServerAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides server_addr)")
	cobra.CheckErr(v.BindPFlag("addr", serveCmd.Flags().Lookup("addr")))
}
