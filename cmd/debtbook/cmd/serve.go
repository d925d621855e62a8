package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/debtbook/intent"
	"github.com/rustyeddy/debtbook/internal/api"
	"github.com/rustyeddy/debtbook/internal/api/handler"
	"github.com/rustyeddy/debtbook/notify"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Long: `Serve the ledger as a JSON API under /api/v1. While serving, the
ledger is saved every autosave.interval and once more on shutdown.

Example:
  debtbook serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	s, err := openSession(notify.NewLogger(log), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.ledger.Mirror().Run(ctx)

	srv := api.NewServer(log, cfg.Server, handler.NewDebtorHandler(log, s.ledger, s.format))
	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err = <-errc:
	case <-ctx.Done():
		err = srv.Stop(context.Background())
	}

	// Last chance to keep anything the periodic flush has not written yet.
	if _, herr := s.dispatch.Dispatch(intent.Intent{Kind: intent.Hidden}); herr != nil {
		log.Error("final flush failed", "error", herr)
	}

	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
