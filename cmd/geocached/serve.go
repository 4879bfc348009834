// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wneessen/geocached/internal/logger"
	"github.com/wneessen/geocached/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the geocoding HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Current().Server.Addr
			}
			return a.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.New(addr, a.service, func() string { return a.config.Current().Locale }, a.logger)

	sigChan := make(chan os.Signal, 1)
	a.service.SignalSrc.Notify(sigChan, syscall.SIGHUP)
	defer a.service.SignalSrc.Stop(sigChan)
	go a.service.HandleReloadSignal(ctx, sigChan)

	runErr := make(chan error, 1)
	go func() {
		runErr <- a.service.Run(ctx)
	}()
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	a.logger.Info("starting geocached service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))

	var err error
	select {
	case <-ctx.Done():
	case err = <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			err = fmt.Errorf("http server failed: %w", err)
		}
	}

	a.logger.Info("shutting down geocached service")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		a.logger.Error("failed to shut down http server", logger.Err(shutdownErr))
	}
	cancel()
	if schedErr := <-runErr; schedErr != nil {
		a.logger.Error("failed to stop scheduler", logger.Err(schedErr))
	}
	return err
}
