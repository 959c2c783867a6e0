package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"webtools/internal/infrastructure/env"
)

const (
	defaultHTTPAddr = "127.0.0.1:8765"
	shutdownTimeout = 5 * time.Second
)

func (a *App) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve all tools over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := a.container(ctx, "serve")
			if err != nil {
				return err
			}
			defer c.Close()

			err = c.MCPServer(Version).ServeStdio(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

type httpOptions struct {
	addr string
}

func (a *App) newHTTPCmd() *cobra.Command {
	opts := &httpOptions{}

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the tool directory and invoke API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serveHTTP(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default "+defaultHTTPAddr+")")

	return cmd
}

func (a *App) serveHTTP(ctx context.Context, opts *httpOptions) error {
	addr := opts.addr
	if addr == "" {
		addr = a.config.GetWithDefault(env.KeyHTTPAddr, defaultHTTPAddr)
	}

	c, err := a.container(ctx, "http")
	if err != nil {
		return err
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	_, _ = fmt.Fprintf(a.stderr, "Listening on http://%s\n", addr)
	c.Logger.Info("HTTP server started", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
