package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sha1n/mcp-eda-server/internal/app"
	"github.com/sha1n/mcp-eda-server/internal/auth"
	"github.com/sha1n/mcp-eda-server/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	streamableHTTPPath = "/mcp"
	healthPath         = "/healthz"
	shutdownTimeout    = 5 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (default command)",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mcpServer, cleanup, err := app.CreateMCPServer(c.settings)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.settings.Transport == config.TransportStdio {
		slog.Info("Starting server", "transport", config.TransportStdio)
		return server.ServeStdio(mcpServer)
	}
	return StartHTTPServer(ctx, mcpServer, c.settings)
}

// NewHTTPHandler mounts the configured network transport behind the auth
// middleware. The health endpoint is not authenticated.
func NewHTTPHandler(ctx context.Context, mcpServer *server.MCPServer, settings *config.Settings) (http.Handler, error) {
	middleware, err := auth.NewMiddleware(ctx, settings.Auth)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	switch settings.Transport {
	case config.TransportSSE:
		mux.Handle("/", middleware(server.NewSSEServer(mcpServer)))
	case config.TransportHTTP:
		mux.Handle(streamableHTTPPath, middleware(server.NewStreamableHTTPServer(mcpServer)))
	default:
		return nil, fmt.Errorf("transport %s is not served over HTTP", settings.Transport)
	}
	mux.HandleFunc(healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux, nil
}

// StartHTTPServer serves the sse or http transport until ctx is done, then
// shuts down gracefully
func StartHTTPServer(ctx context.Context, mcpServer *server.MCPServer, settings *config.Settings) error {
	handler, err := NewHTTPHandler(ctx, mcpServer, settings)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancels open SSE streams so Shutdown does not wait for them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting server",
			"transport", settings.Transport,
			"addr", srv.Addr,
			"tls", settings.TLSEnabled(),
			"auth", settings.Auth.Type,
		)
		var err error
		if settings.TLSEnabled() {
			err = srv.ListenAndServeTLS(settings.CertFile, settings.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
