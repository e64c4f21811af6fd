package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/pr-dupcheck/internal/mcp"
	"github.com/roivaz/pr-dupcheck/internal/runner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve duplicate detection as MCP tools over streamable HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		components, err := runner.Setup(ctx, logger)
		if err != nil {
			return err
		}

		srv := mcp.New(mcp.NewConfig(components))
		defer srv.Close()

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		addr := host + ":" + strconv.Itoa(port)

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("MCP server listening", "addr", addr, "repository", components.Repository)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP host")
	serveCmd.Flags().Int("port", 8000, "HTTP port")
}
