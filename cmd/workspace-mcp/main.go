// Command workspace-mcp runs a standalone workspace protocol server over
// HTTP, backed by an in-memory demo workspace.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	workspacemcp "github.com/wagiedev/workspace-mcp-go"
	"github.com/wagiedev/workspace-mcp-go/internal/config"
	"github.com/wagiedev/workspace-mcp-go/internal/httpserver"
	"github.com/wagiedev/workspace-mcp-go/workspace"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "workspace-mcp",
		Short: "Workspace protocol server over HTTP",
		Long: `workspace-mcp serves the workspace tool protocol on a local HTTP
endpoint. It registers a demo workspace with a few sample projects so the
full request cycle, including operator signals, can be exercised without a
real host environment.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()

			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}

				cfg = loaded
			}

			// Flags override file values.
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	engine := workspacemcp.New(&workspacemcp.Options{
		Logger:    log,
		Name:      cfg.Name,
		Version:   cfg.Version,
		PlainText: cfg.PlainText,
	})

	for _, tool := range workspace.Tools(demoWorkspace()) {
		engine.RegisterTool(tool)
	}

	srv := httpserver.New(log, engine, cfg.Addr)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info("server started", "addr", srv.Addr(), "tools", engine.ToolCount())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// demoWorkspace seeds a Local workspace with sample projects so every tool
// returns something meaningful.
func demoWorkspace() *workspace.Local {
	ws := workspace.NewLocal("2024.2.5")
	ws.OperationDelay = 3 * time.Second

	ws.AddProject(workspace.Project{Name: "Accounting", Path: "/workspace/accounting", Kind: "configuration"})
	ws.AddProject(workspace.Project{Name: "Payroll", Path: "/workspace/payroll", Kind: "extension"})
	ws.AddModule("Accounting", "CommonModule.Posting",
		"Procedure PostDocument(Document)\n\t// Post the document to the ledger.\nEndProcedure")
	ws.AddModule("Accounting", "Document.Invoice.ObjectModule",
		"Procedure BeforeWrite(Cancel)\n\tPostDocument(ThisObject);\nEndProcedure")
	ws.AddTag("Accounting", workspace.Tag{Name: "audit", Description: "Objects under audit review", Objects: 12})
	ws.AddTag("Accounting", workspace.Tag{Name: "deprecated", Description: "Scheduled for removal", Objects: 3})

	return ws
}
