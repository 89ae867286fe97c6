package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/internal/infrastructure/dashboard"
	"github.com/workintel/workintel/internal/infrastructure/watch"
	"github.com/workintel/workintel/pkg/domain/quality"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard, delayed-todo sweep, and standards hot reload",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := dashboard.NewServer(services.Progress)
		server.RegisterHandlers(services.Dispatcher)

		if err := services.Scheduler.Start(ctx, services.Config.SweepSchedule); err != nil {
			return err
		}

		watcher, err := watch.NewStandardsWatcher(
			services.Workspace.StandardsDir(),
			500*time.Millisecond,
			func(overrides []*quality.StandardConfig) {
				if err := services.Engine.SetOverrides(overrides...); err != nil {
					fmt.Printf("Keeping previous standards: %v\n", err)
					return
				}
				fmt.Printf("Reloaded %d standard overrides\n", len(overrides))
			},
			func(path string, err error) {
				fmt.Printf("Skipping standard %s: %v\n", path, err)
			},
		)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				fmt.Printf("Standards watcher stopped: %v\n", err)
			}
		}()

		httpServer := &http.Server{
			Addr:              services.Config.DashboardAddr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()

		fmt.Printf("Dashboard listening on %s\n", services.Config.DashboardAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
